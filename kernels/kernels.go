package kernels

import (
	_ "embed"
)

//go:embed collatz.wgsl
var CollatzWGSL string

//go:embed pairsum.wgsl
var PairSumWGSL string

//go:embed raynorm.wgsl
var RayNormWGSL string
