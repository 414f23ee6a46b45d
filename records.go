package kernelrun

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PairU32 is a fixed-layout two-field record shared byte-for-byte with the
// pairsum kernel's storage struct. 8 bytes, no padding.
type PairU32 struct {
	A uint32
	B uint32
}

// Ray is a 32-byte ray record shared with the raynorm kernel. The w
// components carry no geometric meaning; they exist so host and device
// strides agree (vec4 alignment).
type Ray struct {
	Origin    mgl32.Vec4
	Direction mgl32.Vec4
}

// CollatzSteps counts Collatz iterations until n reaches 1. Values of 0
// and 1 take zero steps. Returns ^uint32(0) if 3n+1 would overflow, the
// same sentinel the kernel writes.
func CollatzSteps(n uint32) uint32 {
	steps := uint32(0)
	for n > 1 {
		if n%2 == 0 {
			n /= 2
		} else {
			if n > (^uint32(0)-1)/3 {
				return ^uint32(0)
			}
			n = 3*n + 1
		}
		steps++
	}
	return steps
}

// PairStep is the host reference for the pairsum kernel: one Fibonacci-style
// step, A' = A+B (wrapping), B' = A.
func PairStep(p PairU32) PairU32 {
	return PairU32{A: p.A + p.B, B: p.A}
}

// RayStep is the host reference for the raynorm kernel: normalize the
// direction and advance the origin one unit along it. Zero-length
// directions leave the ray untouched.
func RayStep(r Ray) Ray {
	dir := mgl32.Vec3{r.Direction.X(), r.Direction.Y(), r.Direction.Z()}
	if dir.Len() == 0 {
		return r
	}
	d := dir.Normalize()
	o := mgl32.Vec3{r.Origin.X(), r.Origin.Y(), r.Origin.Z()}.Add(d)
	return Ray{
		Origin:    mgl32.Vec4{o.X(), o.Y(), o.Z(), 1},
		Direction: mgl32.Vec4{d.X(), d.Y(), d.Z(), 0},
	}
}
