package kernelrun

import (
	"strings"
	"testing"
)

func TestKernelByName(t *testing.T) {
	for _, name := range []string{"collatz", "pairsum", "raynorm"} {
		k, err := KernelByName(name)
		if err != nil {
			t.Fatalf("KernelByName(%q): %v", name, err)
		}
		if k.Name != name {
			t.Errorf("KernelByName(%q) returned kernel %q", name, k.Name)
		}
		if k.Source == "" {
			t.Errorf("kernel %q has empty source", name)
		}
		if k.WorkgroupSize == 0 {
			t.Errorf("kernel %q has zero workgroup size", name)
		}
	}

	if _, err := KernelByName("mandelbrot"); err == nil {
		t.Error("expected error for unknown kernel")
	}
}

func TestKernelSources_DeclareEntryPointAndGuard(t *testing.T) {
	for _, k := range []Kernel{KernelCollatz, KernelPairSum, KernelRayNorm} {
		if !strings.Contains(k.Source, "fn "+k.EntryPoint) {
			t.Errorf("kernel %q source missing entry point %q", k.Name, k.EntryPoint)
		}
		if !strings.Contains(k.Source, "@compute") {
			t.Errorf("kernel %q source missing @compute stage attribute", k.Name)
		}
		// Every kernel must bounds-check, since dispatch rounds up to whole
		// workgroups.
		if !strings.Contains(k.Source, "arrayLength") {
			t.Errorf("kernel %q source missing arrayLength guard", k.Name)
		}
		if !strings.Contains(k.Source, "@workgroup_size(64)") {
			t.Errorf("kernel %q: declared workgroup size does not match source", k.Name)
		}
	}
}

func TestWorkgroupCount(t *testing.T) {
	cases := []struct {
		elements int
		size     uint32
		want     uint32
	}{
		{0, 64, 0},
		{-3, 64, 0},
		{1, 64, 1},
		{63, 64, 1},
		{64, 64, 1},
		{65, 64, 2},
		{128, 64, 2},
		{129, 64, 3},
		{10, 0, 0},
	}
	for _, c := range cases {
		if got := workgroupCount(c.elements, c.size); got != c.want {
			t.Errorf("workgroupCount(%d, %d) = %d, want %d", c.elements, c.size, got, c.want)
		}
	}
}
