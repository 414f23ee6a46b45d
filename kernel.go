package kernelrun

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/kernelforge/kernelrun/kernels"
)

// Kernel describes one embedded compute shader: its WGSL source, the
// entry point to run and the workgroup width the source declares.
type Kernel struct {
	Name          string
	Source        string
	EntryPoint    string
	WorkgroupSize uint32
}

// Built-in kernels. Each operates in place on a single read-write
// storage buffer at @group(0) @binding(0).
var (
	KernelCollatz = Kernel{
		Name:          "collatz",
		Source:        kernels.CollatzWGSL,
		EntryPoint:    "main",
		WorkgroupSize: 64,
	}
	KernelPairSum = Kernel{
		Name:          "pairsum",
		Source:        kernels.PairSumWGSL,
		EntryPoint:    "main",
		WorkgroupSize: 64,
	}
	KernelRayNorm = Kernel{
		Name:          "raynorm",
		Source:        kernels.RayNormWGSL,
		EntryPoint:    "main",
		WorkgroupSize: 64,
	}
)

// KernelByName resolves a built-in kernel.
func KernelByName(name string) (Kernel, error) {
	switch name {
	case KernelCollatz.Name:
		return KernelCollatz, nil
	case KernelPairSum.Name:
		return KernelPairSum, nil
	case KernelRayNorm.Name:
		return KernelRayNorm, nil
	}
	return Kernel{}, fmt.Errorf("unknown kernel %q", name)
}

// workgroupCount rounds the element count up to whole workgroups. The
// kernels guard with arrayLength, so the tail workgroup is safe.
func workgroupCount(elements int, workgroupSize uint32) uint32 {
	if elements <= 0 || workgroupSize == 0 {
		return 0
	}
	return (uint32(elements) + workgroupSize - 1) / workgroupSize
}

// createComputePipeline compiles the kernel module and builds its pipeline
// with an explicit single-entry bind group layout: one read-write storage
// buffer visible to the compute stage. Some backends reject empty layouts,
// so the layout is always explicit, with a minimal binding size.
func createComputePipeline(k Kernel, gpuState *GpuState) (*wgpu.ComputePipeline, *wgpu.BindGroupLayout, error) {
	shader, err := gpuState.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          k.Name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: k.Source},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("compile kernel %q: %w", k.Name, err)
	}
	defer shader.Release()

	bindGroupLayout, err := gpuState.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: k.Name + " BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeStorage,
					MinBindingSize: 4,
				},
			},
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("kernel %q bind group layout: %w", k.Name, err)
	}

	pipelineLayout, err := gpuState.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            k.Name + " Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		bindGroupLayout.Release()
		return nil, nil, fmt.Errorf("kernel %q pipeline layout: %w", k.Name, err)
	}
	defer pipelineLayout.Release()

	pipeline, err := gpuState.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  k.Name + " Pipeline",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shader,
			EntryPoint: k.EntryPoint,
		},
	})
	if err != nil {
		bindGroupLayout.Release()
		return nil, nil, fmt.Errorf("kernel %q pipeline: %w", k.Name, err)
	}
	return pipeline, bindGroupLayout, nil
}
