package kernelrun

import (
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

type pipelineEntry struct {
	pipeline        *wgpu.ComputePipeline
	bindGroupLayout *wgpu.BindGroupLayout
}

// Runner owns the GPU state and a pipeline cache keyed by kernel name.
// One Runner per process is the expected shape; it is not safe for
// concurrent dispatch.
type Runner struct {
	gpu             *GpuState
	log             Logger
	pipelines       map[string]pipelineEntry
	readbackTimeout time.Duration
}

// NewRunner brings up the GPU and returns a ready runner. A nil logger
// gets the no-op logger. Panics if no adapter or device is available.
func NewRunner(log Logger) *Runner {
	if log == nil {
		log = NewNopLogger()
	}
	return &Runner{
		gpu:             createGpuState(log),
		log:             log,
		pipelines:       map[string]pipelineEntry{},
		readbackTimeout: DefaultReadbackTimeout,
	}
}

// SetReadbackTimeout overrides the per-dispatch readback deadline.
func (r *Runner) SetReadbackTimeout(d time.Duration) {
	if d > 0 {
		r.readbackTimeout = d
	}
}

// Logger returns the runner's logger; never nil.
func (r *Runner) Logger() Logger {
	if r == nil || r.log == nil {
		return NewNopLogger()
	}
	return r.log
}

func (r *Runner) pipelineFor(k Kernel) (*wgpu.ComputePipeline, *wgpu.BindGroupLayout, error) {
	if entry, ok := r.pipelines[k.Name]; ok {
		return entry.pipeline, entry.bindGroupLayout, nil
	}
	pipeline, bindGroupLayout, err := createComputePipeline(k, r.gpu)
	if err != nil {
		return nil, nil, err
	}
	r.pipelines[k.Name] = pipelineEntry{pipeline: pipeline, bindGroupLayout: bindGroupLayout}
	return pipeline, bindGroupLayout, nil
}

// RunCollatz replaces each value with its Collatz step count.
func (r *Runner) RunCollatz(values []uint32) ([]uint32, error) {
	return Execute(r, KernelCollatz, values)
}

// RunPairSum applies one Fibonacci-style step to each pair record.
func (r *Runner) RunPairSum(pairs []PairU32) ([]PairU32, error) {
	return Execute(r, KernelPairSum, pairs)
}

// RunRays normalizes each ray's direction and advances its origin.
func (r *Runner) RunRays(rays []Ray) ([]Ray, error) {
	return Execute(r, KernelRayNorm, rays)
}

// Close releases cached pipelines and the GPU state. The runner must not
// be used afterwards.
func (r *Runner) Close() {
	for name, entry := range r.pipelines {
		entry.pipeline.Release()
		entry.bindGroupLayout.Release()
		delete(r.pipelines, name)
	}
	if r.gpu != nil {
		r.gpu.release()
		r.gpu = nil
	}
}
