package kernelrun

import (
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// DefaultReadbackTimeout bounds how long a dispatch waits for the staging
// buffer map to complete before giving up.
const DefaultReadbackTimeout = 2 * time.Second

// Execute runs one kernel over records in place on the GPU and returns the
// transformed records. The full round trip: records reinterpreted as bytes,
// uploaded into a storage buffer, one compute pass, storage copied into a
// host-mappable staging buffer, map awaited by polling the device.
//
// Setup failures before submit return an error; so does a failed or
// timed-out readback. In both cases the result is nil, never partial data.
func Execute[T any](r *Runner, k Kernel, records []T) ([]T, error) {
	if len(records) == 0 {
		return []T{}, nil
	}

	jobId := uuid.NewString()
	src := recordsToBytes(records)
	size := uint64(len(src))
	r.log.Debugf("dispatch %s: kernel=%s records=%d bytes=%d", jobId, k.Name, len(records), size)

	pipeline, bindGroupLayout, err := r.pipelineFor(k)
	if err != nil {
		return nil, err
	}

	storageBuf, err := r.gpu.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    k.Name + " Storage " + jobId,
		Contents: src,
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage buffer: %w", err)
	}
	defer storageBuf.Release()

	stagingBuf, err := r.gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: k.Name + " Readback " + jobId,
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer stagingBuf.Release()

	bindGroup, err := r.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  k.Name + " BindGroup",
		Layout: bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: storageBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer bindGroup.Release()

	encoder, err := r.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(workgroupCount(len(records), k.WorkgroupSize), 1, 1)
	if err := pass.End(); err != nil {
		return nil, fmt.Errorf("end compute pass: %w", err)
	}

	encoder.CopyBufferToBuffer(storageBuf, 0, stagingBuf, 0, size)

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish encoder: %w", err)
	}
	defer cmdBuffer.Release()
	r.gpu.queue.Submit(cmdBuffer)

	if err := r.awaitMap(stagingBuf, size); err != nil {
		r.log.Warnf("dispatch %s: readback failed: %v", jobId, err)
		return nil, err
	}

	data := stagingBuf.GetMappedRange(0, uint(size))
	if data == nil {
		stagingBuf.Unmap()
		return nil, fmt.Errorf("mapped range unavailable")
	}
	out := bytesToRecords[T](data)
	stagingBuf.Unmap()

	r.log.Debugf("dispatch %s: done", jobId)
	return out, nil
}

// awaitMap maps the staging buffer for reading and polls the device until
// the map callback fires or the runner's timeout elapses.
func (r *Runner) awaitMap(buf *wgpu.Buffer, size uint64) error {
	done := make(chan struct{})
	var mapErr error

	err := buf.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("buffer map status %v", status)
		}
		close(done)
	})
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}

	deadline := time.After(r.readbackTimeout)
	for {
		r.gpu.device.Poll(false, nil)
		select {
		case <-done:
			return mapErr
		case <-deadline:
			return fmt.Errorf("readback timed out after %v", r.readbackTimeout)
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
