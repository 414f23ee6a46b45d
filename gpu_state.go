package kernelrun

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// GpuState owns the headless adapter, device and queue used for every
// kernel dispatch. There is no surface: this is compute only.
type GpuState struct {
	adapter *wgpu.Adapter
	device  *wgpu.Device
	queue   *wgpu.Queue
}

// createGpuState brings up a headless device. Adapter selection walks a
// fallback chain: high-performance first, then low-power, then whatever
// the default options yield. Failure to obtain an adapter or a device is
// unrecoverable and panics.
func createGpuState(log Logger) *GpuState {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		panic("failed to create WebGPU instance")
	}
	defer instance.Release()

	var adapter *wgpu.Adapter
	var lastErr error
	preferences := []struct {
		name string
		opts *wgpu.RequestAdapterOptions
	}{
		{"high-performance", &wgpu.RequestAdapterOptions{PowerPreference: wgpu.PowerPreferenceHighPerformance}},
		{"low-power", &wgpu.RequestAdapterOptions{PowerPreference: wgpu.PowerPreferenceLowPower}},
		{"default", nil},
	}
	for _, pref := range preferences {
		adapter, lastErr = instance.RequestAdapter(pref.opts)
		if lastErr == nil && adapter != nil {
			log.Infof("Acquired %s GPU adapter", pref.name)
			break
		}
		log.Warnf("No %s adapter: %v", pref.name, lastErr)
	}
	if adapter == nil {
		panic(fmt.Sprintf("no suitable GPU adapter: %v", lastErr))
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Kernelrun Device",
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create device: %v", err))
	}
	queue := device.GetQueue()

	return &GpuState{
		adapter: adapter,
		device:  device,
		queue:   queue,
	}
}

func (s *GpuState) release() {
	s.queue = nil
	if s.device != nil {
		s.device.Release()
		s.device = nil
	}
	if s.adapter != nil {
		s.adapter.Release()
		s.adapter = nil
	}
}
