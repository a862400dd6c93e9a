// Package gpuutil extracts HAL handles from GPU device providers.
//
// Host applications hand out devices through provider interfaces that
// deliberately avoid importing hal. Providers that can share their
// underlying handles expose them through untyped accessors, which this
// package recovers and type-checks.
package gpuutil

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// Extract returns the hal device and queue backing provider. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func Extract(provider any) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, fmt.Errorf("gpuutil: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("gpuutil: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("gpuutil: provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}
