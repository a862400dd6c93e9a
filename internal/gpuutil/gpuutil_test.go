package gpuutil

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// halProvider exposes real HAL handles like a host application would.
type halProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p *halProvider) HalDevice() any { return p.device }
func (p *halProvider) HalQueue() any  { return p.queue }

// badTypeProvider has the accessor methods but returns non-HAL values.
type badTypeProvider struct{}

func (badTypeProvider) HalDevice() any { return "not a device" }
func (badTypeProvider) HalQueue() any  { return 42 }

// badQueueProvider returns a valid device but a broken queue.
type badQueueProvider struct {
	device hal.Device
}

func (p *badQueueProvider) HalDevice() any { return p.device }
func (p *badQueueProvider) HalQueue() any  { return nil }

func TestExtract(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	gotDevice, gotQueue, err := Extract(&halProvider{device: device, queue: queue})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if gotDevice != device {
		t.Error("Extract should return the provider's device")
	}
	if gotQueue != queue {
		t.Error("Extract should return the provider's queue")
	}
}

func TestExtractNoAccessors(t *testing.T) {
	_, _, err := Extract(struct{}{})
	if err == nil {
		t.Fatal("expected error for provider without accessors")
	}
	if !strings.Contains(err.Error(), "does not expose") {
		t.Errorf("error = %q, want mention of missing accessors", err.Error())
	}
}

func TestExtractNilProvider(t *testing.T) {
	if _, _, err := Extract(nil); err == nil {
		t.Error("expected error for nil provider")
	}
}

func TestExtractWrongDeviceType(t *testing.T) {
	_, _, err := Extract(badTypeProvider{})
	if err == nil {
		t.Fatal("expected error for non-HAL device")
	}
	if !strings.Contains(err.Error(), "HalDevice") {
		t.Errorf("error = %q, want mention of HalDevice", err.Error())
	}
}

func TestExtractNilQueue(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	_, _, err := Extract(&badQueueProvider{device: device})
	if err == nil {
		t.Fatal("expected error for nil queue")
	}
	if !strings.Contains(err.Error(), "HalQueue") {
		t.Errorf("error = %q, want mention of HalQueue", err.Error())
	}
}
