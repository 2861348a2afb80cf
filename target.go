package quad

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Target selects where the engine renders. Use Offscreen for the CPU
// path with ReadPixels, or NewSurfaceTarget to render on a GPU device
// shared with a host application.
type Target interface {
	target()
}

// OffscreenTarget renders frames on the CPU. Pixels come back through
// Engine.ReadPixels; snapshot tests run on this target.
type OffscreenTarget struct{}

func (OffscreenTarget) target() {}

// Offscreen returns the CPU render target.
func Offscreen() Target { return OffscreenTarget{} }

// SurfaceTarget renders frames into a GPU texture on a device provided
// by the host application. The host composites or presents the frame
// texture; the engine never owns a window.
type SurfaceTarget struct {
	provider gpucontext.DeviceProvider
	device   hal.Device
	queue    hal.Queue
	format   gputypes.TextureFormat
}

func (*SurfaceTarget) target() {}

// halProvider is the optional provider extension exposing raw HAL
// handles, the same contract gogpu hosts implement for accelerators.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewSurfaceTarget builds a GPU target from a host device provider.
// The provider must expose HAL handles through HalDevice/HalQueue.
func NewSurfaceTarget(provider gpucontext.DeviceProvider) (*SurfaceTarget, error) {
	if provider == nil {
		return nil, fmt.Errorf("quad: nil device provider")
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("quad: provider does not expose HAL handles")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("quad: provider HalDevice is not a hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("quad: provider HalQueue is not a hal.Queue")
	}
	return &SurfaceTarget{
		provider: provider,
		device:   device,
		queue:    queue,
		format:   gputypes.TextureFormatRGBA8Unorm,
	}, nil
}

// Provider returns the host device provider the target was built from.
func (t *SurfaceTarget) Provider() gpucontext.DeviceProvider { return t.provider }
