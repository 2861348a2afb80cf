package gpu

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/google/uuid"
)

// rowAlign is the required BytesPerRow alignment for texture copies.
const rowAlign = 256

// Texture is an engine-owned image resource. The RGBA pixel copy is
// authoritative: the CPU rasterizer samples it directly and the GPU
// texture, when a device is present, is uploaded from it.
type Texture struct {
	ID     uuid.UUID
	Width  int
	Height int

	// Pixels is straight-alpha RGBA, stride Width*4.
	Pixels *image.RGBA

	// Nearest selects nearest-neighbor sampling (font atlases).
	Nearest bool

	device hal.Device
	tex    hal.Texture
	view   hal.TextureView
	group  hal.BindGroup

	released atomic.Bool
}

// NewTexture wraps img as an engine texture and, when device is
// non-nil, creates the GPU texture and uploads the pixels. img must
// have its origin at (0,0).
func NewTexture(device hal.Device, queue hal.Queue, id uuid.UUID, img *image.RGBA, nearest bool, label string) (*Texture, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("gpu: texture %s has empty bounds", label)
	}

	t := &Texture{
		ID:      id,
		Width:   w,
		Height:  h,
		Pixels:  img,
		Nearest: nearest,
		device:  device,
	}
	if device == nil || queue == nil {
		return t, nil
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %s: %w", label, err)
	}
	t.tex = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create texture view %s: %w", label, err)
	}
	t.view = view

	if err := t.upload(queue); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// upload copies Pixels to the GPU texture with rows padded to the
// copy alignment.
func (t *Texture) upload(queue hal.Queue) error {
	tightRow := t.Width * 4
	alignedRow := alignRow(tightRow)

	data := t.Pixels.Pix
	if t.Pixels.Stride != tightRow || alignedRow != tightRow {
		padded := make([]byte, alignedRow*t.Height)
		for y := 0; y < t.Height; y++ {
			src := t.Pixels.Pix[y*t.Pixels.Stride : y*t.Pixels.Stride+tightRow]
			copy(padded[y*alignedRow:], src)
		}
		data = padded
	}

	queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(alignedRow),
			RowsPerImage: uint32(t.Height),
		},
		&hal.Extent3D{
			Width:              uint32(t.Width),
			Height:             uint32(t.Height),
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

// alignRow rounds bytesPerRow up to the copy alignment.
func alignRow(bytesPerRow int) int {
	return (bytesPerRow + rowAlign - 1) &^ (rowAlign - 1)
}

// bindGroup returns the cached texture+sampler bind group, creating it
// on first use. sampler is the renderer's linear or nearest sampler,
// chosen by the caller from t.Nearest.
func (t *Texture) bindGroup(device hal.Device, layout hal.BindGroupLayout, sampler hal.Sampler) (hal.BindGroup, error) {
	if t.group != nil {
		return t.group, nil
	}
	group, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "texture_bind",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{
				TextureView: t.view.NativeHandle(),
			}},
			{Binding: 1, Resource: gputypes.SamplerBinding{
				Sampler: sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture bind group: %w", err)
	}
	t.group = group
	return group, nil
}

// HasGPU reports whether the texture has a device-side copy.
func (t *Texture) HasGPU() bool { return t.tex != nil }

// Release destroys the GPU resources. The pixel copy stays valid until
// the texture is dropped. Safe to call more than once.
func (t *Texture) Release() {
	if !t.released.CompareAndSwap(false, true) {
		return
	}
	if t.device == nil {
		return
	}
	if t.group != nil {
		t.device.DestroyBindGroup(t.group)
		t.group = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}
