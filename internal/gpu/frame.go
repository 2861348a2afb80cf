package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/google/uuid"
)

// gpuTimeout bounds every fence wait.
const gpuTimeout = 5 * time.Second

// ErrWaitTimeout is returned when a submitted frame's fence does not
// signal within gpuTimeout.
var ErrWaitTimeout = errors.New("gpu: device wait timed out")

// frameResources tracks per-frame GPU objects so they can be released
// after the fence signals.
type frameResources struct {
	buffers []hal.Buffer
	groups  []hal.BindGroup
}

func (f *frameResources) release(device hal.Device) {
	for _, g := range f.groups {
		device.DestroyBindGroup(g)
	}
	for _, b := range f.buffers {
		device.DestroyBuffer(b)
	}
	f.groups = nil
	f.buffers = nil
}

// RenderFrame encodes and submits one frame: a single render pass that
// clears the target and draws every batch in order. lookup resolves a
// batch's texture id; batches whose texture is missing are skipped.
// Blocks until the GPU signals completion.
func (r *Renderer) RenderFrame(
	view hal.TextureView,
	width, height uint32,
	clear gputypes.Color,
	batches []Batch,
	pool *TransformPool,
	lookup func(uuid.UUID) (*Texture, bool),
) error {
	if !r.initialized {
		return fmt.Errorf("gpu: renderer not initialized")
	}
	if err := pool.Flush(); err != nil {
		return err
	}

	// Slot 0 holds the frame's view transform; both pipelines read it
	// through the transform layout. An empty pool falls back to the
	// static identity group.
	transformGroup := r.identityGroup
	if pool.Used() > 0 {
		g, err := pool.bindGroup(r.transformLayout)
		if err != nil {
			return err
		}
		transformGroup = g
	}

	var frame frameResources
	defer frame.release(r.device)

	// Instance storage buffers and their bind groups are created up
	// front so the render pass only records state and draws.
	type preparedBatch struct {
		batch     *Batch
		instGroup hal.BindGroup
		texGroup  hal.BindGroup
		count     uint32
	}
	prepared := make([]preparedBatch, 0, len(batches))
	for i := range batches {
		b := &batches[i]
		count := b.InstanceCount()
		if count == 0 {
			continue
		}

		var data []byte
		var layout hal.BindGroupLayout
		if b.Kind == BatchRect {
			data = b.RectBytes()
			layout = r.rectInstanceLayout
		} else {
			data = b.SpriteBytes()
			layout = r.instanceLayout
		}
		instBuf, err := r.createAndUploadBuffer("frame_instances",
			data, gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		frame.buffers = append(frame.buffers, instBuf)

		instGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "frame_instance_bind",
			Layout: layout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{
					Buffer: instBuf.NativeHandle(), Offset: 0, Size: uint64(len(data)),
				}},
			},
		})
		if err != nil {
			return fmt.Errorf("gpu: create instance bind group: %w", err)
		}
		frame.groups = append(frame.groups, instGroup)

		p := preparedBatch{batch: b, instGroup: instGroup, count: uint32(count)}
		if b.Kind == BatchSprite {
			tex, ok := lookup(b.Texture)
			if !ok || !tex.HasGPU() {
				r.log.Debug("skipping batch, texture unavailable", "texture", b.Texture)
				continue
			}
			sampler := r.linearSampler
			if b.Nearest {
				sampler = r.nearestSampler
			}
			texGroup, err := tex.bindGroup(r.device, r.texLayout, sampler)
			if err != nil {
				return err
			}
			p.texGroup = texGroup
		}
		prepared = append(prepared, p)
	}

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})

	for _, p := range prepared {
		if sc := p.batch.Scissor; sc != nil {
			rp.SetScissorRect(sc.X, sc.Y, sc.Width, sc.Height)
		} else {
			rp.SetScissorRect(0, 0, width, height)
		}

		if p.batch.Kind == BatchRect {
			rp.SetPipeline(r.rectPipeline)
			rp.SetBindGroup(0, transformGroup, nil)
			rp.SetBindGroup(1, p.instGroup, nil)
			rp.SetVertexBuffer(0, r.rectVerts, 0)
		} else {
			rp.SetPipeline(r.spritePipeline)
			rp.SetBindGroup(0, p.texGroup, nil)
			rp.SetBindGroup(1, transformGroup, nil)
			rp.SetBindGroup(2, r.defaultUVGroup, nil)
			rp.SetBindGroup(3, p.instGroup, nil)
			rp.SetVertexBuffer(0, r.spriteVerts, 0)
		}
		rp.SetIndexBuffer(r.quadIndex, gputypes.IndexFormatUint16, 0)
		rp.DrawIndexed(6, p.count, 0, 0, 0)
	}

	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, gpuTimeout)
	if err != nil {
		return fmt.Errorf("gpu: wait for frame: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("frame fence: %w", ErrWaitTimeout)
	}
	return nil
}

// OffscreenTarget is a GPU texture rendered without a surface, read
// back to the CPU after each frame.
type OffscreenTarget struct {
	Width  uint32
	Height uint32

	device hal.Device
	tex    hal.Texture
	view   hal.TextureView
}

// NewOffscreenTarget creates an RGBA8 render target of the given size.
func NewOffscreenTarget(device hal.Device, width, height uint32) (*OffscreenTarget, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: "offscreen_target",
		Size: hal.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create offscreen target: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "offscreen_target_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create offscreen target view: %w", err)
	}
	return &OffscreenTarget{
		Width:  width,
		Height: height,
		device: device,
		tex:    tex,
		view:   view,
	}, nil
}

// View returns the render attachment view.
func (t *OffscreenTarget) View() hal.TextureView { return t.view }

// Destroy releases the target's GPU resources.
func (t *OffscreenTarget) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// Readback copies the target's pixels into dst as tightly packed RGBA,
// which must hold Width*Height*4 bytes. Blocks until the copy
// completes.
func (r *Renderer) Readback(t *OffscreenTarget, dst []byte) error {
	w, h := t.Width, t.Height
	if uint32(len(dst)) < w*h*4 {
		return fmt.Errorf("gpu: readback buffer too small: %d < %d", len(dst), w*h*4)
	}

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + rowAlign - 1) &^ (rowAlign - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "readback_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer r.device.DestroyBuffer(stagingBuf)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "readback_encoder",
	})
	if err != nil {
		return fmt.Errorf("gpu: create readback encoder: %w", err)
	}
	if err := encoder.BeginEncoding("readback"); err != nil {
		return fmt.Errorf("gpu: begin readback encoding: %w", err)
	}

	// The pass left the texture in attachment state; the copy needs
	// transfer source. No-op on backends without explicit layouts.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	encoder.CopyTextureToBuffer(t.tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end readback encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit readback: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, gpuTimeout)
	if err != nil {
		return fmt.Errorf("gpu: wait for readback: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("readback fence: %w", ErrWaitTimeout)
	}

	readback := make([]byte, stagingSize)
	if err := r.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("gpu: read staging buffer: %w", err)
	}

	if alignedBytesPerRow == bytesPerRow {
		copy(dst, readback[:bytesPerRow*h])
		return nil
	}
	for row := uint32(0); row < h; row++ {
		src := readback[row*alignedBytesPerRow : row*alignedBytesPerRow+bytesPerRow]
		copy(dst[row*bytesPerRow:], src)
	}
	return nil
}
