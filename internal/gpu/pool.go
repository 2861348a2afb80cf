package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// defaultPoolSlots is the initial slot capacity of a TransformPool.
const defaultPoolSlots = 256

// TransformPool is frame-lifetime storage for per-item transforms.
// Each slot is UniformAlign bytes so any slot can serve as a dynamic
// uniform offset. The pool is reset at frame start, filled during
// queueing and uploaded once before encoding.
//
// The pool also works without a device: slots still allocate and the
// CPU rasterizer reads transforms straight from the local copy.
type TransformPool struct {
	device hal.Device
	queue  hal.Queue

	data []byte // capacity*UniformAlign bytes, local copy
	next int    // next free slot
	cap  int    // slot capacity

	buf    hal.Buffer
	bufCap int // slot capacity of buf, 0 when no buffer exists
	group  hal.BindGroup
}

// NewTransformPool creates a pool with the default capacity. device
// and queue may be nil for CPU-only rendering.
func NewTransformPool(device hal.Device, queue hal.Queue) *TransformPool {
	return &TransformPool{
		device: device,
		queue:  queue,
		data:   make([]byte, defaultPoolSlots*UniformAlign),
		cap:    defaultPoolSlots,
	}
}

// Reset marks every slot free. The backing storage is retained.
func (p *TransformPool) Reset() { p.next = 0 }

// Used reports how many slots the current frame has allocated.
func (p *TransformPool) Used() int { return p.next }

// Cap reports the current slot capacity.
func (p *TransformPool) Cap() int { return p.cap }

// Alloc writes u into the next free slot and returns its index. The
// pool doubles its capacity when full, so Alloc never fails.
func (p *TransformPool) Alloc(u TransformUniform) int {
	if p.next == p.cap {
		p.grow()
	}
	idx := p.next
	u.Bytes(p.data, idx*UniformAlign)
	p.next++
	return idx
}

// At returns the transform stored in slot idx.
func (p *TransformPool) At(idx int) TransformUniform {
	return readTransformUniform(p.data, idx*UniformAlign)
}

func (p *TransformPool) grow() {
	newCap := p.cap * 2
	grown := make([]byte, newCap*UniformAlign)
	copy(grown, p.data)
	p.data = grown
	p.cap = newCap
}

// Flush uploads the used prefix of the pool to the GPU, recreating the
// buffer if the pool outgrew it. No-op without a device.
func (p *TransformPool) Flush() error {
	if p.device == nil || p.queue == nil || p.next == 0 {
		return nil
	}
	if p.bufCap < p.cap {
		if p.group != nil {
			p.device.DestroyBindGroup(p.group)
			p.group = nil
		}
		if p.buf != nil {
			p.device.DestroyBuffer(p.buf)
			p.buf = nil
		}
		buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "transform_pool",
			Size:  uint64(p.cap * UniformAlign),
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("gpu: create transform pool buffer: %w", err)
		}
		p.buf = buf
		p.bufCap = p.cap
	}
	p.queue.WriteBuffer(p.buf, 0, p.data[:p.next*UniformAlign])
	return nil
}

// Buffer returns the GPU buffer backing the pool, or nil before the
// first Flush.
func (p *TransformPool) Buffer() hal.Buffer { return p.buf }

// bindGroup returns a bind group exposing slot 0 through layout,
// creating it on first use. Requires a prior Flush this frame so the
// buffer exists. The group is recreated whenever the buffer is.
func (p *TransformPool) bindGroup(layout hal.BindGroupLayout) (hal.BindGroup, error) {
	if p.group != nil {
		return p.group, nil
	}
	if p.buf == nil {
		return nil, fmt.Errorf("gpu: transform pool has no buffer, flush first")
	}
	group, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "transform_pool_bind",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: p.buf.NativeHandle(), Offset: 0, Size: TransformUniformSize,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create transform pool bind group: %w", err)
	}
	p.group = group
	return group, nil
}

// Destroy releases the GPU buffer and bind group. The pool remains
// usable for CPU rendering afterwards.
func (p *TransformPool) Destroy() {
	if p.device == nil {
		return
	}
	if p.group != nil {
		p.device.DestroyBindGroup(p.group)
		p.group = nil
	}
	if p.buf != nil {
		p.device.DestroyBuffer(p.buf)
		p.buf = nil
		p.bufCap = 0
	}
}
