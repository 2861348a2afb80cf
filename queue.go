package quad

import (
	"sort"

	"github.com/google/uuid"

	"github.com/gogpu/quad/internal/gpu"
)

// renderItem is one queued draw. Items accumulate between BeginFrame
// and EndFrame, are stable-sorted by z, and collapse into instanced
// batches.
type renderItem struct {
	kind gpu.BatchKind
	z    int

	// texture is the texture or atlas id for sprite items; zero for
	// rects.
	texture uuid.UUID
	nearest bool

	// scissor is the effective clip at queue time, already converted
	// to physical pixels. hasClip distinguishes "no clipping" from a
	// clip at the origin.
	scissor gpu.Scissor
	hasClip bool

	sprite gpu.InstanceRaw
	rect   gpu.RectInstanceRaw
}

// clipEqual reports whether two items share clip state.
func (it *renderItem) clipEqual(o *renderItem) bool {
	if it.hasClip != o.hasClip {
		return false
	}
	return !it.hasClip || it.scissor == o.scissor
}

// renderQueue collects draws for the active frame.
type renderQueue struct {
	items []renderItem
}

func (q *renderQueue) reset() {
	q.items = q.items[:0]
}

func (q *renderQueue) push(it renderItem) {
	q.items = append(q.items, it)
}

func (q *renderQueue) len() int {
	return len(q.items)
}

// batches sorts the queue by z and emits one batch per run of items
// sharing kind, texture and clip state. The sort is stable so draws
// with equal z keep submission order.
func (q *renderQueue) batches() []gpu.Batch {
	if len(q.items) == 0 {
		return nil
	}
	sort.SliceStable(q.items, func(i, j int) bool {
		return q.items[i].z < q.items[j].z
	})

	var out []gpu.Batch
	var cur *gpu.Batch
	for i := range q.items {
		it := &q.items[i]
		if cur == nil || !runContinues(cur, &q.items[i-1], it) {
			b := gpu.Batch{
				Kind:    it.kind,
				Texture: it.texture,
				Nearest: it.nearest,
			}
			if it.hasClip {
				sc := it.scissor
				b.Scissor = &sc
			}
			out = append(out, b)
			cur = &out[len(out)-1]
		}
		switch it.kind {
		case gpu.BatchRect:
			cur.Rects = append(cur.Rects, it.rect)
		default:
			cur.Instances = append(cur.Instances, it.sprite)
		}
	}
	return out
}

// runContinues reports whether item keeps the current batch going.
func runContinues(b *gpu.Batch, prev, it *renderItem) bool {
	return it.kind == b.Kind &&
		it.texture == b.Texture &&
		it.nearest == b.Nearest &&
		it.clipEqual(prev)
}
