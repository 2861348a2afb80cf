// Package raster executes the engine's batched draw list on the CPU.
// It is the reference implementation of the GPU pipelines: the same
// batches, drawn in the same order with the same sampling and blending
// rules, so offscreen targets and snapshot tests produce real pixels
// without GPU hardware.
package raster

import (
	"image"

	"github.com/google/uuid"

	"github.com/gogpu/quad/internal/gpu"
)

// TextureSource resolves a batch's texture id to its pixel data.
type TextureSource func(id uuid.UUID) (*gpu.Texture, bool)

// Renderer draws batch lists into an RGBA image.
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a CPU renderer for a target of the given size.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// Render clears dst and draws every batch in order. dst must be
// width x height with origin (0,0). Batches referencing unknown
// textures are skipped, matching the GPU path.
func (r *Renderer) Render(dst *image.RGBA, clear [4]float32, batches []gpu.Batch, textures TextureSource) {
	clearImage(dst, clear)
	for i := range batches {
		b := &batches[i]
		clip := r.clipRect(b.Scissor)
		if clip.Empty() {
			continue
		}
		switch b.Kind {
		case gpu.BatchRect:
			for j := range b.Rects {
				r.drawRect(dst, &b.Rects[j], clip)
			}
		case gpu.BatchSprite:
			tex, ok := textures(b.Texture)
			if !ok {
				continue
			}
			for j := range b.Instances {
				r.drawSprite(dst, &b.Instances[j], tex, clip)
			}
		}
	}
}

// clipRect intersects the scissor with the target bounds.
func (r *Renderer) clipRect(sc *gpu.Scissor) image.Rectangle {
	full := image.Rect(0, 0, r.width, r.height)
	if sc == nil {
		return full
	}
	return full.Intersect(image.Rect(
		int(sc.X), int(sc.Y),
		int(sc.X+sc.Width), int(sc.Y+sc.Height),
	))
}

// ndcToPixel converts NDC coordinates to pixel coordinates on the
// target, with NDC y up and pixel y down.
func (r *Renderer) ndcToPixel(x, y float32) (float32, float32) {
	px := (x + 1) * 0.5 * float32(r.width)
	py := (1 - y) * 0.5 * float32(r.height)
	return px, py
}

// quadMap is the affine part of an instance model matrix composed with
// the NDC-to-pixel mapping, plus its inverse. Local quad coordinates
// map to pixels; pixels map back to local coordinates for sampling.
type quadMap struct {
	a, b, c, d, tx, ty float32 // local -> pixel
	ia, ib, ic, id     float32 // pixel -> local (inverse, no translation)
	valid              bool
}

func (r *Renderer) newQuadMap(m *gpu.Mat4) quadMap {
	// Column-major affine 2D: columns 0 and 1 carry the linear part,
	// column 3 the translation, all in NDC.
	halfW := 0.5 * float32(r.width)
	halfH := 0.5 * float32(r.height)

	// NDC -> pixel: px = (x+1)*halfW, py = (1-y)*halfH. The y flip
	// negates the second row.
	q := quadMap{
		a:  m[0] * halfW,
		b:  -m[1] * halfH,
		c:  m[4] * halfW,
		d:  -m[5] * halfH,
		tx: (m[12] + 1) * halfW,
		ty: (1 - m[13]) * halfH,
	}
	det := q.a*q.d - q.b*q.c
	if det == 0 {
		return q
	}
	inv := 1 / det
	q.ia = q.d * inv
	q.ib = -q.b * inv
	q.ic = -q.c * inv
	q.id = q.a * inv
	q.valid = true
	return q
}

// apply maps local quad coordinates to pixel coordinates.
func (q *quadMap) apply(u, v float32) (float32, float32) {
	return q.a*u + q.c*v + q.tx, q.b*u + q.d*v + q.ty
}

// invert maps pixel coordinates back to local quad coordinates.
func (q *quadMap) invert(px, py float32) (float32, float32) {
	dx := px - q.tx
	dy := py - q.ty
	return q.ia*dx + q.ic*dy, q.ib*dx + q.id*dy
}

// bounds returns the pixel bounding box of the quad spanning local
// coordinates [u0,u1]x[v0,v1], intersected with clip.
func (q *quadMap) bounds(u0, v0, u1, v1 float32, clip image.Rectangle) image.Rectangle {
	x0, y0 := q.apply(u0, v0)
	x1, y1 := q.apply(u1, v0)
	x2, y2 := q.apply(u1, v1)
	x3, y3 := q.apply(u0, v1)

	minX := min4(x0, x1, x2, x3)
	maxX := max4(x0, x1, x2, x3)
	minY := min4(y0, y1, y2, y3)
	maxY := max4(y0, y1, y2, y3)

	box := image.Rect(floorInt(minX), floorInt(minY), ceilInt(maxX), ceilInt(maxY))
	return box.Intersect(clip)
}

func min4(a, b, c, d float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	if d < m {
		m = d
	}
	return m
}

func max4(a, b, c, d float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	if d > m {
		m = d
	}
	return m
}

func floorInt(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

func ceilInt(v float32) int {
	i := int(v)
	if v > 0 && float32(i) != v {
		i++
	}
	return i
}
