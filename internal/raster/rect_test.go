package raster

import (
	"image"
	"testing"

	"github.com/gogpu/quad/internal/gpu"
)

// centeredRectModel maps the centered quad (-1..1) onto the pixel
// rectangle (x, y)-(x+w, y+h) of a tw x th target.
func centeredRectModel(x, y, w, h, tw, th float32) gpu.Mat4 {
	m := gpu.Identity()
	m[0] = w / tw
	m[5] = -h / th
	m[12] = 2*(x+w/2)/tw - 1
	m[13] = 1 - 2*(y+h/2)/th
	return m
}

func TestDrawRectFill(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 16, 16))
	r := NewRenderer(16, 16)

	batches := []gpu.Batch{{
		Kind: gpu.BatchRect,
		Rects: []gpu.RectInstanceRaw{{
			Model:      centeredRectModel(4, 4, 8, 8, 16, 16),
			Color:      [4]float32{1, 0, 0, 1},
			RectSizePx: [2]float32{8, 8},
		}},
	}}
	r.Render(dst, [4]float32{0, 0, 0, 1}, batches, noTextures)

	if got := pixelAt(dst, 8, 8); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("center = %v, want red", got)
	}
	if got := pixelAt(dst, 1, 1); got != [4]uint8{0, 0, 0, 255} {
		t.Errorf("outside = %v, want clear", got)
	}
}

func TestDrawRectTranslucentFill(t *testing.T) {
	// A half-alpha fill over white must land at the source-over value,
	// not the doubled contribution a straight-alpha source fed into
	// premultiplied blending would produce.
	dst := image.NewRGBA(image.Rect(0, 0, 16, 16))
	r := NewRenderer(16, 16)

	batches := []gpu.Batch{{
		Kind: gpu.BatchRect,
		Rects: []gpu.RectInstanceRaw{{
			Model:      centeredRectModel(4, 4, 8, 8, 16, 16),
			Color:      [4]float32{1, 0, 0, 0.5},
			RectSizePx: [2]float32{8, 8},
		}},
	}}
	r.Render(dst, [4]float32{1, 1, 1, 1}, batches, noTextures)

	got := pixelAt(dst, 8, 8)
	if got[0] != 255 {
		t.Errorf("red channel = %d, want 255", got[0])
	}
	if got[1] < 125 || got[1] > 130 {
		t.Errorf("green channel = %d, want about 128", got[1])
	}
}

func TestDrawRectCornerRadius(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 32, 32))
	r := NewRenderer(32, 32)

	batches := []gpu.Batch{{
		Kind: gpu.BatchRect,
		Rects: []gpu.RectInstanceRaw{{
			Model:          centeredRectModel(0, 0, 32, 32, 32, 32),
			Color:          [4]float32{1, 1, 1, 1},
			CornerRadiusPx: 12,
			RectSizePx:     [2]float32{32, 32},
		}},
	}}
	r.Render(dst, [4]float32{0, 0, 0, 1}, batches, noTextures)

	// The extreme corner pixel is outside the rounded corner.
	if got := pixelAt(dst, 0, 0); got[0] != 0 {
		t.Errorf("corner pixel = %v, want clipped by radius", got)
	}
	// Center and edge midpoints stay filled.
	if got := pixelAt(dst, 16, 16); got[0] != 255 {
		t.Errorf("center = %v, want white", got)
	}
	if got := pixelAt(dst, 16, 1); got[0] != 255 {
		t.Errorf("top edge midpoint = %v, want white", got)
	}
}

func TestDrawRectBorder(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 32, 32))
	r := NewRenderer(32, 32)

	batches := []gpu.Batch{{
		Kind: gpu.BatchRect,
		Rects: []gpu.RectInstanceRaw{{
			Model:             centeredRectModel(0, 0, 32, 32, 32, 32),
			Color:             [4]float32{0, 0, 1, 1},
			BorderThicknessPx: 4,
			BorderColor:       [4]float32{1, 1, 0, 1},
			RectSizePx:        [2]float32{32, 32},
		}},
	}}
	r.Render(dst, [4]float32{0, 0, 0, 1}, batches, noTextures)

	// Just inside the edge lies the border ring.
	if got := pixelAt(dst, 16, 2); got[0] != 255 || got[1] != 255 {
		t.Errorf("border pixel = %v, want yellow", got)
	}
	// The interior keeps the fill color.
	if got := pixelAt(dst, 16, 16); got[2] != 255 || got[0] != 0 {
		t.Errorf("fill pixel = %v, want blue", got)
	}
}

func TestDrawRectRadiusClamped(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 16, 16))
	r := NewRenderer(16, 16)

	// Radius far larger than the half extent degenerates to a capsule,
	// not an inverted shape.
	batches := []gpu.Batch{{
		Kind: gpu.BatchRect,
		Rects: []gpu.RectInstanceRaw{{
			Model:          centeredRectModel(0, 4, 16, 8, 16, 16),
			Color:          [4]float32{1, 1, 1, 1},
			CornerRadiusPx: 100,
			RectSizePx:     [2]float32{16, 8},
		}},
	}}
	r.Render(dst, [4]float32{0, 0, 0, 1}, batches, noTextures)

	if got := pixelAt(dst, 8, 8); got[0] != 255 {
		t.Errorf("center = %v, want filled", got)
	}
}
