package raster

import (
	"image"

	"github.com/gogpu/quad/internal/gpu"
)

// drawSprite rasterizes one textured quad instance. The instance model
// carries the sprite center and half extents and maps the centered
// quad (-1..1) into NDC; each covered pixel is inverse-mapped to local
// coordinates and sampled through the instance's UV window.
func (r *Renderer) drawSprite(dst *image.RGBA, in *gpu.InstanceRaw, tex *gpu.Texture, clip image.Rectangle) {
	q := r.newQuadMap(&in.Model)
	if !q.valid {
		return
	}
	box := q.bounds(-1, -1, 1, 1, clip)
	if box.Empty() {
		return
	}

	for py := box.Min.Y; py < box.Max.Y; py++ {
		for px := box.Min.X; px < box.Max.X; px++ {
			lx, ly := q.invert(float32(px)+0.5, float32(py)+0.5)
			if lx < -1 || lx > 1 || ly < -1 || ly > 1 {
				continue
			}
			// Local y points up in NDC; texture v points down.
			u := (lx + 1) * 0.5
			v := (1 - ly) * 0.5
			tu := in.UVOffset[0] + u*in.UVScale[0]
			tv := in.UVOffset[1] + v*in.UVScale[1]

			var cr, cg, cb, ca float32
			if tex.Nearest {
				cr, cg, cb, ca = sampleNearest(tex.Pixels, tu, tv)
			} else {
				cr, cg, cb, ca = sampleLinear(tex.Pixels, tu, tv)
			}
			blendPixel(dst, px, py,
				cr*in.Tint[0], cg*in.Tint[1], cb*in.Tint[2], ca*in.Tint[3])
		}
	}
}

// sampleNearest reads the texel nearest to normalized (u, v), clamped
// to the edge.
func sampleNearest(img *image.RGBA, u, v float32) (float32, float32, float32, float32) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	x := clampInt(int(u*float32(w)), 0, w-1)
	y := clampInt(int(v*float32(h)), 0, h-1)
	return texel(img, x, y)
}

// sampleLinear bilinearly filters the four texels around (u, v),
// clamped to the edge.
func sampleLinear(img *image.RGBA, u, v float32) (float32, float32, float32, float32) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5
	x0 := floorInt(fx)
	y0 := floorInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	x0c := clampInt(x0, 0, w-1)
	x1c := clampInt(x0+1, 0, w-1)
	y0c := clampInt(y0, 0, h-1)
	y1c := clampInt(y0+1, 0, h-1)

	r00, g00, b00, a00 := texel(img, x0c, y0c)
	r10, g10, b10, a10 := texel(img, x1c, y0c)
	r01, g01, b01, a01 := texel(img, x0c, y1c)
	r11, g11, b11, a11 := texel(img, x1c, y1c)

	lerp := func(a, b, t float32) float32 { return a + (b-a)*t }
	rr := lerp(lerp(r00, r10, tx), lerp(r01, r11, tx), ty)
	gg := lerp(lerp(g00, g10, tx), lerp(g01, g11, tx), ty)
	bb := lerp(lerp(b00, b10, tx), lerp(b01, b11, tx), ty)
	aa := lerp(lerp(a00, a10, tx), lerp(a01, a11, tx), ty)
	return rr, gg, bb, aa
}

func texel(img *image.RGBA, x, y int) (float32, float32, float32, float32) {
	off := img.PixOffset(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)
	return float32(img.Pix[off]) / 255,
		float32(img.Pix[off+1]) / 255,
		float32(img.Pix[off+2]) / 255,
		float32(img.Pix[off+3]) / 255
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
