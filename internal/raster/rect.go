package raster

import (
	"image"
	"math"

	"github.com/gogpu/quad/internal/gpu"
)

// drawRect rasterizes one rounded-rectangle instance. The math mirrors
// rect.wgsl: the centered quad spans local -1..1, distances are
// evaluated in physical pixels with a one-pixel smoothstep edge, and
// the border ring replaces the fill inside the thickness band.
func (r *Renderer) drawRect(dst *image.RGBA, in *gpu.RectInstanceRaw, clip image.Rectangle) {
	q := r.newQuadMap(&in.Model)
	if !q.valid {
		return
	}
	box := q.bounds(-1, -1, 1, 1, clip)
	if box.Empty() {
		return
	}

	halfW := in.RectSizePx[0] * 0.5
	halfH := in.RectSizePx[1] * 0.5
	radius := in.CornerRadiusPx
	if m := minf32(halfW, halfH); radius > m {
		radius = m
	}

	for py := box.Min.Y; py < box.Max.Y; py++ {
		for px := box.Min.X; px < box.Max.X; px++ {
			lx, ly := q.invert(float32(px)+0.5, float32(py)+0.5)
			if lx < -1 || lx > 1 || ly < -1 || ly > 1 {
				continue
			}
			d := sdRoundRect(lx*halfW, ly*halfH, halfW, halfH, radius)

			outer := 1 - smoothstep(-1, 0, d)
			if outer <= 0 {
				continue
			}

			cr, cg, cb, ca := in.Color[0], in.Color[1], in.Color[2], in.Color[3]
			if in.BorderThicknessPx > 0 {
				ring := 1 - smoothstep(-1, 0, d+in.BorderThicknessPx)
				cr = mix(in.BorderColor[0], cr, ring)
				cg = mix(in.BorderColor[1], cg, ring)
				cb = mix(in.BorderColor[2], cb, ring)
				ca = mix(in.BorderColor[3], ca, ring)
			}
			blendPixel(dst, px, py, cr, cg, cb, ca*outer)
		}
	}
}

// sdRoundRect is the signed distance from point (px, py) to a rounded
// rectangle centered at the origin with the given half extents.
func sdRoundRect(px, py, halfW, halfH, radius float32) float32 {
	qx := absf32(px) - halfW + radius
	qy := absf32(py) - halfH + radius

	mx := maxf32(qx, 0)
	my := maxf32(qy, 0)
	outside := float32(math.Sqrt(float64(mx*mx + my*my)))
	inside := minf32(maxf32(qx, qy), 0)
	return outside + inside - radius
}

// smoothstep is the GLSL/WGSL hermite step.
func smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

func mix(a, b, t float32) float32 { return a + (b-a)*t }

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
