package quad

import (
	"math"

	"github.com/gogpu/quad/internal/gpu"
)

// buildModel computes the NDC placement matrix for a sprite.
//
// pos and camera are logical; sizePx and viewport are physical pixels;
// rotation is clockwise radians about the sprite center. The matrix
// carries the sprite center in its translation column and the NDC half
// extents on the diagonal, placing the sprite's top-left corner at
// (pos - camera) * dpi in the viewport.
func buildModel(pos Position, sizePx Size, rotation float32, camera Position, viewport Size, dpi float32) gpu.Mat4 {
	if viewport.IsEmpty() {
		return gpu.Identity()
	}

	widthNDC := sizePx.Width / viewport.Width
	heightNDC := sizePx.Height / viewport.Height

	ndcX := 2*(pos.X-camera.X)*dpi/viewport.Width - 1 + widthNDC
	ndcY := 1 - 2*(pos.Y-camera.Y)*dpi/viewport.Height - heightNDC

	m := gpu.Identity()
	if rotation == 0 {
		m[0] = widthNDC
		m[5] = heightNDC
	} else {
		// Screen-clockwise rotation; NDC y points up, hence the
		// transposed sign layout.
		sin, cos := math.Sincos(float64(rotation))
		c, s := float32(cos), float32(sin)
		m[0] = c * widthNDC
		m[1] = -s * widthNDC
		m[4] = s * heightNDC
		m[5] = c * heightNDC
	}
	m[12] = ndcX
	m[13] = ndcY
	return m
}

// buildRectModel places the centered SDF quad (-1,-1)-(1,1) so it
// covers rect (logical) in the viewport.
func buildRectModel(rect Rectangle, camera Position, viewport Size, dpi float32) gpu.Mat4 {
	center := Position{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height/2}
	sizePx := rect.Size().Scale(dpi)
	if viewport.IsEmpty() {
		return gpu.Identity()
	}

	halfW := sizePx.Width / viewport.Width
	halfH := sizePx.Height / viewport.Height

	m := gpu.Identity()
	m[0] = halfW
	m[5] = halfH
	m[12] = 2*(center.X-camera.X)*dpi/viewport.Width - 1
	m[13] = 1 - 2*(center.Y-camera.Y)*dpi/viewport.Height
	return m
}
