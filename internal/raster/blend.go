package raster

import "image"

// clearImage fills dst with the clear color, alpha included.
func clearImage(dst *image.RGBA, c [4]float32) {
	r8 := toByte(c[0])
	g8 := toByte(c[1])
	b8 := toByte(c[2])
	a8 := toByte(c[3])

	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := dst.Pix[(y-b.Min.Y)*dst.Stride : (y-b.Min.Y)*dst.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			row[x] = r8
			row[x+1] = g8
			row[x+2] = b8
			row[x+3] = a8
		}
	}
}

// blendPixel composites a straight-alpha source color over dst at
// (x, y). Callers guarantee the pixel is inside dst.
func blendPixel(dst *image.RGBA, x, y int, sr, sg, sb, sa float32) {
	if sa <= 0 {
		return
	}
	if sa > 1 {
		sa = 1
	}
	off := y*dst.Stride + x*4

	dr := float32(dst.Pix[off]) / 255
	dg := float32(dst.Pix[off+1]) / 255
	db := float32(dst.Pix[off+2]) / 255
	da := float32(dst.Pix[off+3]) / 255

	inv := 1 - sa
	outA := sa + da*inv
	var outR, outG, outB float32
	if outA > 0 {
		outR = (sr*sa + dr*da*inv) / outA
		outG = (sg*sa + dg*da*inv) / outA
		outB = (sb*sa + db*da*inv) / outA
	}

	dst.Pix[off] = toByte(outR)
	dst.Pix[off+1] = toByte(outG)
	dst.Pix[off+2] = toByte(outB)
	dst.Pix[off+3] = toByte(outA)
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
