// Package vector decodes vector and raster image assets into RGBA
// pixel data for texture creation.
package vector

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// RasterizeSVG parses SVG data and rasterizes it at the given scale.
// Output dimensions are the icon's viewbox extent times scale, rounded
// up. Returns the parse error unwrapped so callers can classify it.
func RasterizeSVG(data []byte, scale float32) (*image.RGBA, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("vector: non-positive scale %v", scale)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("vector: parse svg: %w", err)
	}

	w := int(math.Ceil(icon.ViewBox.W * float64(scale)))
	h := int(math.Ceil(icon.ViewBox.H * float64(scale)))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("vector: svg has empty viewbox %vx%v", icon.ViewBox.W, icon.ViewBox.H)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}

// DecodeImage decodes PNG or JPEG data into straight-alpha RGBA.
func DecodeImage(data []byte) (*image.RGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vector: decode image: %w", err)
	}
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return img, nil
}
