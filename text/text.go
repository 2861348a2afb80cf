// Package text loads fonts, builds glyph atlases, and lays out and
// measures text. Fonts rasterize the printable ASCII range into a
// fixed-grid atlas at load time; layout places glyphs as atlas tile
// references in logical coordinates.
package text

import "errors"

var (
	// ErrEmptyFontData indicates an empty font file.
	ErrEmptyFontData = errors.New("text: empty font data")
	// ErrInvalidFontData indicates the data is not a parseable font.
	ErrInvalidFontData = errors.New("text: invalid font data")
	// ErrAtlasRender indicates a glyph could not be rasterized into
	// the atlas.
	ErrAtlasRender = errors.New("text: atlas render failed")
)

// HAlign selects horizontal placement of each line inside a container.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign selects vertical placement of the text block.
type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// Container constrains layout to a rectangle in logical units.
type Container struct {
	X, Y          float32
	Width, Height float32
	HAlign        HAlign
	VAlign        VAlign
	WrapWords     bool
}
