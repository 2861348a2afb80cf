package text

import (
	"bytes"
	"fmt"
	"image"
	"math"

	gotextfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII range rasterized into every atlas.
const (
	firstRune = ' '
	lastRune  = '~'
)

// atlasPad is the padding in physical pixels on each side of a glyph
// cell, keeping linear sampling of neighbors out of the tile.
const atlasPad = 1

// lineHeightFactor scales the font size into the line advance.
const lineHeightFactor = 1.2

// CharacterInfo describes one rasterized glyph.
type CharacterInfo struct {
	// Tile is the row-major atlas tile index.
	Tile int
	// Advance is the pen advance in logical units.
	Advance float32
	// BearingX is the left side bearing in logical units.
	BearingX float32
	// BearingY is the distance from the baseline to the glyph top in
	// logical units, positive upward.
	BearingY float32
	// WidthPx and HeightPx are the glyph extent in physical pixels.
	WidthPx  int
	HeightPx int
}

// Font is a loaded font with its glyph atlas rasterized at one size.
// A Font is immutable after creation and safe for concurrent reads.
type Font struct {
	// Size is the font size in logical units.
	Size float32
	// DPIFactor is the logical-to-physical scale the atlas was
	// rasterized at.
	DPIFactor float32

	// Atlas is the glyph sheet: white RGB with coverage in alpha.
	Atlas *image.RGBA
	// CellWidth and CellHeight are the atlas tile extent in physical
	// pixels, glyph padding included.
	CellWidth  int
	CellHeight int
	// Columns is the number of tiles per atlas row.
	Columns int

	// Ascent and Descent are logical font metrics; Descent is
	// positive downward.
	Ascent  float32
	Descent float32

	chars map[rune]CharacterInfo
}

// NewFont parses font data and rasterizes its atlas at size logical
// units scaled by dpiFactor. The data must be a valid TTF or OTF.
func NewFont(data []byte, size, dpiFactor float32) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	if size <= 0 || dpiFactor <= 0 {
		return nil, fmt.Errorf("%w: size %v, dpi factor %v", ErrInvalidFontData, size, dpiFactor)
	}

	// Validate through the shaping stack first so later typesetting
	// use cannot fail on a font the engine accepted.
	if _, err := gotextfont.ParseTTF(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFontData, err)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFontData, err)
	}

	sizePx := float64(size * dpiFactor)
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFontData, err)
	}
	defer face.Close()

	f := &Font{
		Size:      size,
		DPIFactor: dpiFactor,
		chars:     make(map[rune]CharacterInfo, lastRune-firstRune+1),
	}

	m := face.Metrics()
	f.Ascent = fixedToFloat(m.Ascent) / dpiFactor
	f.Descent = fixedToFloat(m.Descent) / dpiFactor

	if err := f.buildAtlas(face); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFontFromAtlas wraps a preassembled glyph sheet instead of
// rasterizing one. The sheet is a grid of cellWidth by cellHeight
// physical-pixel tiles; chars maps each rune to its tile and metrics.
// Ascent and descent are derived from size since the sheet carries no
// font tables.
func NewFontFromAtlas(atlas *image.RGBA, size, dpiFactor float32,
	cellWidth, cellHeight int, chars map[rune]CharacterInfo) (*Font, error) {

	if atlas == nil || atlas.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty atlas image", ErrInvalidFontData)
	}
	if size <= 0 || dpiFactor <= 0 {
		return nil, fmt.Errorf("%w: size %v, dpi factor %v", ErrInvalidFontData, size, dpiFactor)
	}
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf("%w: cell %dx%d", ErrInvalidFontData, cellWidth, cellHeight)
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("%w: empty character map", ErrInvalidFontData)
	}

	columns := atlas.Bounds().Dx() / cellWidth
	rows := atlas.Bounds().Dy() / cellHeight
	if columns == 0 || rows == 0 {
		return nil, fmt.Errorf("%w: cell %dx%d exceeds atlas %dx%d", ErrInvalidFontData,
			cellWidth, cellHeight, atlas.Bounds().Dx(), atlas.Bounds().Dy())
	}

	f := &Font{
		Size:       size,
		DPIFactor:  dpiFactor,
		Atlas:      atlas,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		Columns:    columns,
		Ascent:     size,
		Descent:    size * (lineHeightFactor - 1),
		chars:      make(map[rune]CharacterInfo, len(chars)),
	}
	for r, ci := range chars {
		if ci.Tile < 0 || ci.Tile >= columns*rows {
			return nil, fmt.Errorf("%w: glyph %q tile %d outside %d-tile grid",
				ErrInvalidFontData, r, ci.Tile, columns*rows)
		}
		f.chars[r] = ci
	}
	return f, nil
}

// Char returns the atlas entry for a rune.
func (f *Font) Char(r rune) (CharacterInfo, bool) {
	ci, ok := f.chars[r]
	return ci, ok
}

// LineHeight returns the vertical line advance in logical units.
func (f *Font) LineHeight() float32 {
	return f.Size * lineHeightFactor
}

// TileUV returns the normalized UV window of an atlas tile.
func (f *Font) TileUV(tile int) (offsetX, offsetY, scaleX, scaleY float32) {
	aw := float32(f.Atlas.Bounds().Dx())
	ah := float32(f.Atlas.Bounds().Dy())
	col := tile % f.Columns
	row := tile / f.Columns
	return float32(col*f.CellWidth) / aw,
		float32(row*f.CellHeight) / ah,
		float32(f.CellWidth) / aw,
		float32(f.CellHeight) / ah
}

func (f *Font) buildAtlas(face font.Face) error {
	type glyphMeasure struct {
		r       rune
		bounds  fixed.Rectangle26_6
		advance fixed.Int26_6
		w, h    int
	}

	measures := make([]glyphMeasure, 0, lastRune-firstRune+1)
	maxW, maxH := 0, 0
	for r := rune(firstRune); r <= lastRune; r++ {
		bounds, advance, ok := face.GlyphBounds(r)
		if !ok || (boundsEmpty(bounds) && advance == 0) {
			return fmt.Errorf("%w: glyph %q has no coverage and no advance", ErrAtlasRender, r)
		}
		w := (bounds.Max.X - bounds.Min.X).Ceil()
		h := (bounds.Max.Y - bounds.Min.Y).Ceil()
		if w > maxW {
			maxW = w
		}
		if h > maxH {
			maxH = h
		}
		measures = append(measures, glyphMeasure{r: r, bounds: bounds, advance: advance, w: w, h: h})
	}

	f.CellWidth = maxW + 2*atlasPad
	f.CellHeight = maxH + 2*atlasPad

	count := len(measures)
	f.Columns = int(math.Ceil(math.Sqrt(float64(count))))
	rows := (count + f.Columns - 1) / f.Columns

	f.Atlas = image.NewRGBA(image.Rect(0, 0, f.Columns*f.CellWidth, rows*f.CellHeight))

	for i, gm := range measures {
		col := i % f.Columns
		row := i / f.Columns
		cellX := col * f.CellWidth
		cellY := row * f.CellHeight

		if gm.w > 0 && gm.h > 0 {
			// Place the dot so the glyph's bounding box lands at the
			// padded cell origin.
			dot := fixed.Point26_6{
				X: fixed.I(cellX+atlasPad) - gm.bounds.Min.X,
				Y: fixed.I(cellY+atlasPad) - gm.bounds.Min.Y,
			}
			dr, mask, maskp, _, ok := face.Glyph(dot, gm.r)
			if !ok {
				return fmt.Errorf("%w: glyph %q", ErrAtlasRender, gm.r)
			}
			drawGlyphWhite(f.Atlas, dr, mask, maskp)
		}

		f.chars[gm.r] = CharacterInfo{
			Tile:     i,
			Advance:  fixedToFloat(gm.advance) / f.DPIFactor,
			BearingX: fixedToFloat(gm.bounds.Min.X) / f.DPIFactor,
			BearingY: -fixedToFloat(gm.bounds.Min.Y) / f.DPIFactor,
			WidthPx:  gm.w,
			HeightPx: gm.h,
		}
	}
	return nil
}

// drawGlyphWhite composites a glyph coverage mask into the atlas as
// white pixels with the coverage in alpha.
func drawGlyphWhite(dst *image.RGBA, dr image.Rectangle, mask image.Image, maskp image.Point) {
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			_, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA()
			if a == 0 {
				continue
			}
			off := dst.PixOffset(x, y)
			cov := uint8(a >> 8)
			dst.Pix[off] = 255
			dst.Pix[off+1] = 255
			dst.Pix[off+2] = 255
			dst.Pix[off+3] = cov
		}
	}
}

func boundsEmpty(b fixed.Rectangle26_6) bool {
	return b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
