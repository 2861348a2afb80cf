package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PlacedGlyph is one laid-out glyph: the atlas tile to draw and the
// logical position of the tile's top-left corner. The tile's physical
// extent is the font's cell size.
type PlacedGlyph struct {
	Rune rune
	Tile int
	X    float32
	Y    float32
}

// Layout places text inside a container. Lines split on newlines and,
// when the container wraps, on word boundaries. Runes without an atlas
// entry are skipped. Input is normalized to NFC before lookup.
func Layout(f *Font, s string, c Container) []PlacedGlyph {
	lines := splitLines(f, s, c)
	if len(lines) == 0 {
		return nil
	}

	lineHeight := f.LineHeight()
	blockHeight := float32(len(lines)) * lineHeight

	var vOffset float32
	switch c.VAlign {
	case AlignMiddle:
		vOffset = (c.Height - blockHeight) / 2
	case AlignBottom:
		vOffset = c.Height - blockHeight
	}

	// The atlas cell is padded; shift tile placement so the glyph
	// pixels, not the padding, land at the computed position.
	padLogical := float32(atlasPad) / f.DPIFactor

	var placed []PlacedGlyph
	for i, line := range lines {
		lineWidth := f.lineAdvance(line)

		var hOffset float32
		switch c.HAlign {
		case AlignCenter:
			hOffset = (c.Width - lineWidth) / 2
		case AlignRight:
			hOffset = c.Width - lineWidth
		}

		penX := c.X + hOffset
		lineTop := c.Y + vOffset + float32(i)*lineHeight
		for _, r := range line {
			ci, ok := f.chars[r]
			if !ok {
				continue
			}
			// Spaces and other coverage-free glyphs advance the pen
			// without producing a tile.
			if ci.WidthPx == 0 || ci.HeightPx == 0 {
				penX += ci.Advance
				continue
			}
			placed = append(placed, PlacedGlyph{
				Rune: r,
				Tile: ci.Tile,
				X:    penX + ci.BearingX - padLogical,
				Y:    lineTop + (f.Size - ci.BearingY) - padLogical,
			})
			penX += ci.Advance
		}
	}
	return placed
}

// Measure returns the logical width and height of text laid out
// without a container: the widest line by the stacked line height.
func Measure(f *Font, s string) (float32, float32) {
	s = norm.NFC.String(s)
	if s == "" {
		return 0, 0
	}
	lines := strings.Split(s, "\n")
	var maxWidth float32
	for _, line := range lines {
		if w := f.lineAdvance(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth, float32(len(lines)) * f.LineHeight()
}

// lineAdvance sums the advances of a line's known runes.
func (f *Font) lineAdvance(line string) float32 {
	var w float32
	for _, r := range line {
		if ci, ok := f.chars[r]; ok {
			w += ci.Advance
		}
	}
	return w
}

// splitLines breaks text on newlines and optionally word-wraps each
// paragraph to the container width. A single word wider than the
// container is placed alone on its line and may overflow.
func splitLines(f *Font, s string, c Container) []string {
	s = norm.NFC.String(s)
	if s == "" {
		return nil
	}
	paragraphs := strings.Split(s, "\n")
	if !c.WrapWords {
		return paragraphs
	}

	spaceAdv := float32(0)
	if ci, ok := f.chars[' ']; ok {
		spaceAdv = ci.Advance
	}

	var lines []string
	for _, p := range paragraphs {
		words := strings.Split(p, " ")
		var cur strings.Builder
		var curWidth float32
		for _, word := range words {
			wordWidth := f.lineAdvance(word)
			if cur.Len() == 0 {
				cur.WriteString(word)
				curWidth = wordWidth
				continue
			}
			if curWidth+spaceAdv+wordWidth > c.Width {
				lines = append(lines, cur.String())
				cur.Reset()
				cur.WriteString(word)
				curWidth = wordWidth
				continue
			}
			cur.WriteByte(' ')
			cur.WriteString(word)
			curWidth += spaceAdv + wordWidth
		}
		lines = append(lines, cur.String())
	}
	return lines
}
