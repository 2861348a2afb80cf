package text

import (
	"testing"
)

func TestLayoutSingleLine(t *testing.T) {
	f := loadTestFont(t, 16, 1)
	got := Layout(f, "Hi", Container{Width: 200, Height: 50})

	if len(got) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(got))
	}
	if got[0].Rune != 'H' || got[1].Rune != 'i' {
		t.Errorf("runes = %c,%c", got[0].Rune, got[1].Rune)
	}
	if got[1].X <= got[0].X {
		t.Errorf("pen did not advance: %v then %v", got[0].X, got[1].X)
	}
	h, _ := f.Char('H')
	if got[0].Tile != h.Tile {
		t.Errorf("tile = %d, want %d", got[0].Tile, h.Tile)
	}
}

// glyphLineTop recovers the top of the line a glyph was placed on by
// undoing its bearing offset. Glyphs on one line agree on this value
// whatever their individual bearings.
func glyphLineTop(f *Font, g PlacedGlyph) float32 {
	ci, _ := f.Char(g.Rune)
	return g.Y - (f.Size - ci.BearingY)
}

func TestLayoutNewline(t *testing.T) {
	f := loadTestFont(t, 16, 1)
	got := Layout(f, "a\na", Container{Width: 200, Height: 100})

	if len(got) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(got))
	}
	dy := got[1].Y - got[0].Y
	if dy != f.LineHeight() {
		t.Errorf("line step = %v, want %v", dy, f.LineHeight())
	}
}

func TestLayoutBearingAdjustsY(t *testing.T) {
	// Glyph y is the line top plus (size - bearing), so taller glyphs
	// sit higher on the shared line.
	f := loadTestFont(t, 16, 1)
	got := Layout(f, "ab", Container{Width: 200, Height: 50})

	if len(got) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(got))
	}
	if glyphLineTop(f, got[0]) != glyphLineTop(f, got[1]) {
		t.Errorf("line tops differ: %v vs %v",
			glyphLineTop(f, got[0]), glyphLineTop(f, got[1]))
	}
	a, _ := f.Char('a')
	b, _ := f.Char('b')
	wantDY := b.BearingY - a.BearingY
	if dy := got[0].Y - got[1].Y; dy != wantDY {
		t.Errorf("bearing offset = %v, want %v", dy, wantDY)
	}
}

func TestLayoutSkipsUnknownRunes(t *testing.T) {
	f := loadTestFont(t, 16, 1)
	got := Layout(f, "aéb", Container{Width: 200, Height: 50})

	if len(got) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(got))
	}
	if got[0].Rune != 'a' || got[1].Rune != 'b' {
		t.Errorf("runes = %c,%c", got[0].Rune, got[1].Rune)
	}
}

func TestLayoutNFCNormalization(t *testing.T) {
	f := loadTestFont(t, 16, 1)
	// "e" followed by a combining acute composes to a single rune
	// outside the atlas, so nothing from the pair survives.
	got := Layout(f, "éx", Container{Width: 200, Height: 50})

	if len(got) != 1 || got[0].Rune != 'x' {
		t.Fatalf("got %d glyphs, want just x", len(got))
	}
}

func TestLayoutHAlign(t *testing.T) {
	f := loadTestFont(t, 16, 1)
	c := Container{Width: 300, Height: 50}

	left := Layout(f, "mm", c)
	c.HAlign = AlignCenter
	center := Layout(f, "mm", c)
	c.HAlign = AlignRight
	right := Layout(f, "mm", c)

	if !(left[0].X < center[0].X && center[0].X < right[0].X) {
		t.Errorf("x order: left %v center %v right %v", left[0].X, center[0].X, right[0].X)
	}

	w, _ := Measure(f, "mm")
	wantRight := c.Width - w
	if diff := (right[0].X - left[0].X) - wantRight; diff > 0.5 || diff < -0.5 {
		t.Errorf("right offset = %v, want %v", right[0].X-left[0].X, wantRight)
	}
}

func TestLayoutVAlign(t *testing.T) {
	f := loadTestFont(t, 16, 1)
	c := Container{Width: 300, Height: 120}

	top := Layout(f, "a", c)
	c.VAlign = AlignMiddle
	middle := Layout(f, "a", c)
	c.VAlign = AlignBottom
	bottom := Layout(f, "a", c)

	if !(top[0].Y < middle[0].Y && middle[0].Y < bottom[0].Y) {
		t.Errorf("y order: top %v middle %v bottom %v", top[0].Y, middle[0].Y, bottom[0].Y)
	}
	wantBottom := c.Height - f.LineHeight()
	if diff := (bottom[0].Y - top[0].Y) - wantBottom; diff > 0.5 || diff < -0.5 {
		t.Errorf("bottom offset = %v, want %v", bottom[0].Y-top[0].Y, wantBottom)
	}
}

func TestLayoutWordWrap(t *testing.T) {
	f := loadTestFont(t, 16, 1)
	wordW, _ := Measure(f, "word")

	// Fits two words per line, not three.
	c := Container{Width: wordW*2 + 10, Height: 200, WrapWords: true}
	got := Layout(f, "word word word", c)

	if len(got) != 12 {
		t.Fatalf("got %d glyphs, want 12", len(got))
	}
	if got[0].Y != got[4].Y {
		t.Error("first two words should share a line")
	}
	if got[8].Y <= got[0].Y {
		t.Error("third word should wrap to the next line")
	}
}

func TestLayoutOverlongWordOverflows(t *testing.T) {
	f := loadTestFont(t, 16, 1)
	c := Container{Width: 5, Height: 200, WrapWords: true}
	got := Layout(f, "longword", c)

	if len(got) != 8 {
		t.Fatalf("got %d glyphs, want 8", len(got))
	}
	for i := 1; i < len(got); i++ {
		if glyphLineTop(f, got[i]) != glyphLineTop(f, got[0]) {
			t.Fatal("overlong word must stay on one line")
		}
	}
}

func TestLayoutSpacesAdvanceWithoutGlyphs(t *testing.T) {
	f := loadTestFont(t, 16, 1)
	got := Layout(f, "a b", Container{Width: 200, Height: 50})

	if len(got) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(got))
	}
	sp, _ := f.Char(' ')
	a, _ := f.Char('a')
	b, _ := f.Char('b')
	wantDX := a.Advance + sp.Advance + (b.BearingX - a.BearingX)
	if dx := got[1].X - got[0].X; dx != wantDX {
		t.Errorf("pen advance over space = %v, want %v", dx, wantDX)
	}
}

func TestLayoutWrapKeepsParagraphs(t *testing.T) {
	f := loadTestFont(t, 16, 1)
	c := Container{Width: 500, Height: 200, WrapWords: true}
	got := Layout(f, "ab\ncd", c)

	if len(got) != 4 {
		t.Fatalf("got %d glyphs, want 4", len(got))
	}
	if glyphLineTop(f, got[2]) <= glyphLineTop(f, got[0]) {
		t.Error("explicit newline ignored under wrapping")
	}
}

func TestLayoutEmpty(t *testing.T) {
	f := loadTestFont(t, 16, 1)
	if got := Layout(f, "", Container{Width: 100, Height: 100}); got != nil {
		t.Errorf("empty layout = %v", got)
	}
}

func TestMeasure(t *testing.T) {
	f := loadTestFont(t, 16, 1)

	w, h := Measure(f, "")
	if w != 0 || h != 0 {
		t.Errorf("empty measure = %v,%v", w, h)
	}

	w1, h1 := Measure(f, "a")
	if w1 <= 0 {
		t.Errorf("width = %v", w1)
	}
	if h1 != f.LineHeight() {
		t.Errorf("height = %v, want %v", h1, f.LineHeight())
	}

	w2, h2 := Measure(f, "aa\na")
	if h2 != 2*f.LineHeight() {
		t.Errorf("two line height = %v", h2)
	}
	if w2 <= w1 {
		t.Errorf("widest line %v not wider than %v", w2, w1)
	}
}
