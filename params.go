package quad

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color [4]float32

// Predefined colors used by defaults and tests.
var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Transparent = Color{0, 0, 0, 0}
)

// R, G, B and A return the individual channels.
func (c Color) R() float32 { return c[0] }
func (c Color) G() float32 { return c[1] }
func (c Color) B() float32 { return c[2] }
func (c Color) A() float32 { return c[3] }

// WithAlpha returns c with the alpha channel replaced.
func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// IsWhite reports whether c is the no-tint color.
func (c Color) IsWhite() bool {
	return c == White
}

// DrawParams controls how a texture or atlas tile is drawn.
// The zero value draws at natural size, unrotated and untinted, at z 0.
type DrawParams struct {
	// Scale multiplies the natural sprite size. Zero means 1.
	Scale float32

	// Rotation is the clockwise rotation about the sprite center,
	// in radians.
	Rotation float32

	// Tint multiplies the sampled color per instance. The zero value
	// and White both mean no tint.
	Tint Color

	// Z orders draws across the frame. Higher z draws on top; equal z
	// preserves submission order.
	Z int
}

// effectiveScale resolves the zero-value default.
func (p DrawParams) effectiveScale() float32 {
	if p.Scale == 0 {
		return 1
	}
	return p.Scale
}

// effectiveTint resolves the zero-value default to White.
func (p DrawParams) effectiveTint() Color {
	if p.Tint == (Color{}) {
		return White
	}
	return p.Tint
}

// RectStyle controls DrawRect appearance. Radius and border thickness
// are logical units, converted to physical pixels once per draw.
type RectStyle struct {
	// Fill is the interior color.
	Fill Color

	// CornerRadius rounds the corners. Clamped to half the smaller
	// rectangle dimension.
	CornerRadius float32

	// BorderThickness is the width of the stroked ring just inside the
	// rectangle edge. Zero means no border.
	BorderThickness float32

	// BorderColor colors the ring when BorderThickness is positive.
	BorderColor Color

	// Z orders the rectangle against other draws.
	Z int
}

// HAlign positions text lines horizontally within a container.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign positions the text block vertically within a container.
type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// TextContainer bounds and aligns a block of queued text.
type TextContainer struct {
	// Rect is the layout box in logical coordinates, relative to the
	// position passed to QueueText.
	Rect Rectangle

	// HAlign positions each line horizontally within Rect.
	HAlign HAlign

	// VAlign positions the whole block vertically within Rect.
	VAlign VAlign

	// WrapWords breaks lines on spaces when a word would overflow
	// Rect.Width. A single word wider than the box is placed alone on
	// its line and may overflow.
	WrapWords bool

	// Color tints the glyphs. The zero value and White both mean the
	// atlas color, which is white.
	Color Color

	// Z orders the glyphs against other draws.
	Z int
}
