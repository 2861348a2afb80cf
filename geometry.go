package quad

// geomEpsilon is the tolerance for float comparisons on geometry types.
const geomEpsilon = 1e-6

// Position is a point in logical coordinates.
type Position struct {
	X, Y float32
}

// Add returns the component-wise sum p + q.
func (p Position) Add(q Position) Position {
	return Position{p.X + q.X, p.Y + q.Y}
}

// Sub returns the component-wise difference p - q.
func (p Position) Sub(q Position) Position {
	return Position{p.X - q.X, p.Y - q.Y}
}

// Scale returns p with both components multiplied by s.
func (p Position) Scale(s float32) Position {
	return Position{p.X * s, p.Y * s}
}

// Equals reports whether p and q are equal within geomEpsilon.
func (p Position) Equals(q Position) bool {
	return absf(p.X-q.X) < geomEpsilon && absf(p.Y-q.Y) < geomEpsilon
}

// Size is a width/height pair in logical units.
type Size struct {
	Width, Height float32
}

// Scale returns s with both dimensions multiplied by f.
func (s Size) Scale(f float32) Size {
	return Size{s.Width * f, s.Height * f}
}

// IsEmpty reports whether either dimension is not positive.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rectangle is an axis-aligned rectangle in logical coordinates.
type Rectangle struct {
	X, Y, Width, Height float32
}

// Rect constructs a Rectangle from origin and size components.
func Rect(x, y, w, h float32) Rectangle {
	return Rectangle{X: x, Y: y, Width: w, Height: h}
}

// Pos returns the rectangle origin.
func (r Rectangle) Pos() Position { return Position{r.X, r.Y} }

// Size returns the rectangle dimensions.
func (r Rectangle) Size() Size { return Size{r.Width, r.Height} }

// Right returns the exclusive right edge.
func (r Rectangle) Right() float32 { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rectangle) Bottom() float32 { return r.Y + r.Height }

// IsEmpty reports whether the rectangle has no area.
func (r Rectangle) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside r. All four edges are
// inclusive.
func (r Rectangle) Contains(p Position) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// PaddedContains reports whether p lies inside r shifted left and up by
// pad and shrunk by 2*pad per axis. Used for hit testing where the
// interactive region is tighter than the drawn one.
func (r Rectangle) PaddedContains(p Position, pad float32) bool {
	return p.X >= r.X-pad && p.X <= r.X-pad+r.Width-2*pad &&
		p.Y >= r.Y-pad && p.Y <= r.Y-pad+r.Height-2*pad
}

// Intersect returns the overlap of r and o. Disjoint rectangles yield a
// zero-size result positioned at the would-be overlap origin.
func (r Rectangle) Intersect(o Rectangle) Rectangle {
	x := maxf(r.X, o.X)
	y := maxf(r.Y, o.Y)
	right := minf(r.Right(), o.Right())
	bottom := minf(r.Bottom(), o.Bottom())
	if right <= x || bottom <= y {
		return Rectangle{X: x, Y: y}
	}
	return Rectangle{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// Equals reports whether r and o are equal within geomEpsilon per
// component.
func (r Rectangle) Equals(o Rectangle) bool {
	return absf(r.X-o.X) < geomEpsilon &&
		absf(r.Y-o.Y) < geomEpsilon &&
		absf(r.Width-o.Width) < geomEpsilon &&
		absf(r.Height-o.Height) < geomEpsilon
}

// Translate returns r moved by d.
func (r Rectangle) Translate(d Position) Rectangle {
	return Rectangle{X: r.X + d.X, Y: r.Y + d.Y, Width: r.Width, Height: r.Height}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
