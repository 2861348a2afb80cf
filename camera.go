package quad

import "github.com/google/uuid"

// Camera offsets every draw by its position, optionally constrained by
// a boundary. The boundary is interpreted relative to the current
// position, so the camera moves only when the requested point escapes
// the box around it.
type Camera struct {
	pos          Position
	boundary     *Rectangle
	tetherTarget uuid.UUID
	tetherSize   Size
	active       bool
}

// NewCamera creates an inactive camera at the origin.
func NewCamera() *Camera {
	return &Camera{}
}

// Activate enables the camera offset.
func (c *Camera) Activate() { c.active = true }

// Deactivate disables the camera offset; GetPos returns zero.
func (c *Camera) Deactivate() { c.active = false }

// Active reports whether the camera offset applies.
func (c *Camera) Active() bool { return c.active }

// SetBoundary constrains SetPos to a rectangle translated by the
// position current at each SetPos call.
func (c *Camera) SetBoundary(r Rectangle) {
	b := r
	c.boundary = &b
}

// ClearBoundary removes the movement constraint.
func (c *Camera) ClearBoundary() { c.boundary = nil }

// SetTetherTarget records the id of the object the camera follows.
func (c *Camera) SetTetherTarget(id uuid.UUID) { c.tetherTarget = id }

// ClearTetherTarget forgets the followed object.
func (c *Camera) ClearTetherTarget() { c.tetherTarget = uuid.Nil }

// TetherTarget returns the followed object's id; ok is false when none
// is set.
func (c *Camera) TetherTarget() (uuid.UUID, bool) {
	return c.tetherTarget, c.tetherTarget != uuid.Nil
}

// SetTetherSize shrinks the boundary's right and bottom edges by the
// followed object's size, keeping it inside the visible region.
func (c *Camera) SetTetherSize(s Size) { c.tetherSize = s }

// SetPos moves the camera toward p. With a boundary set the position
// changes only by the overflow of p against the boundary translated by
// the current position, so points inside the box leave the camera
// still.
func (c *Camera) SetPos(p Position) {
	if c.boundary == nil {
		c.pos = p
		return
	}
	b := c.boundary.Translate(c.pos)

	if dx := p.X + c.tetherSize.Width - b.Right(); dx > 0 {
		c.pos.X += dx
	}
	if dx := p.X - b.X; dx < 0 {
		c.pos.X += dx
	}
	if dy := p.Y + c.tetherSize.Height - b.Bottom(); dy > 0 {
		c.pos.Y += dy
	}
	if dy := p.Y - b.Y; dy < 0 {
		c.pos.Y += dy
	}
}

// GetPos returns the camera position scaled by scale when the camera
// is active, and zero when it is not.
func (c *Camera) GetPos(scale float32) Position {
	if !c.active {
		return Position{}
	}
	return c.pos.Scale(scale)
}
