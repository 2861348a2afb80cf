package quad

// Insets are the per-side corner extents of a nine-patch panel, in
// logical units. The zero value means one atlas tile per side.
type Insets struct {
	Left, Top, Right, Bottom float32
}

// ninePatchCell is one of the nine regions of a stretched panel: the
// atlas tile to sample and the destination rectangle it covers.
type ninePatchCell struct {
	tile int
	dst  Rectangle
}

// ninePatchCells splits rect into the nine-patch grid for a 3x3 atlas.
// Corners keep their inset size, edges stretch along one axis and the
// center stretches along both. Opposing insets that together exceed
// the rectangle shrink proportionally. Cells with no area are omitted.
func ninePatchCells(rect Rectangle, in Insets) []ninePatchCell {
	l, r := fitInsets(in.Left, in.Right, rect.Width)
	t, b := fitInsets(in.Top, in.Bottom, rect.Height)

	xs := [4]float32{rect.X, rect.X + l, rect.Right() - r, rect.Right()}
	ys := [4]float32{rect.Y, rect.Y + t, rect.Bottom() - b, rect.Bottom()}

	cells := make([]ninePatchCell, 0, 9)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			dst := Rectangle{
				X:      xs[col],
				Y:      ys[row],
				Width:  xs[col+1] - xs[col],
				Height: ys[row+1] - ys[row],
			}
			if dst.IsEmpty() {
				continue
			}
			cells = append(cells, ninePatchCell{tile: row*3 + col, dst: dst})
		}
	}
	return cells
}

// fitInsets scales a pair of opposing insets down proportionally when
// their sum exceeds the available extent.
func fitInsets(a, b, extent float32) (float32, float32) {
	if sum := a + b; sum > extent && sum > 0 {
		f := extent / sum
		return a * f, b * f
	}
	return a, b
}
