package quad

import (
	"testing"

	"github.com/google/uuid"
)

func TestCameraActivation(t *testing.T) {
	c := NewCamera()
	c.SetPos(Position{X: 10, Y: 20})

	if got := c.GetPos(1); got != (Position{}) {
		t.Errorf("inactive GetPos = %v, want zero", got)
	}

	c.Activate()
	if got := c.GetPos(1); got != (Position{X: 10, Y: 20}) {
		t.Errorf("active GetPos = %v", got)
	}
	if got := c.GetPos(2); got != (Position{X: 20, Y: 40}) {
		t.Errorf("scaled GetPos = %v", got)
	}

	c.Deactivate()
	if got := c.GetPos(1); got != (Position{}) {
		t.Errorf("deactivated GetPos = %v, want zero", got)
	}
}

func TestCameraUnboundedMove(t *testing.T) {
	c := NewCamera()
	c.Activate()
	c.SetPos(Position{X: -500, Y: 10000})
	if got := c.GetPos(1); got != (Position{X: -500, Y: 10000}) {
		t.Errorf("GetPos = %v", got)
	}
}

func TestCameraBoundaryOverflow(t *testing.T) {
	// With a boundary the camera moves only by the overflow of the
	// requested point against the box around the current position.
	tests := []struct {
		name string
		to   Position
		want Position
	}{
		{"inside leaves camera still", Position{X: 50, Y: 50}, Position{}},
		{"at far corner leaves camera still", Position{X: 100, Y: 100}, Position{}},
		{"overflow right and down", Position{X: 150, Y: 150}, Position{X: 50, Y: 50}},
		{"overflow left", Position{X: -30, Y: 50}, Position{X: -30, Y: 0}},
		{"overflow up", Position{X: 50, Y: -5}, Position{X: 0, Y: -5}},
		{"overflow right only", Position{X: 500, Y: 50}, Position{X: 400, Y: 0}},
		{"overflow down only", Position{X: 50, Y: 500}, Position{X: 0, Y: 400}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera()
			c.Activate()
			c.SetBoundary(Rect(0, 0, 100, 100))
			c.SetPos(tt.to)
			if got := c.GetPos(1); got != tt.want {
				t.Errorf("GetPos = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCameraBoundaryFollowsPosition(t *testing.T) {
	// The boundary translates with the camera, so a point that forced
	// a move is inside the box on the next call.
	c := NewCamera()
	c.Activate()
	c.SetBoundary(Rect(-10, -10, 20, 20))

	c.SetPos(Position{X: 100, Y: 100})
	if got := c.GetPos(1); got != (Position{X: 90, Y: 90}) {
		t.Fatalf("first move = %v, want overflow of 90, 90", got)
	}

	c.SetPos(Position{X: 100, Y: 100})
	if got := c.GetPos(1); got != (Position{X: 90, Y: 90}) {
		t.Errorf("second move = %v, want no further movement", got)
	}
}

func TestCameraTether(t *testing.T) {
	// The tether size shrinks the box on the right and bottom so the
	// followed object stays fully visible.
	c := NewCamera()
	c.Activate()
	c.SetBoundary(Rect(0, 0, 100, 100))
	c.SetTetherSize(Size{Width: 30, Height: 40})

	c.SetPos(Position{X: 80, Y: 70})
	if got := c.GetPos(1); got != (Position{X: 10, Y: 10}) {
		t.Errorf("tethered overflow = %v, want 10, 10", got)
	}
}

func TestCameraTetherLargerThanBoundary(t *testing.T) {
	// A tether wider than the box pushes the camera even for points
	// near the boundary origin.
	c := NewCamera()
	c.Activate()
	c.SetBoundary(Rect(0, 0, 10, 10))
	c.SetTetherSize(Size{Width: 50, Height: 50})

	c.SetPos(Position{X: 5, Y: 5})
	if got := c.GetPos(1); got != (Position{X: 45, Y: 45}) {
		t.Errorf("oversized tether = %v, want 45, 45", got)
	}
}

func TestCameraClearBoundary(t *testing.T) {
	c := NewCamera()
	c.Activate()
	c.SetBoundary(Rect(0, 0, 10, 10))
	c.ClearBoundary()
	c.SetPos(Position{X: 300, Y: 300})
	if got := c.GetPos(1); got != (Position{X: 300, Y: 300}) {
		t.Errorf("GetPos = %v, want unclamped", got)
	}
}

func TestCameraTetherTarget(t *testing.T) {
	c := NewCamera()
	if _, ok := c.TetherTarget(); ok {
		t.Fatalf("new camera reports a tether target")
	}

	id := uuid.New()
	c.SetTetherTarget(id)
	got, ok := c.TetherTarget()
	if !ok || got != id {
		t.Fatalf("TetherTarget = %v, %v, want %v, true", got, ok, id)
	}

	c.ClearTetherTarget()
	if _, ok := c.TetherTarget(); ok {
		t.Errorf("tether target survives ClearTetherTarget")
	}
}
