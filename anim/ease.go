// Package anim provides immediate-mode animation primitives: easing
// curves, typed tweens, sequential and parallel tracks, and a timeline
// with labels and one-shot callbacks.
package anim

import "github.com/tanema/gween/ease"

// Ease maps normalized time in [0, 1] to normalized progress. Values
// outside [0, 1] are permitted for overshooting curves.
type Ease func(t float32) float32

// fromGween adapts a gween easing function to the normalized form.
func fromGween(fn ease.TweenFunc) Ease {
	return func(t float32) float32 { return fn(t, 0, 1, 1) }
}

var (
	Linear = fromGween(ease.Linear)

	QuadIn    = fromGween(ease.InQuad)
	QuadOut   = fromGween(ease.OutQuad)
	QuadInOut = fromGween(ease.InOutQuad)

	CubicIn    = fromGween(ease.InCubic)
	CubicOut   = fromGween(ease.OutCubic)
	CubicInOut = fromGween(ease.InOutCubic)

	SineIn    = fromGween(ease.InSine)
	SineOut   = fromGween(ease.OutSine)
	SineInOut = fromGween(ease.InOutSine)

	ExpoIn  = fromGween(ease.InExpo)
	ExpoOut = fromGween(ease.OutExpo)

	BackOut   = fromGween(ease.OutBack)
	BounceOut = fromGween(ease.OutBounce)
)

const (
	bezierMaxIterations = 6
	bezierEpsilon       = 1e-4
	bezierDerivFloor    = 1e-6
)

// CubicBezier returns the easing curve defined by the control points
// (x1, y1) and (x2, y2), anchored at (0,0) and (1,1) like CSS timing
// functions. The x controls are clamped to [0, 1] so the curve stays a
// function of time.
func CubicBezier(x1, y1, x2, y2 float32) Ease {
	x1 = clamp01(x1)
	x2 = clamp01(x2)
	return func(u float32) float32 {
		if u <= 0 {
			return 0
		}
		if u >= 1 {
			return 1
		}
		t := solveBezierT(u, x1, x2)
		return bezierAxis(t, y1, y2)
	}
}

// bezierAxis evaluates one axis of the cubic at parameter t with the
// anchors fixed at 0 and 1.
func bezierAxis(t, p1, p2 float32) float32 {
	inv := 1 - t
	return 3*inv*inv*t*p1 + 3*inv*t*t*p2 + t*t*t
}

func bezierAxisDeriv(t, p1, p2 float32) float32 {
	inv := 1 - t
	return 3*inv*inv*p1 + 6*inv*t*(p2-p1) + 3*t*t*(1-p2)
}

// solveBezierT finds t with x(t) = u by Newton-Raphson, falling back
// to bisection when the derivative vanishes.
func solveBezierT(u, x1, x2 float32) float32 {
	t := u
	for i := 0; i < bezierMaxIterations; i++ {
		err := bezierAxis(t, x1, x2) - u
		if absf(err) < bezierEpsilon {
			return t
		}
		d := bezierAxisDeriv(t, x1, x2)
		if absf(d) < bezierDerivFloor {
			break
		}
		t = clamp01(t - err/d)
	}

	// Bisection on the monotone x axis.
	lo, hi := float32(0), float32(1)
	for i := 0; i < 32; i++ {
		t = (lo + hi) * 0.5
		err := bezierAxis(t, x1, x2) - u
		if absf(err) < bezierEpsilon {
			return t
		}
		if err < 0 {
			lo = t
		} else {
			hi = t
		}
	}
	return t
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
