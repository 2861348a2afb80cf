package anim

// Value is the constraint animated types satisfy. The engine's
// Position meets it; Float adapts plain numbers.
type Value[T any] interface {
	Add(T) T
	Sub(T) T
	Scale(float32) T
}

// Float is a float32 that satisfies Value.
type Float float32

func (f Float) Add(o Float) Float     { return f + o }
func (f Float) Sub(o Float) Float     { return f - o }
func (f Float) Scale(s float32) Float { return f * Float(s) }

// Tween interpolates between two values over a duration with an
// easing curve.
type Tween[T Value[T]] struct {
	From     T
	To       T
	Duration float32
	Ease     Ease

	elapsed float32
}

// NewTween creates a tween. A nil ease means Linear.
func NewTween[T Value[T]](from, to T, duration float32, easing Ease) *Tween[T] {
	if easing == nil {
		easing = Linear
	}
	return &Tween[T]{From: from, To: to, Duration: duration, Ease: easing}
}

// Update advances the tween by dt and returns the current value and
// whether the tween has finished. dt past the end clamps to To.
func (tw *Tween[T]) Update(dt float32) (T, bool) {
	tw.elapsed += dt
	if tw.elapsed >= tw.Duration {
		tw.elapsed = tw.Duration
		return tw.To, true
	}
	return tw.valueAt(tw.elapsed), false
}

// Remaining returns the unplayed duration.
func (tw *Tween[T]) Remaining() float32 {
	r := tw.Duration - tw.elapsed
	if r < 0 {
		return 0
	}
	return r
}

// Reset rewinds the tween to its start.
func (tw *Tween[T]) Reset() { tw.elapsed = 0 }

func (tw *Tween[T]) valueAt(t float32) T {
	if tw.Duration <= 0 {
		return tw.To
	}
	u := tw.Ease(t / tw.Duration)
	return tw.From.Add(tw.To.Sub(tw.From).Scale(u))
}
