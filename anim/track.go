package anim

// Track produces a value over time. Update advances by dt and reports
// the current value along with completion.
type Track[T Value[T]] interface {
	Update(dt float32) (T, bool)
	Reset()
	Duration() float32
}

// Sequence plays tweens back to back. Leftover time from finishing one
// tween carries into the next within the same Update, so large steps
// never stall at segment boundaries.
type Sequence[T Value[T]] struct {
	tweens []*Tween[T]
	idx    int
	last   T
}

// NewSequence creates a sequence over the given tweens.
func NewSequence[T Value[T]](tweens ...*Tween[T]) *Sequence[T] {
	return &Sequence[T]{tweens: tweens}
}

// Update implements Track.
func (s *Sequence[T]) Update(dt float32) (T, bool) {
	for s.idx < len(s.tweens) {
		cur := s.tweens[s.idx]
		used := cur.Remaining()
		if dt < used {
			used = dt
		}
		v, done := cur.Update(used)
		s.last = v
		dt -= used
		if !done {
			return s.last, false
		}
		s.idx++
		if dt <= 0 {
			break
		}
	}
	return s.last, s.idx >= len(s.tweens)
}

// Reset implements Track.
func (s *Sequence[T]) Reset() {
	for _, tw := range s.tweens {
		tw.Reset()
	}
	s.idx = 0
	var zero T
	s.last = zero
}

// Duration implements Track.
func (s *Sequence[T]) Duration() float32 {
	var total float32
	for _, tw := range s.tweens {
		total += tw.Duration
	}
	return total
}

// Parallel advances all child tracks together. Its value is the
// longest child's value and it completes when that child does.
type Parallel[T Value[T]] struct {
	tracks []Track[T]
}

// NewParallel creates a parallel group over the given tracks.
func NewParallel[T Value[T]](tracks ...Track[T]) *Parallel[T] {
	return &Parallel[T]{tracks: tracks}
}

// Update implements Track.
func (p *Parallel[T]) Update(dt float32) (T, bool) {
	var value T
	done := true
	var longest float32 = -1
	for _, tr := range p.tracks {
		v, d := tr.Update(dt)
		if dur := tr.Duration(); dur > longest {
			longest = dur
			value = v
			done = d
		}
	}
	return value, done
}

// Reset implements Track.
func (p *Parallel[T]) Reset() {
	for _, tr := range p.tracks {
		tr.Reset()
	}
}

// Duration implements Track.
func (p *Parallel[T]) Duration() float32 {
	var longest float32
	for _, tr := range p.tracks {
		if d := tr.Duration(); d > longest {
			longest = d
		}
	}
	return longest
}
