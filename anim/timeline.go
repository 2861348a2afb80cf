package anim

import "sort"

// seekStep is the fixed simulation step used by Seek.
const seekStep float32 = 1.0 / 240.0

// timelineTrack erases the value type of a bound track so one timeline
// can drive differently typed setters.
type timelineTrack interface {
	update(dt float32)
	reset()
}

type boundTrack[T Value[T]] struct {
	track Track[T]
	set   func(T)
}

func (b *boundTrack[T]) update(dt float32) {
	v, _ := b.track.Update(dt)
	if b.set != nil {
		b.set(v)
	}
}

func (b *boundTrack[T]) reset() { b.track.Reset() }

type timelineCallback struct {
	at    float32
	fn    func()
	order int
	fired bool
}

// Timeline advances bound tracks and fires one-shot callbacks as the
// playhead passes their times. Not safe for concurrent use.
type Timeline struct {
	tracks    []timelineTrack
	labels    map[string]float32
	callbacks []timelineCallback

	time    float32
	speed   float32
	playing bool
}

// NewTimeline creates an empty, playing timeline at speed 1.
func NewTimeline() *Timeline {
	return &Timeline{
		labels:  make(map[string]float32),
		speed:   1,
		playing: true,
	}
}

// Bind attaches a track to the timeline, calling set with the track's
// value on every update.
func Bind[T Value[T]](tl *Timeline, track Track[T], set func(T)) {
	tl.tracks = append(tl.tracks, &boundTrack[T]{track: track, set: set})
}

// AddLabel names a point in time. An existing label is overwritten.
func (tl *Timeline) AddLabel(name string, at float32) {
	tl.labels[name] = at
}

// LabelTime returns the time a label names.
func (tl *Timeline) LabelTime(name string) (float32, bool) {
	t, ok := tl.labels[name]
	return t, ok
}

// At registers a one-shot callback fired when the playhead steps past
// the given time. Callbacks due in the same update fire ordered by
// (time, registration order).
func (tl *Timeline) At(at float32, fn func()) {
	tl.callbacks = append(tl.callbacks, timelineCallback{
		at:    at,
		fn:    fn,
		order: len(tl.callbacks),
	})
}

// AtLabel registers a one-shot callback at a label's time. Unknown
// labels register at time zero.
func (tl *Timeline) AtLabel(name string, fn func()) {
	at, _ := tl.labels[name]
	tl.At(at, fn)
}

// Play resumes the timeline.
func (tl *Timeline) Play() { tl.playing = true }

// Pause stops the timeline; Update becomes a no-op.
func (tl *Timeline) Pause() { tl.playing = false }

// Playing reports whether the timeline advances on Update.
func (tl *Timeline) Playing() bool { return tl.playing }

// SetSpeed scales the rate time passes. Negative speeds are clamped
// to zero.
func (tl *Timeline) SetSpeed(s float32) {
	if s < 0 {
		s = 0
	}
	tl.speed = s
}

// Time returns the current playhead position.
func (tl *Timeline) Time() float32 { return tl.time }

// Update advances the timeline by dt scaled by the current speed.
func (tl *Timeline) Update(dt float32) {
	if !tl.playing || dt <= 0 {
		return
	}
	tl.advance(dt * tl.speed)
}

// advance moves the playhead, updates tracks and fires due callbacks.
func (tl *Timeline) advance(dt float32) {
	if dt <= 0 {
		return
	}
	prev := tl.time
	tl.time += dt

	for _, tr := range tl.tracks {
		tr.update(dt)
	}

	var due []*timelineCallback
	for i := range tl.callbacks {
		cb := &tl.callbacks[i]
		if cb.fired {
			continue
		}
		// A callback at exactly time zero fires on the first advance.
		if (cb.at > prev || (prev == 0 && cb.at == 0)) && cb.at <= tl.time {
			due = append(due, cb)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].order < due[j].order
	})
	for _, cb := range due {
		cb.fired = true
		cb.fn()
	}
}

// Seek rewinds and re-simulates the timeline to the target time at a
// fixed step, so track values and callback state match a real playback
// reaching that time. Callbacks before the target fire during the
// re-simulation.
func (tl *Timeline) Seek(target float32) {
	if target < 0 {
		target = 0
	}
	for _, tr := range tl.tracks {
		tr.reset()
	}
	for i := range tl.callbacks {
		tl.callbacks[i].fired = false
	}
	tl.time = 0

	for tl.time < target {
		step := seekStep
		if remaining := target - tl.time; remaining < step {
			step = remaining
		}
		tl.advance(step)
	}
}

// SeekLabel seeks to a label's time; unknown labels seek to zero.
func (tl *Timeline) SeekLabel(name string) {
	at, _ := tl.labels[name]
	tl.Seek(at)
}
