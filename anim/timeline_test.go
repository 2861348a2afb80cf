package anim

import "testing"

func TestTimelineDrivesSetter(t *testing.T) {
	tl := NewTimeline()
	var got Float
	Bind[Float](tl, NewSequence(NewTween(Float(0), Float(10), 1, Linear)), func(v Float) {
		got = v
	})

	tl.Update(0.5)
	if !approxEq(float32(got), 5, 1e-4) {
		t.Errorf("value at 0.5 = %v, want 5", got)
	}
	tl.Update(0.5)
	if got != 10 {
		t.Errorf("value at 1.0 = %v, want 10", got)
	}
}

func TestTimelineCallbackOrder(t *testing.T) {
	tl := NewTimeline()
	var order []string
	tl.At(0.6, func() { order = append(order, "later") })
	tl.At(0.2, func() { order = append(order, "early") })
	tl.At(0.2, func() { order = append(order, "early2") })

	// One large step passes all three; they fire by (time, insertion).
	tl.Update(1)
	want := []string{"early", "early2", "later"}
	if len(order) != len(want) {
		t.Fatalf("fired %d callbacks, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestTimelineCallbackFiresOnce(t *testing.T) {
	tl := NewTimeline()
	count := 0
	tl.At(0.5, func() { count++ })

	tl.Update(1)
	tl.Update(1)
	if count != 1 {
		t.Errorf("callback fired %d times, want 1", count)
	}
}

func TestTimelinePauseAndSpeed(t *testing.T) {
	tl := NewTimeline()
	tl.Pause()
	tl.Update(1)
	if tl.Time() != 0 {
		t.Errorf("time advanced while paused: %v", tl.Time())
	}

	tl.Play()
	tl.SetSpeed(2)
	tl.Update(0.5)
	if !approxEq(tl.Time(), 1, 1e-5) {
		t.Errorf("time at 2x speed = %v, want 1", tl.Time())
	}
}

func TestTimelineSeekResimulates(t *testing.T) {
	tl := NewTimeline()
	var got Float
	Bind[Float](tl, NewSequence(NewTween(Float(0), Float(10), 1, Linear)), func(v Float) {
		got = v
	})
	fired := 0
	tl.At(0.25, func() { fired++ })

	// Play past everything, then seek back to the middle.
	tl.Update(2)
	tl.Seek(0.5)

	if !approxEq(tl.Time(), 0.5, 1e-4) {
		t.Errorf("time after seek = %v, want 0.5", tl.Time())
	}
	if !approxEq(float32(got), 5, 0.1) {
		t.Errorf("value after seek = %v, want about 5", got)
	}
	// The callback fired once during play and once during the seek's
	// re-simulation.
	if fired != 2 {
		t.Errorf("callback count = %d, want 2", fired)
	}
}

func TestTimelineSeekSkipsLaterCallbacks(t *testing.T) {
	tl := NewTimeline()
	early, late := 0, 0
	tl.At(0.1, func() { early++ })
	tl.At(0.9, func() { late++ })

	tl.Seek(0.5)
	if early != 1 {
		t.Errorf("early callback = %d, want 1", early)
	}
	if late != 0 {
		t.Errorf("late callback = %d, want 0", late)
	}

	// Resuming playback past 0.9 fires the late callback.
	tl.Update(1)
	if late != 1 {
		t.Errorf("late callback after resume = %d, want 1", late)
	}
}

func TestTimelineLabels(t *testing.T) {
	tl := NewTimeline()
	tl.AddLabel("intro", 0.25)

	at, ok := tl.LabelTime("intro")
	if !ok || at != 0.25 {
		t.Errorf("LabelTime = (%v, %v), want (0.25, true)", at, ok)
	}

	tl.SeekLabel("intro")
	if !approxEq(tl.Time(), 0.25, 1e-4) {
		t.Errorf("time after SeekLabel = %v, want 0.25", tl.Time())
	}

	if _, ok := tl.LabelTime("missing"); ok {
		t.Error("LabelTime found a missing label")
	}
}
