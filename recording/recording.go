// Package recording captures per-frame input for deterministic scene
// replay. A Recorder appends one FrameInput per rendered frame; a
// Player hands them back by frame index, so a recorded session drives
// the same draw calls on every run.
package recording

import (
	"encoding/json"
	"fmt"
	"os"
)

// FrameInput is the input state observed during one frame.
type FrameInput struct {
	// Frame is the zero-based frame index the input belongs to.
	Frame int `json:"frame"`

	CursorX float32 `json:"cursor_x"`
	CursorY float32 `json:"cursor_y"`

	// PressedKeys and ReleasedKeys are key names as the host reports
	// them; the engine stays input-agnostic.
	PressedKeys  []string `json:"pressed_keys,omitempty"`
	ReleasedKeys []string `json:"released_keys,omitempty"`

	PressedButtons  []int `json:"pressed_buttons,omitempty"`
	ReleasedButtons []int `json:"released_buttons,omitempty"`
}

// Recorder accumulates frame inputs in memory.
type Recorder struct {
	frames []FrameInput
}

// Record appends one frame's input. The frame index is assigned from
// the append order.
func (r *Recorder) Record(in FrameInput) {
	in.Frame = len(r.frames)
	r.frames = append(r.frames, in)
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int { return len(r.frames) }

// Frames returns the recorded inputs in frame order.
func (r *Recorder) Frames() []FrameInput { return r.frames }

// SaveJSON writes the recording to path.
func (r *Recorder) SaveJSON(path string) error {
	data, err := json.MarshalIndent(r.frames, "", "  ")
	if err != nil {
		return fmt.Errorf("recording: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("recording: %w", err)
	}
	return nil
}

// Player replays a recording by frame index.
type Player struct {
	frames []FrameInput
	next   int
}

// LoadJSON reads a recording from path.
func LoadJSON(path string) (*Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	var frames []FrameInput
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("recording: unmarshal %s: %w", path, err)
	}
	return &Player{frames: frames}, nil
}

// NewPlayer replays an in-memory recording.
func NewPlayer(frames []FrameInput) *Player {
	return &Player{frames: frames}
}

// Len returns the total number of frames in the recording.
func (p *Player) Len() int { return len(p.frames) }

// Next returns the next frame's input in order, and false when the
// recording is exhausted.
func (p *Player) Next() (FrameInput, bool) {
	if p.next >= len(p.frames) {
		return FrameInput{}, false
	}
	in := p.frames[p.next]
	p.next++
	return in, true
}

// At returns the input recorded for a specific frame index.
func (p *Player) At(frame int) (FrameInput, bool) {
	if frame < 0 || frame >= len(p.frames) {
		return FrameInput{}, false
	}
	return p.frames[frame], true
}

// Rewind restarts playback from the first frame.
func (p *Player) Rewind() { p.next = 0 }
