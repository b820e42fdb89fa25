package boot

import (
	"time"

	"bootseq/internal/palette"
)

// Phase is the Engine's scheduling state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWaiting
	PhaseDecoding
	PhaseSettling
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWaiting:
		return "waiting"
	case PhaseDecoding:
		return "decoding"
	case PhaseSettling:
		return "settling"
	case PhaseComplete:
		return "complete"
	}
	return "unknown"
}

// Progress tracks position in the queue. Percent is (CurrentIndex+1)/Total*100
// and moves at activation time, ahead of the visible reveal.
type Progress struct {
	CurrentIndex int
	Total        int
	Percent      float64
}

// Stats counts what an Engine has done.
type Stats struct {
	Activations      int
	Revealed         int
	Frames           int
	CallbackFailures int
}

// Snapshot is a read-only view of the Engine for presentation.
type Snapshot struct {
	RenderedFrame       string
	IsActive            bool
	MorphChar           rune
	MorphIntensity      float64
	DecodeProgress      float64
	OverallProgress     float64
	CurrentMessageIndex int
	Total               int
	// Message is the current message, nil before the first activation.
	Message  *BootMessage
	Palette  palette.ID
	Phase    Phase
	Disposed bool
	Elapsed  time.Duration
}

// Snapshot returns the current presentation state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		RenderedFrame:       e.frame.Text,
		IsActive:            e.anim != nil && !e.disposed,
		MorphChar:           e.frame.MorphChar,
		MorphIntensity:      e.frame.Intensity,
		DecodeProgress:      e.frame.Progress,
		OverallProgress:     e.progress.Percent,
		CurrentMessageIndex: e.current,
		Total:               len(e.queue),
		Phase:               e.phase,
		Disposed:            e.disposed,
		Elapsed:             e.now,
	}
	if e.current >= 0 {
		msg := e.queue[e.current]
		s.Message = &msg
		s.Palette = e.palette.ID
	}
	return s
}

// Progress returns the queue position.
func (e *Engine) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress
}

// Stats returns activity counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}
