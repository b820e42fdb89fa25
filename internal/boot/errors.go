package boot

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQueue is returned by Start for a queue with no messages.
	ErrEmptyQueue = errors.New("boot queue is empty")
	// ErrMissingText is returned by Start when a message has no text.
	ErrMissingText = errors.New("boot message has no text")
	// ErrAlreadyStarted is returned by a second Start on the same Engine.
	ErrAlreadyStarted = errors.New("engine already started")
	// ErrDisposed is returned by Start on a disposed Engine.
	ErrDisposed = errors.New("engine disposed")
)

// CallbackPanicError describes a host callback that panicked. The schedule
// continues past it.
type CallbackPanicError struct {
	Callback string
	Value    any
}

func (e *CallbackPanicError) Error() string {
	return fmt.Sprintf("%s callback panicked: %v", e.Callback, e.Value)
}

// checkQueue validates a queue before it is accepted by Start.
func checkQueue(queue []BootMessage) error {
	if len(queue) == 0 {
		return ErrEmptyQueue
	}
	for i, m := range queue {
		if m.Text == "" {
			return fmt.Errorf("message %d (%s): %w", i, m.Source, ErrMissingText)
		}
	}
	return nil
}
