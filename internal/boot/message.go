// Package boot sequences timed status messages through decode animations.
//
// An Engine activates the messages of a queue strictly in order, gating each
// activation on the previous message's reveal, and signals completion once
// after a settle delay. The Engine runs on a logical clock advanced by its
// host; Runner provides a wall-clock driver.
package boot

import (
	"fmt"
	"time"
)

// Level classifies a boot message for presentation.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSystem  Level = "system"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelInfo, LevelSuccess, LevelWarning, LevelError, LevelSystem:
		return true
	}
	return false
}

// BootMessage is one entry of a boot queue.
type BootMessage struct {
	// Timestamp is a display label only; it plays no part in scheduling.
	Timestamp string
	Level     Level
	// Source is the subsystem tag shown next to the message.
	Source string
	Text   string
	// Delay is the earliest activation time, measured from sequence start.
	Delay time.Duration
}

func (m BootMessage) String() string {
	return fmt.Sprintf("[%s] %s: %s", m.Timestamp, m.Source, m.Text)
}
