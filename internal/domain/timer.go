package domain

import "time"

// DefaultTimerName is used when the user does not name a timer.
const DefaultTimerName = "Cooking timer"

// Timer is a snapshot of one countdown tracked by the timer manager.
// Values are copies; mutate timers only through the manager.
type Timer struct {
	ID               string
	Name             string
	DurationSeconds  int
	RemainingSeconds int
	Running          bool
	Expired          bool
	CreatedAt        time.Time
}

// Remaining returns the time left as a duration.
func (t Timer) Remaining() time.Duration {
	return time.Duration(t.RemainingSeconds) * time.Second
}

// Duration returns the full countdown length.
func (t Timer) Duration() time.Duration {
	return time.Duration(t.DurationSeconds) * time.Second
}

// Status reports the timer's lifecycle state.
func (t Timer) Status() TimerStatus {
	switch {
	case t.Expired:
		return TimerExpired
	case t.Running:
		return TimerRunning
	default:
		return TimerPaused
	}
}

// TimerStatus represents the state of a timer.
type TimerStatus int

const (
	TimerRunning TimerStatus = iota
	TimerPaused
	TimerExpired
)

// String returns a human-readable timer status.
func (s TimerStatus) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	case TimerExpired:
		return "expired"
	default:
		return "unknown"
	}
}
