package domain

import "time"

// Session is one cook working through one recipe. StepIndex is 0-based;
// -1 means the recipe has been introduced but no step read yet.
type Session struct {
	ID         string
	RecipeID   string
	RecipeName string
	StepIndex  int
	Status     SessionStatus
	StartedAt  time.Time
	UpdatedAt  time.Time
}

// SessionStatus tracks the lifecycle of a cooking session.
type SessionStatus int

const (
	SessionActive SessionStatus = iota
	SessionCompleted
	SessionAbandoned
)

// String returns a human-readable session status.
func (s SessionStatus) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionCompleted:
		return "completed"
	case SessionAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}
