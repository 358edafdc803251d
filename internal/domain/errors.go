package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound       = errors.New("not found")
	ErrNoRecipe       = errors.New("no recipe selected")
	ErrNoMoreSteps    = errors.New("no more steps in recipe")
	ErrTooManyTimers  = errors.New("too many timers")
	ErrAIDisabled     = errors.New("ai dialogue disabled")
	ErrNotImplemented = errors.New("not implemented")
)
