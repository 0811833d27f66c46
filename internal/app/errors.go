package app

import (
	"errors"
	"fmt"
)

// Plugin errors.
var (
	// ErrNotActive indicates an operation on a plugin that is not active.
	ErrNotActive = errors.New("plugin not active")

	// ErrAlreadyActive indicates Activate was called twice.
	ErrAlreadyActive = errors.New("plugin already active")

	// ErrTemplatesUnsupported indicates a settings source that cannot
	// persist templates.
	ErrTemplatesUnsupported = errors.New("settings source cannot store templates")
)

// RecomputeError represents a failure during one step of a recompute.
type RecomputeError struct {
	Op     string // Step name (e.g., "reload", "apply", "extract")
	Target string // Target of the step (e.g., document URI, rule style)
	Err    error  // Underlying error
}

// NewRecomputeError creates a new RecomputeError.
func NewRecomputeError(op, target string, err error) *RecomputeError {
	return &RecomputeError{Op: op, Target: target, Err: err}
}

func (e *RecomputeError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RecomputeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for RecomputeError.
// Matches both the wrapper itself and the wrapped error.
func (e *RecomputeError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*RecomputeError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}
