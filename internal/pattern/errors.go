package pattern

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrInvalidPattern indicates a source or flag string that does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrUnsafePattern indicates a pattern rejected by the safety guard.
	ErrUnsafePattern = errors.New("unsafe pattern")

	// ErrLimitExceeded indicates that matching stopped early.
	// Results returned alongside it are partial but valid.
	ErrLimitExceeded = errors.New("match limit exceeded")

	// ErrIterationLimit indicates a replace that did not finish within its cap.
	ErrIterationLimit = errors.New("iteration limit exceeded")

	// ErrDocumentTooLarge indicates text beyond the configured size ceiling.
	ErrDocumentTooLarge = errors.New("document too large")
)

// InvalidPatternError reports a pattern that failed to compile.
type InvalidPatternError struct {
	Source string
	Flags  string
	Err    error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern /%s/%s: %v", e.Source, e.Flags, e.Err)
}

func (e *InvalidPatternError) Unwrap() []error {
	return []error{ErrInvalidPattern, e.Err}
}

// UnsafePatternError reports a pattern rejected before execution.
type UnsafePatternError struct {
	Source string
	Reason string
}

func (e *UnsafePatternError) Error() string {
	return fmt.Sprintf("unsafe pattern /%s/ skipped: %s", e.Source, e.Reason)
}

func (e *UnsafePatternError) Unwrap() error {
	return ErrUnsafePattern
}

// LimitReason names the bound that stopped a FindAll.
type LimitReason int

const (
	// LimitMatches means the match cap was reached.
	LimitMatches LimitReason = iota
	// LimitWallTime means the wall-clock budget was spent.
	LimitWallTime
	// LimitEngineTimeout means a single match attempt timed out.
	LimitEngineTimeout
)

// String returns the reason name.
func (r LimitReason) String() string {
	switch r {
	case LimitMatches:
		return "matches"
	case LimitWallTime:
		return "wall time"
	case LimitEngineTimeout:
		return "engine timeout"
	default:
		return "unknown"
	}
}

// LimitError reports a FindAll that returned partial results.
// Err carries the engine error for LimitEngineTimeout; it is not part of
// the message because the engine quotes the whole input.
type LimitError struct {
	Source string
	Reason LimitReason
	Count  int
	Err    error
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("matching /%s/ stopped after %d results: %s limit", e.Source, e.Count, e.Reason)
}

func (e *LimitError) Unwrap() error {
	return ErrLimitExceeded
}

// IterationLimitError reports a ReplaceAll that exceeded its cap.
type IterationLimitError struct {
	Source string
	Limit  int
}

func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("replacing /%s/ did not finish within %d iterations", e.Source, e.Limit)
}

func (e *IterationLimitError) Unwrap() error {
	return ErrIterationLimit
}

// DocumentTooLargeError reports text beyond the size ceiling.
type DocumentTooLargeError struct {
	Length int
	Max    int
}

func (e *DocumentTooLargeError) Error() string {
	return fmt.Sprintf("document has %d characters, limit is %d; highlighting skipped", e.Length, e.Max)
}

func (e *DocumentTooLargeError) Unwrap() error {
	return ErrDocumentTooLarge
}
