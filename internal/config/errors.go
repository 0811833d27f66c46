package config

import (
	"errors"
	"fmt"

	"github.com/dshills/hltext/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrConfigShape indicates a rule whose structure does not match the schema.
	ErrConfigShape = errors.New("invalid rule shape")

	// ErrUnknownTemplate indicates a preset name that does not exist.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrUnsupportedFormat indicates a settings file extension with no codec.
	ErrUnsupportedFormat = errors.New("unsupported settings format")
)

// ParseError represents an error while parsing a settings or options file.
type ParseError = loader.ParseError

// ConfigShapeError describes a rule that cannot be used as configured.
type ConfigShapeError struct {
	// Language is the language key the rule was declared under.
	Language string
	// Mode is the theme mode ("light" or "dark").
	Mode Mode
	// Style is the style key of the rule.
	Style string
	// Field names the offending field (e.g. "colors", "matchCss", "match").
	Field string
	// Message describes what is wrong.
	Message string
}

// Error implements the error interface.
func (e *ConfigShapeError) Error() string {
	loc := e.Style
	if e.Language != "" {
		loc = fmt.Sprintf("%s.%s.%s", e.Language, e.Mode, e.Style)
	}
	if e.Field != "" {
		return fmt.Sprintf("rule %q: %s %s", loc, e.Field, e.Message)
	}
	return fmt.Sprintf("rule %q: %s", loc, e.Message)
}

// Unwrap returns ErrConfigShape.
func (e *ConfigShapeError) Unwrap() error {
	return ErrConfigShape
}
