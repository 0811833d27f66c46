// Package core provides the value types shared by the highlighter
// subsystems: positions, ranges and decoration styles.
// This package breaks import cycles between host, highlight and decoration.
package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position is a zero-based line/character location in a document.
// Character counts Unicode code points from the start of the line.
type Position struct {
	Line      int
	Character int
}

// Before reports whether p sorts before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// String returns "line:character".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a half-open span [Start, End) between two positions.
type Range struct {
	Start Position
	End   Position
}

// Contains reports whether r fully contains other.
func (r Range) Contains(other Range) bool {
	return !other.Start.Before(r.Start) && !r.End.Before(other.End)
}

// IsEmpty reports whether the range spans no characters.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// String returns "start-end".
func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// OffsetRange is a half-open span of code point offsets.
type OffsetRange struct {
	Start int
	End   int
}

// Contains reports whether [start, end) lies inside the range.
func (r OffsetRange) Contains(start, end int) bool {
	return start >= r.Start && end <= r.End
}

// Len returns the number of code points in the range.
func (r OffsetRange) Len() int {
	return r.End - r.Start
}

// Style keys with special meaning.
const (
	StyleColor          = "color"
	StyleBackground     = "background"
	StyleTextDecoration = "textDecoration"
	StyleBefore         = "before"
	StyleAfter          = "after"
	StyleIsWholeLine    = "isWholeLine"
	StyleRangeBehavior  = "rangeBehavior"
	StyleFontWeight     = "fontWeight"
	StyleFontStyle      = "fontStyle"
)

// RangeBehaviorClosedClosed keeps a decoration growing with edits at both ends.
const RangeBehaviorClosedClosed = "closedClosed"

// Style is the set of decoration attributes handed to the host.
// Values are the decoded settings values (string, bool, float64, int,
// []any, map[string]any).
type Style map[string]any

// NewStyle returns the base style every decoration starts from.
func NewStyle(color string) Style {
	return Style{
		StyleColor:         color,
		StyleIsWholeLine:   false,
		StyleRangeBehavior: RangeBehaviorClosedClosed,
	}
}

// Clone returns a deep copy of the style.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

// With returns a copy of s with the given attributes laid over it.
func (s Style) With(attrs map[string]any) Style {
	out := s.Clone()
	if out == nil {
		out = make(Style, len(attrs))
	}
	for k, v := range attrs {
		out[k] = cloneValue(v)
	}
	return out
}

// Color returns the foreground color, if any.
func (s Style) Color() string {
	c, _ := s[StyleColor].(string)
	return c
}

// Background returns the background color, if any.
func (s Style) Background() string {
	c, _ := s[StyleBackground].(string)
	return c
}

// TextDecoration returns the text decoration string, if any.
func (s Style) TextDecoration() string {
	d, _ := s[StyleTextDecoration].(string)
	return d
}

// Attachment returns the before/after attachment options stored under key.
func (s Style) Attachment(key string) map[string]any {
	m, _ := s[key].(map[string]any)
	return m
}

// FoldBackground returns a copy of s whose background is expressed through
// textDecoration, since inline decorations have no background attribute.
// A style without background is returned unchanged.
func (s Style) FoldBackground() Style {
	bg := s.Background()
	if bg == "" {
		return s
	}
	out := s.Clone()
	deco := out.TextDecoration()
	if deco == "" {
		out[StyleTextDecoration] = "none; background:" + bg
		return out
	}
	if !strings.HasSuffix(deco, ";") {
		deco += ";"
	}
	out[StyleTextDecoration] = deco + " background:" + bg
	return out
}

// Key returns the canonical serialization of the style.
// Map keys are emitted in sorted order, so equal styles yield equal keys.
func (s Style) Key() string {
	data, err := json.Marshal(map[string]any(s))
	if err != nil {
		// Settings values always marshal; fall back to a stable rendering.
		return fmt.Sprintf("%v", map[string]any(s))
	}
	return string(data)
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case Style:
		return val.Clone()
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}
