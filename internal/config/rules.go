package config

import (
	"github.com/dshills/hltext/internal/core"
	"github.com/dshills/hltext/internal/pattern"
)

// Mode is the theme mode a rule set applies to.
type Mode string

// Theme modes.
const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// RuleKind distinguishes the two rule shapes accepted in settings.
type RuleKind int

const (
	// Bare rules are a plain pattern list styled with the rule's color.
	Bare RuleKind = iota
	// Extended rules carry a match list plus style options.
	Extended
)

// String returns the kind name.
func (k RuleKind) String() string {
	switch k {
	case Bare:
		return "bare"
	case Extended:
		return "extended"
	default:
		return "unknown"
	}
}

// Control keys of an extended rule; every other key is a style attribute.
const (
	keyMatch     = "match"
	keyColors    = "colors"
	keyMatchCSS  = "matchCss"
	keyIgnoreReg = "ignoreReg"
)

// PatternSource is one pattern as declared in settings.
type PatternSource struct {
	Source string
	Flags  string
}

// String returns the source in /source/flags form.
func (p PatternSource) String() string {
	return "/" + p.Source + "/" + p.Flags
}

// Rule is a resolved style rule.
//
// A rule is either Bare (a pattern list styled with the rule's color) or
// Extended (a match list plus style options and fan-out settings). The
// shape is decided once when settings are parsed.
type Rule struct {
	// Style is the rule key, normally a color.
	Style string
	Kind  RuleKind

	Patterns []PatternSource

	// Attrs holds the style attributes of an extended rule
	// (before, after, background, ...). Nil for bare rules.
	Attrs map[string]any

	// Colors assigns a color per capture group. Entries that were empty or
	// not strings are kept as "" and skipped during fan-out.
	Colors []string

	// MatchCSS assigns a style per capture group. A nil entry ends the
	// fan-out.
	MatchCSS []map[string]any

	// Ignore lists patterns blanked out of the text before matching.
	Ignore []PatternSource

	// Err is set when the rule cannot be used; such rules are reported
	// and skipped.
	Err error
}

// BaseStyle returns the style decorations of this rule start from.
func (r *Rule) BaseStyle() core.Style {
	return core.NewStyle(r.Style).With(r.Attrs)
}

// FanOut reports whether the rule styles capture groups individually.
func (r *Rule) FanOut() bool {
	return r.MatchCSS != nil || r.Colors != nil
}

// RuleSet is the ordered list of rules of one theme mode.
type RuleSet []Rule

// LanguageRules groups the rule sets declared under one language key.
// Key may be a "|"-joined alias set such as "react|javascriptreact".
type LanguageRules struct {
	Key   string
	Light RuleSet
	Dark  RuleSet
}

// ForMode returns the rule set of the given mode.
func (l *LanguageRules) ForMode(mode Mode) RuleSet {
	if mode == Dark {
		return l.Dark
	}
	return l.Light
}

// Configuration is the parsed rule configuration in declaration order.
type Configuration struct {
	Languages []LanguageRules
}

// Settings is everything read from the settings store.
type Settings struct {
	Rules   Configuration
	Exclude []string
}

func newPatternSource(source, flags string) PatternSource {
	if flags == "" {
		flags = pattern.DefaultFlags
	}
	return PatternSource{Source: source, Flags: flags}
}
