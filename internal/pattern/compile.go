package pattern

import (
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds a single match attempt inside the engine.
const DefaultMatchTimeout = time.Second

// Pattern is a compiled, safety-checked highlight pattern.
// A Pattern is immutable and safe for concurrent use.
type Pattern struct {
	source string
	flags  string
	global bool
	re     *regexp2.Regexp
}

// Compile compiles source with the given flags without consulting the
// safety guard. Callers executing user patterns should go through
// Compiler.Get instead.
func Compile(source, flags string) (*Pattern, error) {
	return compile(source, flags, DefaultMatchTimeout)
}

// MustCompile is like Compile but panics on error.
func MustCompile(source, flags string) *Pattern {
	p, err := Compile(source, flags)
	if err != nil {
		panic(err)
	}
	return p
}

func compile(source, flags string, timeout time.Duration) (*Pattern, error) {
	fs, err := parseFlags(flags)
	if err != nil {
		return nil, &InvalidPatternError{Source: source, Flags: flags, Err: err}
	}

	re, err := regexp2.Compile(source, fs.options)
	if err != nil {
		return nil, &InvalidPatternError{Source: source, Flags: flags, Err: err}
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}

	return &Pattern{
		source: source,
		flags:  flags,
		global: fs.global,
		re:     re,
	}, nil
}

// Source returns the pattern source.
func (p *Pattern) Source() string { return p.source }

// Flags returns the flag string the pattern was compiled with.
func (p *Pattern) Flags() string { return p.flags }

// Global reports whether the pattern carries the "g" flag.
func (p *Pattern) Global() bool { return p.global }

// String returns the pattern in /source/flags form.
func (p *Pattern) String() string {
	return "/" + p.source + "/" + p.flags
}

// Group is one capture group of a match.
// Defined is false when the group did not participate in the match.
type Group struct {
	Text    string
	Index   int
	Length  int
	Defined bool
}

// Match is one pattern match. Groups[0] is the whole match.
type Match struct {
	Index  int
	Length int
	Groups []Group
}

// Text returns the full matched text.
func (m Match) Text() string {
	if len(m.Groups) == 0 {
		return ""
	}
	return m.Groups[0].Text
}

// Group returns capture group i, or an undefined group when i is out of range.
func (m Match) Group(i int) Group {
	if i < 0 || i >= len(m.Groups) {
		return Group{}
	}
	return m.Groups[i]
}

// End returns the offset just past the match.
func (m Match) End() int {
	return m.Index + m.Length
}

func convertMatch(m *regexp2.Match) Match {
	groups := m.Groups()
	out := Match{
		Index:  m.Index,
		Length: m.Length,
		Groups: make([]Group, len(groups)),
	}
	for i := range groups {
		g := &groups[i]
		if len(g.Captures) == 0 {
			continue
		}
		out.Groups[i] = Group{
			Text:    g.String(),
			Index:   g.Index,
			Length:  g.Length,
			Defined: true,
		}
	}
	return out
}
