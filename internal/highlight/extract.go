package highlight

import (
	"errors"
	"strings"

	"github.com/dshills/hltext/internal/config"
	"github.com/dshills/hltext/internal/core"
	"github.com/dshills/hltext/internal/logging"
	"github.com/dshills/hltext/internal/pattern"
)

// Candidate is one decoration the extractor wants on screen.
// Start and End are absolute code point offsets into the document.
type Candidate struct {
	Text  string
	Start int
	End   int
	Style core.Style
}

// Result is the output of extracting one rule.
type Result struct {
	Candidates []Candidate
	// Warnings holds non-fatal problems such as truncated match lists.
	Warnings []error
}

// Extractor produces candidates for rules.
type Extractor struct {
	compiler      *pattern.Compiler
	limits        pattern.Limits
	maxIterations int
	log           *logging.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLimits sets the bounds applied to every FindAll.
func WithLimits(l pattern.Limits) Option {
	return func(e *Extractor) {
		e.limits = l
	}
}

// WithMaxIterations sets the replacement cap of the ignore mask.
func WithMaxIterations(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.log = l.WithComponent("extractor")
		}
	}
}

// New creates an extractor compiling patterns through compiler.
func New(compiler *pattern.Compiler, opts ...Option) *Extractor {
	e := &Extractor{
		compiler:      compiler,
		limits:        pattern.DefaultLimits(),
		maxIterations: pattern.DefaultMaxIterations,
		log:           logging.Null(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the candidates of rule over text. base is the document
// offset of text[0] and is added to every candidate offset.
//
// An error means the rule could not run at all (invalid or unsafe pattern,
// shape error, ignore mask that did not converge) and no candidates are
// returned. Truncated match lists are reported as warnings instead.
func (e *Extractor) Extract(rule *config.Rule, text []rune, base int) (Result, error) {
	if rule.Err != nil {
		return Result{}, rule.Err
	}

	patterns, err := e.compileAll(rule.Patterns)
	if err != nil {
		return Result{}, err
	}
	ignores, err := e.compileAll(rule.Ignore)
	if err != nil {
		return Result{}, err
	}

	masked := text
	for _, ig := range ignores {
		masked, err = pattern.ReplaceAll(masked, ig, blank, e.maxIterations)
		if err != nil {
			return Result{}, err
		}
	}

	var res Result
	style := rule.BaseStyle()
	for _, p := range patterns {
		matches, err := pattern.FindAll(masked, p, e.limits)
		if err != nil {
			if !errors.Is(err, pattern.ErrLimitExceeded) {
				return Result{}, err
			}
			e.log.Warn("%v", err)
			res.Warnings = append(res.Warnings, err)
		}

		for _, m := range matches {
			for _, t := range selectTargets(rule, m, style) {
				start, end := locate(m, t.group)
				res.Candidates = append(res.Candidates, Candidate{
					Text:  string(text[start:end]),
					Start: base + start,
					End:   base + end,
					Style: t.style.FoldBackground(),
				})
			}
		}
	}
	return res, nil
}

func (e *Extractor) compileAll(sources []config.PatternSource) ([]*pattern.Pattern, error) {
	out := make([]*pattern.Pattern, 0, len(sources))
	for _, src := range sources {
		p, err := e.compiler.Get(src.Source, src.Flags)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// blank replaces a match with spaces of the same length.
func blank(m pattern.Match) string {
	return strings.Repeat(" ", m.Length)
}

// target is a capture group chosen for decoration.
type target struct {
	group int
	style core.Style
}

// selectTargets decides which groups of m are decorated.
func selectTargets(rule *config.Rule, m pattern.Match, base core.Style) []target {
	var out []target

	switch {
	case rule.MatchCSS != nil:
		for i, css := range rule.MatchCSS {
			if css == nil {
				break
			}
			g := m.Group(i + 1)
			if !g.Defined && !m.Group(i+2).Defined {
				break
			}
			if g.Text == "" {
				continue
			}
			out = append(out, target{group: i + 1, style: core.NewStyle(rule.Style).With(css)})
		}

	case rule.Colors != nil:
		for i, color := range rule.Colors {
			if color == "" {
				continue
			}
			g := m.Group(i + 1)
			if !g.Defined && !m.Group(i+2).Defined {
				break
			}
			if g.Text == "" {
				continue
			}
			out = append(out, target{group: i + 1, style: core.NewStyle(color)})
		}

	default:
		group := 0
		if len(m.Groups) > 1 {
			group = -1
			for i := 1; i < len(m.Groups); i++ {
				if m.Groups[i].Defined {
					group = i
					break
				}
			}
			if group < 0 {
				return nil
			}
		}
		if m.Group(group).Text == "" {
			return nil
		}
		out = append(out, target{group: group, style: base})
	}
	return out
}

// locate returns the offsets of group idx of m. Offsets come from the
// engine's capture positions, so text repeated elsewhere in the match, in
// another group or not, never misplaces the target.
func locate(m pattern.Match, idx int) (start, end int) {
	g := m.Group(idx)
	return g.Index, g.Index + g.Length
}
