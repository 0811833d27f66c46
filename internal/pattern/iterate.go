package pattern

import "time"

// Matching limits.
const (
	// DefaultMaxMatches is the default number of matches FindAll returns.
	DefaultMaxMatches = 1000

	// HardMaxMatches caps MaxMatches regardless of configuration.
	HardMaxMatches = 10000

	// DefaultMaxWallTime is the default time budget of one FindAll.
	DefaultMaxWallTime = 5 * time.Second

	// DefaultMaxIterations is the default cap of ReplaceAll.
	DefaultMaxIterations = 1000

	// DefaultMaxTextLength is the largest text, in code points, that is matched at all.
	DefaultMaxTextLength = 500_000
)

// Limits bounds a FindAll call. Zero fields take their defaults.
type Limits struct {
	MaxMatches  int
	MaxWallTime time.Duration
}

// DefaultLimits returns the default matching limits.
func DefaultLimits() Limits {
	return Limits{
		MaxMatches:  DefaultMaxMatches,
		MaxWallTime: DefaultMaxWallTime,
	}
}

func (l Limits) normalized() Limits {
	if l.MaxMatches <= 0 {
		l.MaxMatches = DefaultMaxMatches
	}
	if l.MaxMatches > HardMaxMatches {
		l.MaxMatches = HardMaxMatches
	}
	if l.MaxWallTime <= 0 {
		l.MaxWallTime = DefaultMaxWallTime
	}
	return l
}

// FindAll returns successive non-overlapping matches of p in text.
//
// Each search resumes at the end of the previous match; an empty match
// moves the cursor one code point forward so the loop always terminates.
// When a limit stops the search, the matches found so far are returned
// together with a *LimitError. Callers treat that as a warning.
func FindAll(text []rune, p *Pattern, lim Limits) ([]Match, error) {
	lim = lim.normalized()
	deadline := time.Now().Add(lim.MaxWallTime)

	var out []Match
	pos := 0
	for pos <= len(text) {
		if time.Now().After(deadline) {
			return out, &LimitError{Source: p.source, Reason: LimitWallTime, Count: len(out)}
		}

		m, err := p.re.FindRunesMatchStartingAt(text, pos)
		if err != nil {
			return out, &LimitError{Source: p.source, Reason: LimitEngineTimeout, Count: len(out), Err: err}
		}
		if m == nil {
			break
		}
		if len(out) == lim.MaxMatches {
			return out, &LimitError{Source: p.source, Reason: LimitMatches, Count: len(out)}
		}
		out = append(out, convertMatch(m))

		pos = m.Index + m.Length
		if m.Length == 0 {
			pos++
		}
	}
	return out, nil
}

// Replacer computes the replacement text of a match.
type Replacer func(m Match) string

// ReplaceAll replaces matches of p in text with the output of replace.
// A pattern without the "g" flag replaces its first match only.
// Exceeding maxIterations replacements is an error: a truncated replace
// would shift every offset computed from its output.
func ReplaceAll(text []rune, p *Pattern, replace Replacer, maxIterations int) ([]rune, error) {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	out := make([]rune, 0, len(text))
	last := 0
	pos := 0
	iterations := 0
	for pos <= len(text) {
		m, err := p.re.FindRunesMatchStartingAt(text, pos)
		if err != nil {
			return nil, &LimitError{Source: p.source, Reason: LimitEngineTimeout, Count: iterations, Err: err}
		}
		if m == nil {
			break
		}

		iterations++
		if iterations > maxIterations {
			return nil, &IterationLimitError{Source: p.source, Limit: maxIterations}
		}

		out = append(out, text[last:m.Index]...)
		out = append(out, []rune(replace(convertMatch(m)))...)
		last = m.Index + m.Length

		if !p.global {
			break
		}
		pos = last
		if m.Length == 0 {
			pos++
		}
	}
	out = append(out, text[last:]...)
	return out, nil
}

// CheckSize returns a *DocumentTooLargeError when text exceeds max code
// points. A non-positive max uses DefaultMaxTextLength.
func CheckSize(text []rune, max int) error {
	if max <= 0 {
		max = DefaultMaxTextLength
	}
	if len(text) > max {
		return &DocumentTooLargeError{Length: len(text), Max: max}
	}
	return nil
}
