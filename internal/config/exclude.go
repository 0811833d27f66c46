package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ExcludeFilter matches document paths against the exclude globs of the
// settings. Patterns without a leading "/" or "**" match at any depth.
type ExcludeFilter struct {
	globs []glob.Glob
}

// NewExcludeFilter compiles the given glob patterns.
func NewExcludeFilter(patterns []string) (*ExcludeFilter, error) {
	f := &ExcludeFilter{globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "**") {
			p = "**/" + strings.TrimPrefix(p, "./")
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Excluded reports whether path matches any exclude glob.
func (f *ExcludeFilter) Excluded(path string) bool {
	if f == nil || path == "" {
		return false
	}
	path = filepath.ToSlash(path)
	for _, g := range f.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled globs.
func (f *ExcludeFilter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.globs)
}
