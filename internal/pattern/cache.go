package pattern

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of compiled patterns kept by a Compiler.
const DefaultCacheSize = 256

// cacheKey identifies a compiled pattern.
type cacheKey struct {
	source string
	flags  string
}

// cacheEntry holds either a compiled pattern or the error compiling it.
type cacheEntry struct {
	pattern *Pattern
	err     error
}

// Compiler compiles, safety-checks and caches patterns.
// It is safe for concurrent use.
type Compiler struct {
	cache   *lru.Cache[cacheKey, cacheEntry]
	timeout time.Duration
}

// CompilerOption configures a Compiler.
type CompilerOption func(*compilerConfig)

type compilerConfig struct {
	size    int
	timeout time.Duration
}

// WithCacheSize sets the number of cached patterns.
func WithCacheSize(n int) CompilerOption {
	return func(c *compilerConfig) {
		if n > 0 {
			c.size = n
		}
	}
}

// WithMatchTimeout sets the per-attempt engine timeout of compiled patterns.
func WithMatchTimeout(d time.Duration) CompilerOption {
	return func(c *compilerConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...CompilerOption) *Compiler {
	cfg := compilerConfig{
		size:    DefaultCacheSize,
		timeout: DefaultMatchTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// lru.New only fails for non-positive sizes, which the options exclude.
	cache, _ := lru.New[cacheKey, cacheEntry](cfg.size)
	return &Compiler{
		cache:   cache,
		timeout: cfg.timeout,
	}
}

// Get returns the compiled pattern for (source, flags).
// Unsafe sources yield an *UnsafePatternError and are never compiled;
// malformed ones yield an *InvalidPatternError. Both outcomes are cached
// like successes, so a bad rule costs one check per cache lifetime.
func (c *Compiler) Get(source, flags string) (*Pattern, error) {
	key := cacheKey{source: source, flags: flags}
	if entry, ok := c.cache.Get(key); ok {
		return entry.pattern, entry.err
	}

	var entry cacheEntry
	if reason := Check(source); reason != "" {
		entry.err = &UnsafePatternError{Source: source, Reason: reason}
	} else {
		entry.pattern, entry.err = compile(source, flags, c.timeout)
	}

	c.cache.Add(key, entry)
	return entry.pattern, entry.err
}

// Len returns the number of cached entries.
func (c *Compiler) Len() int {
	return c.cache.Len()
}

// Purge drops every cached pattern.
func (c *Compiler) Purge() {
	c.cache.Purge()
}
