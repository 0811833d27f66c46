package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dshills/hltext/internal/config/loader"
	"github.com/dshills/hltext/internal/pattern"
)

// Engine option defaults.
const (
	DefaultLogLevel         = "info"
	DefaultDebounce         = 50 * time.Millisecond
	DefaultMaxDocuments     = 1
	DefaultPatternCacheSize = 256
)

// Options holds engine tuning read from defaults, hltext.toml and the
// environment.
type Options struct {
	LogLevel         string
	Debounce         time.Duration
	MaxDocuments     int
	MaxTextLength    int
	MaxMatches       int
	MatchTimeout     time.Duration
	MaxWallTime      time.Duration
	PatternCacheSize int
}

// DefaultOptions returns the built-in option values.
func DefaultOptions() Options {
	return Options{
		LogLevel:         DefaultLogLevel,
		Debounce:         DefaultDebounce,
		MaxDocuments:     DefaultMaxDocuments,
		MaxTextLength:    pattern.DefaultMaxTextLength,
		MaxMatches:       pattern.DefaultMaxMatches,
		MatchTimeout:     pattern.DefaultMatchTimeout,
		MaxWallTime:      pattern.DefaultMaxWallTime,
		PatternCacheSize: DefaultPatternCacheSize,
	}
}

// Limits returns the iteration limits described by the options.
func (o Options) Limits() pattern.Limits {
	return pattern.Limits{MaxMatches: o.MaxMatches, MaxWallTime: o.MaxWallTime}
}

// defaultOptionsMap is the lowest layer of the option merge.
func defaultOptionsMap() map[string]any {
	d := DefaultOptions()
	return map[string]any{
		"logging": map[string]any{"level": d.LogLevel},
		"engine": map[string]any{
			"debounce":         d.Debounce,
			"maxDocuments":     int64(d.MaxDocuments),
			"maxTextLength":    int64(d.MaxTextLength),
			"maxMatches":       int64(d.MaxMatches),
			"matchTimeout":     d.MatchTimeout,
			"maxWallTime":      d.MaxWallTime,
			"patternCacheSize": int64(d.PatternCacheSize),
		},
	}
}

// LoadOptions layers built-in defaults, the TOML file at path (skipped when
// empty or missing) and HLTEXT_ environment variables, later layers winning.
func LoadOptions(path string) (Options, error) {
	return loadOptions(loader.NewTOMLLoader(path), loader.NewEnvLoader(loader.EnvPrefix))
}

func loadOptions(layers ...loader.Loader) (Options, error) {
	merged := defaultOptionsMap()
	for _, l := range layers {
		m, err := l.Load()
		if err != nil {
			return Options{}, err
		}
		merged = loader.DeepMerge(merged, m)
	}
	return OptionsFromMap(merged)
}

// OptionsFromMap reads typed options from a merged option map. Keys absent
// from m keep their defaults.
func OptionsFromMap(m map[string]any) (Options, error) {
	o := DefaultOptions()
	var err error

	if v, ok := loader.GetByPath(m, "logging.level"); ok {
		s, ok := v.(string)
		if !ok {
			return Options{}, optionTypeError("logging.level", "string", v)
		}
		o.LogLevel = s
	}

	durations := []struct {
		path string
		dst  *time.Duration
	}{
		{"engine.debounce", &o.Debounce},
		{"engine.matchTimeout", &o.MatchTimeout},
		{"engine.maxWallTime", &o.MaxWallTime},
	}
	for _, d := range durations {
		if v, ok := loader.GetByPath(m, d.path); ok {
			if *d.dst, err = toDuration(d.path, v); err != nil {
				return Options{}, err
			}
		}
	}

	ints := []struct {
		path string
		dst  *int
	}{
		{"engine.maxDocuments", &o.MaxDocuments},
		{"engine.maxTextLength", &o.MaxTextLength},
		{"engine.maxMatches", &o.MaxMatches},
		{"engine.patternCacheSize", &o.PatternCacheSize},
	}
	for _, i := range ints {
		if v, ok := loader.GetByPath(m, i.path); ok {
			if *i.dst, err = toInt(i.path, v); err != nil {
				return Options{}, err
			}
		}
	}

	return o, o.Validate()
}

// Validate checks option ranges.
func (o Options) Validate() error {
	switch {
	case o.Debounce < 0:
		return fmt.Errorf("engine.debounce: must not be negative")
	case o.MaxDocuments < 1:
		return fmt.Errorf("engine.maxDocuments: must be at least 1")
	case o.MaxTextLength < 1:
		return fmt.Errorf("engine.maxTextLength: must be at least 1")
	case o.MaxMatches < 1 || o.MaxMatches > pattern.HardMaxMatches:
		return fmt.Errorf("engine.maxMatches: must be between 1 and %d", pattern.HardMaxMatches)
	case o.MatchTimeout <= 0:
		return fmt.Errorf("engine.matchTimeout: must be positive")
	case o.MaxWallTime <= 0:
		return fmt.Errorf("engine.maxWallTime: must be positive")
	case o.PatternCacheSize < 1:
		return fmt.Errorf("engine.patternCacheSize: must be at least 1")
	}
	return nil
}

func toDuration(path string, v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		return parsed, nil
	case int64:
		return time.Duration(d) * time.Millisecond, nil
	default:
		return 0, optionTypeError(path, "duration", v)
	}
}

func toInt(path string, v any) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		return int(n), nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		return parsed, nil
	default:
		return 0, optionTypeError(path, "integer", v)
	}
}

func optionTypeError(path, want string, got any) error {
	return fmt.Errorf("%s: expected %s, got %T", path, want, got)
}
