package loader

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the prefix of every environment variable hltext reads.
const EnvPrefix = "HLTEXT_"

// EnvLoader loads engine options from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix, e.g. "HLTEXT_"
	mapping map[string]string // Env var -> option path
	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

// defaultEnvMapping returns the explicit mappings for option names whose
// camelCase spelling cannot be derived from the variable name alone.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":          "logging.level",
		prefix + "DEBOUNCE":           "engine.debounce",
		prefix + "MAX_DOCUMENTS":      "engine.maxDocuments",
		prefix + "MAX_TEXT_LENGTH":    "engine.maxTextLength",
		prefix + "MAX_MATCHES":        "engine.maxMatches",
		prefix + "MATCH_TIMEOUT":      "engine.matchTimeout",
		prefix + "MAX_WALL_TIME":      "engine.maxWallTime",
		prefix + "PATTERN_CACHE_SIZE": "engine.patternCacheSize",
	}
}

// Load reads environment variables and returns an options map.
// Empty values are kept as empty strings rather than treated as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	out := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			SetByPath(out, path, parseEnvValue(val))
		}
	}

	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		SetByPath(out, l.envToPath(name), parseEnvValue(value))
	}

	return out, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, path string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = path
}

// envToPath converts HLTEXT_ENGINE_MAX_MATCHES to engine.maxMatches.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	name := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			name += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + name
}

// parseEnvValue converts a raw value to bool, int64, duration or string.
func parseEnvValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return s
}
