package pattern

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// DefaultFlags are applied to sources declared without explicit flags.
const DefaultFlags = "gm"

// flagSet is the decoded form of a flag string.
type flagSet struct {
	options regexp2.RegexOptions
	global  bool
}

// parseFlags decodes ECMAScript flag letters.
// "g" marks the pattern global and "y" is accepted for compatibility; the
// iteration primitives always advance their own cursor.
func parseFlags(flags string) (flagSet, error) {
	fs := flagSet{options: regexp2.ECMAScript}
	seen := make(map[rune]bool, len(flags))
	for _, f := range flags {
		if seen[f] {
			return flagSet{}, fmt.Errorf("duplicate flag %q", f)
		}
		seen[f] = true

		switch f {
		case 'g':
			fs.global = true
		case 'i':
			fs.options |= regexp2.IgnoreCase
		case 'm':
			fs.options |= regexp2.Multiline
		case 's':
			fs.options |= regexp2.Singleline
		case 'u':
			fs.options |= regexp2.Unicode
		case 'y':
		default:
			return flagSet{}, fmt.Errorf("unknown flag %q", f)
		}
	}
	return fs, nil
}
