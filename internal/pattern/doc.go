// Package pattern compiles user-supplied highlight patterns and runs them
// under hard limits.
//
// Patterns come from settings and are untrusted: every source passes a
// syntactic safety check before it is compiled, compiled patterns are
// cached by (source, flags), and matching goes through FindAll and
// ReplaceAll, which bound iterations, match volume and wall time so a
// pathological expression cannot stall the editor.
//
// Patterns use ECMAScript syntax (github.com/dlclark/regexp2), the dialect
// users write in editor settings. All offsets are code point (rune)
// offsets.
package pattern
