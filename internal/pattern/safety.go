package pattern

import "regexp"

// maxCharClassBody is the longest character class body accepted.
const maxCharClassBody = 50

// hazard is a syntactic shape known to cause catastrophic backtracking.
type hazard struct {
	detect *regexp.Regexp
	reason string
}

// The detectors are fixed expressions over the pattern source, so they run
// on the linear-time standard engine.
var hazards = []hazard{
	{regexp.MustCompile(`\([^)]*\*\)[*+]`), "nested quantifier (x*)* or (x*)+"},
	{regexp.MustCompile(`\([^)]*\+\)[*+]`), "nested quantifier (x+)* or (x+)+"},
	{regexp.MustCompile(`\*\+`), "quantifier sequence *+"},
	{regexp.MustCompile(`\+\*`), "quantifier sequence +*"},
	{regexp.MustCompile(`\{\d{2,},?\d*\}\\?[*+]`), "large repetition followed by a quantifier"},
}

var charClass = regexp.MustCompile(`\[[^\]]*\]`)

// IsSafe reports whether source is free of the known catastrophic
// backtracking shapes.
func IsSafe(source string) bool {
	return Check(source) == ""
}

// Check returns the reason source is unsafe, or "" when it is safe.
func Check(source string) string {
	for _, h := range hazards {
		if h.detect.MatchString(source) {
			return h.reason
		}
	}
	for _, class := range charClass.FindAllString(source, -1) {
		// Body excludes the enclosing brackets.
		if len([]rune(class))-2 > maxCharClassBody {
			return "character class longer than 50 characters"
		}
	}
	return ""
}
