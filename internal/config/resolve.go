package config

import "strings"

// AliasMatch reports whether two language keys refer to the same language:
// they are equal or their "|"-separated alias sets share a member.
func AliasMatch(a, b string) bool {
	if a == b {
		return true
	}
	aliases := strings.Split(b, "|")
	for _, x := range strings.Split(a, "|") {
		for _, y := range aliases {
			if x == y {
				return true
			}
		}
	}
	return false
}

// Resolve returns the rule sets that apply to languageID in the given
// mode. Keys are matched with AliasMatch and returned in reverse
// declaration order, so the last declared key takes priority. A key
// without the requested mode contributes nothing; a declared but empty
// mode still counts as a match.
func (c *Configuration) Resolve(languageID string, mode Mode) []RuleSet {
	if languageID == "" {
		return nil
	}

	var out []RuleSet
	for i := len(c.Languages) - 1; i >= 0; i-- {
		lang := &c.Languages[i]
		if !AliasMatch(lang.Key, languageID) {
			continue
		}
		if set := lang.ForMode(mode); set != nil {
			out = append(out, set)
		}
	}
	return out
}
