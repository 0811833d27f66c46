package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseRules parses a rules mapping node:
//
//	<languageKey>:
//	  light: <RuleMapping>
//	  dark:  <RuleMapping>
//
// Declaration order is preserved. Structural problems inside a single rule
// are recorded on that rule (Rule.Err) so sibling rules stay usable; only a
// rules node that is not a mapping at all is an error.
func ParseRules(node *yaml.Node) (Configuration, error) {
	node = resolveNode(node)
	if node == nil || isNull(node) {
		return Configuration{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return Configuration{}, &ParseError{
			Path:    "rules",
			Line:    node.Line,
			Column:  node.Column,
			Message: "rules must be a mapping of language keys",
		}
	}

	var cfg Configuration
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := resolveNode(node.Content[i+1])

		lang := LanguageRules{Key: key}
		if value.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(value.Content); j += 2 {
				mode := Mode(value.Content[j].Value)
				set := parseRuleSet(key, mode, resolveNode(value.Content[j+1]))
				switch mode {
				case Light:
					lang.Light = set
				case Dark:
					lang.Dark = set
				}
			}
		}
		cfg.Languages = append(cfg.Languages, lang)
	}
	return cfg, nil
}

// parseRuleSet parses a style-key to rule mapping.
func parseRuleSet(lang string, mode Mode, node *yaml.Node) RuleSet {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	set := make(RuleSet, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		style := node.Content[i].Value
		rule := parseRule(style, resolveNode(node.Content[i+1]))
		if rule.Err != nil {
			if shape, ok := rule.Err.(*ConfigShapeError); ok {
				shape.Language = lang
				shape.Mode = mode
			}
		}
		set = append(set, rule)
	}
	return set
}

// parseRule decides the rule shape once: a sequence is a bare rule and a
// mapping with a non-empty match list is an extended rule.
func parseRule(style string, node *yaml.Node) Rule {
	rule := Rule{Style: style}
	shapeErr := func(field, msg string) Rule {
		rule.Err = &ConfigShapeError{Style: style, Field: field, Message: msg}
		return rule
	}

	switch node.Kind {
	case yaml.SequenceNode:
		rule.Kind = Bare
		patterns, err := parsePatternList(node, true)
		if err != nil {
			return shapeErr("", err.Error())
		}
		rule.Patterns = patterns
		return rule

	case yaml.MappingNode:
		rule.Kind = Extended
	default:
		return shapeErr("", "must be a pattern list or an object with match")
	}

	rule.Attrs = make(map[string]any)
	var haveMatch bool
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := resolveNode(node.Content[i+1])

		switch key {
		case keyMatch:
			if value.Kind != yaml.SequenceNode {
				return shapeErr(keyMatch, "must be a list of patterns")
			}
			patterns, err := parsePatternList(value, true)
			if err != nil {
				return shapeErr(keyMatch, err.Error())
			}
			rule.Patterns = patterns
			haveMatch = len(patterns) > 0

		case keyColors:
			if isNull(value) {
				continue
			}
			if value.Kind != yaml.SequenceNode {
				return shapeErr(keyColors, "must be a list of colors")
			}
			rule.Colors = make([]string, 0, len(value.Content))
			for _, item := range value.Content {
				item = resolveNode(item)
				color := ""
				if item.Kind == yaml.ScalarNode && item.ShortTag() == "!!str" {
					color = item.Value
				}
				rule.Colors = append(rule.Colors, color)
			}

		case keyMatchCSS:
			if isNull(value) {
				continue
			}
			if value.Kind != yaml.SequenceNode {
				return shapeErr(keyMatchCSS, "must be a list of style objects")
			}
			rule.MatchCSS = make([]map[string]any, 0, len(value.Content))
			for _, item := range value.Content {
				item = resolveNode(item)
				if isFalsy(item) {
					rule.MatchCSS = append(rule.MatchCSS, nil)
					continue
				}
				if item.Kind != yaml.MappingNode {
					return shapeErr(keyMatchCSS, "entries must be style objects")
				}
				var attrs map[string]any
				if err := item.Decode(&attrs); err != nil {
					return shapeErr(keyMatchCSS, err.Error())
				}
				rule.MatchCSS = append(rule.MatchCSS, attrs)
			}

		case keyIgnoreReg:
			if isNull(value) {
				continue
			}
			if value.Kind != yaml.SequenceNode {
				return shapeErr(keyIgnoreReg, "must be a list of patterns")
			}
			patterns, err := parsePatternList(value, false)
			if err != nil {
				return shapeErr(keyIgnoreReg, err.Error())
			}
			rule.Ignore = patterns

		default:
			var attr any
			if err := value.Decode(&attr); err != nil {
				return shapeErr(key, err.Error())
			}
			rule.Attrs[key] = attr
		}
	}

	if !haveMatch {
		return shapeErr(keyMatch, "is required and must not be empty")
	}
	return rule
}

// parsePatternList parses a list of "source" or [source, flags] entries.
// Empty entries are dropped. With defaultFlags, pairs without flags get
// the default flags; otherwise their flags are kept as written.
func parsePatternList(node *yaml.Node, defaultFlags bool) ([]PatternSource, error) {
	out := make([]PatternSource, 0, len(node.Content))
	for _, item := range node.Content {
		item = resolveNode(item)
		switch item.Kind {
		case yaml.ScalarNode:
			if isFalsy(item) {
				continue
			}
			out = append(out, newPatternSource(item.Value, ""))

		case yaml.SequenceNode:
			if len(item.Content) == 0 || len(item.Content) > 2 {
				return nil, fmt.Errorf("pattern pair at line %d must be [source, flags]", item.Line)
			}
			source := resolveNode(item.Content[0]).Value
			flags := ""
			if len(item.Content) == 2 {
				flags = resolveNode(item.Content[1]).Value
			}
			if defaultFlags {
				out = append(out, newPatternSource(source, flags))
			} else {
				out = append(out, PatternSource{Source: source, Flags: flags})
			}

		default:
			return nil, fmt.Errorf("pattern at line %d must be a string or [source, flags]", item.Line)
		}
	}
	return out, nil
}

// resolveNode unwraps document and alias nodes.
func resolveNode(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// isFalsy reports null, false and empty-string scalars.
func isFalsy(n *yaml.Node) bool {
	if n.Kind != yaml.ScalarNode {
		return false
	}
	switch n.ShortTag() {
	case "!!null":
		return true
	case "!!bool":
		return n.Value == "false"
	case "!!str":
		return n.Value == ""
	}
	return false
}
