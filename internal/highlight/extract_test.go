package highlight

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/hltext/internal/config"
	"github.com/dshills/hltext/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// parseRule parses "style: rule" YAML into a single rule.
func parseRule(t *testing.T, src string) config.Rule {
	t.Helper()
	doc := "test:\n  light:\n"
	for _, line := range strings.Split(strings.TrimSpace(src), "\n") {
		doc += "    " + line + "\n"
	}
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &node))
	cfg, err := config.ParseRules(&node)
	require.NoError(t, err)
	require.Len(t, cfg.Languages[0].Light, 1)
	return cfg.Languages[0].Light[0]
}

func extract(t *testing.T, rule config.Rule, text string) Result {
	t.Helper()
	res, err := New(pattern.NewCompiler()).Extract(&rule, []rune(text), 0)
	require.NoError(t, err)
	return res
}

func TestExtract_BasicMatch(t *testing.T) {
	rule := parseRule(t, `purple: {match: ["v-if"]}`)
	res := extract(t, rule, `<div v-if="x">`)

	require.Len(t, res.Candidates, 1)
	c := res.Candidates[0]
	assert.Equal(t, "v-if", c.Text)
	assert.Equal(t, 5, c.Start)
	assert.Equal(t, 9, c.End)
	assert.Equal(t, "purple", c.Style.Color())
	assert.Equal(t, false, c.Style["isWholeLine"])
	assert.Equal(t, "closedClosed", c.Style["rangeBehavior"])
}

func TestExtract_BareRule(t *testing.T) {
	rule := parseRule(t, `"#B392F0": ["v-for"]`)
	res := extract(t, rule, "v-for v-for")

	require.Len(t, res.Candidates, 2)
	assert.Equal(t, 0, res.Candidates[0].Start)
	assert.Equal(t, 6, res.Candidates[1].Start)
	assert.Equal(t, "#B392F0", res.Candidates[1].Style.Color())
}

func TestExtract_FirstDefinedGroup(t *testing.T) {
	rule := parseRule(t, `"#FFC83D": ['<template\s+(\#[^\s\/>=]+)']`)
	res := extract(t, rule, "<template #default>")

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "#default", res.Candidates[0].Text)
	assert.Equal(t, 10, res.Candidates[0].Start)
	assert.Equal(t, 18, res.Candidates[0].End)
}

func TestExtract_AlternationSkipsUndefinedGroups(t *testing.T) {
	rule := parseRule(t, `red: ["(foo)|(bar)"]`)
	res := extract(t, rule, "bar foo")

	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "bar", res.Candidates[0].Text)
	assert.Equal(t, "foo", res.Candidates[1].Text)
}

func TestExtract_FanOutByGroup(t *testing.T) {
	rule := parseRule(t, `x: {match: ["(defineProps) (defineEmits)"], colors: [red, blue]}`)
	res := extract(t, rule, "defineProps defineEmits")

	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "defineProps", res.Candidates[0].Text)
	assert.Equal(t, "red", res.Candidates[0].Style.Color())
	assert.Equal(t, 12, res.Candidates[1].Start)
	assert.Equal(t, "blue", res.Candidates[1].Style.Color())
}

func TestExtract_FanOutPairsGroupsNotMatches(t *testing.T) {
	rule := parseRule(t, `x: {match: ['(define[A-Z]\w*)'], colors: [red, blue]}`)
	res := extract(t, rule, "defineProps defineEmits")

	require.Len(t, res.Candidates, 2)
	for _, c := range res.Candidates {
		assert.Equal(t, "red", c.Style.Color(), "group 1 pairs with colors[0] in every match")
	}
}

func TestExtract_FanOutSkipsAndStops(t *testing.T) {
	tests := []struct {
		name  string
		rule  string
		text  string
		want  []string
		color []string
	}{
		{
			name:  "empty color skipped",
			rule:  `x: {match: ["(a)(b)(c)"], colors: [red, "", green]}`,
			text:  "abc",
			want:  []string{"a", "c"},
			color: []string{"red", "green"},
		},
		{
			name:  "undefined group followed by defined group continues",
			rule:  `x: {match: ["(a)(z)?(c)"], colors: [red, blue, green]}`,
			text:  "ac",
			want:  []string{"a", "c"},
			color: []string{"red", "green"},
		},
		{
			name:  "two undefined groups stop",
			rule:  `x: {match: ["(a)(y)?(z)?(c)"], colors: [red, blue, pink, green]}`,
			text:  "ac",
			want:  []string{"a"},
			color: []string{"red"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := extract(t, parseRule(t, tt.rule), tt.text)
			var texts, colors []string
			for _, c := range res.Candidates {
				texts = append(texts, c.Text)
				colors = append(colors, c.Style.Color())
			}
			assert.Equal(t, tt.want, texts)
			assert.Equal(t, tt.color, colors)
		})
	}
}

func TestExtract_MatchCSS(t *testing.T) {
	rule := parseRule(t, `
x:
  match: ["(let) (x) (=)"]
  matchCss:
    - {color: red, fontWeight: bold}
    - null
    - {color: green}
`)
	res := extract(t, rule, "let x =")

	require.Len(t, res.Candidates, 1, "a null entry ends the fan-out")
	c := res.Candidates[0]
	assert.Equal(t, "let", c.Text)
	assert.Equal(t, "red", c.Style.Color())
	assert.Equal(t, "bold", c.Style["fontWeight"])
}

func TestExtract_RepeatedGroupText(t *testing.T) {
	rule := parseRule(t, `x: {match: ["(ab)x(ab)"], colors: [red, blue]}`)
	res := extract(t, rule, "abxab")

	require.Len(t, res.Candidates, 2)
	assert.Equal(t, 0, res.Candidates[0].Start)
	assert.Equal(t, 3, res.Candidates[1].Start, "second group keeps its own position")

	rule = parseRule(t, `x: ["ab(ab)"]`)
	res = extract(t, rule, "abab")
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, 2, res.Candidates[0].Start)
}

func TestExtract_IgnoreMask(t *testing.T) {
	rule := parseRule(t, `purple: {match: ["v-if"], ignoreReg: ["//.*"]}`)
	text := "// v-if inside comment\nv-if real"
	res := extract(t, rule, text)

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, 23, res.Candidates[0].Start)
	assert.Equal(t, "v-if", res.Candidates[0].Text)
}

func TestExtract_IgnorePairWithoutGlobalFlag(t *testing.T) {
	rule := parseRule(t, `purple: {match: ["v-if"], ignoreReg: [["#.*", "m"]]}`)
	res := extract(t, rule, "# v-if\n# v-if\nv-if")

	// A pair without "g" blanks its first match only.
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, 9, res.Candidates[0].Start)
}

func TestExtract_Background(t *testing.T) {
	rule := parseRule(t, `red: {match: ["TODO"], background: yellow, textDecoration: underline}`)
	res := extract(t, rule, "TODO")

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "underline; background:yellow", res.Candidates[0].Style.TextDecoration())
}

func TestExtract_Attachments(t *testing.T) {
	rule := parseRule(t, `purple: {match: ["v-if"], before: {contentText: "*"}}`)
	res := extract(t, rule, "v-if")

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "*", res.Candidates[0].Style.Attachment("before")["contentText"])
}

func TestExtract_Base(t *testing.T) {
	rule := parseRule(t, `red: ["x"]`)
	res, err := New(pattern.NewCompiler()).Extract(&rule, []rune("ax"), 100)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, 101, res.Candidates[0].Start)
	assert.Equal(t, 102, res.Candidates[0].End)
}

func TestExtract_RuleErrors(t *testing.T) {
	tests := []struct {
		name string
		rule string
		want error
	}{
		{"invalid", `red: ["(unclosed"]`, pattern.ErrInvalidPattern},
		{"unsafe", `red: ["(a+)+b"]`, pattern.ErrUnsafePattern},
		{"shape", `red: {colors: [blue]}`, config.ErrConfigShape},
		{"invalid ignore", `red: {match: [a], ignoreReg: ["("]}`, pattern.ErrInvalidPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := parseRule(t, tt.rule)
			res, err := New(pattern.NewCompiler()).Extract(&rule, []rune("aaa"), 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "err = %v", err)
			assert.Empty(t, res.Candidates)
		})
	}
}

func TestExtract_MatchLimitWarning(t *testing.T) {
	rule := parseRule(t, `red: ["a"]`)
	e := New(pattern.NewCompiler(), WithLimits(pattern.Limits{MaxMatches: 2}))
	res, err := e.Extract(&rule, []rune("aaaa"), 0)

	require.NoError(t, err)
	assert.Len(t, res.Candidates, 2)
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], pattern.ErrLimitExceeded)
}

func TestExtract_IgnoreIterationLimit(t *testing.T) {
	rule := parseRule(t, `red: {match: [b], ignoreReg: ["a"]}`)
	e := New(pattern.NewCompiler(), WithMaxIterations(3))
	_, err := e.Extract(&rule, []rune("aaaab"), 0)
	assert.ErrorIs(t, err, pattern.ErrIterationLimit)
}
