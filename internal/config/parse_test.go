package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseYAML(t *testing.T, src string) Configuration {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	cfg, err := ParseRules(&doc)
	require.NoError(t, err)
	return cfg
}

func TestParseRules_Shapes(t *testing.T) {
	cfg := parseYAML(t, `
vue:
  light:
    red:
      - v-if
      - ["v-for", "g"]
      - ["v-on", ""]
    purple:
      match: [defineProps]
      before:
        contentText: "*"
      colors: [red, "", 3]
      ignoreReg:
        - "//.*"
        - ["/\\*", ""]
`)
	require.Len(t, cfg.Languages, 1)
	set := cfg.Languages[0].Light
	require.Len(t, set, 2)

	bare := set[0]
	require.NoError(t, bare.Err)
	assert.Equal(t, Bare, bare.Kind)
	assert.Equal(t, []PatternSource{
		{Source: "v-if", Flags: "gm"},
		{Source: "v-for", Flags: "g"},
		{Source: "v-on", Flags: "gm"},
	}, bare.Patterns)
	assert.False(t, bare.FanOut())

	ext := set[1]
	require.NoError(t, ext.Err)
	assert.Equal(t, Extended, ext.Kind)
	assert.Equal(t, []PatternSource{{Source: "defineProps", Flags: "gm"}}, ext.Patterns)
	assert.Equal(t, []string{"red", "", ""}, ext.Colors)
	assert.Equal(t, []PatternSource{
		{Source: "//.*", Flags: "gm"},
		{Source: `/\*`, Flags: ""},
	}, ext.Ignore)
	assert.True(t, ext.FanOut())

	style := ext.BaseStyle()
	assert.Equal(t, "purple", style.Color())
	assert.Equal(t, map[string]any{"contentText": "*"}, style.Attachment("before"))
	_, hasColors := style["colors"]
	assert.False(t, hasColors, "control keys are not style attributes")
}

func TestParseRules_DeclarationOrder(t *testing.T) {
	cfg := parseYAML(t, `
zeta: {light: {b: [x], a: [y]}}
alpha: {light: {}}
`)
	require.Len(t, cfg.Languages, 2)
	assert.Equal(t, "zeta", cfg.Languages[0].Key)
	assert.Equal(t, "alpha", cfg.Languages[1].Key)
	assert.Equal(t, "b", cfg.Languages[0].Light[0].Style)
	assert.Equal(t, "a", cfg.Languages[0].Light[1].Style)
	assert.NotNil(t, cfg.Languages[1].Light)
	assert.Nil(t, cfg.Languages[1].Dark)
}

func TestParseRules_ShapeErrors(t *testing.T) {
	tests := []struct {
		name  string
		rule  string
		field string
	}{
		{"missing match", `{before: {contentText: x}}`, "match"},
		{"empty match", `{match: []}`, "match"},
		{"match not a list", `{match: abc}`, "match"},
		{"colors not a list", `{match: [a], colors: red}`, "colors"},
		{"matchCss entry not object", `{match: [a], matchCss: [{color: red}, 5]}`, "matchCss"},
		{"scalar rule", `abc`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := parseYAML(t, "ts:\n  dark:\n    red: "+tt.rule+"\n    blue: [ok]\n")
			set := cfg.Languages[0].Dark
			require.Len(t, set, 2)

			var shape *ConfigShapeError
			require.ErrorAs(t, set[0].Err, &shape)
			assert.True(t, errors.Is(set[0].Err, ErrConfigShape))
			assert.Equal(t, "ts", shape.Language)
			assert.Equal(t, Dark, shape.Mode)
			assert.Equal(t, "red", shape.Style)
			assert.Equal(t, tt.field, shape.Field)

			assert.NoError(t, set[1].Err, "sibling rules stay usable")
		})
	}
}

func TestParseRules_MatchCSSStop(t *testing.T) {
	cfg := parseYAML(t, `
vue:
  light:
    red:
      match: ["(a)(b)(c)"]
      matchCss: [{color: green}, null, {color: blue}]
`)
	rule := cfg.Languages[0].Light[0]
	require.NoError(t, rule.Err)
	require.Len(t, rule.MatchCSS, 3)
	assert.Equal(t, "green", rule.MatchCSS[0]["color"])
	assert.Nil(t, rule.MatchCSS[1])
}

func TestParseRules_NotMapping(t *testing.T) {
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("- a\n"), &doc))
	_, err := ParseRules(&doc)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParseRules_Nil(t *testing.T) {
	cfg, err := ParseRules(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Languages)
}
