package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/hltext/internal/config/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStore_LoadYAML(t *testing.T) {
	path := writeSettings(t, "settings.yaml", `
exclude:
  - "**/node_modules/**"
rules:
  vue:
    dark:
      red: [v-if]
`)
	store, err := NewStore(path)
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"**/node_modules/**"}, settings.Exclude)
	require.Len(t, settings.Rules.Languages, 1)
	assert.Equal(t, "vue", settings.Rules.Languages[0].Key)
}

func TestStore_LoadJSONKeepsOrder(t *testing.T) {
	path := writeSettings(t, "settings.json", `{
  "rules": {
    "vue": {"light": {"zz": ["a"], "aa": ["b"]}}
  }
}`)
	store, err := NewStore(path)
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	set := settings.Rules.Languages[0].Light
	require.Len(t, set, 2)
	assert.Equal(t, "zz", set[0].Style)
	assert.Equal(t, "aa", set[1].Style)
}

func TestStore_DefaultRules(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)

	sets := settings.Rules.Resolve("vue", Dark)
	require.Len(t, sets, 1)
	require.NotEmpty(t, sets[0])
	assert.Equal(t, "purple", sets[0][0].Style)
	assert.Equal(t, Extended, sets[0][0].Kind)

	react := settings.Rules.Resolve("react|javascriptreact|typescriptreact", Light)
	require.Len(t, react, 1)
	assert.Empty(t, react[0])
}

func TestStore_UnsupportedFormat(t *testing.T) {
	_, err := NewStore("settings.toml")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestStore_BadExclude(t *testing.T) {
	path := writeSettings(t, "settings.yaml", "exclude: abc\n")
	store, err := NewStore(path)
	require.NoError(t, err)
	_, err = store.Load()
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestStore_ParseErrorsShareType(t *testing.T) {
	fsys := loader.NewMapFS()
	require.NoError(t, fsys.WriteFile("/ws/bad.yaml", []byte("- not\n- a mapping\n")))
	require.NoError(t, fsys.WriteFile("/ws/rules.yaml", []byte("rules: [1, 2]\n")))

	for _, path := range []string{"/ws/bad.yaml", "/ws/rules.yaml"} {
		store, err := NewStoreWithFS(fsys, path)
		require.NoError(t, err)
		_, err = store.Load()

		var perr *loader.ParseError
		require.ErrorAs(t, err, &perr, path)
		assert.Equal(t, path, perr.Path)
	}
}

func TestStore_MergeTemplateYAML(t *testing.T) {
	path := writeSettings(t, "settings.yaml", `
rules:
  markdown:
    light:
      red: [TODO]
    dark:
      purple: [keep]
exclude: []
`)
	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.MergeTemplate("markdown"))

	settings, err := store.Load()
	require.NoError(t, err)

	light := settings.Rules.Resolve("md|markdown", Light)
	require.Len(t, light, 1)
	assert.Equal(t, "red", light[0][0].Style, "user rules survive")

	dark := settings.Rules.Resolve("md|markdown", Dark)
	require.Len(t, dark, 1)
	require.Len(t, dark[0], 1)
	assert.Equal(t, Extended, dark[0][0].Kind, "preset value wins")
	assert.Len(t, dark[0][0].Patterns, 3)
}

func TestStore_MergeTemplateJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.MergeTemplate("markdown"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc), string(data))

	rules := doc["rules"].(map[string]any)
	assert.Contains(t, rules, "vue", "defaults seed the merge")
	assert.Contains(t, rules, "markdown")
}

func TestStore_InMemory(t *testing.T) {
	fsys := loader.NewMapFS()
	store, err := NewStoreWithFS(fsys, "/ws/hltext.yml")
	require.NoError(t, err)
	require.NoError(t, store.MergeTemplate("markdown"))

	data, err := fsys.ReadFile("/ws/hltext.yml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "markdown:")

	settings, err := store.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, settings.Rules.Resolve("markdown", Dark))
}

func TestStore_MergeTemplateUnknown(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.True(t, errors.Is(store.MergeTemplate("nope"), ErrUnknownTemplate))
}

func TestPresets(t *testing.T) {
	assert.Contains(t, Presets(), "markdown")

	node, err := Preset("markdown")
	require.NoError(t, err)
	cfg, err := ParseRules(node)
	require.NoError(t, err)
	require.Len(t, cfg.Languages, 1)
	assert.Equal(t, "markdown", cfg.Languages[0].Key)
}

func TestMergeNodes(t *testing.T) {
	var dst, src yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("b: {x: 1, y: 2}\na: 1\n"), &dst))
	require.NoError(t, yaml.Unmarshal([]byte("c: 3\nb: {y: 9, z: 4}\n"), &src))

	out := MergeNodes(&dst, &src)

	var keys []string
	for i := 0; i < len(out.Content); i += 2 {
		keys = append(keys, out.Content[i].Value)
	}
	assert.Equal(t, []string{"b", "a", "c"}, keys)

	var decoded map[string]any
	require.NoError(t, out.Decode(&decoded))
	assert.Equal(t, map[string]any{"x": 1, "y": 9, "z": 4}, decoded["b"])
}

func TestExcludeFilter(t *testing.T) {
	f, err := NewExcludeFilter([]string{"node_modules/**", "*.min.js", "/tmp/**", " "})
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())

	tests := []struct {
		path string
		want bool
	}{
		{"/work/app/node_modules/vue/index.js", true},
		{"/work/app/dist/app.min.js", true},
		{"/tmp/scratch.vue", true},
		{"/work/app/src/App.vue", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Excluded(tt.path), tt.path)
	}

	var nilFilter *ExcludeFilter
	assert.False(t, nilFilter.Excluded("/a"))
}

func TestExcludeFilter_BadPattern(t *testing.T) {
	_, err := NewExcludeFilter([]string{"[unclosed"})
	assert.Error(t, err)
}
