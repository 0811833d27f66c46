package config

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dshills/hltext/internal/config/loader"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultRulesYAML []byte

//go:embed presets/*.yaml
var presetFS embed.FS

// DefaultRules returns the built-in rules mapping used when a settings
// document declares no rules.
func DefaultRules() *yaml.Node {
	root, err := loader.ParseDocument("defaults.yaml", defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded default rules: %v", err))
	}
	return root
}

// Presets returns the names of the bundled rule templates, sorted.
func Presets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Preset returns the rules mapping of the named template.
func Preset(name string) (*yaml.Node, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return loader.ParseDocument(name+".yaml", data)
}
