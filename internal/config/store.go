package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/hltext/internal/config/loader"
	"gopkg.in/yaml.v3"
)

// Settings document keys.
const (
	SectionRules   = "rules"
	SectionExclude = "exclude"
)

// Store reads and writes the settings document holding highlight rules
// and exclude globs. The document is YAML or JSON, chosen by extension.
type Store struct {
	path   string
	format loader.Format
	fs     loader.FileSystem
}

// NewStore creates a store for the settings file at path.
func NewStore(path string) (*Store, error) {
	return NewStoreWithFS(loader.DefaultFS(), path)
}

// NewStoreWithFS creates a store reading through fsys.
func NewStoreWithFS(fsys loader.FileSystem, path string) (*Store, error) {
	format, ok := loader.FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return &Store{path: path, format: format, fs: fsys}, nil
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings document. Without a rules section the built-in
// default rules apply.
func (s *Store) Load() (Settings, error) {
	root, err := loader.LoadDocument(s.fs, s.path)
	if err != nil {
		return Settings{}, err
	}
	return SettingsFromNode(s.path, root)
}

// SettingsFromNode parses a settings root mapping.
func SettingsFromNode(source string, root *yaml.Node) (Settings, error) {
	rules := mappingValue(root, SectionRules)
	if rules == nil || isNull(rules) {
		rules = DefaultRules()
	}

	cfg, err := ParseRules(rules)
	if err != nil {
		if perr, ok := err.(*ParseError); ok {
			perr.Path = source
		}
		return Settings{}, err
	}

	settings := Settings{Rules: cfg}
	if exclude := mappingValue(root, SectionExclude); exclude != nil && !isNull(exclude) {
		if exclude.Kind != yaml.SequenceNode {
			return Settings{}, &ParseError{
				Path:    source,
				Line:    exclude.Line,
				Column:  exclude.Column,
				Message: "exclude must be a list of glob patterns",
			}
		}
		for _, item := range exclude.Content {
			if item = resolveNode(item); item.Kind == yaml.ScalarNode && item.Value != "" {
				settings.Exclude = append(settings.Exclude, item.Value)
			}
		}
	}
	return settings, nil
}

// MergeTemplate deep-merges the named preset into the stored rules, with
// preset values winning, and writes the document back. The merge starts
// from the default rules when the document declares none.
func (s *Store) MergeTemplate(name string) error {
	preset, err := Preset(name)
	if err != nil {
		return err
	}

	root, err := loader.LoadDocument(s.fs, s.path)
	if err != nil {
		return err
	}

	rules := mappingValue(root, SectionRules)
	if rules == nil || rules.Kind != yaml.MappingNode {
		rules = DefaultRules()
	}
	return s.SetRules(root, MergeNodes(rules, preset))
}

// SetRules replaces the rules section of root and writes the document.
func (s *Store) SetRules(root, rules *yaml.Node) error {
	if idx := mappingIndex(root, SectionRules); idx >= 0 {
		root.Content[idx+1] = rules
	} else {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: SectionRules}
		root.Content = append(root.Content, key, rules)
	}
	return s.write(root)
}

func (s *Store) write(root *yaml.Node) error {
	var buf bytes.Buffer
	switch s.format {
	case loader.FormatJSON:
		if err := writeJSON(&buf, root, 0); err != nil {
			return err
		}
		buf.WriteByte('\n')
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
	}

	if err := s.fs.WriteFile(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("writing settings %s: %w", s.path, err)
	}
	return nil
}

// writeJSON encodes a node tree as indented JSON in document order.
func writeJSON(buf *bytes.Buffer, n *yaml.Node, depth int) error {
	n = resolveNode(n)
	if n == nil {
		buf.WriteString("null")
		return nil
	}

	indent := func(d int) {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", d))
	}

	switch n.Kind {
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			indent(depth + 1)
			key, _ := json.Marshal(n.Content[i].Value)
			buf.Write(key)
			buf.WriteString(": ")
			if err := writeJSON(buf, n.Content[i+1], depth+1); err != nil {
				return err
			}
		}
		indent(depth)
		buf.WriteByte('}')

	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			indent(depth + 1)
			if err := writeJSON(buf, item, depth+1); err != nil {
				return err
			}
		}
		indent(depth)
		buf.WriteByte(']')

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("encoding %q at line %d: %w", n.Value, n.Line, err)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %q at line %d: %w", n.Value, n.Line, err)
		}
		buf.Write(data)

	default:
		return fmt.Errorf("cannot encode node kind %v as JSON", n.Kind)
	}
	return nil
}
