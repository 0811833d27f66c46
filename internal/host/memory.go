package host

import (
	"errors"
	"sort"
	"sync"

	"github.com/dshills/hltext/internal/core"
	"github.com/google/uuid"
)

// ErrNoEditor is returned by Apply when no document is open.
var ErrNoEditor = errors.New("no active editor")

// Decoration is a decoration currently applied to a Memory editor.
type Decoration struct {
	ID    uuid.UUID
	URI   URI
	Range core.Range
	Style core.Style
}

// Stats counts the decoration traffic of a Memory editor.
type Stats struct {
	Applied  int
	Released int
	Live     int
}

// Memory is an in-memory Editor used by tests and the CLI.
type Memory struct {
	mu          sync.Mutex
	doc         *Document
	dark        bool
	decorations map[uuid.UUID]Decoration
	applied     int
	released    int
	warnings    []string
	errors      []string
}

// NewMemory creates an editor with no open document and a light theme.
func NewMemory() *Memory {
	return &Memory{decorations: make(map[uuid.UUID]Decoration)}
}

// Open makes doc the active document.
func (m *Memory) Open(doc Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := doc
	m.doc = &d
}

// CloseDocument leaves the editor without an active document.
func (m *Memory) CloseDocument() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = nil
}

// SetText replaces the text of the active document.
func (m *Memory) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc != nil {
		m.doc.Text = text
	}
}

// SetVisible sets the visible ranges of the active document.
func (m *Memory) SetVisible(ranges ...core.Range) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc != nil {
		m.doc.Visible = ranges
	}
}

// SetDark switches between the dark and light theme.
func (m *Memory) SetDark(dark bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dark = dark
}

// ActiveDocument implements Editor.
func (m *Memory) ActiveDocument() (Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return Document{}, false
	}
	return *m.doc, true
}

// IsDark implements Editor.
func (m *Memory) IsDark() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dark
}

// Apply implements Editor.
func (m *Memory) Apply(r core.Range, style core.Style) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.doc == nil {
		return nil, ErrNoEditor
	}
	id := uuid.New()
	m.decorations[id] = Decoration{ID: id, URI: m.doc.URI, Range: r, Style: style}
	m.applied++

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.decorations, id)
			m.released++
		})
	}, nil
}

// Warn implements Editor.
func (m *Memory) Warn(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, msg)
}

// Error implements Editor.
func (m *Memory) Error(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

// Decorations returns the live decorations ordered by position.
func (m *Memory) Decorations() []Decoration {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Decoration, 0, len(m.decorations))
	for _, d := range m.decorations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Range, out[j].Range
		if a.Start != b.Start {
			return a.Start.Before(b.Start)
		}
		if a.End != b.End {
			return a.End.Before(b.End)
		}
		return out[i].Style.Key() < out[j].Style.Key()
	})
	return out
}

// Stats returns the apply/release counters.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{Applied: m.applied, Released: m.released, Live: len(m.decorations)}
}

// ResetStats zeroes the apply/release counters.
func (m *Memory) ResetStats() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied, m.released = 0, 0
}

// Warnings returns the warnings shown so far.
func (m *Memory) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.warnings...)
}

// Errors returns the errors shown so far.
func (m *Memory) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.errors...)
}
