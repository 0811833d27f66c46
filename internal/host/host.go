// Package host defines the editor surface the highlighter drives and an
// in-memory implementation of it.
package host

import "github.com/dshills/hltext/internal/core"

// URI identifies a document.
type URI struct {
	Path   string
	Scheme string
}

// String returns scheme:path.
func (u URI) String() string {
	if u.Scheme == "" {
		return u.Path
	}
	return u.Scheme + ":" + u.Path
}

// Document is a snapshot of the active editor's document.
type Document struct {
	URI        URI
	LanguageID string
	Text       string
	// Visible lists the ranges currently on screen. A scroll event without
	// a range recomputes the lines they cover.
	Visible []core.Range
}

// Editor is the host editor. Apply puts a decoration on the active editor
// and returns the function that removes it again.
type Editor interface {
	ActiveDocument() (Document, bool)
	IsDark() bool
	Apply(r core.Range, style core.Style) (func(), error)
	Warn(msg string)
	Error(msg string)
}
