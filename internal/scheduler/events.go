package scheduler

import "github.com/dshills/hltext/internal/core"

// Section is the configuration section whose changes reload the rules.
const Section = "hltext"

// logLanguage is the language of output channels, which are never
// decorated on edit.
const logLanguage = "Log"

// Event is an editor notification that may require a recompute.
type Event interface {
	event()
}

// ContentChange is one edit inside a TextChange.
type ContentChange struct {
	RangeLength int
	Text        string
}

// TextChange reports edits to the active document.
type TextChange struct {
	LanguageID string
	Changes    []ContentChange
}

// ActiveDocumentChange reports a switch of the active editor. HasDocument
// is false when no editor is active any more.
type ActiveDocumentChange struct {
	HasDocument bool
}

// ConfigChange reports a settings change. Affects reports whether a
// section changed; a nil Affects means every section did.
type ConfigChange struct {
	Affects func(section string) bool
}

// ThemeChange reports a switch between light and dark themes.
type ThemeChange struct{}

// VisibleRangeChange reports that the editor scrolled. An empty Range
// stands for the visible ranges of the active document.
type VisibleRangeChange struct {
	Range core.Range
}

func (TextChange) event()           {}
func (ActiveDocumentChange) event() {}
func (ConfigChange) event()         {}
func (ThemeChange) event()          {}
func (VisibleRangeChange) event()   {}

// RequestFor maps an event to the recompute it needs. The boolean is false
// when the event needs none.
func RequestFor(ev Event) (Request, bool) {
	switch e := ev.(type) {
	case TextChange:
		if e.LanguageID == logLanguage {
			return Request{}, false
		}
		for _, c := range e.Changes {
			if c.RangeLength != 0 || c.Text != "" {
				return Request{}, true
			}
		}
		return Request{}, false

	case ActiveDocumentChange:
		if !e.HasDocument {
			return Request{}, false
		}
		return Request{Force: true}, true

	case ConfigChange:
		if e.Affects != nil && !e.Affects(Section) {
			return Request{}, false
		}
		return Request{Force: true, Reload: true}, true

	case ThemeChange:
		return Request{Force: true}, true

	case VisibleRangeChange:
		scope := e.Range
		return Request{Scope: &scope}, true
	}
	return Request{}, false
}
