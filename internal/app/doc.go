// Package app wires the highlighter together.
//
// A Plugin owns the pipeline for one editor: it loads settings, resolves
// the rules for the active document's language and theme, extracts
// candidates, reconciles them with the decorations already on screen and
// schedules all of this in response to editor events.
package app
