// Package decoration keeps the editor's decorations in step with the
// candidates computed for a document.
//
// Every applied decoration is remembered under a fingerprint built from its
// range, text and style. A recompute keeps decorations whose fingerprint is
// still wanted, creates the missing ones and releases the rest, so text
// that did not change never flickers.
package decoration
