package decoration

import (
	"fmt"

	"github.com/dshills/hltext/internal/core"
)

// Fingerprint identifies a decoration by what it looks like on screen.
type Fingerprint string

// FingerprintOf returns the fingerprint of a decoration. Any change to the
// range, the covered text or a style attribute yields a different value.
func FingerprintOf(r core.Range, text string, style core.Style) Fingerprint {
	return Fingerprint(fmt.Sprintf("%d-%d-%d-%d-%s-%s",
		r.Start.Line, r.Start.Character,
		r.End.Line, r.End.Character,
		text, style.Key()))
}

// DocumentKey returns the cache identity of a document.
func DocumentKey(path, scheme string) string {
	return path + scheme
}
