package decoration

import (
	"sort"

	"github.com/dshills/hltext/internal/core"
)

// LineIndex converts code point offsets to line/character positions.
type LineIndex struct {
	starts []int
	length int
}

// NewLineIndex indexes the line starts of text.
func NewLineIndex(text []rune) *LineIndex {
	idx := &LineIndex{starts: []int{0}, length: len(text)}
	for i, r := range text {
		if r == '\n' {
			idx.starts = append(idx.starts, i+1)
		}
	}
	return idx
}

// Lines returns the number of lines.
func (idx *LineIndex) Lines() int {
	return len(idx.starts)
}

// Position returns the position of offset, clamped to the text.
func (idx *LineIndex) Position(offset int) core.Position {
	offset = max(0, min(offset, idx.length))
	line := sort.Search(len(idx.starts), func(i int) bool {
		return idx.starts[i] > offset
	}) - 1
	return core.Position{Line: line, Character: offset - idx.starts[line]}
}

// Range returns the range covering [start, end).
func (idx *LineIndex) Range(start, end int) core.Range {
	return core.Range{Start: idx.Position(start), End: idx.Position(end)}
}

// Offset returns the offset of pos, clamped to its line and the text.
func (idx *LineIndex) Offset(pos core.Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(idx.starts) {
		return idx.length
	}
	lineEnd := idx.length
	if pos.Line+1 < len(idx.starts) {
		lineEnd = idx.starts[pos.Line+1] - 1
	}
	return min(idx.starts[pos.Line]+max(0, pos.Character), lineEnd)
}
