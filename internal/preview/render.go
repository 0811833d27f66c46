// Package preview renders decorated text for terminals.
package preview

import (
	"strconv"
	"strings"

	"github.com/dshills/hltext/internal/core"
	"github.com/muesli/termenv"
)

// Span is one decoration to draw.
type Span struct {
	Range core.Range
	Style core.Style
}

// Renderer draws decorated text with ANSI escapes for a color profile.
type Renderer struct {
	profile termenv.Profile
}

// New creates a renderer. termenv.Ascii produces plain text.
func New(profile termenv.Profile) *Renderer {
	return &Renderer{profile: profile}
}

// Render returns text with spans applied. Where spans overlap the later
// one wins. Before and after attachments are inserted at the span ends.
func (r *Renderer) Render(text string, spans []Span) string {
	var b strings.Builder
	for ln, line := range strings.Split(text, "\n") {
		if ln > 0 {
			b.WriteByte('\n')
		}
		r.renderLine(&b, ln, []rune(line), spans)
	}
	return b.String()
}

func (r *Renderer) renderLine(b *strings.Builder, ln int, line []rune, spans []Span) {
	owner := make([]int, len(line))
	for i := range owner {
		owner[i] = -1
	}
	before := make(map[int][]string)
	after := make(map[int][]string)

	for si, s := range spans {
		if ln < s.Range.Start.Line || ln > s.Range.End.Line {
			continue
		}
		from, to := 0, len(line)
		if s.Range.Start.Line == ln {
			from = clamp(s.Range.Start.Character, len(line))
			if t := r.attachment(s.Style, core.StyleBefore); t != "" {
				before[from] = append(before[from], t)
			}
		}
		if s.Range.End.Line == ln {
			to = clamp(s.Range.End.Character, len(line))
			if t := r.attachment(s.Style, core.StyleAfter); t != "" {
				after[to] = append(after[to], t)
			}
		}
		for i := from; i < to; i++ {
			owner[i] = si
		}
	}

	for i := 0; ; {
		for _, t := range after[i] {
			b.WriteString(t)
		}
		for _, t := range before[i] {
			b.WriteString(t)
		}
		if i >= len(line) {
			return
		}

		j := i + 1
		for j < len(line) && owner[j] == owner[i] && before[j] == nil && after[j] == nil {
			j++
		}
		run := string(line[i:j])
		if owner[i] < 0 {
			b.WriteString(run)
		} else {
			b.WriteString(r.paint(spans[owner[i]].Style, run))
		}
		i = j
	}
}

func (r *Renderer) paint(style core.Style, s string) string {
	if r.profile == termenv.Ascii {
		return s
	}

	out := r.profile.String(s)
	if c, ok := ParseColor(style.Color()); ok {
		out = out.Foreground(r.profile.Color(c.Hex()))
	}
	if c, ok := ParseColor(background(style)); ok {
		out = out.Background(r.profile.Color(c.Hex()))
	}

	deco := style.TextDecoration()
	if strings.Contains(deco, "underline") {
		out = out.Underline()
	}
	if strings.Contains(deco, "line-through") {
		out = out.CrossOut()
	}
	if bold(style[core.StyleFontWeight]) {
		out = out.Bold()
	}
	if v, _ := style[core.StyleFontStyle].(string); v == "italic" || v == "oblique" {
		out = out.Italic()
	}
	return out.String()
}

// attachment renders the contentText of a before/after attachment.
func (r *Renderer) attachment(style core.Style, key string) string {
	a := style.Attachment(key)
	text, _ := a["contentText"].(string)
	if text == "" {
		return ""
	}
	color, _ := a["color"].(string)
	return r.paint(core.Style{core.StyleColor: color}, text)
}

// background reads the background folded into textDecoration, falling
// back to the background attribute.
func background(style core.Style) string {
	deco := style.TextDecoration()
	if i := strings.Index(deco, "background:"); i >= 0 {
		v := deco[i+len("background:"):]
		if j := strings.IndexByte(v, ';'); j >= 0 {
			v = v[:j]
		}
		return strings.TrimSpace(v)
	}
	return style.Background()
}

func bold(v any) bool {
	switch w := v.(type) {
	case string:
		if w == "bold" || w == "bolder" {
			return true
		}
		n, err := strconv.Atoi(w)
		return err == nil && n >= 600
	case int:
		return w >= 600
	case float64:
		return w >= 600
	}
	return false
}

func clamp(v, n int) int {
	return min(max(v, 0), n)
}
