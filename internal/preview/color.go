package preview

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS color: #rgb, #rrggbb, #rrggbbaa, rgb(), rgba()
// or an SVG/CSS color name. Alpha is ignored.
func ParseColor(css string) (colorful.Color, bool) {
	s := strings.ToLower(strings.TrimSpace(css))
	switch {
	case s == "" || s == "transparent" || s == "none":
		return colorful.Color{}, false

	case strings.HasPrefix(s, "#"):
		if len(s) == 9 {
			s = s[:7]
		}
		c, err := colorful.Hex(s)
		return c, err == nil

	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseRGB(s)
	}

	if c, ok := colornames.Map[s]; ok {
		return colorful.MakeColor(c)
	}
	return colorful.Color{}, false
}

func parseRGB(s string) (colorful.Color, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return colorful.Color{}, false
	}
	fields := strings.FieldsFunc(s[open+1:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(fields) < 3 {
		return colorful.Color{}, false
	}

	var ch [3]float64
	for i := range ch {
		v, ok := channel(fields[i])
		if !ok {
			return colorful.Color{}, false
		}
		ch[i] = v
	}
	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, true
}

// channel converts "128" or "50%" to the 0..1 range.
func channel(f string) (float64, bool) {
	scale := 255.0
	if strings.HasSuffix(f, "%") {
		f, scale = strings.TrimSuffix(f, "%"), 100
	}
	v, err := strconv.ParseFloat(f, 64)
	if err != nil {
		return 0, false
	}
	return min(max(v/scale, 0), 1), true
}
