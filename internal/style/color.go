// Package style turns computed CSS values into structured paint and geometry.
//
// Every function fails soft: input comes from arbitrary third-party markup, so
// an unparseable value yields ok == false (or a zero value) rather than an error.
package style

import (
	"regexp"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// maxValueLen bounds the CSS values handed to the regular expressions below.
const maxValueLen = 512

// minVisibleAlpha is the alpha below which a colour counts as transparent.
const minVisibleAlpha = 0.05

var rgbPattern = regexp.MustCompile(`^rgba?\(\s*(-?[\d.]+%?)\s*[,\s]\s*(-?[\d.]+%?)\s*[,\s]\s*(-?[\d.]+%?)\s*(?:[,/]\s*(-?[\d.]+%?)\s*)?\)$`)

// RGBToHex converts an rgb()/rgba() string to an upper-case RRGGBB hex string.
// It returns false for transparent or nearly transparent colours and for
// anything it cannot parse.
func RGBToHex(s string) (string, bool) {
	hex, alpha, ok := parseRGB(s)
	if !ok || alpha < minVisibleAlpha {
		return "", false
	}
	return hex, true
}

// ParseColor accepts rgb()/rgba(), #RGB and #RRGGBB values and returns the hex
// colour together with its alpha channel.
func ParseColor(s string) (hex string, alpha float64, ok bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		h, ok := normalizeHex(s)
		return h, 1, ok
	}
	hex, alpha, ok = parseRGB(s)
	if !ok || alpha < minVisibleAlpha {
		return "", 0, false
	}
	return hex, alpha, true
}

// IsTransparent reports whether a computed colour paints nothing visible.
// Alphas below minVisibleAlpha count as transparent.
func IsTransparent(color string) bool {
	color = strings.TrimSpace(color)
	switch color {
	case "", "transparent", "rgba(0, 0, 0, 0)", "rgba(0,0,0,0)":
		return true
	}
	_, alpha, ok := parseRGB(color)
	return ok && alpha < minVisibleAlpha
}

func parseRGB(s string) (string, float64, bool) {
	s = strings.TrimSpace(s)
	if len(s) > maxValueLen {
		return "", 0, false
	}
	m := rgbPattern.FindStringSubmatch(s)
	if m == nil {
		return "", 0, false
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		v, ok := channel(m[i+1])
		if !ok {
			return "", 0, false
		}
		ch[i] = v
	}
	alpha := 1.0
	if m[4] != "" {
		a, ok := fraction(m[4])
		if !ok {
			return "", 0, false
		}
		alpha = a
	}
	c := colorful.Color{R: ch[0] / 255, G: ch[1] / 255, B: ch[2] / 255}
	return strings.ToUpper(strings.TrimPrefix(c.Hex(), "#")), alpha, true
}

// channel parses a 0-255 channel (or percentage) and clamps it.
func channel(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp(f*255/100, 0, 255), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp(f, 0, 255), true
}

func fraction(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp(f/100, 0, 1), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp(f, 0, 1), true
}

func normalizeHex(s string) (string, bool) {
	h := strings.TrimPrefix(s, "#")
	switch len(h) {
	case 3, 4:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	case 8:
		h = h[:6]
	default:
		return "", false
	}
	if _, err := strconv.ParseUint(h, 16, 32); err != nil {
		return "", false
	}
	return strings.ToUpper(h), true
}

// stopColor resolves a gradient stop colour: rgb() first, then a bare hex.
func stopColor(s string) (string, bool) {
	if hex, ok := RGBToHex(s); ok {
		return hex, true
	}
	if strings.HasPrefix(s, "#") {
		return normalizeHex(s)
	}
	return "", false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
