package style

import (
	"math"
	"strconv"
	"strings"

	"github.com/porticus-lab/go-html-pptx/internal/scene"
)

const defaultGradientAngle = 180

var sideAngles = map[string]float64{
	"to top":          0,
	"to right":        90,
	"to bottom":       180,
	"to left":         270,
	"to top right":    45,
	"to right top":    45,
	"to bottom right": 135,
	"to right bottom": 135,
	"to bottom left":  225,
	"to left bottom":  225,
	"to top left":     315,
	"to left top":     315,
}

// ParseGradient recognises a linear gradient in a computed background-image.
// The angle defaults to 180 (top to bottom). When more than two stops are
// present the first and last are kept.
func ParseGradient(backgroundImage string) (scene.Gradient, bool) {
	s := strings.TrimSpace(backgroundImage)
	if len(s) > maxValueLen*4 {
		return scene.Gradient{}, false
	}
	start := strings.Index(s, "linear-gradient(")
	if start < 0 {
		return scene.Gradient{}, false
	}
	body, ok := parenBody(s[start+len("linear-gradient"):])
	if !ok {
		return scene.Gradient{}, false
	}
	args := SplitTopLevel(body, ',')
	if len(args) < 2 {
		return scene.Gradient{}, false
	}

	angle := float64(defaultGradientAngle)
	if a, ok := parseAngle(args[0]); ok {
		angle = a
		args = args[1:]
	} else if a, ok := sideAngles[strings.Join(strings.Fields(args[0]), " ")]; ok {
		angle = a
		args = args[1:]
	}
	if len(args) < 2 {
		return scene.Gradient{}, false
	}

	c1, ok := stopColor(stopColorPart(args[0]))
	if !ok {
		return scene.Gradient{}, false
	}
	c2, ok := stopColor(stopColorPart(args[len(args)-1]))
	if !ok {
		return scene.Gradient{}, false
	}
	return scene.Gradient{Angle: angle, Color1: c1, Color2: c2}, true
}

// parseAngle reads deg, rad, grad and turn units.
func parseAngle(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	units := []struct {
		suffix string
		scale  float64
	}{
		{"grad", 0.9},
		{"deg", 1},
		{"rad", 180 / math.Pi},
		{"turn", 360},
	}
	for _, u := range units {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
		if err != nil {
			return 0, false
		}
		return f * u.scale, true
	}
	return 0, false
}

// stopColorPart strips a trailing stop position from a colour stop.
func stopColorPart(stop string) string {
	stop = strings.TrimSpace(stop)
	if i := strings.IndexByte(stop, ')'); i >= 0 && strings.Contains(stop[:i], "(") {
		return stop[:i+1]
	}
	if f := strings.Fields(stop); len(f) > 0 {
		return f[0]
	}
	return stop
}

// parenBody returns the text between s's leading '(' and its matching ')'.
func parenBody(s string) (string, bool) {
	if !strings.HasPrefix(s, "(") {
		return "", false
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], true
			}
		}
	}
	return "", false
}

// SplitTopLevel splits s on sep, ignoring separators nested in parentheses.
func SplitTopLevel(s string, sep rune) []string {
	var parts []string
	depth, last := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[last:]))
}
