package style

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/porticus-lab/go-html-pptx/internal/scene"
)

const defaultShadowOpacity = 0.3

var (
	shadowPattern = regexp.MustCompile(`(-?[\d.]+)px\s+(-?[\d.]+)px\s+([\d.]+)px`)
	colorPattern  = regexp.MustCompile(`rgba?\([^)]*\)|#[0-9a-fA-F]{3,8}\b`)
	rotatePattern = regexp.MustCompile(`rotate(?:Z)?\(\s*(-?[\d.]+)(deg|rad|turn|grad)\s*\)`)
	matrixPattern = regexp.MustCompile(`^matrix\(\s*(-?[\d.e+-]+)\s*,\s*(-?[\d.e+-]+)\s*,`)
)

// ParseBoxShadow reads the first outer shadow of a box-shadow value.
// Inset shadows are not representable and are rejected.
func ParseBoxShadow(shadow string) (scene.Shadow, bool) {
	shadow = strings.TrimSpace(shadow)
	if shadow == "" || shadow == "none" || len(shadow) > maxValueLen {
		return scene.Shadow{}, false
	}
	first := SplitTopLevel(shadow, ',')[0]
	if strings.Contains(first, "inset") {
		return scene.Shadow{}, false
	}
	m := shadowPattern.FindStringSubmatch(first)
	if m == nil {
		return scene.Shadow{}, false
	}
	x, _ := strconv.ParseFloat(m[1], 64)
	y, _ := strconv.ParseFloat(m[2], 64)
	blur, _ := strconv.ParseFloat(m[3], 64)

	out := scene.Shadow{
		OffsetX: x,
		OffsetY: y,
		Blur:    blur,
		Color:   "000000",
		Opacity: defaultShadowOpacity,
	}
	if c := colorPattern.FindString(first); c != "" {
		hex, alpha, ok := ParseColor(c)
		if !ok {
			// A fully transparent shadow paints nothing.
			return scene.Shadow{}, false
		}
		out.Color = hex
		if strings.HasPrefix(c, "rgba") || strings.Contains(c, "/") {
			out.Opacity = alpha
		}
	}
	return out, true
}

// ParseRotation returns the rotation in degrees encoded in a transform value,
// either as rotate(...) or as the matrix(...) form browsers compute.
func ParseRotation(transform string) float64 {
	transform = strings.TrimSpace(transform)
	if transform == "" || transform == "none" || len(transform) > maxValueLen {
		return 0
	}
	if m := rotatePattern.FindStringSubmatch(transform); m != nil {
		deg, ok := parseAngle(m[1] + m[2])
		if !ok {
			return 0
		}
		return round2(deg)
	}
	if m := matrixPattern.FindStringSubmatch(transform); m != nil {
		a, errA := strconv.ParseFloat(m[1], 64)
		b, errB := strconv.ParseFloat(m[2], 64)
		if errA != nil || errB != nil {
			return 0
		}
		return round2(math.Atan2(b, a) * 180 / math.Pi)
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
