package style

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Font size bounds in points.
const (
	MinFontPt = 6
	MaxFontPt = 72
)

// PtPerPx converts CSS pixels to points.
const PtPerPx = 0.75

// ApplyTextTransform applies a CSS text-transform keyword.
func ApplyTextTransform(text, transform string) string {
	switch strings.TrimSpace(transform) {
	case "uppercase":
		return strings.ToUpper(text)
	case "lowercase":
		return strings.ToLower(text)
	case "capitalize":
		// A Caser carries state and is not safe to share.
		return cases.Title(language.Und, cases.NoLower).String(text)
	default:
		return text
	}
}

// CollapseWhitespace folds runs of white space into single spaces and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParsePx parses a pixel length such as "12px" or "0".
func ParsePx(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 64 {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// PxToPt converts pixels to points.
func PxToPt(px float64) float64 {
	return px * PtPerPx
}

// ClampFontPt keeps a font size within a displayable range.
func ClampFontPt(pt float64) float64 {
	return clamp(pt, MinFontPt, MaxFontPt)
}

// FirstFontFamily returns the first family of a font-family list, unquoted.
func FirstFontFamily(families string) string {
	first := strings.SplitN(families, ",", 2)[0]
	return strings.Trim(strings.TrimSpace(first), `"'`)
}

// IsBold reports whether a computed font-weight renders bold.
func IsBold(weight string) bool {
	switch weight = strings.TrimSpace(weight); weight {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(weight)
	return err == nil && n >= 600
}
