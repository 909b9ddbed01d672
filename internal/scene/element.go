// Package scene defines the layered vector model recovered from a rendered
// HTML document: one Element per visual node, grouped into slides and decks.
//
// Geometry is expressed in slide inches (a fixed virtual canvas, 13.333 x 7.5
// for a 16:9 deck). Stroke widths, shadow metrics, padding and letter spacing
// stay in source CSS pixels; the generator converts them to points.
package scene

import "sort"

// Default slide canvas, in inches.
const (
	DefaultWidth  = 13.333
	DefaultHeight = 7.5
)

// Type tags an Element with the field group it populates.
type Type string

const (
	TypeShape Type = "shape"
	TypeText  Type = "text"
	TypeImage Type = "image"
	TypeList  Type = "list"
	TypeTable Type = "table"
)

// ListType selects bullet rendering for list elements.
type ListType string

const (
	ListBullet ListType = "bullet"
	ListNumber ListType = "number"
	ListNone   ListType = "none"
)

// Sizing is how an image fills its box.
type Sizing string

const (
	SizingStretch Sizing = ""
	SizingCover   Sizing = "cover"
	SizingContain Sizing = "contain"
	SizingCrop    Sizing = "crop"
)

// Gradient is a two-stop linear gradient. Angle follows CSS: 180 is top to bottom.
type Gradient struct {
	Angle  float64 `json:"angle"`
	Color1 string  `json:"color1"`
	Color2 string  `json:"color2"`
}

// Shadow is an outer box shadow in source pixels.
type Shadow struct {
	Blur    float64 `json:"blur"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// BorderSide is one edge of a non-uniform border. Width is in pixels; a zero
// width means the side is not drawn.
type BorderSide struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width"`
}

// Sides indexes Borders.
const (
	Top = iota
	Right
	Bottom
	Left
)

// Padding holds text insets in pixels.
type Padding struct {
	T float64 `json:"t"`
	R float64 `json:"r"`
	B float64 `json:"b"`
	L float64 `json:"l"`
}

// IsZero reports whether every inset is zero.
func (p Padding) IsZero() bool {
	return p.T == 0 && p.R == 0 && p.B == 0 && p.L == 0
}

// Run is one contiguous span of inline text sharing a single style.
type Run struct {
	Text       string  `json:"text"`
	Bold       bool    `json:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	Underline  bool    `json:"underline,omitempty"`
	Strike     bool    `json:"strike,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	Color      string  `json:"color,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	Hyperlink  string  `json:"hyperlink,omitempty"`
	BreakAfter bool    `json:"breakAfter,omitempty"`
}

// Bullet is one flattened list item.
type Bullet struct {
	Text        string  `json:"text"`
	IndentLevel int     `json:"indentLevel"`
	Bold        bool    `json:"bold,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// Element is a single recovered visual node.
type Element struct {
	Type     Type    `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	ZIndex   int     `json:"zIndex"`
	DOMOrder int     `json:"domOrder"`

	Fill         string         `json:"fill,omitempty"`
	Gradient     *Gradient      `json:"gradient,omitempty"`
	Opacity      *float64       `json:"opacity,omitempty"`
	BorderColor  string         `json:"borderColor,omitempty"`
	BorderWidth  float64        `json:"borderWidth,omitempty"`
	BorderRadius float64        `json:"borderRadius,omitempty"`
	Borders      *[4]BorderSide `json:"borders,omitempty"`
	Shadow       *Shadow        `json:"shadow,omitempty"`
	Rotate       float64        `json:"rotate,omitempty"`

	Text        string   `json:"text,omitempty"`
	RichText    []Run    `json:"richText,omitempty"`
	FontFamily  string   `json:"fontFamily,omitempty"`
	FontSize    float64  `json:"fontSize,omitempty"`
	Color       string   `json:"color,omitempty"`
	Bold        bool     `json:"bold,omitempty"`
	Italic      bool     `json:"italic,omitempty"`
	Underline   bool     `json:"underline,omitempty"`
	Strike      bool     `json:"strike,omitempty"`
	Align       string   `json:"align,omitempty"`
	VAlign      string   `json:"valign,omitempty"`
	LineHeight  float64  `json:"lineHeight,omitempty"`
	CharSpacing float64  `json:"charSpacing,omitempty"`
	Padding     *Padding `json:"padding,omitempty"`
	Hyperlink   string   `json:"hyperlink,omitempty"`

	Bullets  []Bullet `json:"bullets,omitempty"`
	ListType ListType `json:"listType,omitempty"`

	TableRows [][]string `json:"tableRows,omitempty"`

	ImgSrc    string `json:"imgSrc,omitempty"`
	ImgSizing Sizing `json:"imgSizing,omitempty"`
}

// Slide is an ordered element list: ascending ZIndex, then ascending DOMOrder.
type Slide struct {
	Elements []Element `json:"elements"`
}

// Sort orders the slide for insertion into a z-order-by-insertion target.
// The sort is stable so elements emitted for the same DOM node keep their
// emission order.
func (s *Slide) Sort() {
	sort.SliceStable(s.Elements, func(i, j int) bool {
		a, b := s.Elements[i], s.Elements[j]
		if a.ZIndex != b.ZIndex {
			return a.ZIndex < b.ZIndex
		}
		return a.DOMOrder < b.DOMOrder
	})
}

// Deck is one slide per detected slide container.
type Deck struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Slides []Slide `json:"slides"`
	// LocalImages allows image sources that are file URLs or paths. Only
	// documents loaded from disk set it.
	LocalImages bool `json:"localImages,omitempty"`
}

// ElementCount returns the number of elements across all slides.
func (d *Deck) ElementCount() int {
	n := 0
	for _, s := range d.Slides {
		n += len(s.Elements)
	}
	return n
}
