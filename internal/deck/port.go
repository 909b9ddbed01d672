package deck

import (
	"context"
	"io"
)

// Library is a deck-authoring capability that becomes usable once Ready is
// closed.
type Library interface {
	Ready() <-chan struct{}
	New() Author
}

// Author builds one presentation.
type Author interface {
	DefineLayout(name string, width, height float64)
	AddSlide() SlideAuthor
	Write(ctx context.Context, w io.Writer) error
}

// SlideAuthor appends content to one slide. Later calls stack above earlier
// ones.
type SlideAuthor interface {
	AddShape(kind ShapeKind, opts ShapeOptions) error
	AddText(runs []TextRun, opts TextOptions) error
	AddImage(ctx context.Context, opts ImageOptions) error
	AddTable(rows [][]TableCell, opts TableOptions) error
}

// Box is a position and size in inches.
type Box struct {
	X, Y, W, H float64
}

// ShapeKind names a preset geometry.
type ShapeKind string

const (
	ShapeRect      ShapeKind = "rect"
	ShapeRoundRect ShapeKind = "roundRect"
	ShapeLine      ShapeKind = "line"
)

// Fill is a solid colour. Transparency is a percentage.
type Fill struct {
	Color        string
	Transparency float64
}

// Gradient is a two-stop linear fill. Angle uses CSS degrees.
type Gradient struct {
	Angle        float64
	Color1       string
	Color2       string
	Transparency float64
}

// Line is a stroke. Width is in points.
type Line struct {
	Color string
	Width float64
}

// Shadow is an outer shadow. Blur and Offset are in points, Angle in degrees
// clockwise from the x axis.
type Shadow struct {
	Blur    float64
	Offset  float64
	Angle   float64
	Color   string
	Opacity float64
}

// ShapeOptions describes an auto shape.
type ShapeOptions struct {
	Box
	Fill       *Fill
	Gradient   *Gradient
	Line       *Line
	RectRadius float64 // inches, roundRect only
	Shadow     *Shadow
	Rotate     float64
}

// BulletKind selects paragraph bullets.
type BulletKind string

const (
	BulletNone   BulletKind = ""
	BulletChar   BulletKind = "char"
	BulletNumber BulletKind = "number"
)

// TextRun is one styled span. Zero values inherit from TextOptions.
// BreakLine ends the paragraph after the run.
type TextRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	FontSize  float64 // points
	Color     string
	FontFace  string
	Hyperlink string
	BreakLine bool

	// Paragraph properties, read from the first run of each paragraph.
	Bullet      BulletKind
	IndentLevel int
}

// Margin is a text inset in points.
type Margin struct {
	T, R, B, L float64
}

// TextOptions describes a text box.
type TextOptions struct {
	Box
	FontFace    string
	FontSize    float64 // points
	Color       string
	Bold        bool
	Italic      bool
	Underline   bool
	Strike      bool
	Align       string // left, center, right, justify
	VAlign      string // top, middle, bottom
	LineSpacing float64 // multiple of the font size
	CharSpacing float64 // points
	Margin      *Margin
	Hyperlink   string
	// Transparency applies to the text colour, as a percentage.
	Transparency float64
	Rotate       float64
}

// SizingKind is how an image fills its box.
type SizingKind string

const (
	SizingStretch SizingKind = ""
	SizingCover   SizingKind = "cover"
	SizingContain SizingKind = "contain"
)

// ImageOptions describes a picture. Exactly one of Data (a data: URI) and
// Path (a URL or file path) is set. File URLs and paths are read only when
// AllowLocal is set.
type ImageOptions struct {
	Box
	Data         string
	Path         string
	AllowLocal   bool
	Sizing       SizingKind
	Transparency float64
	Rotate       float64
}

// TableCell is one grid cell.
type TableCell struct {
	Text   string
	Bold   bool
	Fill   string
	Border *Line
}

// TableOptions describes a table frame.
type TableOptions struct {
	Box
	FontFace string
	FontSize float64
	Color    string
}
