// Package deck turns a scene.Deck into calls against a deck-authoring
// library. Insertion order is stacking order, so elements are emitted in the
// order the extractor sorted them.
package deck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/porticus-lab/go-html-pptx/internal/scene"
	"github.com/porticus-lab/go-html-pptx/internal/style"
)

// LayoutName is the custom page size registered on every deck.
const LayoutName = "HTML2PPTX"

// Table styling applied to every table.
const (
	HeaderFill  = "F2F2F2"
	CellBorder  = "BFBFBF"
	borderWidth = 0.5 // pt
)

// edgeEpsilon is the thickness given to border lines along one axis.
const edgeEpsilon = 0.001

// Stats summarises one generation.
type Stats struct {
	Slides   int
	Elements int
	Skipped  int
}

// Generator writes decks through a Library.
type Generator struct {
	lib    Library
	logger *slog.Logger
}

// NewGenerator returns a Generator over lib. A nil logger uses slog.Default.
func NewGenerator(lib Library, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{lib: lib, logger: logger.With("component", "deck")}
}

// Ready reports whether the library can be used without waiting.
func (g *Generator) Ready() bool {
	select {
	case <-g.lib.Ready():
		return true
	default:
		return false
	}
}

// AwaitReady blocks until lib is ready or ctx is done.
func AwaitReady(ctx context.Context, lib Library) error {
	select {
	case <-lib.Ready():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Generate writes d to w. It fails fast with ErrLibraryNotReady when the
// library has not loaded and with ErrEmptyDeck when d has no elements.
// Elements that fail individually are logged and counted in Stats.Skipped.
func (g *Generator) Generate(ctx context.Context, d *scene.Deck, w io.Writer) (Stats, error) {
	if !g.Ready() {
		return Stats{}, ErrLibraryNotReady
	}
	if d == nil || d.ElementCount() == 0 {
		return Stats{}, ErrEmptyDeck
	}
	if d.Width <= 0 || d.Height <= 0 {
		return Stats{}, ErrZeroLayout
	}

	author := g.lib.New()
	author.DefineLayout(LayoutName, d.Width, d.Height)

	var stats Stats
	for i, s := range d.Slides {
		sa := author.AddSlide()
		stats.Slides++
		for j := range s.Elements {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			el := &s.Elements[j]
			if err := g.emit(ctx, sa, el, d.LocalImages); err != nil {
				g.logger.Warn("element failed, skipping",
					"slide", i+1, "type", el.Type, "order", el.DOMOrder, "error", err)
				stats.Skipped++
				continue
			}
			stats.Elements++
		}
	}

	if err := author.Write(ctx, w); err != nil {
		return stats, fmt.Errorf("deck: writing: %w", err)
	}
	g.logger.Debug("deck written", "slides", stats.Slides, "elements", stats.Elements, "skipped", stats.Skipped)
	return stats, nil
}

func (g *Generator) emit(ctx context.Context, sa SlideAuthor, el *scene.Element, local bool) error {
	switch el.Type {
	case scene.TypeShape:
		return emitShape(sa, el)
	case scene.TypeText:
		return sa.AddText(textRuns(el), textOptions(el))
	case scene.TypeList:
		return sa.AddText(listRuns(el), textOptions(el))
	case scene.TypeTable:
		return sa.AddTable(tableCells(el.TableRows), TableOptions{
			Box:      box(el),
			FontFace: el.FontFamily,
			FontSize: el.FontSize,
			Color:    el.Color,
		})
	case scene.TypeImage:
		opts := imageOptions(el)
		opts.AllowLocal = local && opts.Path != ""
		return sa.AddImage(ctx, opts)
	default:
		return fmt.Errorf("unknown element type %q", el.Type)
	}
}

func box(el *scene.Element) Box {
	return Box{X: el.X, Y: el.Y, W: el.W, H: el.H}
}

// Transparency converts an opacity to a transparency percentage.
func Transparency(opacity *float64) float64 {
	if opacity == nil {
		return 0
	}
	op := math.Max(0, math.Min(1, *opacity))
	return math.Round((1-op)*10000) / 100
}

func emitShape(sa SlideAuthor, el *scene.Element) error {
	transparency := Transparency(el.Opacity)
	opts := ShapeOptions{Box: box(el), Rotate: el.Rotate}
	switch {
	case el.Gradient != nil:
		opts.Gradient = &Gradient{
			Angle:        el.Gradient.Angle,
			Color1:       el.Gradient.Color1,
			Color2:       el.Gradient.Color2,
			Transparency: transparency,
		}
	case el.Fill != "":
		opts.Fill = &Fill{Color: el.Fill, Transparency: transparency}
	}
	if el.BorderColor != "" && el.BorderWidth > 0 {
		opts.Line = &Line{Color: el.BorderColor, Width: style.PxToPt(el.BorderWidth)}
	}
	if s := el.Shadow; s != nil {
		angle := math.Atan2(s.OffsetY, s.OffsetX) * 180 / math.Pi
		if angle < 0 {
			angle += 360
		}
		opts.Shadow = &Shadow{
			Blur:    style.PxToPt(s.Blur),
			Offset:  style.PxToPt(math.Hypot(s.OffsetX, s.OffsetY)),
			Angle:   angle,
			Color:   s.Color,
			Opacity: s.Opacity,
		}
	}

	kind := ShapeRect
	if el.BorderRadius > 0 {
		kind = ShapeRoundRect
		opts.RectRadius = math.Min(el.BorderRadius, math.Min(el.W, el.H)/2)
	}

	// A box painted only by per-side borders has no body of its own.
	if opts.Fill != nil || opts.Gradient != nil || opts.Line != nil || opts.Shadow != nil {
		if err := sa.AddShape(kind, opts); err != nil {
			return err
		}
	}
	if el.Borders != nil {
		return emitBorders(sa, el)
	}
	return nil
}

// emitBorders draws each non-uniform border side as its own line.
func emitBorders(sa SlideAuthor, el *scene.Element) error {
	edges := [4]Box{
		scene.Top:    {X: el.X, Y: el.Y, W: el.W, H: edgeEpsilon},
		scene.Right:  {X: el.X + el.W, Y: el.Y, W: edgeEpsilon, H: el.H},
		scene.Bottom: {X: el.X, Y: el.Y + el.H, W: el.W, H: edgeEpsilon},
		scene.Left:   {X: el.X, Y: el.Y, W: edgeEpsilon, H: el.H},
	}
	for i, side := range el.Borders {
		if side.Width <= 0 || side.Color == "" {
			continue
		}
		b := edges[i]
		b.W = math.Max(b.W, edgeEpsilon)
		b.H = math.Max(b.H, edgeEpsilon)
		err := sa.AddShape(ShapeLine, ShapeOptions{
			Box:  b,
			Line: &Line{Color: side.Color, Width: style.PxToPt(side.Width)},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func textOptions(el *scene.Element) TextOptions {
	opts := TextOptions{
		Box:          box(el),
		FontFace:     el.FontFamily,
		FontSize:     el.FontSize,
		Color:        el.Color,
		Bold:         el.Bold,
		Italic:       el.Italic,
		Underline:    el.Underline,
		Strike:       el.Strike,
		Align:        el.Align,
		VAlign:       el.VAlign,
		LineSpacing:  el.LineHeight,
		CharSpacing:  style.PxToPt(el.CharSpacing),
		Hyperlink:    el.Hyperlink,
		Transparency: Transparency(el.Opacity),
		Rotate:       el.Rotate,
	}
	if p := el.Padding; p != nil && !p.IsZero() {
		opts.Margin = &Margin{
			T: style.PxToPt(p.T),
			R: style.PxToPt(p.R),
			B: style.PxToPt(p.B),
			L: style.PxToPt(p.L),
		}
	}
	return opts
}

func textRuns(el *scene.Element) []TextRun {
	if len(el.RichText) == 0 {
		return []TextRun{{
			Text:      el.Text,
			Bold:      el.Bold,
			Italic:    el.Italic,
			Underline: el.Underline,
			Strike:    el.Strike,
			FontSize:  el.FontSize,
			Color:     el.Color,
			FontFace:  el.FontFamily,
			Hyperlink: el.Hyperlink,
		}}
	}
	runs := make([]TextRun, 0, len(el.RichText))
	for _, r := range el.RichText {
		runs = append(runs, TextRun{
			Text:      r.Text,
			Bold:      r.Bold,
			Italic:    r.Italic,
			Underline: r.Underline,
			Strike:    r.Strike,
			FontSize:  r.FontSize,
			Color:     r.Color,
			FontFace:  r.FontFamily,
			Hyperlink: r.Hyperlink,
			BreakLine: r.BreakAfter,
		})
	}
	return runs
}

func listRuns(el *scene.Element) []TextRun {
	kind := BulletChar
	switch el.ListType {
	case scene.ListNumber:
		kind = BulletNumber
	case scene.ListNone:
		kind = BulletNone
	}
	runs := make([]TextRun, 0, len(el.Bullets))
	for i, b := range el.Bullets {
		runs = append(runs, TextRun{
			Text:        b.Text,
			Bold:        b.Bold,
			FontSize:    b.FontSize,
			Color:       b.Color,
			BreakLine:   i < len(el.Bullets)-1,
			Bullet:      kind,
			IndentLevel: b.IndentLevel,
		})
	}
	return runs
}

// tableCells styles the grid: the first row is the header, every cell gets
// the same light border. Short rows are padded.
func tableCells(rows [][]string) [][]TableCell {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	out := make([][]TableCell, len(rows))
	for i, r := range rows {
		out[i] = make([]TableCell, cols)
		for j := range out[i] {
			c := TableCell{Border: &Line{Color: CellBorder, Width: borderWidth}}
			if j < len(r) {
				c.Text = r[j]
			}
			if i == 0 {
				c.Bold = true
				c.Fill = HeaderFill
			}
			out[i][j] = c
		}
	}
	return out
}

func imageOptions(el *scene.Element) ImageOptions {
	opts := ImageOptions{
		Box:          box(el),
		Transparency: Transparency(el.Opacity),
		Rotate:       el.Rotate,
	}
	if strings.HasPrefix(el.ImgSrc, "data:") {
		opts.Data = el.ImgSrc
	} else {
		opts.Path = el.ImgSrc
	}
	switch el.ImgSizing {
	case scene.SizingCover, scene.SizingCrop:
		opts.Sizing = SizingCover
	case scene.SizingContain:
		opts.Sizing = SizingContain
	}
	return opts
}
