package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
	"github.com/porticus-lab/go-html-pptx/internal/scene"
	"github.com/porticus-lab/go-html-pptx/internal/style"
)

var (
	borderWidths = [4]dom.Property{dom.BorderTopWidth, dom.BorderRightWidth, dom.BorderBottomWidth, dom.BorderLeftWidth}
	borderStyles = [4]dom.Property{dom.BorderTopStyle, dom.BorderRightStyle, dom.BorderBottomStyle, dom.BorderLeftStyle}
	borderColors = [4]dom.Property{dom.BorderTopColor, dom.BorderRightColor, dom.BorderBottomColor, dom.BorderLeftColor}
)

// shape emits the node's box when it paints a background, a border or a
// gradient.
func (w *walker) shape(nd *node) {
	el := w.place(nd.rect, nd)
	if w.paint(&el, nd.style, nd.rect, nd.opacity) {
		w.emit(el)
	}
}

// paint fills el with the box paint described by st and reports whether
// there is any. Gradient and solid fill are both recorded; the generator
// prefers the gradient.
func (w *walker) paint(el *scene.Element, st dom.Style, r dom.Rect, opacity float64) bool {
	painted := false
	if bg := st.Get(dom.BackgroundColor); !style.IsTransparent(bg) {
		if hex, alpha, ok := style.ParseColor(bg); ok {
			el.Fill = hex
			opacity *= alpha
			painted = true
		}
	}
	if g, ok := style.ParseGradient(st.Get(dom.BackgroundImage)); ok {
		el.Gradient = &g
		painted = true
	}

	sides, n := readBorders(st)
	switch {
	case n == 4 && uniform(sides):
		el.BorderColor = sides[scene.Top].Color
		el.BorderWidth = sides[scene.Top].Width
		painted = true
	case n > 0:
		el.Borders = &sides
		painted = true
	}
	if !painted {
		return false
	}

	el.Type = scene.TypeShape
	el.BorderRadius = round4(radiusPx(st.Get(dom.BorderRadius), r) * math.Min(w.sx, w.sy))
	if s, ok := style.ParseBoxShadow(st.Get(dom.BoxShadow)); ok {
		el.Shadow = &s
	}
	el.Opacity = opacityRef(opacity)
	return true
}

// readBorders returns the four sides and how many of them are drawn.
func readBorders(st dom.Style) (sides [4]scene.BorderSide, drawn int) {
	for i := range sides {
		switch st.Get(borderStyles[i]) {
		case "none", "hidden":
			continue
		}
		color := st.Get(borderColors[i])
		if style.IsTransparent(color) {
			continue
		}
		width, ok := style.ParsePx(st.Get(borderWidths[i]))
		if !ok || width <= 0 {
			continue
		}
		hex, _, ok := style.ParseColor(color)
		if !ok {
			continue
		}
		sides[i] = scene.BorderSide{Color: hex, Width: width}
		drawn++
	}
	return sides, drawn
}

func uniform(sides [4]scene.BorderSide) bool {
	for _, s := range sides[1:] {
		if s != sides[0] {
			return false
		}
	}
	return true
}

// radiusPx resolves a corner radius against the box. Elliptical radii use
// the horizontal component.
func radiusPx(v string, r dom.Rect) float64 {
	f := strings.Fields(v)
	if len(f) == 0 {
		return 0
	}
	if pct, ok := strings.CutSuffix(f[0], "%"); ok {
		p, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0
		}
		return p / 100 * math.Min(r.W, r.H)
	}
	px, _ := style.ParsePx(f[0])
	return math.Max(0, px)
}

// background emits a background-image URL as an image beneath the node's
// own shape.
func (w *walker) background(nd *node) {
	bg := nd.style.Get(dom.BackgroundImage)
	if _, ok := style.ParseGradient(bg); ok {
		return
	}
	src := cssURL(bg)
	if src == "" {
		return
	}
	el := w.place(nd.rect, nd)
	el.Type = scene.TypeImage
	el.ImgSrc = src
	size, _, _ := strings.Cut(strings.TrimSpace(nd.style.Get(dom.BackgroundSize)), " ")
	switch size {
	case "cover":
		el.ImgSizing = scene.SizingCover
	case "contain":
		el.ImgSizing = scene.SizingContain
	}
	el.Opacity = opacityRef(nd.opacity)
	w.emit(el)
}

// image emits an <img>. A clipping parent stands in for the clip: the image
// takes the parent's box and is cropped to it.
func (w *walker) image(nd *node) {
	src := strings.TrimSpace(nd.n.Attrs["src"])
	if src == "" {
		return
	}
	r := nd.rect
	var sizing scene.Sizing
	if p := nd.n.ParentElement(); p != nil && p.Layout != nil && clips(p.Style()) {
		r = p.Rect()
		sizing = scene.SizingCrop
	} else {
		switch nd.style.Get(dom.ObjectFit) {
		case "cover":
			sizing = scene.SizingCover
		case "contain", "scale-down":
			sizing = scene.SizingContain
		}
	}
	el := w.place(r, nd)
	el.Type = scene.TypeImage
	el.ImgSrc = src
	el.ImgSizing = sizing
	el.Opacity = opacityRef(nd.opacity)
	w.emit(el)
}

// capture emits a serialised <svg> or <canvas> as an image. Capture
// failures drop the element.
func (w *walker) capture(nd *node) {
	c := nd.n.Capture
	switch {
	case c == nil:
		w.logger.Warn("element not captured, skipping", "tag", nd.n.Tag)
		return
	case c.Err != nil:
		w.logger.Warn("element capture failed, skipping", "tag", nd.n.Tag, "error", c.Err)
		return
	case c.DataURI == "":
		return
	}
	el := w.place(nd.rect, nd)
	el.Type = scene.TypeImage
	el.ImgSrc = c.DataURI
	el.Opacity = opacityRef(nd.opacity)
	w.emit(el)
}

func clips(st dom.Style) bool {
	for _, p := range []dom.Property{dom.Overflow, dom.OverflowX, dom.OverflowY} {
		switch st.Get(p) {
		case "hidden", "clip":
			return true
		}
	}
	return false
}

// cssURL returns the first url(...) reference in a CSS value.
func cssURL(v string) string {
	i := strings.Index(v, "url(")
	if i < 0 {
		return ""
	}
	rest := strings.TrimLeft(v[i+len("url("):], " ")
	if rest == "" {
		return ""
	}
	if q := rest[0]; q == '"' || q == '\'' {
		end := strings.IndexByte(rest[1:], q)
		if end < 0 {
			return ""
		}
		return rest[1 : end+1]
	}
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
