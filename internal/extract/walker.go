package extract

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
	"github.com/porticus-lab/go-html-pptx/internal/scene"
	"github.com/porticus-lab/go-html-pptx/internal/style"
)

// skipTags never paint.
var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "template": true,
	"noscript": true, "meta": true, "link": true, "title": true,
}

// inherited is the state a parent hands down to its children.
type inherited struct {
	opacity float64
}

// node is a visited element together with its derived stacking state.
type node struct {
	n       *dom.Node
	style   dom.Style
	rect    dom.Rect
	order   int
	z       int
	opacity float64
	rotate  float64
}

// walker holds the state of one slide extraction.
type walker struct {
	cfg    Config
	logger *slog.Logger
	origin dom.Rect
	sx, sy float64

	owned  map[*dom.Node]struct{}
	elems  []scene.Element
	order  int
	capped bool
}

func (w *walker) walk(n *dom.Node, in inherited) {
	if w.capped || !n.IsElement() || skipTags[n.Tag] || n.Layout == nil {
		return
	}
	st := n.Style()
	if !visible(st) {
		return
	}
	r := n.Rect()
	if r.W < 1 && r.H < 1 {
		return
	}

	w.order++
	nd := &node{
		n:       n,
		style:   st,
		rect:    r,
		order:   w.order,
		z:       zIndex(st, 0),
		opacity: in.opacity * opacity(st),
		rotate:  style.ParseRotation(st.Get(dom.Transform)),
	}

	w.pseudo(nd, n.Before, true)
	w.pseudo(nd, n.After, false)

	switch n.Tag {
	case "svg", "canvas":
		w.capture(nd)
		return
	case "table":
		w.table(nd)
		return
	case "ul", "ol":
		w.list(nd)
		return
	}

	w.background(nd)
	w.shape(nd)
	if n.Tag == "img" {
		w.image(nd)
		return
	}

	if runs := w.richText(n, st); runs != nil {
		el := w.place(r, nd)
		el.Type = scene.TypeText
		el.RichText = runs
		w.textStyle(&el, n, st, nd.opacity)
		w.emit(el)
	}

	for _, c := range n.Children {
		w.walk(c, inherited{opacity: nd.opacity})
	}

	w.directText(nd)
}

// emit is the single gate every element passes: it enforces the element
// cap and drops degenerate and fully off-canvas geometry.
func (w *walker) emit(el scene.Element) bool {
	if w.capped {
		return false
	}
	if el.W <= 0 && el.H <= 0 {
		return false
	}
	if el.X+el.W <= 0 || el.Y+el.H <= 0 || el.X >= w.cfg.SlideWidth || el.Y >= w.cfg.SlideHeight {
		return false
	}
	w.elems = append(w.elems, el)
	if len(w.elems) >= w.cfg.MaxElements {
		w.capped = true
	}
	return true
}

// place maps a pixel rect into slide inches relative to the container.
func (w *walker) place(r dom.Rect, nd *node) scene.Element {
	return scene.Element{
		X:        round4((r.X - w.origin.X) * w.sx),
		Y:        round4((r.Y - w.origin.Y) * w.sy),
		W:        round4(r.W * w.sx),
		H:        round4(r.H * w.sy),
		ZIndex:   nd.z,
		DOMOrder: nd.order,
		Rotate:   nd.rotate,
	}
}

func (w *walker) claim(n *dom.Node) {
	w.owned[n] = struct{}{}
}

func (w *walker) claimAll(root *dom.Node) {
	root.Walk(func(c *dom.Node) bool {
		if c.IsText() {
			w.claim(c)
		}
		return true
	})
}

func (w *walker) isOwned(n *dom.Node) bool {
	_, ok := w.owned[n]
	return ok
}

func visible(st dom.Style) bool {
	if st == nil || st.Get(dom.Display) == "none" {
		return false
	}
	switch st.Get(dom.Visibility) {
	case "hidden", "collapse":
		return false
	}
	return true
}

// zIndex returns the explicit z-index of st, or fallback for auto.
func zIndex(st dom.Style, fallback int) int {
	z, err := strconv.Atoi(st.Get(dom.ZIndex))
	if err != nil {
		return fallback
	}
	return z
}

func opacity(st dom.Style) float64 {
	v, err := strconv.ParseFloat(st.Get(dom.Opacity), 64)
	if err != nil {
		return 1
	}
	return math.Max(0, math.Min(1, v))
}

// opacityRef returns nil for fully opaque values.
func opacityRef(v float64) *float64 {
	if v >= 1 {
		return nil
	}
	v = round4(v)
	return &v
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
