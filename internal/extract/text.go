package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
	"github.com/porticus-lab/go-html-pptx/internal/scene"
	"github.com/porticus-lab/go-html-pptx/internal/style"
)

const defaultFontPx = 16

// inlineTags may appear inside a rich text block.
var inlineTags = map[string]bool{
	"b": true, "strong": true, "i": true, "em": true, "u": true, "ins": true,
	"s": true, "strike": true, "del": true, "a": true, "br": true, "span": true,
	"code": true, "mark": true, "small": true, "sub": true, "sup": true, "font": true,
}

// richText returns inline runs for mixed content: unclaimed direct text next
// to recognised inline children, and nothing else rendered. It returns nil
// when plain text extraction applies.
func (w *walker) richText(n *dom.Node, st dom.Style) []scene.Run {
	hasText, hasInline := false, false
	for _, c := range n.Children {
		switch {
		case c.IsText():
			if !w.isOwned(c) && strings.TrimSpace(c.Data) != "" {
				hasText = true
			}
		case c.IsElement():
			if c.Layout == nil || skipTags[c.Tag] {
				continue
			}
			if !inlineTags[c.Tag] {
				return nil
			}
			hasInline = true
		}
	}
	if !hasText || !hasInline {
		return nil
	}
	return w.runs(n, st)
}

func (w *walker) runs(n *dom.Node, st dom.Style) []scene.Run {
	var runs []scene.Run
	w.appendRuns(&runs, n, st, false)
	return trimRuns(runs)
}

// appendRuns adds a run per text node under n, recursing into inline
// children, and marks each <br> on the preceding run. Below the top level,
// claimed text is taken as well.
func (w *walker) appendRuns(runs *[]scene.Run, n *dom.Node, st dom.Style, nested bool) {
	link := hyperlink(n)
	for _, c := range n.Children {
		switch {
		case c.IsText():
			if !nested && w.isOwned(c) {
				continue
			}
			w.claim(c)
			text := collapseInline(c.Data)
			if text == "" {
				continue
			}
			r := runStyle(st)
			r.Text = style.ApplyTextTransform(text, st.Get(dom.TextTransform))
			r.Hyperlink = link
			*runs = append(*runs, r)

		case c.IsElement() && c.Tag == "br":
			if len(*runs) == 0 {
				*runs = append(*runs, scene.Run{BreakAfter: true})
			} else {
				(*runs)[len(*runs)-1].BreakAfter = true
			}

		case c.IsElement() && c.Layout != nil && !skipTags[c.Tag]:
			w.appendRuns(runs, c, c.Style(), true)
		}
	}
}

// trimRuns drops white space at line starts and ends, then empty runs that
// carry no break.
func trimRuns(runs []scene.Run) []scene.Run {
	lineStart := true
	for i := range runs {
		if lineStart {
			runs[i].Text = strings.TrimLeftFunc(runs[i].Text, unicode.IsSpace)
		}
		if runs[i].BreakAfter || i == len(runs)-1 {
			runs[i].Text = strings.TrimRightFunc(runs[i].Text, unicode.IsSpace)
		}
		lineStart = runs[i].BreakAfter || (lineStart && runs[i].Text == "")
	}
	out := runs[:0]
	for _, r := range runs {
		if r.Text != "" || r.BreakAfter {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// collapseInline folds white space like CSS normal wrapping, keeping a
// single leading or trailing space so adjacent runs stay separated.
func collapseInline(s string) string {
	inner := strings.Join(strings.Fields(s), " ")
	if inner == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsSpace(first) {
		inner = " " + inner
	}
	if unicode.IsSpace(last) {
		inner += " "
	}
	return inner
}

func runStyle(st dom.Style) scene.Run {
	deco := st.Get(dom.TextDecoration)
	hex, _ := textColor(st)
	return scene.Run{
		Bold:       style.IsBold(st.Get(dom.FontWeight)),
		Italic:     italic(st),
		Underline:  strings.Contains(deco, "underline"),
		Strike:     strings.Contains(deco, "line-through"),
		FontSize:   fontPt(st),
		Color:      hex,
		FontFamily: style.FirstFontFamily(st.Get(dom.FontFamily)),
	}
}

// directText emits the node's own unclaimed text nodes after its children
// had the chance to claim theirs.
func (w *walker) directText(nd *node) {
	var parts []string
	var nodes []*dom.Node
	for _, c := range nd.n.Children {
		if c.IsText() && !w.isOwned(c) {
			parts = append(parts, c.Data)
			nodes = append(nodes, c)
		}
	}
	text := style.CollapseWhitespace(strings.Join(parts, " "))
	if text == "" {
		return
	}
	for _, c := range nodes {
		w.claim(c)
	}

	el := w.place(nd.rect, nd)
	el.Type = scene.TypeText
	el.Text = style.ApplyTextTransform(text, nd.style.Get(dom.TextTransform))
	w.textStyle(&el, nd.n, nd.style, nd.opacity)
	w.emit(el)
}

// textStyle copies font, alignment and spacing metadata onto a text-bearing
// element.
func (w *walker) textStyle(el *scene.Element, n *dom.Node, st dom.Style, opacity float64) {
	deco := st.Get(dom.TextDecoration)
	hex, alpha := textColor(st)

	el.FontFamily = style.FirstFontFamily(st.Get(dom.FontFamily))
	el.FontSize = fontPt(st)
	el.Color = hex
	el.Bold = style.IsBold(st.Get(dom.FontWeight))
	el.Italic = italic(st)
	el.Underline = strings.Contains(deco, "underline")
	el.Strike = strings.Contains(deco, "line-through")
	el.Align = textAlign(st.Get(dom.TextAlign))
	el.VAlign = verticalAlign(st)
	el.LineHeight = lineHeight(st)
	if ls, ok := style.ParsePx(st.Get(dom.LetterSpacing)); ok {
		el.CharSpacing = ls
	}
	el.Padding = padding(st)
	el.Hyperlink = hyperlink(n)
	el.Opacity = opacityRef(opacity * alpha)
}

func fontPx(st dom.Style) float64 {
	if v, ok := style.ParsePx(st.Get(dom.FontSize)); ok && v > 0 {
		return v
	}
	return defaultFontPx
}

func fontPt(st dom.Style) float64 {
	return round2(style.ClampFontPt(style.PxToPt(fontPx(st))))
}

// textColor falls back to black when the colour cannot be represented.
func textColor(st dom.Style) (string, float64) {
	if hex, alpha, ok := style.ParseColor(st.Get(dom.Color)); ok {
		return hex, alpha
	}
	return "000000", 1
}

func italic(st dom.Style) bool {
	fs := st.Get(dom.FontStyle)
	return fs == "italic" || strings.HasPrefix(fs, "oblique")
}

func textAlign(v string) string {
	switch v {
	case "center", "-webkit-center":
		return "center"
	case "right", "end", "-webkit-right":
		return "right"
	case "justify":
		return "justify"
	}
	return "left"
}

// verticalAlign infers vertical placement from flex alignment or table-cell
// vertical-align.
func verticalAlign(st dom.Style) string {
	switch st.Get(dom.Display) {
	case "flex", "inline-flex":
		axis := dom.AlignItems
		if strings.HasPrefix(st.Get(dom.FlexDirection), "column") {
			axis = dom.JustifyContent
		}
		switch st.Get(axis) {
		case "center", "safe center":
			return "middle"
		case "flex-end", "end":
			return "bottom"
		}
	case "table-cell":
		switch st.Get(dom.VerticalAlign) {
		case "middle":
			return "middle"
		case "bottom":
			return "bottom"
		}
	}
	return "top"
}

// lineHeight returns the line height as a multiple of the font size, or 0
// for normal.
func lineHeight(st dom.Style) float64 {
	v := st.Get(dom.LineHeight)
	if !strings.HasSuffix(v, "px") {
		return 0
	}
	lh, ok := style.ParsePx(v)
	if !ok || lh <= 0 {
		return 0
	}
	return round2(lh / fontPx(st))
}

func padding(st dom.Style) *scene.Padding {
	read := func(p dom.Property) float64 {
		v, _ := style.ParsePx(st.Get(p))
		return v
	}
	p := scene.Padding{
		T: read(dom.PaddingTop),
		R: read(dom.PaddingRight),
		B: read(dom.PaddingBottom),
		L: read(dom.PaddingLeft),
	}
	if p.IsZero() {
		return nil
	}
	return &p
}

// hyperlink returns the href of the nearest enclosing anchor.
func hyperlink(n *dom.Node) string {
	a := n.Closest("a")
	if a == nil {
		return ""
	}
	href := strings.TrimSpace(a.Attrs["href"])
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	return href
}
