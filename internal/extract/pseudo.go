package extract

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
	"github.com/porticus-lab/go-html-pptx/internal/scene"
	"github.com/porticus-lab/go-html-pptx/internal/style"
)

// Glyph box estimate for pseudo-elements the snapshot has no box for.
const (
	glyphWidthEm  = 0.6
	glyphHeightEm = 1.2
)

// dynamicContent lists content forms that depend on document state.
var dynamicContent = []string{
	"counter(", "counters(", "attr(", "url(", "image-set(",
	"open-quote", "close-quote", "no-open-quote", "no-close-quote",
}

// pseudo emits a ::before or ::after box as a shape, a text element, or
// both.
func (w *walker) pseudo(host *node, p *dom.Pseudo, before bool) {
	if p == nil || p.Style == nil || !visible(p.Style) {
		return
	}
	st := p.Style
	raw := strings.TrimSpace(st.Get(dom.Content))
	switch raw {
	case "", "none", "normal":
		return
	}
	for _, d := range dynamicContent {
		if strings.Contains(raw, d) {
			w.logger.Warn("unsupported pseudo-element content, skipping", "tag", host.n.Tag, "content", raw)
			return
		}
	}
	text, ok := contentString(raw)
	if !ok {
		w.logger.Warn("unparseable pseudo-element content, skipping", "tag", host.n.Tag, "content", raw)
		return
	}
	text = style.ApplyTextTransform(text, st.Get(dom.TextTransform))

	r, ok := pseudoBox(host.rect, p, text, before)
	if !ok {
		return
	}

	w.order++
	nd := &node{
		n:       host.n,
		style:   st,
		rect:    r,
		order:   w.order,
		z:       zIndex(st, host.z),
		opacity: host.opacity * opacity(st),
		rotate:  host.rotate,
	}
	box := w.place(r, nd)
	if w.paint(&box, st, r, nd.opacity) {
		w.emit(box)
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	el := w.place(r, nd)
	el.Type = scene.TypeText
	el.Text = text
	w.textStyle(&el, host.n, st, nd.opacity)
	el.Padding = nil
	w.emit(el)
}

// pseudoBox returns the rendered box when there is one, otherwise a box
// beside the host sized from explicit dimensions or the glyph estimate.
func pseudoBox(host dom.Rect, p *dom.Pseudo, text string, before bool) (dom.Rect, bool) {
	if p.HasRect && (p.Rect.W >= 1 || p.Rect.H >= 1) {
		return p.Rect, true
	}
	size := fontPx(p.Style)
	width, okW := style.ParsePx(p.Style.Get(dom.Width))
	height, okH := style.ParsePx(p.Style.Get(dom.Height))
	glyphs := utf8.RuneCountInString(text)
	if !okW {
		width = float64(glyphs) * size * glyphWidthEm
	}
	if !okH {
		height = size * glyphHeightEm
		if glyphs == 0 {
			height = 0
		}
	}
	if width < 1 && height < 1 {
		return dom.Rect{}, false
	}
	r := dom.Rect{Y: host.Y, W: width, H: height}
	if before {
		r.X = host.X - width
	} else {
		r.X = host.Right()
	}
	return r, true
}

// contentString decodes a computed content value made of quoted strings.
func contentString(v string) (string, bool) {
	var b strings.Builder
	for {
		v = strings.TrimLeft(v, " \t")
		if v == "" {
			return b.String(), true
		}
		q := v[0]
		if q != '"' && q != '\'' {
			return "", false
		}
		i := 1
		closed := false
		for i < len(v) {
			c := v[i]
			if c == q {
				closed = true
				i++
				break
			}
			if c == '\\' && i+1 < len(v) {
				r, n := unescape(v[i+1:])
				b.WriteString(r)
				i += 1 + n
				continue
			}
			b.WriteByte(c)
			i++
		}
		if !closed {
			return "", false
		}
		v = v[i:]
	}
}

// unescape decodes a CSS escape following a backslash and returns the text
// and the number of bytes consumed.
func unescape(s string) (string, int) {
	n := 0
	for n < len(s) && n < 6 && isHex(s[n]) {
		n++
	}
	if n == 0 {
		_, size := utf8.DecodeRuneInString(s)
		return s[:size], size
	}
	cp, err := strconv.ParseUint(s[:n], 16, 32)
	consumed := n
	if consumed < len(s) && s[consumed] == ' ' {
		consumed++
	}
	if err != nil || cp == 0 || cp > utf8.MaxRune {
		return string(utf8.RuneError), consumed
	}
	return string(rune(cp)), consumed
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
