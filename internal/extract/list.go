package extract

import (
	"strings"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
	"github.com/porticus-lab/go-html-pptx/internal/scene"
	"github.com/porticus-lab/go-html-pptx/internal/style"
)

func (w *walker) list(nd *node) {
	w.claimAll(nd.n)
	bullets := Bullets(nd.n)
	if len(bullets) == 0 {
		return
	}
	el := w.place(nd.rect, nd)
	el.Type = scene.TypeList
	el.Bullets = bullets
	el.ListType = listType(nd.n.Tag, nd.style.Get(dom.ListStyleType))
	w.textStyle(&el, nd.n, nd.style, nd.opacity)
	w.emit(el)
}

// Bullets flattens a list and its nested lists into bullets carrying their
// nesting depth.
func Bullets(list *dom.Node) []scene.Bullet {
	return appendBullets(nil, list, 0)
}

func appendBullets(out []scene.Bullet, list *dom.Node, level int) []scene.Bullet {
	for _, li := range list.Elements() {
		if li.Tag != "li" || !visible(li.Style()) {
			continue
		}
		var text strings.Builder
		var nested []*dom.Node
		li.Walk(func(c *dom.Node) bool {
			switch {
			case c == li:
				return true
			case c.IsText():
				text.WriteString(c.Data)
			case c.Layout == nil:
				return false
			case c.Tag == "ul" || c.Tag == "ol":
				nested = append(nested, c)
				return false
			case c.Tag == "br":
				text.WriteByte(' ')
			}
			return true
		})

		st := li.Style()
		t := style.ApplyTextTransform(style.CollapseWhitespace(text.String()), st.Get(dom.TextTransform))
		if t != "" {
			hex, _ := textColor(st)
			out = append(out, scene.Bullet{
				Text:        t,
				IndentLevel: level,
				Bold:        style.IsBold(st.Get(dom.FontWeight)),
				FontSize:    fontPt(st),
				Color:       hex,
			})
		}
		for _, sub := range nested {
			out = appendBullets(out, sub, level+1)
		}
	}
	return out
}

func listType(tag, styleType string) scene.ListType {
	switch styleType {
	case "none":
		return scene.ListNone
	case "disc", "circle", "square", "disclosure-open", "disclosure-closed":
		return scene.ListBullet
	case "":
		if tag == "ol" {
			return scene.ListNumber
		}
		return scene.ListBullet
	}
	return scene.ListNumber
}
