package domtest

import "github.com/porticus-lab/go-html-pptx/internal/dom"

var inherited = []dom.Property{
	dom.Color, dom.FontFamily, dom.FontSize, dom.FontWeight, dom.FontStyle,
	dom.TextAlign, dom.TextTransform, dom.LineHeight, dom.LetterSpacing,
	dom.ListStyleType, dom.Visibility,
}

var initial = dom.StyleMap{
	dom.Display:         "block",
	dom.Visibility:      "visible",
	dom.Opacity:         "1",
	dom.ZIndex:          "auto",
	dom.Position:        "static",
	dom.Overflow:        "visible",
	dom.OverflowX:       "visible",
	dom.OverflowY:       "visible",
	dom.Transform:       "none",
	dom.BoxShadow:       "none",
	dom.BackgroundColor: "rgba(0, 0, 0, 0)",
	dom.BackgroundImage: "none",
	dom.BackgroundSize:  "auto",
	dom.ObjectFit:       "fill",

	dom.BorderTopWidth:    "0px",
	dom.BorderRightWidth:  "0px",
	dom.BorderBottomWidth: "0px",
	dom.BorderLeftWidth:   "0px",
	dom.BorderTopStyle:    "none",
	dom.BorderRightStyle:  "none",
	dom.BorderBottomStyle: "none",
	dom.BorderLeftStyle:   "none",
	dom.BorderRadius:      "0px",

	dom.Color:          "rgb(0, 0, 0)",
	dom.FontFamily:     "\"Times New Roman\"",
	dom.FontSize:       "16px",
	dom.FontWeight:     "400",
	dom.FontStyle:      "normal",
	dom.TextDecoration: "none",
	dom.TextAlign:      "start",
	dom.TextTransform:  "none",
	dom.LineHeight:     "normal",
	dom.LetterSpacing:  "normal",
	dom.VerticalAlign:  "baseline",
	dom.AlignItems:     "normal",
	dom.JustifyContent: "normal",
	dom.FlexDirection:  "row",
	dom.ListStyleType:  "disc",

	dom.PaddingTop:    "0px",
	dom.PaddingRight:  "0px",
	dom.PaddingBottom: "0px",
	dom.PaddingLeft:   "0px",

	dom.Width:   "auto",
	dom.Height:  "auto",
	dom.Content: "normal",
}

var displays = map[string]string{
	"span": "inline", "b": "inline", "strong": "inline", "i": "inline", "em": "inline",
	"u": "inline", "ins": "inline", "s": "inline", "strike": "inline", "del": "inline",
	"a": "inline", "code": "inline", "mark": "inline", "small": "inline", "sub": "inline",
	"sup": "inline", "font": "inline", "br": "inline", "img": "inline", "label": "inline",
	"canvas": "inline", "svg": "inline",
	"li": "list-item", "table": "table", "tr": "table-row", "td": "table-cell",
	"th": "table-cell", "thead": "table-header-group", "tbody": "table-row-group",
	"tfoot": "table-footer-group",
	"head": "none", "script": "none", "style": "none", "title": "none", "meta": "none",
	"link": "none", "template": "none",
}

// tagStyle is the user-agent stylesheet subset fixtures rely on.
var tagStyle = map[string]dom.StyleMap{
	"b":      {dom.FontWeight: "700"},
	"strong": {dom.FontWeight: "700"},
	"th":     {dom.FontWeight: "700", dom.TextAlign: "center"},
	"i":      {dom.FontStyle: "italic"},
	"em":     {dom.FontStyle: "italic"},
	"u":      {dom.TextDecoration: "underline"},
	"ins":    {dom.TextDecoration: "underline"},
	"a":      {dom.TextDecoration: "underline", dom.Color: "rgb(0, 0, 238)"},
	"s":      {dom.TextDecoration: "line-through"},
	"strike": {dom.TextDecoration: "line-through"},
	"del":    {dom.TextDecoration: "line-through"},
	"ol":     {dom.ListStyleType: "decimal"},
	"h1":     {dom.FontSize: "32px", dom.FontWeight: "700"},
	"h2":     {dom.FontSize: "24px", dom.FontWeight: "700"},
}

// defaults returns the style an element with the given tag starts from
// before its own declarations apply.
func defaults(tag string, parent dom.StyleMap) dom.StyleMap {
	s := make(dom.StyleMap, len(initial))
	for k, v := range initial {
		s[k] = v
	}
	for _, p := range inherited {
		if v, ok := parent[p]; ok {
			s[p] = v
		}
	}
	if d, ok := displays[tag]; ok {
		s[dom.Display] = d
	}
	for k, v := range tagStyle[tag] {
		s[k] = v
	}
	return s
}
