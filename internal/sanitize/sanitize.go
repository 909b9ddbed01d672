// Package sanitize cleans untrusted HTML before it reaches the rendering
// surface. Documents keep their <head>, <style> and <link> elements and
// class and style attributes; scripts and event handlers are removed.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var layoutElements = []string{
	"html", "head", "body", "title", "meta", "style", "link",
	"main", "section", "article", "header", "footer", "nav", "aside",
	"figure", "figcaption", "div", "span", "font", "mark", "small",
	"sub", "sup", "s", "strike", "del", "ins", "u", "canvas",
}

var svgElements = []string{
	"svg", "g", "path", "rect", "circle", "ellipse", "line", "polyline",
	"polygon", "text", "tspan", "defs", "lineargradient", "radialgradient",
	"stop", "clippath", "mask", "pattern", "symbol", "title", "desc",
}

var svgAttrs = []string{
	"xmlns", "viewbox", "preserveaspectratio", "width", "height",
	"x", "y", "x1", "y1", "x2", "y2", "cx", "cy", "r", "rx", "ry", "d", "points",
	"fill", "fill-opacity", "fill-rule", "stroke", "stroke-width", "stroke-linecap",
	"stroke-linejoin", "stroke-dasharray", "stroke-opacity", "opacity", "transform",
	"offset", "stop-color", "stop-opacity", "gradientunits", "gradienttransform",
	"font-size", "font-family", "font-weight", "text-anchor", "dominant-baseline",
	"clip-path", "mask",
}

// Sanitizer is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a Sanitizer over a user-generated-content policy extended
// for whole slide documents.
func New() *Sanitizer {
	p := bluemonday.UGCPolicy()
	// Style element content is written verbatim only with AllowUnsafe.
	// Script elements stay disallowed.
	p.AllowUnsafe(true)
	p.AllowElements(layoutElements...)
	p.AllowAttrs("class", "style", "id").Globally()
	p.AllowAttrs("charset", "name", "content").OnElements("meta")
	p.AllowAttrs("rel", "href", "type", "media").OnElements("link")
	p.AllowAttrs("width", "height").OnElements("canvas", "img")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowDataURIImages()
	p.AllowElements(svgElements...)
	p.AllowAttrs(svgAttrs...).OnElements(svgElements...)
	return &Sanitizer{policy: p}
}

// Sanitize returns a complete HTML document. Fragments are wrapped in a
// minimal document.
func (s *Sanitizer) Sanitize(src string) string {
	return Document(s.policy.Sanitize(src))
}

// Document prefixes a doctype and wraps fragments in html and body
// elements.
func Document(src string) string {
	if !IsDocument(src) {
		src = `<html><head><meta charset="utf-8"></head><body>` + src + `</body></html>`
	}
	if hasDoctype(src) {
		return src
	}
	return "<!DOCTYPE html>\n" + src
}

// IsDocument reports whether src has a doctype or an html, head or body
// tag anywhere.
func IsDocument(src string) bool {
	z := html.NewTokenizer(strings.NewReader(src))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.DoctypeToken:
			return true
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Html, atom.Head, atom.Body:
				return true
			}
		}
	}
}

func hasDoctype(src string) bool {
	z := html.NewTokenizer(strings.NewReader(src))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.DoctypeToken:
			return true
		case html.CommentToken:
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return false
			}
		default:
			return false
		}
	}
}
