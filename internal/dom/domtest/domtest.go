// Package domtest builds dom.Document fixtures from annotated HTML so layout
// dependent code can be tested without a browser.
//
// Markup is parsed with golang.org/x/net/html. Layout and pseudo-elements are
// described with attributes:
//
//	data-rect="x,y,w,h"          layout box; defaults to the parent's box
//	data-hidden                  node produced no box
//	data-before="content: 'x'"   ::before computed style declarations
//	data-before-rect="x,y,w,h"   ::before layout box (also data-after-*)
//	data-capture="data:..."      serialised SVG or canvas bitmap
//	data-capture-error="reason"  capture failure
//
// The style attribute is taken as the element's computed style, layered over
// browser-like defaults with inheritance for the inheritable properties.
// display:none removes the box, as a browser snapshot does.
package domtest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
	"github.com/porticus-lab/go-html-pptx/internal/style"
)

// Viewport is the layout viewport fixtures render into.
var Viewport = dom.Rect{W: 1280, H: 720}

// MustParse is Parse for tests.
func MustParse(t testing.TB, src string) *dom.Document {
	t.Helper()
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("domtest: %v", err)
	}
	return doc
}

// Parse builds a Document from annotated HTML.
func Parse(src string) (*dom.Document, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("domtest: parsing html: %w", err)
	}
	body := findBody(root)
	if body == nil {
		return nil, errors.New("domtest: document has no body")
	}
	b := &builder{handle: 1}
	rootStyle := defaults("html", nil)
	node, err := b.element(body, nil, rootStyle, Viewport)
	if err != nil {
		return nil, err
	}
	return &dom.Document{Body: node, Viewport: Viewport}, nil
}

type builder struct {
	handle int64
}

func (b *builder) element(h *html.Node, parent *dom.Node, parentStyle dom.StyleMap, parentRect dom.Rect) (*dom.Node, error) {
	n := &dom.Node{
		Type:   dom.ElementNode,
		Tag:    h.Data,
		Attrs:  map[string]string{},
		Parent: parent,
		Handle: b.handle,
	}
	b.handle++
	for _, a := range h.Attr {
		n.Attrs[a.Key] = a.Val
	}

	computed := defaults(n.Tag, parentStyle)
	applyDeclarations(computed, n.Attrs["style"])
	resolveCurrentColor(computed)

	rect := parentRect
	if v, ok := n.Attrs["data-rect"]; ok {
		r, err := parseRect(v)
		if err != nil {
			return nil, fmt.Errorf("domtest: <%s>: %w", n.Tag, err)
		}
		rect = r
	}
	_, hidden := n.Attrs["data-hidden"]
	if !hidden && computed.Get(dom.Display) != "none" {
		n.Layout = &dom.Layout{Rect: rect, Style: computed}
	}

	var err error
	if n.Before, err = pseudo(n, "before", computed, rect); err != nil {
		return nil, err
	}
	if n.After, err = pseudo(n, "after", computed, rect); err != nil {
		return nil, err
	}
	if v, ok := n.Attrs["data-capture"]; ok {
		n.Capture = &dom.Capture{DataURI: v}
	}
	if v, ok := n.Attrs["data-capture-error"]; ok {
		n.Capture = &dom.Capture{Err: errors.New(v)}
	}

	for c := h.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			child, err := b.element(c, n, computed, rect)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case html.TextNode:
			n.Children = append(n.Children, &dom.Node{
				Type:   dom.TextNode,
				Data:   c.Data,
				Parent: n,
				Handle: b.handle,
			})
			b.handle++
		}
	}
	return n, nil
}

func pseudo(n *dom.Node, which string, host dom.StyleMap, hostRect dom.Rect) (*dom.Pseudo, error) {
	decls, ok := n.Attrs["data-"+which]
	if !ok {
		return nil, nil
	}
	s := defaults("span", host)
	applyDeclarations(s, decls)
	resolveCurrentColor(s)
	p := &dom.Pseudo{Style: s}
	if v, ok := n.Attrs["data-"+which+"-rect"]; ok {
		r, err := parseRect(v)
		if err != nil {
			return nil, fmt.Errorf("domtest: ::%s: %w", which, err)
		}
		p.Rect, p.HasRect = r, true
	}
	return p, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func parseRect(v string) (dom.Rect, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return dom.Rect{}, fmt.Errorf("rect %q: want x,y,w,h", v)
	}
	var f [4]float64
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return dom.Rect{}, fmt.Errorf("rect %q: %w", v, err)
		}
		f[i] = n
	}
	return dom.Rect{X: f[0], Y: f[1], W: f[2], H: f[3]}, nil
}

// applyDeclarations parses an inline style attribute into s, expanding the
// shorthands fixtures commonly use.
func applyDeclarations(s dom.StyleMap, decls string) {
	for _, d := range style.SplitTopLevel(decls, ';') {
		name, value, ok := strings.Cut(d, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		setProperty(s, name, strings.TrimSpace(value))
	}
}

var sides = []string{"top", "right", "bottom", "left"}

func setProperty(s dom.StyleMap, name, value string) {
	switch name {
	case "background":
		if strings.Contains(value, "gradient(") || strings.Contains(value, "url(") {
			s[dom.BackgroundImage] = value
		} else {
			s[dom.BackgroundColor] = value
		}
	case "border":
		for _, side := range sides {
			setBorder(s, side, value)
		}
	case "border-top", "border-right", "border-bottom", "border-left":
		setBorder(s, strings.TrimPrefix(name, "border-"), value)
	case "border-width", "border-style", "border-color":
		part := strings.TrimPrefix(name, "border-")
		for _, side := range sides {
			s[dom.Property("border-"+side+"-"+part)] = value
		}
	case "border-radius":
		s[dom.BorderRadius] = strings.Fields(value)[0]
	case "padding":
		v := boxValues(value)
		s[dom.PaddingTop], s[dom.PaddingRight], s[dom.PaddingBottom], s[dom.PaddingLeft] = v[0], v[1], v[2], v[3]
	case "overflow":
		s[dom.Overflow], s[dom.OverflowX], s[dom.OverflowY] = value, value, value
	case "text-decoration":
		s[dom.TextDecoration] = value
	default:
		s[dom.Property(name)] = value
	}
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "solid": true, "dashed": true, "dotted": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

func setBorder(s dom.StyleMap, side, value string) {
	var color []string
	for _, tok := range style.SplitTopLevel(value, ' ') {
		switch {
		case tok == "":
		case borderStyles[tok]:
			s[dom.Property("border-"+side+"-style")] = tok
		case strings.HasSuffix(tok, "px"):
			s[dom.Property("border-"+side+"-width")] = tok
		default:
			color = append(color, tok)
		}
	}
	if len(color) > 0 {
		s[dom.Property("border-"+side+"-color")] = strings.Join(color, " ")
	}
}

// boxValues expands a 1-4 value box shorthand to top, right, bottom, left.
func boxValues(value string) [4]string {
	f := strings.Fields(value)
	switch len(f) {
	case 1:
		return [4]string{f[0], f[0], f[0], f[0]}
	case 2:
		return [4]string{f[0], f[1], f[0], f[1]}
	case 3:
		return [4]string{f[0], f[1], f[2], f[1]}
	case 4:
		return [4]string{f[0], f[1], f[2], f[3]}
	}
	return [4]string{"0px", "0px", "0px", "0px"}
}

func resolveCurrentColor(s dom.StyleMap) {
	for _, side := range sides {
		p := dom.Property("border-" + side + "-color")
		if v := s[p]; v == "" || v == "currentcolor" || v == "currentColor" {
			s[p] = s[dom.Color]
		}
	}
}
