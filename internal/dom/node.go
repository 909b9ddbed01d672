// Package dom is a narrow, read-only model of a rendered document: the element
// tree with each node's layout box and the handful of computed style
// properties the extractor consumes.
//
// A Document is a snapshot. Node pointers are stable for the lifetime of the
// snapshot and serve as node identity.
package dom

import "strings"

// NodeType distinguishes elements from text nodes.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Rect is a layout box in CSS pixels, in document coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Layout is present on nodes the engine rendered.
type Layout struct {
	Rect  Rect
	Style Style
}

// Pseudo is a ::before or ::after box. Rect is only meaningful when HasRect.
type Pseudo struct {
	Style   Style
	Rect    Rect
	HasRect bool
}

// Capture holds a resource serialised from the live page: SVG markup or a
// canvas bitmap, each as a data URI.
type Capture struct {
	DataURI string
	Err     error
}

// Node is one DOM node.
type Node struct {
	Type     NodeType
	Tag      string // lower-case element name
	Attrs    map[string]string
	Data     string // text content of a text node
	Parent   *Node
	Children []*Node

	Layout *Layout // nil when the node produced no box
	Before *Pseudo
	After  *Pseudo

	// Capture is set on <svg> roots and <canvas> elements.
	Capture *Capture

	// Handle identifies the node in the live page (a CDP backend node id).
	Handle int64
}

// Document is a captured, fully rendered page.
type Document struct {
	URL  string
	Body *Node

	// Viewport is the layout viewport the page was rendered in.
	Viewport Rect
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool { return n != nil && n.Type == ElementNode }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n != nil && n.Type == TextNode }

// Attr returns an attribute value.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// Style returns the computed style, or nil for nodes without a box.
func (n *Node) Style() Style {
	if n.Layout == nil {
		return nil
	}
	return n.Layout.Style
}

// Rect returns the layout box, or the zero Rect for nodes without a box.
func (n *Node) Rect() Rect {
	if n.Layout == nil {
		return Rect{}
	}
	return n.Layout.Rect
}

// Elements returns the element children of n.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// TextContent concatenates every descendant text node, like the DOM property.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Data
	}
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		if c.IsText() {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the visited node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Closest returns the nearest inclusive ancestor with the given tag.
func (n *Node) Closest(tag string) *Node {
	for p := n; p != nil; p = p.Parent {
		if p.IsElement() && p.Tag == tag {
			return p
		}
	}
	return nil
}

// ParentElement returns the nearest ancestor element.
func (n *Node) ParentElement() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.IsElement() {
			return p
		}
	}
	return nil
}

// AppendChild links c under n.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}
