package browser

import (
	"errors"
	"strings"

	"github.com/chromedp/cdproto/domsnapshot"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
)

// Snapshot node types, as in the DOM's Node.nodeType.
const (
	elementNodeType  = 1
	textNodeType     = 3
	documentNodeType = 9
)

// Sentinel errors for malformed captures.
var (
	ErrEmptySnapshot = errors.New("browser: snapshot contains no document")
	ErrNoBody        = errors.New("browser: document has no body")
)

// Build converts a DOMSnapshot capture into a dom.Document. Only the main
// document is read. Styles are expected in dom.Properties order.
func Build(docs []*domsnapshot.DocumentSnapshot, strs []string, viewport dom.Rect) (*dom.Document, error) {
	if len(docs) == 0 || docs[0].Nodes == nil {
		return nil, ErrEmptySnapshot
	}
	d := docs[0]
	t := table(strs)
	nodes := d.Nodes

	layouts := map[int64]int{}
	if d.Layout != nil {
		for li, ni := range d.Layout.NodeIndex {
			if _, ok := layouts[ni]; !ok {
				layouts[ni] = li
			}
		}
	}
	pseudoTypes := t.rare(nodes.PseudoType)
	currentSrc := t.rare(nodes.CurrentSourceURL)

	count := len(nodes.NodeType)
	built := make([]*dom.Node, count)
	present := make([]bool, count)
	var body *dom.Node

	for i := 0; i < count; i++ {
		parent := int64(-1)
		if i < len(nodes.ParentIndex) {
			parent = nodes.ParentIndex[i]
		}
		// Parents precede children; a missing parent is a skipped subtree.
		if parent >= 0 && (parent >= int64(i) || !present[parent]) {
			continue
		}
		var p *dom.Node
		if parent >= 0 {
			p = built[parent]
		}

		switch nodes.NodeType[i] {
		case documentNodeType:
			present[i] = true

		case elementNodeType:
			if kind, ok := pseudoTypes[int64(i)]; ok {
				if p != nil {
					attachPseudo(p, kind, d.Layout, layouts, int64(i), t)
				}
				continue
			}
			n := &dom.Node{
				Type:   dom.ElementNode,
				Tag:    strings.ToLower(t.at(index(nodes.NodeName, i))),
				Attrs:  attrs(nodes.Attributes, i, t),
				Handle: backendID(nodes, i),
			}
			if li, ok := layouts[int64(i)]; ok {
				n.Layout = &dom.Layout{Rect: bounds(d.Layout, li), Style: styles(d.Layout, li, t)}
			}
			if src, ok := currentSrc[int64(i)]; ok && src != "" && n.Tag == "img" {
				n.Attrs["src"] = src
			}
			if p != nil {
				p.AppendChild(n)
			}
			if n.Tag == "body" && body == nil {
				body = n
			}
			built[i], present[i] = n, true

		case textNodeType:
			if p == nil {
				continue
			}
			n := &dom.Node{
				Type:   dom.TextNode,
				Data:   t.at(index(nodes.NodeValue, i)),
				Handle: backendID(nodes, i),
			}
			p.AppendChild(n)
			built[i], present[i] = n, true
		}
	}
	if body == nil {
		return nil, ErrNoBody
	}
	return &dom.Document{URL: t.at(d.DocumentURL), Body: body, Viewport: viewport}, nil
}

func attachPseudo(host *dom.Node, kind string, lt *domsnapshot.LayoutTreeSnapshot, layouts map[int64]int, i int64, t table) {
	li, ok := layouts[i]
	if !ok {
		return
	}
	p := &dom.Pseudo{Style: styles(lt, li, t), Rect: bounds(lt, li), HasRect: true}
	switch kind {
	case "before":
		host.Before = p
	case "after":
		host.After = p
	}
}

// table resolves snapshot string indexes. Index -1 means absent.
type table []string

func (t table) at(i domsnapshot.StringIndex) string {
	if i < 0 || int(i) >= len(t) {
		return ""
	}
	return t[i]
}

func (t table) rare(d *domsnapshot.RareStringData) map[int64]string {
	out := map[int64]string{}
	if d == nil {
		return out
	}
	for k, idx := range d.Index {
		if k < len(d.Value) {
			out[idx] = t.at(d.Value[k])
		}
	}
	return out
}

func index(s []domsnapshot.StringIndex, i int) domsnapshot.StringIndex {
	if i >= len(s) {
		return -1
	}
	return s[i]
}

func attrs(all []domsnapshot.ArrayOfStrings, i int, t table) map[string]string {
	out := map[string]string{}
	if i >= len(all) {
		return out
	}
	flat := all[i]
	for k := 0; k+1 < len(flat); k += 2 {
		out[t.at(domsnapshot.StringIndex(flat[k]))] = t.at(domsnapshot.StringIndex(flat[k+1]))
	}
	return out
}

func backendID(nodes *domsnapshot.NodeTreeSnapshot, i int) int64 {
	if i >= len(nodes.BackendNodeID) {
		return 0
	}
	return int64(nodes.BackendNodeID[i])
}

func bounds(lt *domsnapshot.LayoutTreeSnapshot, li int) dom.Rect {
	if li >= len(lt.Bounds) || len(lt.Bounds[li]) < 4 {
		return dom.Rect{}
	}
	b := lt.Bounds[li]
	return dom.Rect{X: b[0], Y: b[1], W: b[2], H: b[3]}
}

func styles(lt *domsnapshot.LayoutTreeSnapshot, li int, t table) dom.StyleMap {
	m := dom.StyleMap{}
	if li >= len(lt.Styles) {
		return m
	}
	for k, idx := range lt.Styles[li] {
		if k < len(dom.Properties) {
			m[dom.Properties[k]] = t.at(domsnapshot.StringIndex(idx))
		}
	}
	return m
}
