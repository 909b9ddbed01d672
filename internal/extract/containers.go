package extract

import (
	"sort"
	"strings"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
)

// Minimum layout size of a slide container, in CSS pixels.
const (
	MinContainerWidth  = 800
	MinContainerHeight = 400
)

// FindContainers returns the maximal slide-sized elements under body in
// document order, or body itself when there are none.
func FindContainers(body *dom.Node) []*dom.Node {
	var accepted []*dom.Node
	for _, c := range candidates(body) {
		nested := false
		for _, a := range accepted {
			if a.Contains(c) {
				nested = true
				break
			}
		}
		if nested {
			continue
		}
		kept := accepted[:0]
		for _, a := range accepted {
			if !c.Contains(a) {
				kept = append(kept, a)
			}
		}
		accepted = append(kept, c)
	}
	if len(accepted) == 0 {
		return []*dom.Node{body}
	}
	return accepted
}

func candidates(body *dom.Node) []*dom.Node {
	var out []*dom.Node
	body.Walk(func(n *dom.Node) bool {
		if !n.IsElement() || n.Layout == nil {
			return false
		}
		if n == body {
			return true
		}
		r := n.Rect()
		if r.W >= MinContainerWidth && r.H >= MinContainerHeight && visible(n.Style()) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Reveal is an inline style override that makes a hidden slide measurable.
type Reveal struct {
	Node    *dom.Node
	Display string
	Width   float64
	Height  float64
}

// Style renders the override as inline declarations.
func (r Reveal) Style() string {
	return "display: " + r.Display + " !important; width: " + px(r.Width) +
		" !important; height: " + px(r.Height) + " !important"
}

// PlanReveal finds sibling groups sharing a tag and a non-empty class
// signature where some members are hidden and some visible. Every member
// other than the first visible one is forced to that sibling's display mode
// and pixel size.
func PlanReveal(body *dom.Node) []Reveal {
	var plan []Reveal
	body.Walk(func(n *dom.Node) bool {
		if !n.IsElement() || n.Layout == nil {
			return false
		}
		plan = append(plan, revealGroups(n)...)
		return true
	})
	return plan
}

func revealGroups(parent *dom.Node) []Reveal {
	groups := map[string][]*dom.Node{}
	var keys []string
	for _, c := range parent.Elements() {
		if skipTags[c.Tag] || strings.TrimSpace(c.Attrs["class"]) == "" {
			continue
		}
		k := signature(c)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], c)
	}

	var out []Reveal
	for _, k := range keys {
		members := groups[k]
		if len(members) < 2 {
			continue
		}
		var ref *dom.Node
		hidden := 0
		for _, m := range members {
			if isHidden(m) {
				hidden++
			} else if ref == nil {
				ref = m
			}
		}
		if ref == nil || hidden == 0 {
			continue
		}
		r := ref.Rect()
		if r.W < 1 || r.H < 1 {
			continue
		}
		display := ref.Style().Get(dom.Display)
		if display == "" || display == "none" {
			display = "block"
		}
		for _, m := range members {
			if m != ref {
				out = append(out, Reveal{Node: m, Display: display, Width: r.W, Height: r.H})
			}
		}
	}
	return out
}

func signature(n *dom.Node) string {
	classes := strings.Fields(n.Attrs["class"])
	sort.Strings(classes)
	return n.Tag + "." + strings.Join(classes, ".")
}

func isHidden(n *dom.Node) bool {
	return n.Layout == nil || n.Style().Get(dom.Display) == "none"
}
