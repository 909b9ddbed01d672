package extract

import (
	"strconv"
	"strings"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
	"github.com/porticus-lab/go-html-pptx/internal/scene"
	"github.com/porticus-lab/go-html-pptx/internal/style"
)

const maxColSpan = 1000

func (w *walker) table(nd *node) {
	w.claimAll(nd.n)
	rows := TableGrid(nd.n)
	if len(rows) == 0 {
		return
	}
	el := w.place(nd.rect, nd)
	el.Type = scene.TypeTable
	el.TableRows = rows
	el.FontFamily = style.FirstFontFamily(nd.style.Get(dom.FontFamily))
	el.FontSize = fontPt(nd.style)
	el.Color, _ = textColor(nd.style)
	el.Opacity = opacityRef(nd.opacity)
	w.emit(el)
}

// TableGrid expands a table into a rectangular grid of cell texts. A spanned
// cell's text sits at its origin; the other cells it covers are empty.
func TableGrid(table *dom.Node) [][]string {
	rows := tableRows(table)
	if len(rows) == 0 {
		return nil
	}

	grid := make([]map[int]string, len(rows))
	for i := range grid {
		grid[i] = map[int]string{}
	}
	cols := 0
	for ri, tr := range rows {
		col := 0
		for _, td := range tr.Elements() {
			if td.Tag != "td" && td.Tag != "th" {
				continue
			}
			for {
				if _, taken := grid[ri][col]; !taken {
					break
				}
				col++
			}
			cs := colSpan(td.Attrs["colspan"])
			rs := rowSpan(td.Attrs["rowspan"], len(rows)-ri)
			for r := ri; r < ri+rs; r++ {
				for c := col; c < col+cs; c++ {
					grid[r][c] = ""
				}
			}
			grid[ri][col] = style.CollapseWhitespace(td.TextContent())
			col += cs
			if col > cols {
				cols = col
			}
		}
	}

	out := make([][]string, len(rows))
	for ri := range rows {
		row := make([]string, cols)
		for c, text := range grid[ri] {
			row[c] = text
		}
		out[ri] = row
	}
	return out
}

// tableRows returns the rows in rendering order: header group, body, then
// footer group.
func tableRows(table *dom.Node) []*dom.Node {
	var head, body, foot []*dom.Node
	for _, c := range table.Elements() {
		switch c.Tag {
		case "tr":
			body = append(body, c)
		case "thead":
			head = append(head, rowsOf(c)...)
		case "tbody":
			body = append(body, rowsOf(c)...)
		case "tfoot":
			foot = append(foot, rowsOf(c)...)
		}
	}
	return append(append(head, body...), foot...)
}

func rowsOf(section *dom.Node) []*dom.Node {
	var rows []*dom.Node
	for _, r := range section.Elements() {
		if r.Tag == "tr" {
			rows = append(rows, r)
		}
	}
	return rows
}

// colSpan parses a colspan attribute. Values below 1 count as 1.
func colSpan(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxColSpan)
}

// rowSpan parses a rowspan attribute. Zero spans to the last row, limit.
func rowSpan(v string, limit int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	switch {
	case err != nil || n < 0:
		n = 1
	case n == 0:
		n = limit
	}
	return max(1, min(n, limit))
}
