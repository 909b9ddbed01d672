package pptx

import (
	"fmt"
	"math"
	"strings"

	"github.com/porticus-lab/go-html-pptx/internal/deck"
)

// indentEMU is the per-level list indent.
const indentEMU = 342900

var (
	alignments = map[string]string{"left": "l", "center": "ctr", "right": "r", "justify": "just"}
	anchors    = map[string]string{"top": "t", "middle": "ctr", "bottom": "b"}
)

// AddText appends a text box. Runs split into paragraphs after every run
// with BreakLine set.
func (s *Slide) AddText(runs []deck.TextRun, o deck.TextOptions) error {
	var paras strings.Builder
	for _, para := range paragraphs(runs) {
		paras.WriteString(s.paragraphXML(para, o))
	}

	var ins deck.Margin
	if o.Margin != nil {
		ins = *o.Margin
	}
	anchor := anchors[o.VAlign]
	if anchor == "" {
		anchor = "t"
	}

	id := s.shapeID()
	fmt.Fprintf(&s.body, `      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="Text %d"/>
          <p:cNvSpPr txBox="1"/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          %s
          <a:prstGeom prst="rect"><a:avLst/></a:prstGeom>
          <a:noFill/>
        </p:spPr>
        <p:txBody>
          <a:bodyPr wrap="square" lIns="%d" tIns="%d" rIns="%d" bIns="%d" anchor="%s" rtlCol="0">
            <a:noAutofit/>
          </a:bodyPr>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, id, id, xfrmXML(o.Box, o.Rotate),
		Point(ins.L), Point(ins.T), Point(ins.R), Point(ins.B), anchor,
		paras.String())
	return nil
}

// paragraphs groups runs, closing a paragraph after each BreakLine. There is
// always at least one paragraph.
func paragraphs(runs []deck.TextRun) [][]deck.TextRun {
	var out [][]deck.TextRun
	var cur []deck.TextRun
	for _, r := range runs {
		cur = append(cur, r)
		if r.BreakLine {
			out = append(out, cur)
			cur = nil
		}
	}
	if len(cur) > 0 || len(out) == 0 {
		out = append(out, cur)
	}
	return out
}

func (s *Slide) paragraphXML(runs []deck.TextRun, o deck.TextOptions) string {
	var first deck.TextRun
	if len(runs) > 0 {
		first = runs[0]
	}

	attrs := ""
	if a := alignments[o.Align]; a != "" {
		attrs += fmt.Sprintf(` algn="%s"`, a)
	}
	lvl := min(max(first.IndentLevel, 0), 8)
	if lvl > 0 {
		attrs += fmt.Sprintf(` lvl="%d"`, lvl)
	}
	switch {
	case first.Bullet != deck.BulletNone:
		attrs += fmt.Sprintf(` marL="%d" indent="%d"`, (lvl+1)*indentEMU, -indentEMU)
	case lvl > 0:
		attrs += fmt.Sprintf(` marL="%d" indent="0"`, lvl*indentEMU)
	}

	var pPr strings.Builder
	if o.LineSpacing > 0 {
		fmt.Fprintf(&pPr, `<a:lnSpc><a:spcPct val="%d"/></a:lnSpc>`, int64(math.Round(o.LineSpacing*100000)))
	}
	switch first.Bullet {
	case deck.BulletChar:
		pPr.WriteString(`<a:buFont typeface="Arial"/><a:buChar char="&#8226;"/>`)
	case deck.BulletNumber:
		pPr.WriteString(`<a:buFont typeface="+mj-lt"/><a:buAutoNum type="arabicPeriod"/>`)
	default:
		pPr.WriteString(`<a:buNone/>`)
	}

	var body strings.Builder
	for _, r := range runs {
		props := s.mergeProps(r, o)
		for i, line := range strings.Split(r.Text, "\n") {
			if i > 0 {
				fmt.Fprintf(&body, "<a:br>%s</a:br>", runPropsXML("a:rPr", props))
			}
			if line == "" {
				continue
			}
			fmt.Fprintf(&body, "<a:r>%s<a:t>%s</a:t></a:r>", runPropsXML("a:rPr", props), xmlEscape(line))
		}
	}

	end := s.mergeProps(deck.TextRun{FontSize: first.FontSize, Color: first.Color, FontFace: first.FontFace, Bold: first.Bold}, o)
	return fmt.Sprintf("          <a:p><a:pPr%s>%s</a:pPr>%s%s</a:p>\n",
		attrs, pPr.String(), body.String(), runPropsXML("a:endParaRPr", end))
}

// mergeProps resolves a run against the box defaults. Links are registered
// only for runs that carry text.
func (s *Slide) mergeProps(r deck.TextRun, o deck.TextOptions) runProps {
	p := runProps{
		size:         r.FontSize,
		bold:         r.Bold || o.Bold,
		italic:       r.Italic || o.Italic,
		underline:    r.Underline || o.Underline,
		strike:       r.Strike || o.Strike,
		color:        r.Color,
		transparency: o.Transparency,
		font:         r.FontFace,
		spacing:      o.CharSpacing,
	}
	if p.size <= 0 {
		p.size = o.FontSize
	}
	if p.color == "" {
		p.color = o.Color
	}
	if p.font == "" {
		p.font = o.FontFace
	}
	link := r.Hyperlink
	if link == "" {
		link = o.Hyperlink
	}
	if link != "" && r.Text != "" {
		p.link = s.linkRel(link)
	}
	return p
}

type runProps struct {
	size         float64 // pt
	bold         bool
	italic       bool
	underline    bool
	strike       bool
	color        string
	transparency float64
	font         string
	spacing      float64 // pt
	link         string  // relationship id
}

func runPropsXML(tag string, p runProps) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<%s lang="en-US"`, tag)
	if p.size > 0 {
		fmt.Fprintf(&b, ` sz="%d"`, int64(math.Round(math.Min(p.size, 4000)*100)))
	}
	if p.bold {
		b.WriteString(` b="1"`)
	}
	if p.italic {
		b.WriteString(` i="1"`)
	}
	if p.underline {
		b.WriteString(` u="sng"`)
	}
	if p.strike {
		b.WriteString(` strike="sngStrike"`)
	}
	if p.spacing != 0 {
		fmt.Fprintf(&b, ` spc="%d"`, int64(math.Round(p.spacing*100)))
	}
	b.WriteString(` dirty="0">`)
	if p.color != "" {
		fmt.Fprintf(&b, "<a:solidFill>%s</a:solidFill>", srgbXML(p.color, p.transparency))
	}
	if p.font != "" {
		fmt.Fprintf(&b, `<a:latin typeface="%s"/>`, xmlEscape(p.font))
	}
	if p.link != "" {
		fmt.Fprintf(&b, `<a:hlinkClick r:id="%s"/>`, p.link)
	}
	fmt.Fprintf(&b, "</%s>", tag)
	return b.String()
}
