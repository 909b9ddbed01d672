package pptx

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/porticus-lab/go-html-pptx/internal/deck"
)

// Slide accumulates shape XML in insertion order; later shapes paint above
// earlier ones.
type Slide struct {
	pres   *Presentation
	num    int
	body   strings.Builder
	nextID int
	rels   []xmlRelationship
	links  map[string]string // url -> rel id
	pics   map[string]string // media name -> rel id
}

// Shapes returns the number of shapes on the slide.
func (s *Slide) Shapes() int { return s.nextID - 2 }

func (s *Slide) shapeID() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Slide) addRel(typ, target, mode string) string {
	id := fmt.Sprintf("rId%d", len(s.rels)+1)
	s.rels = append(s.rels, xmlRelationship{ID: id, Type: typ, Target: target, TargetMode: mode})
	return id
}

func (s *Slide) linkRel(url string) string {
	if id, ok := s.links[url]; ok {
		return id
	}
	id := s.addRel(relTypeHyperlink, url, "External")
	s.links[url] = id
	return id
}

func (s *Slide) picRel(m *media) string {
	if id, ok := s.pics[m.name]; ok {
		return id
	}
	id := s.addRel(relTypeImage, "../media/"+m.name, "")
	s.pics[m.name] = id
	return id
}

// AddShape appends a rectangle, rounded rectangle or line.
func (s *Slide) AddShape(kind deck.ShapeKind, o deck.ShapeOptions) error {
	switch kind {
	case deck.ShapeLine:
		return s.addLine(o)
	case deck.ShapeRect, deck.ShapeRoundRect:
	default:
		return fmt.Errorf("pptx: unknown shape %q", kind)
	}

	id := s.shapeID()
	fmt.Fprintf(&s.body, `      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="Shape %d"/>
          <p:cNvSpPr/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          %s
          %s
          %s
          %s%s
        </p:spPr>
      </p:sp>
`, id, id,
		xfrmXML(o.Box, o.Rotate),
		presetXML(kind, o),
		fillXML(o.Fill, o.Gradient),
		lineXML(o.Line),
		shadowXML(o.Shadow))
	return nil
}

func (s *Slide) addLine(o deck.ShapeOptions) error {
	if o.Line == nil || o.Line.Width <= 0 {
		return ErrNoStroke
	}
	id := s.shapeID()
	fmt.Fprintf(&s.body, `      <p:cxnSp>
        <p:nvCxnSpPr>
          <p:cNvPr id="%d" name="Line %d"/>
          <p:cNvCxnSpPr/>
          <p:nvPr/>
        </p:nvCxnSpPr>
        <p:spPr>
          %s
          <a:prstGeom prst="line">
            <a:avLst/>
          </a:prstGeom>
          %s
        </p:spPr>
      </p:cxnSp>
`, id, id, xfrmXML(o.Box, o.Rotate), lineXML(o.Line))
	return nil
}

// AddImage embeds an image. Cover sizing crops the source to the box
// aspect; contain sizing shrinks the box to the source aspect.
func (s *Slide) AddImage(ctx context.Context, o deck.ImageOptions) error {
	src := o.Data
	if src == "" {
		src = o.Path
	}
	if src == "" {
		return errors.New("pptx: image has no source")
	}
	m, err := s.pres.addMedia(ctx, src, o.AllowLocal)
	if err != nil {
		return err
	}
	rid := s.picRel(m)

	box := o.Box
	crop := ""
	if m.width > 0 && m.height > 0 {
		switch o.Sizing {
		case deck.SizingCover:
			if l, t, r, b := coverCrop(m.width, m.height, box.W, box.H); l+t+r+b > 0 {
				crop = fmt.Sprintf("\n          <a:srcRect l=\"%d\" t=\"%d\" r=\"%d\" b=\"%d\"/>", l, t, r, b)
			}
		case deck.SizingContain:
			box = containBox(m.width, m.height, box)
		}
	}

	blip := fmt.Sprintf(`<a:blip r:embed="%s"/>`, rid)
	if o.Transparency > 0 {
		blip = fmt.Sprintf(`<a:blip r:embed="%s"><a:alphaModFix amt="%d"/></a:blip>`, rid, percent(100-o.Transparency))
	}

	id := s.shapeID()
	fmt.Fprintf(&s.body, `      <p:pic>
        <p:nvPicPr>
          <p:cNvPr id="%d" name="Picture %d"/>
          <p:cNvPicPr>
            <a:picLocks noChangeAspect="1"/>
          </p:cNvPicPr>
          <p:nvPr/>
        </p:nvPicPr>
        <p:blipFill>
          %s%s
          <a:stretch>
            <a:fillRect/>
          </a:stretch>
        </p:blipFill>
        <p:spPr>
          %s
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
        </p:spPr>
      </p:pic>
`, id, id, blip, crop, xfrmXML(box, o.Rotate))
	return nil
}

// AddTable appends a table frame with equal column widths and row heights.
// Rows shorter than the first row are padded.
func (s *Slide) AddTable(rows [][]deck.TableCell, o deck.TableOptions) error {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ErrEmptyTable
	}
	cols := len(rows[0])
	cx, cy := Inch(math.Max(o.W, 0)), Inch(math.Max(o.H, 0))
	colW := cx / int64(cols)
	rowH := cy / int64(len(rows))

	var grid strings.Builder
	for i := 0; i < cols; i++ {
		fmt.Fprintf(&grid, "              <a:gridCol w=\"%d\"/>\n", colW)
	}

	var body strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&body, "            <a:tr h=\"%d\">\n", rowH)
		for j := 0; j < cols; j++ {
			var c deck.TableCell
			if j < len(row) {
				c = row[j]
			}
			body.WriteString(s.cellXML(c, o))
		}
		body.WriteString("            </a:tr>\n")
	}

	id := s.shapeID()
	fmt.Fprintf(&s.body, `      <p:graphicFrame>
        <p:nvGraphicFramePr>
          <p:cNvPr id="%d" name="Table %d"/>
          <p:cNvGraphicFramePr>
            <a:graphicFrameLocks noGrp="1"/>
          </p:cNvGraphicFramePr>
          <p:nvPr/>
        </p:nvGraphicFramePr>
        <p:xfrm>
          <a:off x="%d" y="%d"/>
          <a:ext cx="%d" cy="%d"/>
        </p:xfrm>
        <a:graphic>
          <a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">
            <a:tbl>
              <a:tblPr firstRow="1"/>
              <a:tblGrid>
%s              </a:tblGrid>
%s            </a:tbl>
          </a:graphicData>
        </a:graphic>
      </p:graphicFrame>
`, id, id, Inch(o.X), Inch(o.Y), cx, cy, grid.String(), body.String())
	return nil
}

func (s *Slide) cellXML(c deck.TableCell, o deck.TableOptions) string {
	props := runProps{size: o.FontSize, bold: c.Bold, color: o.Color, font: o.FontFace}
	para := "<a:p>" + runPropsXML("a:endParaRPr", props) + "</a:p>"
	if c.Text != "" {
		para = fmt.Sprintf("<a:p><a:r>%s<a:t>%s</a:t></a:r></a:p>", runPropsXML("a:rPr", props), xmlEscape(c.Text))
	}

	var pr strings.Builder
	if c.Border != nil && c.Border.Width > 0 {
		for _, side := range []string{"lnL", "lnR", "lnT", "lnB"} {
			fmt.Fprintf(&pr, "<a:%s w=\"%d\"><a:solidFill>%s</a:solidFill></a:%s>",
				side, Point(c.Border.Width), srgbXML(c.Border.Color, 0), side)
		}
	}
	if c.Fill != "" {
		fmt.Fprintf(&pr, "<a:solidFill>%s</a:solidFill>", srgbXML(c.Fill, 0))
	}

	return fmt.Sprintf(`              <a:tc>
                <a:txBody>
                  <a:bodyPr/>
                  <a:lstStyle/>
                  %s
                </a:txBody>
                <a:tcPr marL="45720" marR="45720" marT="22860" marB="22860">%s</a:tcPr>
              </a:tc>
`, para, pr.String())
}

func (s *Slide) write(zw *zip.Writer) error {
	content := fmt.Sprintf(xmlDecl+`<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
    <p:spTree>
%s%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sld>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, groupShapeXML, s.body.String())
	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/slides/slide%d.xml", s.num), content)
}

// --- DrawingML fragments ---

func xfrmXML(b deck.Box, rotate float64) string {
	rot := ""
	if r := angle(rotate); r != 0 {
		rot = fmt.Sprintf(` rot="%d"`, r)
	}
	return fmt.Sprintf(`<a:xfrm%s><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		rot, Inch(b.X), Inch(b.Y), Inch(math.Max(b.W, 0)), Inch(math.Max(b.H, 0)))
}

// presetXML sets the roundRect corner as a fraction of the shorter side.
func presetXML(kind deck.ShapeKind, o deck.ShapeOptions) string {
	if kind != deck.ShapeRoundRect {
		return `<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`
	}
	adj := int64(0)
	if short := math.Min(o.W, o.H); short > 0 {
		adj = int64(math.Round(math.Min(o.RectRadius/short, 0.5) * 100000))
	}
	return fmt.Sprintf(`<a:prstGeom prst="roundRect"><a:avLst><a:gd name="adj" fmla="val %d"/></a:avLst></a:prstGeom>`, adj)
}

// fillXML prefers the gradient. CSS gradient angles run clockwise from "to
// top"; DrawingML angles run clockwise from "to right".
func fillXML(f *deck.Fill, g *deck.Gradient) string {
	switch {
	case g != nil:
		return fmt.Sprintf(`<a:gradFill rotWithShape="1"><a:gsLst><a:gs pos="0">%s</a:gs><a:gs pos="100000">%s</a:gs></a:gsLst><a:lin ang="%d" scaled="0"/></a:gradFill>`,
			srgbXML(g.Color1, g.Transparency), srgbXML(g.Color2, g.Transparency), angle(g.Angle-90))
	case f != nil:
		return fmt.Sprintf(`<a:solidFill>%s</a:solidFill>`, srgbXML(f.Color, f.Transparency))
	default:
		return `<a:noFill/>`
	}
}

func lineXML(l *deck.Line) string {
	if l == nil || l.Width <= 0 {
		return `<a:ln><a:noFill/></a:ln>`
	}
	return fmt.Sprintf(`<a:ln w="%d"><a:solidFill>%s</a:solidFill></a:ln>`, Point(l.Width), srgbXML(l.Color, 0))
}

func shadowXML(sh *deck.Shadow) string {
	if sh == nil {
		return ""
	}
	return fmt.Sprintf(`
          <a:effectLst><a:outerShdw blurRad="%d" dist="%d" dir="%d" algn="ctr" rotWithShape="0"><a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr></a:outerShdw></a:effectLst>`,
		Point(math.Max(sh.Blur, 0)), Point(math.Max(sh.Offset, 0)), angle(sh.Angle), hexColor(sh.Color), percent(sh.Opacity*100))
}

func srgbXML(hex string, transparency float64) string {
	if transparency <= 0 {
		return fmt.Sprintf(`<a:srgbClr val="%s"/>`, hexColor(hex))
	}
	return fmt.Sprintf(`<a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr>`, hexColor(hex), percent(100-transparency))
}

// hexColor returns a valid RRGGBB value, black when s is not one.
func hexColor(s string) string {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return "000000"
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return "000000"
		}
	}
	return strings.ToUpper(s)
}

// coverCrop returns srcRect insets, in thousandths of a percent, that crop an
// iw x ih source to the aspect of a bw x bh box around its centre.
func coverCrop(iw, ih int, bw, bh float64) (l, t, r, b int64) {
	if bw <= 0 || bh <= 0 {
		return 0, 0, 0, 0
	}
	img := float64(iw) / float64(ih)
	box := bw / bh
	switch {
	case img > box:
		c := int64(math.Round((1 - box/img) / 2 * 100000))
		return c, 0, c, 0
	case img < box:
		c := int64(math.Round((1 - img/box) / 2 * 100000))
		return 0, c, 0, c
	}
	return 0, 0, 0, 0
}

// containBox shrinks b to the source aspect and centres it.
func containBox(iw, ih int, b deck.Box) deck.Box {
	if b.W <= 0 || b.H <= 0 {
		return b
	}
	img := float64(iw) / float64(ih)
	if img > b.W/b.H {
		h := b.W / img
		return deck.Box{X: b.X, Y: b.Y + (b.H-h)/2, W: b.W, H: h}
	}
	w := b.H * img
	return deck.Box{X: b.X + (b.W-w)/2, Y: b.Y, W: w, H: b.H}
}
