package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// XML namespace constants
const (
	nsRelationships  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDCTerms        = "http://purl.org/dc/terms/"
	nsDC             = "http://purl.org/dc/elements/1.1/"
	nsCoreProperties = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsExtProperties  = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsXSI            = "http://www.w3.org/2001/XMLSchema-instance"

	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypePresProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	relTypeViewProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	relTypeTableStyles = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
	relTypeOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeHyperlink   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
)

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func writeXMLToZip(zw *zip.Writer, path string, v any) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("pptx: creating %s: %w", path, err)
	}
	if _, err := fw.Write([]byte(xml.Header)); err != nil {
		return err
	}
	enc := xml.NewEncoder(fw)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("pptx: encoding %s: %w", path, err)
	}
	return nil
}

func writeRawXMLToZip(zw *zip.Writer, path, content string) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("pptx: creating %s: %w", path, err)
	}
	_, err = fw.Write([]byte(content))
	return err
}

type xmlContentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

func (p *Presentation) writeContentTypes(zw *zip.Writer) error {
	ct := xmlContentTypes{
		Xmlns: nsContentTypes,
		Defaults: []xmlDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
	}
	seen := map[string]bool{}
	for _, m := range p.media {
		if !seen[m.ext] {
			seen[m.ext] = true
			ct.Defaults = append(ct.Defaults, xmlDefault{Extension: m.ext, ContentType: m.contentType})
		}
	}

	ct.Overrides = []xmlOverride{
		{PartName: "/ppt/presentation.xml", ContentType: ctPresentation},
		{PartName: "/ppt/slideMasters/slideMaster1.xml", ContentType: ctSlideMaster},
		{PartName: "/ppt/slideLayouts/slideLayout1.xml", ContentType: ctSlideLayout},
		{PartName: "/ppt/theme/theme1.xml", ContentType: ctTheme},
		{PartName: "/ppt/presProps.xml", ContentType: ctPresProps},
		{PartName: "/ppt/viewProps.xml", ContentType: ctViewProps},
		{PartName: "/ppt/tableStyles.xml", ContentType: ctTableStyles},
		{PartName: "/docProps/core.xml", ContentType: ctCoreProps},
		{PartName: "/docProps/app.xml", ContentType: ctExtProps},
	}
	for i := range p.slides {
		ct.Overrides = append(ct.Overrides, xmlOverride{
			PartName:    fmt.Sprintf("/ppt/slides/slide%d.xml", i+1),
			ContentType: ctSlide,
		})
	}
	return writeXMLToZip(zw, "[Content_Types].xml", ct)
}

func (p *Presentation) writeRootRels(zw *zip.Writer) error {
	rels := xmlRelationships{
		Xmlns: nsRelationships,
		Relationships: []xmlRelationship{
			{ID: "rId1", Type: relTypeOfficeDoc, Target: "ppt/presentation.xml"},
			{ID: "rId2", Type: relTypeCoreProps, Target: "docProps/core.xml"},
			{ID: "rId3", Type: relTypeExtProps, Target: "docProps/app.xml"},
		},
	}
	return writeXMLToZip(zw, "_rels/.rels", rels)
}

// Presentation relationships: rId1 is the master, slides follow, then the
// property parts and the theme.
func (p *Presentation) writePresentationRels(zw *zip.Writer) error {
	rels := xmlRelationships{Xmlns: nsRelationships}
	add := func(typ, target string) {
		rels.Relationships = append(rels.Relationships, xmlRelationship{
			ID:     fmt.Sprintf("rId%d", len(rels.Relationships)+1),
			Type:   typ,
			Target: target,
		})
	}
	add(relTypeSlideMaster, "slideMasters/slideMaster1.xml")
	for i := range p.slides {
		add(relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1))
	}
	add(relTypePresProps, "presProps.xml")
	add(relTypeViewProps, "viewProps.xml")
	add(relTypeTableStyles, "tableStyles.xml")
	add(relTypeTheme, "theme/theme1.xml")
	return writeXMLToZip(zw, "ppt/_rels/presentation.xml.rels", rels)
}

func (p *Presentation) writePresentation(zw *zip.Writer) error {
	var ids strings.Builder
	for i := range p.slides {
		fmt.Fprintf(&ids, "\n    <p:sldId id=\"%d\" r:id=\"rId%d\"/>", 256+i, i+2)
	}
	content := fmt.Sprintf(xmlDecl+`<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">
  <p:sldMasterIdLst>
    <p:sldMasterId id="2147483648" r:id="rId1"/>
  </p:sldMasterIdLst>
  <p:sldIdLst>%s
  </p:sldIdLst>
  <p:sldSz cx="%d" cy="%d"/>
  <p:notesSz cx="6858000" cy="9144000"/>
</p:presentation>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, ids.String(), p.cx, p.cy)
	return writeRawXMLToZip(zw, "ppt/presentation.xml", content)
}

func (p *Presentation) writeAppProperties(zw *zip.Writer) error {
	content := fmt.Sprintf(xmlDecl+`<Properties xmlns="%s" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">
  <Application>%s</Application>
  <PresentationFormat>%s</PresentationFormat>
  <Slides>%d</Slides>
</Properties>`, nsExtProperties, xmlEscape(p.lib.application), xmlEscape(p.layout), len(p.slides))
	return writeRawXMLToZip(zw, "docProps/app.xml", content)
}

func (p *Presentation) writeCoreProperties(zw *zip.Writer) error {
	stamp := p.created.UTC().Format("2006-01-02T15:04:05Z")
	content := fmt.Sprintf(xmlDecl+`<cp:coreProperties xmlns:cp="%s" xmlns:dc="%s" xmlns:dcterms="%s" xmlns:xsi="%s">
  <dc:title>%s</dc:title>
  <dc:creator>%s</dc:creator>
  <dc:identifier>urn:uuid:%s</dc:identifier>
  <cp:lastModifiedBy>%s</cp:lastModifiedBy>
  <cp:revision>1</cp:revision>
  <dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>
  <dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>
</cp:coreProperties>`,
		nsCoreProperties, nsDC, nsDCTerms, nsXSI,
		xmlEscape(p.title),
		xmlEscape(p.lib.application),
		p.id,
		xmlEscape(p.lib.application),
		stamp, stamp,
	)
	return writeRawXMLToZip(zw, "docProps/core.xml", content)
}

func (p *Presentation) writeSlideRels(zw *zip.Writer, s *Slide) error {
	rels := xmlRelationships{Xmlns: nsRelationships, Relationships: s.rels}
	return writeXMLToZip(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", s.num), rels)
}

func (p *Presentation) writeMedia(zw *zip.Writer) error {
	for _, m := range p.media {
		fw, err := zw.Create("ppt/media/" + m.name)
		if err != nil {
			return fmt.Errorf("pptx: creating media %s: %w", m.name, err)
		}
		if _, err := fw.Write(m.data); err != nil {
			return err
		}
	}
	return nil
}

// xmlEscape escapes special XML characters.
func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
