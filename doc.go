// Package htmlpptx converts HTML slides into native PowerPoint decks.
//
// HTML is rendered in headless Chrome (Chrome DevTools Protocol). The laid-out
// page is read back, every slide-sized container (at least 800x400 CSS pixels)
// becomes one slide, and each visible box, run of text, image, list and table
// is written as an editable PowerPoint object rather than a screenshot.
//
// # Converting
//
// For one-off conversions use the package-level helpers:
//
//	res, err := htmlpptx.ConvertHTML(ctx, html)
//
// For repeated conversions create a [Converter], which reuses the browser process:
//
//	c, err := htmlpptx.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	res, err := c.ConvertHTML(ctx, "<section>...</section>")
//	res, err  = c.ConvertURL(ctx, "https://example.com/slides")
//	res, err  = c.ConvertFile(ctx, "talk.html")
//
// Use options to control the slide canvas and the browser viewport:
//
//	c, err := htmlpptx.NewConverter(
//	    htmlpptx.WithSlideSize(htmlpptx.Layout16x9),
//	    htmlpptx.WithViewport(1920, 1080),
//	)
//
// A [Result] gives flexible access to the generated deck:
//
//	res.Bytes()                           // []byte
//	res.Base64()                          // base64 string (RFC 4648)
//	res.Reader()                          // *bytes.Reader
//	res.WriteTo(w)                        // io.WriterTo
//	res.WriteToFile("talk.pptx", 0o644)   // write to disk
//	res.Slides(), res.Elements()          // what was written
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload]:
//
//	c, err := htmlpptx.NewConverter(htmlpptx.WithAutoDownload())
//
// # Extracting
//
// The Extract methods stop after layout and return the positioned elements
// of every slide in slide inches. [Converter.Generate] turns an extracted
// scene into a deck:
//
//	d, err := c.ExtractHTML(ctx, html)
//	res, err := c.Generate(ctx, d)
//
// Hidden sibling slides (for example every slide but the active one) are
// made visible before measuring, so each of them gets its own slide.
//
// # Live documents
//
// A [Session] follows a document that changes over time, such as an editor
// buffer. Edits are debounced, a superseded extraction never overwrites a
// newer one and the latest scene can be exported at any time:
//
//	s := c.NewSession(htmlpptx.WithOnUpdate(func(u htmlpptx.Update) { ... }))
//	defer s.Close()
//
//	s.Update(html)
//	res, err := s.Export(ctx)
package htmlpptx
