package htmlpptx_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	htmlpptx "github.com/porticus-lab/go-html-pptx"
	"github.com/porticus-lab/go-html-pptx/internal/scene"
)

// chromeAvailable reports whether a Chrome/Chromium executable is in PATH.
func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func skipIfNoChrome(t *testing.T) {
	t.Helper()
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
}

func newTestConverter(t *testing.T, opts ...htmlpptx.Option) *htmlpptx.Converter {
	t.Helper()
	skipIfNoChrome(t)
	c, err := htmlpptx.NewConverter(append([]htmlpptx.Option{htmlpptx.WithNoSandbox()}, opts...)...)
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// isPPTX checks whether data starts with the ZIP local file header.
func isPPTX(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

const simpleSlide = `<!DOCTYPE html>
<html><head><style>
  body { margin: 0; }
  .slide { position: relative; width: 1280px; height: 720px; }
  .box { position: absolute; left: 100px; top: 100px; width: 400px; height: 200px; background-color: rgb(33, 150, 243); }
</style></head>
<body>
  <div class="slide"><div class="box"><span>Hello</span></div></div>
</body></html>`

func TestConvertHTML_Basic(t *testing.T) {
	c := newTestConverter(t)

	res, err := c.ConvertHTML(context.Background(), simpleSlide)
	if err != nil {
		t.Fatalf("ConvertHTML: %v", err)
	}
	if !isPPTX(res.Bytes()) {
		t.Fatal("output is not a valid PPTX package")
	}
	if res.Slides() != 1 {
		t.Errorf("Slides() = %d, want 1", res.Slides())
	}
	if res.Len() < 1000 {
		t.Errorf("deck unexpectedly small: %d bytes", res.Len())
	}
}

func TestExtractHTML_ShapeAndText(t *testing.T) {
	c := newTestConverter(t)

	d, err := c.ExtractHTML(context.Background(), simpleSlide)
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	if len(d.Slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(d.Slides))
	}
	els := d.Slides[0].Elements
	if len(els) != 2 {
		t.Fatalf("got %d elements, want 2: %+v", len(els), els)
	}
	shape, text := els[0], els[1]
	if shape.Type != scene.TypeShape || shape.Fill != "2196F3" {
		t.Errorf("first element = %s fill %q, want shape 2196F3", shape.Type, shape.Fill)
	}
	if !almostEqual(shape.X, 100*13.333/1280, 0.01) || !almostEqual(shape.Y, 100*7.5/720, 0.01) {
		t.Errorf("shape at (%v, %v), want scaled (100, 100)", shape.X, shape.Y)
	}
	if !almostEqual(shape.W, 400*13.333/1280, 0.01) || !almostEqual(shape.H, 200*7.5/720, 0.01) {
		t.Errorf("shape size %vx%v, want scaled 400x200", shape.W, shape.H)
	}
	if text.Type != scene.TypeText || text.Text != "Hello" {
		t.Errorf("second element = %s %q, want text Hello", text.Type, text.Text)
	}
}

func TestExtractHTML_HiddenSlidesRevealed(t *testing.T) {
	c := newTestConverter(t)

	html := `<!DOCTYPE html>
<html><head><style>
  body { margin: 0; }
  .slide { width: 1280px; height: 720px; display: flex; }
</style></head>
<body>
  <section class="slide"><h1>One</h1></section>
  <section class="slide" style="display: none"><h1>Two</h1></section>
  <section class="slide" style="display: none"><h1>Three</h1></section>
</body></html>`

	d, err := c.ExtractHTML(context.Background(), html)
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	if len(d.Slides) != 3 {
		t.Fatalf("got %d slides, want 3", len(d.Slides))
	}
	for i, want := range []string{"One", "Two", "Three"} {
		found := false
		for _, el := range d.Slides[i].Elements {
			if el.Text == want {
				found = true
			}
		}
		if !found {
			t.Errorf("slide %d has no %q text", i+1, want)
		}
	}
}

func TestExtractHTML_MergedCell(t *testing.T) {
	c := newTestConverter(t)

	html := `<table><tr><td colspan="2">Head</td></tr><tr><td>a</td><td>b</td></tr></table>`
	d, err := c.ExtractHTML(context.Background(), html)
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	var table *scene.Element
	for i := range d.Slides[0].Elements {
		if d.Slides[0].Elements[i].Type == scene.TypeTable {
			table = &d.Slides[0].Elements[i]
		}
	}
	if table == nil {
		t.Fatal("no table element extracted")
	}
	want := [][]string{{"Head", ""}, {"a", "b"}}
	if len(table.TableRows) != 2 || len(table.TableRows[0]) != 2 || table.TableRows[0][0] != want[0][0] ||
		table.TableRows[0][1] != "" || table.TableRows[1][0] != "a" || table.TableRows[1][1] != "b" {
		t.Errorf("TableRows = %v, want %v", table.TableRows, want)
	}
}

func TestExtractHTML_Idempotent(t *testing.T) {
	c := newTestConverter(t)

	first, err := c.ExtractHTML(context.Background(), simpleSlide)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.ExtractHTML(context.Background(), simpleSlide)
	if err != nil {
		t.Fatal(err)
	}
	if first.ElementCount() != second.ElementCount() {
		t.Fatalf("element counts differ: %d vs %d", first.ElementCount(), second.ElementCount())
	}
	for i, el := range first.Slides[0].Elements {
		other := second.Slides[0].Elements[i]
		if el.Type != other.Type || el.X != other.X || el.Y != other.Y || el.Text != other.Text || el.Fill != other.Fill {
			t.Errorf("element %d differs: %+v vs %+v", i, el, other)
		}
	}
}

func TestExtractHTML_ScriptsRemoved(t *testing.T) {
	c := newTestConverter(t)

	html := `<p>kept</p><script>document.body.innerHTML = "<p>injected</p>"</script>`
	d, err := c.ExtractHTML(context.Background(), html)
	if err != nil {
		t.Fatal(err)
	}
	for _, el := range d.Slides[0].Elements {
		if el.Text == "injected" {
			t.Fatal("script ran on the rendering surface")
		}
	}
}

func TestConvertHTML_EmptyBody(t *testing.T) {
	c := newTestConverter(t)

	d, err := c.ExtractHTML(context.Background(), "<body></body>")
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	if len(d.Slides) != 1 || d.ElementCount() != 0 {
		t.Fatalf("got %d slides with %d elements, want 1 empty slide", len(d.Slides), d.ElementCount())
	}
	_, err = c.Generate(context.Background(), d)
	if !errors.Is(err, htmlpptx.ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
}

func TestConvertHTML_SlideSize(t *testing.T) {
	c := newTestConverter(t, htmlpptx.WithSlideSize(htmlpptx.Layout4x3))

	d, err := c.ExtractHTML(context.Background(), simpleSlide)
	if err != nil {
		t.Fatal(err)
	}
	if d.Width != 10 || d.Height != 7.5 {
		t.Errorf("deck size %vx%v, want 10x7.5", d.Width, d.Height)
	}
}

func TestConvertFile(t *testing.T) {
	c := newTestConverter(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.html")
	if err := os.WriteFile(path, []byte("<h1>From File</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := c.ConvertFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if !isPPTX(res.Bytes()) {
		t.Fatal("output is not a valid PPTX package")
	}
}

// writePNG writes a small opaque PNG to path.
func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// mediaParts counts the embedded images of a deck.
func mediaParts(t *testing.T, res *htmlpptx.Result) int {
	t.Helper()
	zr, err := zip.NewReader(res.Reader(), int64(res.Len()))
	if err != nil {
		t.Fatalf("opening deck: %v", err)
	}
	n := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/media/") {
			n++
		}
	}
	return n
}

func TestLocalImagesOnlyFromFiles(t *testing.T) {
	c := newTestConverter(t)

	dir := t.TempDir()
	img := filepath.Join(dir, "secret.png")
	writePNG(t, img)
	page := `<div style="width:1280px;height:720px"><p>deck</p>
  <img src="` + img + `" style="width:200px;height:200px;display:block">
  <div style="width:200px;height:200px;background-image:url(` + img + `)"></div>
</div>`

	d, err := c.ExtractHTML(context.Background(), page)
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	if d.LocalImages {
		t.Error("HTML strings must not allow local images")
	}
	res, err := c.ConvertHTML(context.Background(), page)
	if err != nil {
		t.Fatalf("ConvertHTML: %v", err)
	}
	if n := mediaParts(t, res); n != 0 {
		t.Errorf("HTML string embedded %d local images, want 0", n)
	}

	path := filepath.Join(dir, "deck.html")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err = c.ConvertFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if n := mediaParts(t, res); n != 1 {
		t.Errorf("file embedded %d images, want 1 (same source stored once)", n)
	}
}

func TestConvertFile_NotFound(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.ConvertFile(context.Background(), "/nonexistent/file.html")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestConvertURL_InvalidURL(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.ConvertURL(context.Background(), "not a url")
	if err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestNewConverter_InvalidSlideSize(t *testing.T) {
	_, err := htmlpptx.NewConverter(htmlpptx.WithSlideSize(htmlpptx.SlideSize{Width: 100, Height: 1}))
	if err == nil {
		t.Fatal("expected error for oversized slide")
	}
}

func TestConverter_CloseIdempotent(t *testing.T) {
	skipIfNoChrome(t)

	c, err := htmlpptx.NewConverter(htmlpptx.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestConverter_UsedAfterClose(t *testing.T) {
	skipIfNoChrome(t)

	c, err := htmlpptx.NewConverter(htmlpptx.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}
	c.Close()

	_, err = c.ConvertHTML(context.Background(), "<p>test</p>")
	if err != htmlpptx.ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestConvertHTML_PackageLevel(t *testing.T) {
	skipIfNoChrome(t)

	res, err := htmlpptx.ConvertHTML(
		context.Background(),
		"<p>Package-level function</p>",
		htmlpptx.WithNoSandbox(),
	)
	if err != nil {
		t.Fatalf("ConvertHTML: %v", err)
	}
	if !isPPTX(res.Bytes()) {
		t.Fatal("output is not a valid PPTX package")
	}
}

func TestSession_Export(t *testing.T) {
	c := newTestConverter(t)

	s := c.NewSession(htmlpptx.WithDebounce(10 * time.Millisecond))
	defer s.Close()

	if _, err := s.Export(context.Background()); !errors.Is(err, htmlpptx.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}

	updated := make(chan htmlpptx.Update, 1)
	s2 := c.NewSession(htmlpptx.WithDebounce(10*time.Millisecond), htmlpptx.WithOnUpdate(func(u htmlpptx.Update) {
		updated <- u
	}))
	defer s2.Close()

	if err := s2.Update(simpleSlide); err != nil {
		t.Fatal(err)
	}
	select {
	case u := <-updated:
		if u.Err != nil {
			t.Fatalf("extraction failed: %v", u.Err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("no extraction within 30s")
	}

	res, err := s2.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	path := filepath.Join(t.TempDir(), htmlpptx.DefaultFilename)
	if err := res.WriteToFile(path, 0o644); err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !isPPTX(data) {
		t.Fatal("written file is not a valid PPTX package")
	}
}

func TestResult_Base64(t *testing.T) {
	c := newTestConverter(t)

	res, err := c.ConvertHTML(context.Background(), "<p>base64 test</p>")
	if err != nil {
		t.Fatal(err)
	}
	b64 := res.Base64()
	// base64 of PK\x03\x04 starts with UEsDB
	if len(b64) < 5 || b64[:5] != "UEsDB" {
		t.Errorf("Base64 does not start with expected ZIP prefix, got %.10s...", b64)
	}
}
