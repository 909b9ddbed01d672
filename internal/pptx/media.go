package pptx

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// media is one embedded image part. Width and height are intrinsic pixels,
// zero when unknown.
type media struct {
	name        string
	ext         string
	contentType string
	data        []byte
	width       int
	height      int
}

var imageExts = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpeg",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
}

// load reads src, which is a data: URI, an http(s) URL, a file: URL or a
// local path. File URLs and paths are refused unless local is set.
func (l *Library) load(ctx context.Context, src string, local bool) (*media, error) {
	var (
		data []byte
		ct   string
		err  error
	)
	switch {
	case strings.HasPrefix(src, "data:"):
		data, ct, err = l.decodeDataURI(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		data, ct, err = l.fetch(ctx, src)
	case !local:
		return nil, fmt.Errorf("%w: %s", ErrLocalImage, src)
	default:
		data, err = l.readFile(src)
	}
	if err != nil {
		return nil, err
	}
	return decodeMedia(data, ct)
}

// decodeDataURI decodes "data:[<mime>][;base64],<payload>".
func (l *Library) decodeDataURI(uri string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, "", fmt.Errorf("pptx: malformed data URI")
	}
	params := strings.Split(meta, ";")
	ct := strings.ToLower(strings.TrimSpace(params[0]))
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	if isBase64 {
		if int64(base64.StdEncoding.DecodedLen(len(payload))) > l.maxImage+2 {
			return nil, "", ErrImageTooLarge
		}
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, "", fmt.Errorf("pptx: decoding data URI: %w", err)
		}
		return data, ct, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("pptx: decoding data URI: %w", err)
	}
	if int64(len(text)) > l.maxImage {
		return nil, "", ErrImageTooLarge
	}
	return []byte(text), ct, nil
}

func (l *Library) fetch(ctx context.Context, src string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", fmt.Errorf("pptx: fetching %s: %w", src, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("pptx: fetching %s: %w", src, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("pptx: fetching %s: %s", src, resp.Status)
	}
	data, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, "", err
	}
	ct, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";")
	return data, strings.ToLower(strings.TrimSpace(ct)), nil
}

func (l *Library) readFile(src string) ([]byte, error) {
	path := src
	if strings.HasPrefix(src, "file:") {
		u, err := url.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("pptx: reading %s: %w", src, err)
		}
		path = u.Path
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pptx: reading image: %w", err)
	}
	defer f.Close()
	return l.readLimited(f)
}

func (l *Library) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxImage+1))
	if err != nil {
		return nil, fmt.Errorf("pptx: reading image: %w", err)
	}
	if int64(len(data)) > l.maxImage {
		return nil, ErrImageTooLarge
	}
	return data, nil
}

// decodeMedia identifies the format, reads the intrinsic size and converts
// WebP, which PowerPoint does not display, to PNG.
func decodeMedia(data []byte, declared string) (*media, error) {
	ct := sniff(data, declared)
	m := &media{data: data, contentType: ct}

	switch ct {
	case "image/webp":
		if err := m.reencode(webp.Decode, "webp"); err != nil {
			return nil, err
		}
	case "image/bmp":
		if err := m.reencode(bmp.Decode, "bmp"); err != nil {
			return nil, err
		}
	case "image/svg+xml":
		m.width, m.height = svgSize(data)
	case "image/png", "image/jpeg", "image/gif":
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			m.width, m.height = cfg.Width, cfg.Height
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
	}
	m.ext = imageExts[m.contentType]
	return m, nil
}

// reencode replaces m's data with a PNG rendition decoded by decode.
func (m *media) reencode(decode func(io.Reader) (image.Image, error), format string) error {
	img, err := decode(bytes.NewReader(m.data))
	if err != nil {
		return fmt.Errorf("pptx: decoding %s: %w", format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("pptx: converting %s: %w", format, err)
	}
	b := img.Bounds()
	m.data, m.contentType = buf.Bytes(), "image/png"
	m.width, m.height = b.Dx(), b.Dy()
	return nil
}

// sniff trusts the content over the declared type. SVG sniffs as text.
func sniff(data []byte, declared string) string {
	ct, _, _ := strings.Cut(http.DetectContentType(data), ";")
	switch {
	case strings.HasPrefix(ct, "image/"):
		return ct
	case declared == "image/svg+xml", bytes.Contains(data[:min(len(data), 1024)], []byte("<svg")):
		return "image/svg+xml"
	case declared != "":
		return declared
	}
	return ct
}

// svgSize reads width and height from the root element, falling back to
// the viewBox.
func svgSize(data []byte) (int, int) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, 0
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "svg" {
			return 0, 0
		}
		var w, h float64
		var box []string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "width":
				w = svgLength(a.Value)
			case "height":
				h = svgLength(a.Value)
			case "viewBox":
				box = strings.FieldsFunc(a.Value, func(r rune) bool { return r == ' ' || r == ',' })
			}
		}
		if (w <= 0 || h <= 0) && len(box) == 4 {
			w, _ = strconv.ParseFloat(box[2], 64)
			h, _ = strconv.ParseFloat(box[3], 64)
		}
		if w <= 0 || h <= 0 {
			return 0, 0
		}
		return int(w + 0.5), int(h + 0.5)
	}
}

func svgLength(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
