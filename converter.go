package htmlpptx

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/porticus-lab/go-html-pptx/internal/browser"
	"github.com/porticus-lab/go-html-pptx/internal/deck"
	"github.com/porticus-lab/go-html-pptx/internal/dom"
	"github.com/porticus-lab/go-html-pptx/internal/extract"
	"github.com/porticus-lab/go-html-pptx/internal/pptx"
	"github.com/porticus-lab/go-html-pptx/internal/sanitize"
	"github.com/porticus-lab/go-html-pptx/internal/scene"
)

// Converter converts HTML documents to PowerPoint decks.
//
// A Converter manages a headless browser instance with one scratch tab that
// is reused across conversions. It is safe for concurrent use; extractions
// are serialised on the tab.
//
// Call [Converter.Close] when the Converter is no longer needed to release
// browser resources.
type Converter struct {
	cfg           converterConfig
	logger        *slog.Logger
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	sanitizer *sanitize.Sanitizer
	extractor *extract.Extractor
	generator *deck.Generator

	// work serialises use of the scratch tab.
	work    sync.Mutex
	surface *browser.Surface

	mu     sync.Mutex
	closed bool
}

// NewConverter creates a Converter with the given options.
//
// It starts a headless browser in the background. The caller must call
// [Converter.Close] when finished.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if err := cfg.slide.validate(); err != nil {
		return nil, err
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.chromePath == "" && cfg.autoDownload {
		path, err := resolveBrowser()
		if err != nil {
			return nil, err
		}
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("headless", cfg.headless),
		chromedp.WindowSize(int(cfg.viewportWidth), int(cfg.viewportHeight)),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("htmlpptx: starting browser: %w", err)
	}

	c := &Converter{
		cfg:           cfg,
		logger:        logger.With("component", "converter"),
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		extractor:     newExtractor(cfg, logger),
		generator:     newGenerator(cfg, logger),
	}
	if cfg.sanitize {
		c.sanitizer = sanitize.New()
	}
	c.surface = browser.New(browserCtx, browser.Config{
		Width:  cfg.viewportWidth,
		Height: cfg.viewportHeight,
		Settle: cfg.settle,
		Logger: logger,
	})
	return c, nil
}

func newExtractor(cfg converterConfig, logger *slog.Logger) *extract.Extractor {
	size := cfg.slide.resolved()
	return extract.New(extract.Config{
		SlideWidth:  size.Width,
		SlideHeight: size.Height,
		MaxElements: cfg.maxElements,
		Logger:      logger,
	})
}

func newGenerator(cfg converterConfig, logger *slog.Logger) *deck.Generator {
	lib := pptx.NewLibrary(
		pptx.WithHTTPClient(cfg.httpClient),
		pptx.WithMaxImageBytes(cfg.maxImageBytes),
	)
	return deck.NewGenerator(lib, logger)
}

// Close releases all resources held by the Converter, including the
// browser process. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.browserCancel()
	c.allocCancel()
	return nil
}

// ConvertHTML converts an HTML string to a deck. The HTML is sanitized
// first unless [WithSanitizer] disabled it.
func (c *Converter) ConvertHTML(ctx context.Context, html string) (*Result, error) {
	d, err := c.ExtractHTML(ctx, html)
	if err != nil {
		return nil, err
	}
	return c.Generate(ctx, d)
}

// ConvertURL converts the web page at rawURL to a deck.
func (c *Converter) ConvertURL(ctx context.Context, rawURL string) (*Result, error) {
	d, err := c.ExtractURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return c.Generate(ctx, d)
}

// ConvertFile converts a local HTML file to a deck.
func (c *Converter) ConvertFile(ctx context.Context, path string) (*Result, error) {
	d, err := c.ExtractFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return c.Generate(ctx, d)
}

// ExtractHTML renders an HTML string and returns its scene without
// building a deck. The document is loaded into a blank tab, so references
// to local files do not resolve and are never embedded.
func (c *Converter) ExtractHTML(ctx context.Context, html string) (*scene.Deck, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if c.sanitizer != nil {
		html = c.sanitizer.Sanitize(html)
	}
	return c.extract(ctx, "content", func(ctx context.Context) error {
		return c.surface.LoadContent(ctx, html)
	})
}

// ExtractURL renders the web page at rawURL and returns its scene. Images
// of file: URLs may be embedded from disk.
func (c *Converter) ExtractURL(ctx context.Context, rawURL string) (*scene.Deck, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, fmt.Errorf("htmlpptx: invalid URL %q: %w", rawURL, err)
	}
	d, err := c.extractURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	d.LocalImages = strings.EqualFold(u.Scheme, "file")
	return d, nil
}

// ExtractFile renders a local HTML file and returns its scene. Relative
// stylesheet and image references resolve against the file's directory,
// and local images are embedded.
func (c *Converter) ExtractFile(ctx context.Context, path string) (*scene.Deck, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("htmlpptx: resolving path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("htmlpptx: %w", err)
	}
	d, err := c.extractURL(ctx, fileURL(abs))
	if err != nil {
		return nil, err
	}
	d.LocalImages = true
	return d, nil
}

func (c *Converter) extractURL(ctx context.Context, targetURL string) (*scene.Deck, error) {
	return c.extract(ctx, targetURL, func(ctx context.Context) error {
		return c.surface.Load(ctx, targetURL)
	})
}

// Generate builds a deck from an extracted scene.
func (c *Converter) Generate(ctx context.Context, d *scene.Deck) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	stats, err := c.generator.Generate(ctx, d, &buf)
	if err != nil {
		return nil, fmt.Errorf("htmlpptx: generating deck: %w", err)
	}
	return &Result{
		data:     buf.Bytes(),
		slides:   stats.Slides,
		elements: stats.Elements,
		skipped:  stats.Skipped,
	}, nil
}

// extract loads a document in the scratch tab with load, reveals hidden
// slides and walks the result. A failed render discards the tab. source
// names the document in logs.
func (c *Converter) extract(ctx context.Context, source string, load func(context.Context) error) (*scene.Deck, error) {
	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	c.work.Lock()
	defer c.work.Unlock()
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	doc, err := c.render(ctx, load)
	if err != nil {
		c.surface.Reset()
		c.logger.Warn("scratch tab discarded after failure", "source", source, "error", err)
		return nil, fmt.Errorf("htmlpptx: extraction failed: %w", err)
	}
	d, err := c.extractor.Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("htmlpptx: %w", err)
	}
	return d, nil
}

// render loads the page and snapshots it. Hidden sibling slides are forced
// visible and the page is snapshotted again so every slide has a box.
func (c *Converter) render(ctx context.Context, load func(context.Context) error) (*dom.Document, error) {
	if err := load(ctx); err != nil {
		return nil, err
	}
	doc, err := c.surface.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	plan := extract.PlanReveal(doc.Body)
	if len(plan) == 0 {
		return doc, nil
	}
	overrides := make([]browser.Override, len(plan))
	for i, r := range plan {
		overrides[i] = browser.Override{Node: r.Node, Style: r.Style()}
	}
	if err := c.surface.ApplyStyles(ctx, overrides); err != nil {
		return nil, err
	}
	c.logger.Debug("hidden slides revealed", "count", len(plan))
	return c.surface.Snapshot(ctx)
}

func (c *Converter) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

func fileURL(abs string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// --- Package-level convenience functions ---

// ConvertHTML converts an HTML string to a deck using a temporary
// [Converter]. This is convenient for one-off conversions. For repeated
// use, create a [Converter] with [NewConverter] to reuse the browser
// instance.
func ConvertHTML(ctx context.Context, html string, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ConvertHTML(ctx, html)
}

// ConvertURL converts a web page to a deck using a temporary [Converter].
func ConvertURL(ctx context.Context, rawURL string, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ConvertURL(ctx, rawURL)
}

// ConvertFile converts a local HTML file to a deck using a temporary
// [Converter].
func ConvertFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ConvertFile(ctx, path)
}
