// Package browser is the rendering surface: a single headless Chrome tab
// that loads a document, waits for it to settle and captures it as a
// dom.Document through the DOMSnapshot domain.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/domsnapshot"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
)

// Default viewport, the common 16:9 authoring size.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

const blankURL = "about:blank"

// ErrClosed is returned by a Surface after Close.
var ErrClosed = errors.New("browser: surface is closed")

// Config controls a Surface. Zero fields take defaults.
type Config struct {
	Width  int64
	Height int64
	// Settle is an extra wait after the load event so transitions and
	// late layout can finish.
	Settle time.Duration
	Logger *slog.Logger
}

// Surface owns one scratch tab. It is not safe for concurrent use; callers
// serialise access.
type Surface struct {
	cfg     Config
	logger  *slog.Logger
	browser context.Context

	tab    context.Context
	cancel context.CancelFunc
	closed bool
}

// New returns a Surface whose tab is opened lazily inside browserCtx, a
// chromedp browser context.
func New(browserCtx context.Context, cfg Config) *Surface {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{cfg: cfg, logger: logger.With("component", "browser"), browser: browserCtx}
}

// Viewport returns the layout viewport documents are rendered into.
func (s *Surface) Viewport() dom.Rect {
	return dom.Rect{W: float64(s.cfg.Width), H: float64(s.cfg.Height)}
}

// Load navigates the tab to rawURL and returns once the load event fired
// and the body exists.
func (s *Surface) Load(ctx context.Context, rawURL string) error {
	actions := []chromedp.Action{
		chromedp.EmulateViewport(s.cfg.Width, s.cfg.Height),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if err := s.run(ctx, s.settle(actions)...); err != nil {
		return fmt.Errorf("browser: loading %s: %w", rawURL, err)
	}
	s.logger.Debug("document loaded", "url", rawURL)
	return nil
}

// LoadContent replaces the document of a blank tab with html. The document
// has an opaque origin, so root-relative and file references do not
// resolve against the local disk.
func (s *Surface) LoadContent(ctx context.Context, html string) error {
	var complete bool
	actions := []chromedp.Action{
		chromedp.EmulateViewport(s.cfg.Width, s.cfg.Height),
		chromedp.Navigate(blankURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Poll(`document.readyState === "complete"`, &complete),
	}
	if err := s.run(ctx, s.settle(actions)...); err != nil {
		return fmt.Errorf("browser: loading content: %w", err)
	}
	s.logger.Debug("content loaded", "bytes", len(html))
	return nil
}

func (s *Surface) settle(actions []chromedp.Action) []chromedp.Action {
	if s.cfg.Settle > 0 {
		actions = append(actions, chromedp.Sleep(s.cfg.Settle))
	}
	return actions
}

// Snapshot captures the loaded document with layout boxes, computed styles,
// pseudo-elements and serialised SVG and canvas content.
func (s *Surface) Snapshot(ctx context.Context) (*dom.Document, error) {
	names := make([]string, len(dom.Properties))
	for i, p := range dom.Properties {
		names[i] = string(p)
	}

	var (
		docs []*domsnapshot.DocumentSnapshot
		strs []string
	)
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		docs, strs, err = domsnapshot.CaptureSnapshot(names).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("browser: capturing snapshot: %w", err)
	}

	doc, err := Build(docs, strs, s.Viewport())
	if err != nil {
		return nil, err
	}
	if err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		captureAll(ctx, doc.Body)
		return nil
	})); err != nil {
		return nil, fmt.Errorf("browser: capturing resources: %w", err)
	}
	return doc, nil
}

// Override is an inline style appended to a node of the last snapshot.
type Override struct {
	Node  *dom.Node
	Style string
}

// ApplyStyles appends each override to its node's style attribute. The
// document must be snapshotted again to observe the result.
func (s *Surface) ApplyStyles(ctx context.Context, overrides []Override) error {
	if len(overrides) == 0 {
		return nil
	}
	ids := make([]cdp.BackendNodeID, len(overrides))
	for i, o := range overrides {
		ids[i] = cdp.BackendNodeID(o.Node.Handle)
	}
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if _, err := cdpdom.GetDocument().WithDepth(0).Do(ctx); err != nil {
			return err
		}
		nodeIDs, err := cdpdom.PushNodesByBackendIDsToFrontend(ids).Do(ctx)
		if err != nil {
			return err
		}
		for i, id := range nodeIDs {
			if id == 0 || i >= len(overrides) {
				continue
			}
			value := mergeStyle(overrides[i].Node.Attrs["style"], overrides[i].Style)
			if err := cdpdom.SetAttributeValue(id, "style", value).Do(ctx); err != nil {
				return err
			}
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("browser: applying styles: %w", err)
	}
	s.logger.Debug("inline styles applied", "nodes", len(overrides))
	return nil
}

func mergeStyle(existing, decls string) string {
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return decls
	}
	if !strings.HasSuffix(existing, ";") {
		existing += ";"
	}
	return existing + " " + decls
}

// Reset closes the scratch tab. The next call opens a fresh one.
func (s *Surface) Reset() {
	if s.cancel != nil {
		s.cancel()
	}
	s.tab, s.cancel = nil, nil
}

// Close releases the tab. Close is idempotent.
func (s *Surface) Close() error {
	s.Reset()
	s.closed = true
	return nil
}

// run executes actions in the scratch tab, bounded by ctx.
func (s *Surface) run(ctx context.Context, actions ...chromedp.Action) error {
	if s.closed {
		return ErrClosed
	}
	if s.tab == nil {
		s.tab, s.cancel = chromedp.NewContext(s.browser)
	}
	runCtx, cancel := context.WithCancel(s.tab)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
