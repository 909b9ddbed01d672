// Package extract recovers a layered scene from a rendered document.
//
// An Extractor locates the slide-sized containers of a document and walks
// each one depth first, emitting one scene.Element per visual node in slide
// inch coordinates. Every text node is attributed to at most one element.
package extract

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
	"github.com/porticus-lab/go-html-pptx/internal/scene"
)

// DefaultMaxElements bounds the elements emitted for one slide.
const DefaultMaxElements = 2000

// ErrZeroSizeContainer is returned when a slide container has no area to
// map onto the slide canvas.
var ErrZeroSizeContainer = errors.New("extract: slide container has zero width or height")

// Config controls extraction. Zero fields take defaults.
type Config struct {
	SlideWidth  float64 // inches
	SlideHeight float64 // inches
	MaxElements int
	Logger      *slog.Logger
}

// Extractor turns documents into decks. It holds no per-run state and may be
// shared.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

// New returns an Extractor for cfg.
func New(cfg Config) *Extractor {
	if cfg.SlideWidth <= 0 {
		cfg.SlideWidth = scene.DefaultWidth
	}
	if cfg.SlideHeight <= 0 {
		cfg.SlideHeight = scene.DefaultHeight
	}
	if cfg.MaxElements <= 0 {
		cfg.MaxElements = DefaultMaxElements
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, logger: logger.With("component", "extract")}
}

// Extract produces one slide per slide container in doc.
func (e *Extractor) Extract(doc *dom.Document) (*scene.Deck, error) {
	if doc == nil || doc.Body == nil {
		return nil, errors.New("extract: document has no body")
	}
	deck := &scene.Deck{Width: e.cfg.SlideWidth, Height: e.cfg.SlideHeight}

	containers := FindContainers(doc.Body)
	for i, c := range containers {
		box := c.Rect()
		if c == doc.Body {
			box = bodyBox(box, doc.Viewport)
		}
		slide, err := e.extractSlide(c, box)
		if err != nil {
			return nil, fmt.Errorf("extract: slide %d: %w", i+1, err)
		}
		deck.Slides = append(deck.Slides, slide)
	}
	e.logger.Debug("extracted deck", "slides", len(deck.Slides), "elements", deck.ElementCount())
	return deck, nil
}

// ExtractSlide walks a single container.
func (e *Extractor) ExtractSlide(container *dom.Node) (scene.Slide, error) {
	return e.extractSlide(container, container.Rect())
}

func (e *Extractor) extractSlide(container *dom.Node, box dom.Rect) (scene.Slide, error) {
	if box.W <= 0 || box.H <= 0 {
		return scene.Slide{}, ErrZeroSizeContainer
	}
	w := &walker{
		cfg:    e.cfg,
		logger: e.logger,
		origin: box,
		sx:     e.cfg.SlideWidth / box.W,
		sy:     e.cfg.SlideHeight / box.H,
		owned:  make(map[*dom.Node]struct{}),
	}
	w.walk(container, inherited{opacity: 1})
	if w.capped {
		e.logger.Warn("element cap reached, slide truncated", "max", e.cfg.MaxElements)
	}

	slide := scene.Slide{Elements: w.elems}
	slide.Sort()
	return slide, nil
}

// bodyBox stretches the body fallback container to the viewport, since a
// body holding only positioned content can measure zero high.
func bodyBox(body, viewport dom.Rect) dom.Rect {
	if viewport.W > body.W {
		body.W = viewport.W
	}
	if viewport.H > body.H {
		body.H = viewport.H
	}
	return body
}
