package htmlpptx

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/porticus-lab/go-html-pptx/internal/scene"
)

// DefaultDebounce is the quiet period a [Session] waits after the last
// edit before extracting.
const DefaultDebounce = 400 * time.Millisecond

// DefaultFilename is the name exported decks are saved under.
const DefaultFilename = "slides.pptx"

// pipeline is the part of a Converter a Session drives.
type pipeline interface {
	ExtractHTML(ctx context.Context, html string) (*scene.Deck, error)
	ExtractFile(ctx context.Context, path string) (*scene.Deck, error)
	Generate(ctx context.Context, d *scene.Deck) (*Result, error)
}

// Update reports the outcome of one settled extraction.
type Update struct {
	Generation uint64
	Deck       *scene.Deck
	Err        error
}

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithDebounce sets the quiet period before extraction. Defaults to
// [DefaultDebounce].
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		s.debounce = d
	}
}

// WithOnUpdate registers fn to be called after every applied extraction,
// successful or not. fn runs on the extraction goroutine.
func WithOnUpdate(fn func(Update)) SessionOption {
	return func(s *Session) {
		s.onUpdate = fn
	}
}

// Session tracks an HTML document that changes over time, such as an
// editor buffer. Edits are debounced, only the newest extraction result is
// kept and the latest scene can be exported at any time.
//
// A Session is safe for concurrent use.
type Session struct {
	id       string
	src      pipeline
	debounce time.Duration
	onUpdate func(Update)
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	timer     *time.Timer
	requested uint64
	applied   uint64
	latest    *scene.Deck
	latestGen uint64
	lastErr   error
	exporting bool
	closed    bool
}

// NewSession starts a Session that extracts through c.
func (c *Converter) NewSession(opts ...SessionOption) *Session {
	logger := c.cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	return newSession(c, logger, opts...)
}

func newSession(src pipeline, logger *slog.Logger, opts ...SessionOption) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:       uuid.NewString(),
		src:      src,
		debounce: DefaultDebounce,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = logger.With("component", "session", "session", s.id)
	return s
}

// ID returns the session identifier used in log records.
func (s *Session) ID() string { return s.id }

// source is one submitted document: HTML content or a file on disk.
type source struct {
	html string
	path string
}

func (src source) extract(ctx context.Context, p pipeline) (*scene.Deck, error) {
	if src.path != "" {
		return p.ExtractFile(ctx, src.path)
	}
	return p.ExtractHTML(ctx, src.html)
}

// Update replaces the document. Extraction runs once no further update
// arrives within the debounce period.
func (s *Session) Update(html string) error {
	return s.submit(source{html: html})
}

// UpdateFile replaces the document with the file at path, as
// [Converter.ExtractFile] loads it: unsanitized, with relative references
// resolved against its directory. It is debounced like [Session.Update].
func (s *Session) UpdateFile(path string) error {
	if path == "" {
		return errors.New("htmlpptx: empty session file path")
	}
	return s.submit(source{path: path})
}

func (s *Session) submit(src source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.requested++
	gen := s.requested
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.debounce, func() {
		defer s.wg.Done()
		s.run(gen, src)
	})
	return nil
}

func (s *Session) run(gen uint64, src source) {
	s.mu.Lock()
	if s.closed || gen != s.requested {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	d, err := src.extract(s.ctx, s.src)

	s.mu.Lock()
	if s.closed || gen <= s.applied {
		s.mu.Unlock()
		s.logger.Debug("stale extraction discarded", "generation", gen)
		return
	}
	s.applied = gen
	if err != nil {
		s.lastErr = err
	} else {
		s.latest, s.latestGen, s.lastErr = d, gen, nil
	}
	fn := s.onUpdate
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("extraction failed", "generation", gen, "error", err)
	} else {
		s.logger.Debug("extraction applied", "generation", gen, "slides", len(d.Slides), "elements", d.ElementCount())
	}
	if fn != nil {
		fn(Update{Generation: gen, Deck: d, Err: err})
	}
}

// Latest returns the newest extracted scene and the generation of the
// update that produced it, or nil before the first successful extraction.
func (s *Session) Latest() (*scene.Deck, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.latestGen
}

// Err returns the error of the newest applied extraction, if it failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Exporting reports whether an export is running.
func (s *Session) Exporting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporting
}

// Export builds a deck from the latest scene. It returns [ErrNotReady]
// before the first extraction and [ErrEmptyDeck] when the document has no
// extractable elements.
func (s *Session) Export(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return nil, ErrClosed
	case s.exporting:
		s.mu.Unlock()
		return nil, ErrExportInProgress
	case s.latest == nil:
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	s.exporting = true
	d := s.latest
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.exporting = false
		s.mu.Unlock()
	}()

	res, err := s.src.Generate(ctx, d)
	if err != nil {
		return nil, err
	}
	s.logger.Info("deck exported", "slides", res.Slides(), "bytes", res.Len())
	return res, nil
}

// Close cancels any pending or running extraction and waits for it to
// return. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return nil
}
