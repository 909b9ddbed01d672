// Package pptx is an in-memory presentation builder that serialises to
// Office Open XML (.pptx). It implements the deck-authoring port of package
// deck.
package pptx

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/porticus-lab/go-html-pptx/internal/deck"
)

// DefaultMaxImageBytes caps a single embedded image.
const DefaultMaxImageBytes = 25 << 20

// Library hands out presentations. It is compiled in, so it is ready as soon
// as it is constructed.
type Library struct {
	client      *http.Client
	maxImage    int64
	application string
	now         func() time.Time
	ready       chan struct{}
}

// Option configures a Library.
type Option func(*Library)

// WithHTTPClient sets the client used for remote images.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Library) {
		if c != nil {
			l.client = c
		}
	}
}

// WithMaxImageBytes caps the size of one image. Non-positive values keep the
// default.
func WithMaxImageBytes(n int64) Option {
	return func(l *Library) {
		if n > 0 {
			l.maxImage = n
		}
	}
}

// WithApplication sets the application name written to document properties.
func WithApplication(name string) Option {
	return func(l *Library) {
		l.application = name
	}
}

// NewLibrary returns a ready Library.
func NewLibrary(opts ...Option) *Library {
	l := &Library{
		client:      &http.Client{Timeout: 30 * time.Second},
		maxImage:    DefaultMaxImageBytes,
		application: "html2pptx",
		now:         time.Now,
		ready:       make(chan struct{}),
	}
	for _, o := range opts {
		o(l)
	}
	close(l.ready)
	return l
}

// Ready is closed once the library can be used.
func (l *Library) Ready() <-chan struct{} { return l.ready }

// New starts a presentation.
func (l *Library) New() deck.Author { return l.NewPresentation() }

// NewPresentation starts a presentation with a 16:9 layout.
func (l *Library) NewPresentation() *Presentation {
	return &Presentation{
		lib:     l,
		layout:  "LAYOUT_WIDE",
		cx:      Inch(13.333),
		cy:      Inch(7.5),
		id:      uuid.New(),
		created: l.now(),
		index:   map[string]int{},
	}
}

// Presentation is a deck under construction.
type Presentation struct {
	lib     *Library
	layout  string
	title   string
	cx, cy  int64
	slides  []*Slide
	media   []*media
	index   map[string]int // source -> media position
	id      uuid.UUID
	created time.Time
}

// DefineLayout sets the slide size in inches.
func (p *Presentation) DefineLayout(name string, width, height float64) {
	p.layout = name
	p.cx = clampSlide(Inch(width))
	p.cy = clampSlide(Inch(height))
}

// SetTitle sets the document title property.
func (p *Presentation) SetTitle(title string) { p.title = title }

// ID identifies the document in its core properties.
func (p *Presentation) ID() uuid.UUID { return p.id }

// AddSlide appends an empty slide.
func (p *Presentation) AddSlide() deck.SlideAuthor { return p.NewSlide() }

// NewSlide appends an empty slide.
func (p *Presentation) NewSlide() *Slide {
	s := &Slide{
		pres:   p,
		num:    len(p.slides) + 1,
		nextID: 2, // 1 is the group shape
		rels: []xmlRelationship{
			{ID: "rId1", Type: relTypeSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		},
		links: map[string]string{},
		pics:  map[string]string{},
	}
	p.slides = append(p.slides, s)
	return s
}

// SlideCount returns the number of slides.
func (p *Presentation) SlideCount() int { return len(p.slides) }

// Write serialises the presentation as a .pptx package.
func (p *Presentation) Write(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	zw := zip.NewWriter(w)

	steps := []func(*zip.Writer) error{
		p.writeContentTypes,
		p.writeRootRels,
		p.writeAppProperties,
		p.writeCoreProperties,
		p.writePresentation,
		p.writePresentationRels,
		writePresProps,
		writeViewProps,
		writeTableStyles,
		writeSlideMaster,
		writeSlideLayout,
		writeTheme,
	}
	for _, step := range steps {
		if err := step(zw); err != nil {
			return err
		}
	}

	for _, s := range p.slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.write(zw); err != nil {
			return err
		}
		if err := p.writeSlideRels(zw, s); err != nil {
			return err
		}
	}

	if err := p.writeMedia(zw); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("pptx: finishing archive: %w", err)
	}
	return nil
}

// addMedia registers image data once per source.
func (p *Presentation) addMedia(ctx context.Context, src string, local bool) (*media, error) {
	if i, ok := p.index[src]; ok {
		return p.media[i], nil
	}
	m, err := p.lib.load(ctx, src, local)
	if err != nil {
		return nil, err
	}
	m.name = fmt.Sprintf("image%d.%s", len(p.media)+1, m.ext)
	p.index[src] = len(p.media)
	p.media = append(p.media, m)
	return m, nil
}
