package deck

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/porticus-lab/go-html-pptx/internal/scene"
)

type fakeLibrary struct {
	ready  chan struct{}
	author Author
	opened int
}

func newFakeLibrary(a Author, ready bool) *fakeLibrary {
	l := &fakeLibrary{ready: make(chan struct{}), author: a}
	if ready {
		close(l.ready)
	}
	return l
}

func (l *fakeLibrary) Ready() <-chan struct{} { return l.ready }

func (l *fakeLibrary) New() Author {
	l.opened++
	return l.author
}

type mockAuthor struct{ mock.Mock }

func (m *mockAuthor) DefineLayout(name string, w, h float64) { m.Called(name, w, h) }

func (m *mockAuthor) AddSlide() SlideAuthor { return m.Called().Get(0).(SlideAuthor) }

func (m *mockAuthor) Write(ctx context.Context, w io.Writer) error {
	return m.Called(ctx, w).Error(0)
}

type mockSlide struct{ mock.Mock }

func (m *mockSlide) AddShape(kind ShapeKind, opts ShapeOptions) error {
	return m.Called(kind, opts).Error(0)
}

func (m *mockSlide) AddText(runs []TextRun, opts TextOptions) error {
	return m.Called(runs, opts).Error(0)
}

func (m *mockSlide) AddImage(ctx context.Context, opts ImageOptions) error {
	return m.Called(ctx, opts).Error(0)
}

func (m *mockSlide) AddTable(rows [][]TableCell, opts TableOptions) error {
	return m.Called(rows, opts).Error(0)
}

func ptr(v float64) *float64 { return &v }

func sampleDeck(els ...scene.Element) *scene.Deck {
	return &scene.Deck{
		Width:  scene.DefaultWidth,
		Height: scene.DefaultHeight,
		Slides: []scene.Slide{{Elements: els}},
	}
}

func TestGenerateLibraryNotReady(t *testing.T) {
	author := new(mockAuthor)
	lib := newFakeLibrary(author, false)
	g := NewGenerator(lib, nil)

	var buf bytes.Buffer
	_, err := g.Generate(context.Background(), sampleDeck(scene.Element{Type: scene.TypeShape, W: 1, H: 1, Fill: "FF0000"}), &buf)
	assert.ErrorIs(t, err, ErrLibraryNotReady)
	assert.Zero(t, lib.opened, "nothing attempted")
	assert.Zero(t, buf.Len())
	author.AssertExpectations(t)
}

func TestGenerateEmptyDeck(t *testing.T) {
	lib := newFakeLibrary(new(mockAuthor), true)
	g := NewGenerator(lib, nil)

	_, err := g.Generate(context.Background(), sampleDeck(), io.Discard)
	assert.ErrorIs(t, err, ErrEmptyDeck)
	_, err = g.Generate(context.Background(), nil, io.Discard)
	assert.ErrorIs(t, err, ErrEmptyDeck)
	assert.Zero(t, lib.opened)
}

func TestGenerateZeroLayout(t *testing.T) {
	g := NewGenerator(newFakeLibrary(new(mockAuthor), true), nil)
	d := sampleDeck(scene.Element{Type: scene.TypeShape, W: 1, H: 1, Fill: "FF0000"})
	d.Width = 0
	_, err := g.Generate(context.Background(), d, io.Discard)
	assert.ErrorIs(t, err, ErrZeroLayout)
}

func TestGenerate(t *testing.T) {
	sa := new(mockSlide)
	author := new(mockAuthor)
	author.On("DefineLayout", LayoutName, scene.DefaultWidth, scene.DefaultHeight).Once()
	author.On("AddSlide").Return(sa).Twice()
	author.On("Write", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		_, _ = args.Get(1).(io.Writer).Write([]byte("deck"))
	})

	sa.On("AddShape", mock.Anything, mock.Anything).Return(nil)
	sa.On("AddText", mock.Anything, mock.Anything).Return(nil)
	sa.On("AddTable", mock.Anything, mock.Anything).Return(nil)
	sa.On("AddImage", mock.Anything, mock.MatchedBy(func(o ImageOptions) bool { return o.Path == "missing.png" })).
		Return(errors.New("not found"))
	sa.On("AddImage", mock.Anything, mock.Anything).Return(nil)

	var logs bytes.Buffer
	g := NewGenerator(newFakeLibrary(author, true), slog.New(slog.NewTextHandler(&logs, nil)))

	d := &scene.Deck{
		Width:  scene.DefaultWidth,
		Height: scene.DefaultHeight,
		Slides: []scene.Slide{
			{Elements: []scene.Element{
				{
					Type: scene.TypeShape, X: 1, Y: 1, W: 2, H: 1,
					Fill: "FFFFFF", Gradient: &scene.Gradient{Angle: 90, Color1: "FF0000", Color2: "0000FF"},
					BorderColor: "000000", BorderWidth: 4, BorderRadius: 3,
					Opacity: ptr(0.25),
					Shadow:  &scene.Shadow{Blur: 8, OffsetX: 0, OffsetY: 4, Color: "000000", Opacity: 0.3},
				},
				{
					Type: scene.TypeText, X: 1, Y: 2, W: 3, H: 1,
					FontSize: 12, Color: "333333", Padding: &scene.Padding{T: 4, R: 8, B: 4, L: 8},
					RichText: []scene.Run{
						{Text: "Hello", Bold: true, BreakAfter: true},
						{Text: "world", Italic: true, Hyperlink: "https://example.com"},
					},
				},
				{Type: scene.TypeImage, X: 0, Y: 0, W: 1, H: 1, ImgSrc: "missing.png"},
			}},
			{Elements: []scene.Element{
				{
					Type: scene.TypeList, W: 4, H: 2, ListType: scene.ListNumber,
					Bullets: []scene.Bullet{{Text: "one"}, {Text: "two", IndentLevel: 1, Bold: true}},
				},
				{Type: scene.TypeTable, W: 4, H: 2, TableRows: [][]string{{"H1", "H2"}, {"a"}}},
				{Type: scene.TypeImage, W: 1, H: 1, ImgSrc: "data:image/png;base64,AAAA", ImgSizing: scene.SizingCrop},
			}},
		},
	}

	var out bytes.Buffer
	stats, err := g.Generate(context.Background(), d, &out)
	require.NoError(t, err)
	assert.Equal(t, Stats{Slides: 2, Elements: 5, Skipped: 1}, stats)
	assert.Equal(t, "deck", out.String())
	assert.Contains(t, logs.String(), "element failed, skipping")
	author.AssertExpectations(t)

	shape := callsTo(sa, "AddShape")
	require.Len(t, shape, 1)
	assert.Equal(t, ShapeRoundRect, shape[0].Arguments.Get(0))
	so := shape[0].Arguments.Get(1).(ShapeOptions)
	assert.Nil(t, so.Fill, "gradient wins over solid fill")
	require.NotNil(t, so.Gradient)
	assert.Equal(t, 75.0, so.Gradient.Transparency)
	assert.Equal(t, 0.5, so.RectRadius, "clamped to half the shorter side")
	assert.Equal(t, &Line{Color: "000000", Width: 3}, so.Line)
	require.NotNil(t, so.Shadow)
	assert.Equal(t, 6.0, so.Shadow.Blur)
	assert.Equal(t, 3.0, so.Shadow.Offset)
	assert.Equal(t, 90.0, so.Shadow.Angle)

	texts := callsTo(sa, "AddText")
	require.Len(t, texts, 2)
	runs := texts[0].Arguments.Get(0).([]TextRun)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].Bold)
	assert.True(t, runs[0].BreakLine)
	assert.Equal(t, "https://example.com", runs[1].Hyperlink)
	to := texts[0].Arguments.Get(1).(TextOptions)
	assert.Equal(t, &Margin{T: 3, R: 6, B: 3, L: 6}, to.Margin)

	items := texts[1].Arguments.Get(0).([]TextRun)
	require.Len(t, items, 2)
	assert.Equal(t, BulletNumber, items[0].Bullet)
	assert.True(t, items[0].BreakLine)
	assert.False(t, items[1].BreakLine)
	assert.Equal(t, 1, items[1].IndentLevel)
	assert.True(t, items[1].Bold)

	tables := callsTo(sa, "AddTable")
	require.Len(t, tables, 1)
	cells := tables[0].Arguments.Get(0).([][]TableCell)
	require.Len(t, cells, 2)
	require.Len(t, cells[1], 2, "short rows are padded")
	assert.True(t, cells[0][1].Bold)
	assert.Equal(t, HeaderFill, cells[0][0].Fill)
	assert.False(t, cells[1][0].Bold)
	assert.Empty(t, cells[1][0].Fill)
	assert.Equal(t, &Line{Color: CellBorder, Width: 0.5}, cells[1][1].Border)

	images := callsTo(sa, "AddImage")
	require.Len(t, images, 2)
	last := images[1].Arguments.Get(1).(ImageOptions)
	assert.Equal(t, "data:image/png;base64,AAAA", last.Data)
	assert.Empty(t, last.Path)
	assert.Equal(t, SizingCover, last.Sizing)
	first := images[0].Arguments.Get(1).(ImageOptions)
	assert.False(t, first.AllowLocal, "local files stay off unless the deck allows them")
}

func TestGenerateLocalImages(t *testing.T) {
	sa := new(mockSlide)
	author := new(mockAuthor)
	author.On("DefineLayout", mock.Anything, mock.Anything, mock.Anything)
	author.On("AddSlide").Return(sa)
	author.On("Write", mock.Anything, mock.Anything).Return(nil)
	sa.On("AddImage", mock.Anything, mock.Anything).Return(nil)

	d := sampleDeck(
		scene.Element{Type: scene.TypeImage, X: 1, Y: 1, W: 2, H: 1, ImgSrc: "file:///deck/logo.png"},
		scene.Element{Type: scene.TypeImage, X: 1, Y: 1, W: 2, H: 1, ImgSrc: "data:image/png;base64,AAAA"},
	)
	d.LocalImages = true
	_, err := NewGenerator(newFakeLibrary(author, true), nil).Generate(context.Background(), d, io.Discard)
	require.NoError(t, err)

	images := callsTo(sa, "AddImage")
	require.Len(t, images, 2)
	assert.True(t, images[0].Arguments.Get(1).(ImageOptions).AllowLocal)
	assert.False(t, images[1].Arguments.Get(1).(ImageOptions).AllowLocal)
}

func TestGenerateNonUniformBorders(t *testing.T) {
	sa := new(mockSlide)
	author := new(mockAuthor)
	author.On("DefineLayout", mock.Anything, mock.Anything, mock.Anything)
	author.On("AddSlide").Return(sa)
	author.On("Write", mock.Anything, mock.Anything).Return(nil)
	sa.On("AddShape", mock.Anything, mock.Anything).Return(nil)

	g := NewGenerator(newFakeLibrary(author, true), nil)
	var borders [4]scene.BorderSide
	borders[scene.Bottom] = scene.BorderSide{Color: "FF0000", Width: 2}
	borders[scene.Left] = scene.BorderSide{Color: "00FF00", Width: 4}
	_, err := g.Generate(context.Background(), sampleDeck(scene.Element{
		Type: scene.TypeShape, X: 1, Y: 1, W: 2, H: 1, Borders: &borders,
	}), io.Discard)
	require.NoError(t, err)

	calls := callsTo(sa, "AddShape")
	require.Len(t, calls, 2, "no body shape, one line per drawn side")
	for _, c := range calls {
		assert.Equal(t, ShapeLine, c.Arguments.Get(0))
	}
	bottom := calls[0].Arguments.Get(1).(ShapeOptions)
	assert.Equal(t, Box{X: 1, Y: 2, W: 2, H: edgeEpsilon}, bottom.Box)
	assert.Equal(t, 1.5, bottom.Line.Width)
	left := calls[1].Arguments.Get(1).(ShapeOptions)
	assert.Equal(t, Box{X: 1, Y: 1, W: edgeEpsilon, H: 1}, left.Box)
	assert.Equal(t, "00FF00", left.Line.Color)
}

func TestGenerateWriteError(t *testing.T) {
	sa := new(mockSlide)
	author := new(mockAuthor)
	author.On("DefineLayout", mock.Anything, mock.Anything, mock.Anything)
	author.On("AddSlide").Return(sa)
	author.On("Write", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	sa.On("AddText", mock.Anything, mock.Anything).Return(nil)

	g := NewGenerator(newFakeLibrary(author, true), nil)
	_, err := g.Generate(context.Background(), sampleDeck(scene.Element{Type: scene.TypeText, W: 1, H: 1, Text: "x"}), io.Discard)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "deck: writing:"))
}

func TestAwaitReady(t *testing.T) {
	lib := newFakeLibrary(nil, false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, AwaitReady(ctx, lib), context.DeadlineExceeded)

	go close(lib.ready)
	assert.NoError(t, AwaitReady(context.Background(), lib))
}

func TestTransparency(t *testing.T) {
	assert.Equal(t, 0.0, Transparency(nil))
	assert.Equal(t, 75.0, Transparency(ptr(0.25)))
	assert.Equal(t, 100.0, Transparency(ptr(-1)))
	assert.Equal(t, 0.0, Transparency(ptr(1)))
}

func callsTo(m *mockSlide, method string) []mock.Call {
	var out []mock.Call
	for _, c := range m.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}
