package domtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
)

func TestParseLayoutAndStyle(t *testing.T) {
	doc := MustParse(t, `<body><div data-rect="10,20,300,40"
		style="color: rgb(255, 0, 0); border: 2px solid rgb(0, 0, 255); padding: 4px 8px">
		<span>hi</span></div></body>`)

	div := doc.Body.Elements()[0]
	assert.Equal(t, dom.Rect{X: 10, Y: 20, W: 300, H: 40}, div.Rect())

	s := div.Style()
	assert.Equal(t, "2px", s.Get(dom.BorderLeftWidth))
	assert.Equal(t, "solid", s.Get(dom.BorderTopStyle))
	assert.Equal(t, "rgb(0, 0, 255)", s.Get(dom.BorderBottomColor))
	assert.Equal(t, "4px", s.Get(dom.PaddingTop))
	assert.Equal(t, "8px", s.Get(dom.PaddingLeft))

	span := div.Elements()[0]
	assert.Equal(t, div.Rect(), span.Rect(), "box defaults to the parent's")
	assert.Equal(t, "rgb(255, 0, 0)", span.Style().Get(dom.Color), "color inherits")
	assert.Equal(t, "inline", span.Style().Get(dom.Display))
	assert.Equal(t, "hi", span.TextContent())
}

func TestParseHiddenAndPseudo(t *testing.T) {
	doc := MustParse(t, `<body>
		<p style="display: none">gone</p>
		<p data-hidden>gone too</p>
		<p data-before="content: '*'; color: rgb(1, 2, 3)" data-before-rect="0,0,5,5">x</p>
		<canvas data-capture-error="tainted"></canvas>
	</body>`)

	els := doc.Body.Elements()
	require.Len(t, els, 4)
	assert.Nil(t, els[0].Layout)
	assert.Nil(t, els[1].Layout)

	before := els[2].Before
	require.NotNil(t, before)
	assert.True(t, before.HasRect)
	assert.Equal(t, "'*'", before.Style.Get(dom.Content))
	assert.Equal(t, "rgb(1, 2, 3)", before.Style.Get(dom.Color))

	require.NotNil(t, els[3].Capture)
	assert.EqualError(t, els[3].Capture.Err, "tainted")
}

func TestParseBadRect(t *testing.T) {
	_, err := Parse(`<body><div data-rect="1,2,3"></div></body>`)
	assert.Error(t, err)
}
