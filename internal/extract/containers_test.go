package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porticus-lab/go-html-pptx/internal/dom/domtest"
)

func TestFindContainers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "fallback to body",
			src:  `<body><div id="a" data-rect="0,0,300,200"></div></body>`,
			want: []string{"body"},
		},
		{
			name: "siblings in document order",
			src: `<body>
				<section id="s1" data-rect="0,0,1280,720"></section>
				<section id="s2" data-rect="0,720,1280,720"></section>
			</body>`,
			want: []string{"s1", "s2"},
		},
		{
			name: "nested candidates collapse to the outermost",
			src: `<body>
				<main id="deck" data-rect="0,0,1280,1440">
					<section id="s1" data-rect="0,0,1280,720"></section>
					<section id="s2" data-rect="0,720,1280,720"></section>
				</main>
			</body>`,
			want: []string{"deck"},
		},
		{
			name: "below threshold is not a slide",
			src: `<body>
				<div id="wide" data-rect="0,0,1280,399"></div>
				<div id="narrow" data-rect="0,0,799,720"></div>
				<div id="ok" data-rect="0,0,800,400"></div>
			</body>`,
			want: []string{"ok"},
		},
		{
			name: "hidden candidates ignored",
			src: `<body>
				<div id="gone" data-rect="0,0,1280,720" style="visibility: hidden"></div>
				<div id="shown" data-rect="0,0,1280,720"></div>
			</body>`,
			want: []string{"shown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := domtest.MustParse(t, tt.src)
			var got []string
			for _, c := range FindContainers(doc.Body) {
				if id := c.Attrs["id"]; id != "" {
					got = append(got, id)
				} else {
					got = append(got, c.Tag)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanReveal(t *testing.T) {
	doc := domtest.MustParse(t, `<body>
		<div class="deck">
			<section class="slide active" data-rect="0,0,1280,720" style="display: flex"></section>
			<section class="active slide" style="display: none"></section>
			<section class="slide" style="display: none"></section>
			<section class="slide" data-rect="0,0,1280,720"></section>
		</div>
		<div class="note" style="display: none"></div>
		<div class="note" data-rect="0,0,100,20"></div>
		<p data-rect="0,0,10,10"></p>
		<p style="display: none"></p>
	</body>`)

	plan := PlanReveal(doc.Body)
	require.Len(t, plan, 3)

	note := plan[0]
	assert.Equal(t, "note", note.Node.Attrs["class"])
	assert.Equal(t, "block", note.Display)
	assert.Equal(t, 100.0, note.Width)

	active := plan[1]
	assert.Equal(t, "active slide", active.Node.Attrs["class"], "class order does not matter")
	assert.Equal(t, "flex", active.Display)
	assert.Equal(t, 1280.0, active.Width)
	assert.Equal(t, 720.0, active.Height)
	assert.Equal(t, "display: flex !important; width: 1280px !important; height: 720px !important", active.Style())

	assert.Equal(t, "slide", plan[2].Node.Attrs["class"])
	assert.Equal(t, "block", plan[2].Display)
}

func TestPlanRevealNothingHidden(t *testing.T) {
	doc := domtest.MustParse(t, `<body>
		<section class="slide" data-rect="0,0,1280,720"></section>
		<section class="slide" data-rect="0,720,1280,720"></section>
	</body>`)
	assert.Empty(t, PlanReveal(doc.Body))
}
