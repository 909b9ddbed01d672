package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDocument(t *testing.T) {
	src := `<!DOCTYPE html>
<html>
<head>
<style>.deck > .slide { width: 1280px; height: 720px }</style>
<script>alert(1)</script>
</head>
<body onload="steal()">
<section class="slide" style="background: #fff" onclick="x()">
<a href="javascript:alert(1)">bad</a>
<a href="https://example.com">good</a>
<img src="data:image/png;base64,AAAA">
</section>
</body>
</html>`

	out := New().Sanitize(src)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<html>")
	assert.Contains(t, out, "<head>")
	assert.Contains(t, out, ".deck > .slide { width: 1280px; height: 720px }", "style content is verbatim")
	assert.Contains(t, out, `class="slide"`)
	assert.Contains(t, out, `style="background: #fff"`)
	assert.Contains(t, out, `src="data:image/png;base64,AAAA"`)
	assert.Contains(t, out, `href="https://example.com"`)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(1)")
	assert.NotContains(t, out, "onload")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
	assert.Equal(t, 1, strings.Count(out, "<!DOCTYPE"))
}

func TestSanitizeFragment(t *testing.T) {
	out := New().Sanitize(`<div class="slide"><b>Hi</b></div>`)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n<html>"))
	assert.Contains(t, out, `<body><div class="slide"><b>Hi</b></div></body>`)
}

func TestSanitizeSVG(t *testing.T) {
	out := New().Sanitize(`<svg viewBox="0 0 10 10" width="10"><circle cx="5" cy="5" r="4" fill="red" onclick="x()"/></svg>`)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `viewbox="0 0 10 10"`)
	assert.Contains(t, out, `<circle cx="5" cy="5" r="4" fill="red"`)
	assert.NotContains(t, out, "onclick")
}

func TestIsDocument(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{`<!doctype html><p>x</p>`, true},
		{`<html><body></body></html>`, true},
		{`<style>p{}</style><body></body>`, true},
		{`<div>x</div>`, false},
		{``, false},
		{`<p>the word body</p>`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDocument(tt.src), tt.src)
	}
}

func TestDocument(t *testing.T) {
	assert.Equal(t, "<!DOCTYPE html>\n<html><body></body></html>", Document("<html><body></body></html>"))
	assert.Equal(t, "<!doctype html><p>x</p>", Document("<!doctype html><p>x</p>"))
}
