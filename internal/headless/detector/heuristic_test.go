package detector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quochuy242/AdidasScraper/internal/crawler"
)

func page(status int, body string) crawler.Page {
	return crawler.Page{StatusCode: status, Body: []byte(body)}
}

func TestShouldPromote(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(0)

	tests := []struct {
		name string
		page crawler.Page
		want bool
	}{
		{
			name: "non-200 never promotes",
			page: page(503, ""),
			want: false,
		},
		{
			name: "empty body promotes",
			page: page(200, ""),
			want: true,
		},
		{
			name: "spa shell marker promotes",
			page: page(200, `<html><body><div id="root"></div></body></html>`),
			want: true,
		},
		{
			name: "next shell promotes",
			page: page(200, `<html><body><div id="__next"></div></body></html>`),
			want: true,
		},
		{
			name: "product card markup stays plain",
			page: page(200, `<html><body><div id="root"><div data-auto-id="glass-product-card"></div></div></body></html>`),
			want: false,
		},
		{
			name: "detail markup stays plain",
			page: page(200, `<html><body><h1 data-auto-id="product-title">Samba</h1></body></html>`),
			want: false,
		},
		{
			name: "script-heavy short body promotes",
			page: page(200, `<html><script>`+strings.Repeat("window.x=1;", 50)+`</script><body>hi</body></html>`),
			want: true,
		},
		{
			name: "ordinary static page stays plain",
			page: page(200, `<html><body>`+strings.Repeat("<p>text</p>", 100)+`</body></html>`),
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, h.ShouldPromote(tc.page))
		})
	}
}

func TestNewHeuristicDefaultThreshold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2048, NewHeuristic(0).BodyLengthThreshold)
	assert.Equal(t, 512, NewHeuristic(512).BodyLengthThreshold)
}

func TestScriptDensity(t *testing.T) {
	t.Parallel()

	assert.False(t, scriptDensityHigh(nil))
	assert.False(t, scriptDensityHigh([]byte("<html><body>plain</body></html>")))
	assert.True(t, scriptDensityHigh([]byte("<script>var a = 1;</script><p>x</p>")))
	// Malformed script tag swallows the rest of the document.
	assert.True(t, scriptDensityHigh([]byte("<p>x</p><script src=\"app.js")))
}
