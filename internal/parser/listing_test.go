package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

const baseURL = "https://www.adidas.com.vn"

func listingFixture(pagination string, hrefs ...string) []byte {
	cards := ""
	for _, href := range hrefs {
		cards += fmt.Sprintf(
			`<div data-auto-id="glass-product-card"><a class="glass-product-card__assets-link" href=%q><img/></a></div>`,
			href,
		)
	}
	return []byte(fmt.Sprintf(`<html><body>%s%s</body></html>`, pagination, cards))
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []byte
		want int
	}{
		{
			name: "summary present",
			body: listingFixture(`<span data-auto-id="pagination-pages-container">Page 1 of 12</span>`),
			want: 12,
		},
		{
			name: "summary missing",
			body: listingFixture(""),
			want: 1,
		},
		{
			name: "summary malformed",
			body: listingFixture(`<span data-auto-id="pagination-pages-container">Page 1 of many</span>`),
			want: 1,
		},
		{
			name: "extra whitespace",
			body: listingFixture(`<span data-auto-id="pagination-pages-container">1 of   7 </span>`),
			want: 7,
		},
		{
			name: "not valid html is still one page",
			body: []byte{0x00, 0x01},
			want: 1,
		},
	}

	p := NewHTMLListingParser()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, p.PageCount(tc.body))
		})
	}
}

func TestProductURLsResolvesAgainstBase(t *testing.T) {
	t.Parallel()

	body := listingFixture("", "/en/samba-og-shoes/B75806.html", "https://cdn.example.com/abs/IE3437.html")
	urls := NewHTMLListingParser().ProductURLs(body, baseURL)

	require.Equal(t, []string{
		"https://www.adidas.com.vn/en/samba-og-shoes/B75806.html",
		"https://cdn.example.com/abs/IE3437.html",
	}, urls)
}

func TestProductURLsEmptyPage(t *testing.T) {
	t.Parallel()

	urls := NewHTMLListingParser().ProductURLs(listingFixture(""), baseURL)
	require.Empty(t, urls)
}

func TestProductURLsIgnoresCardsWithoutHref(t *testing.T) {
	t.Parallel()

	body := []byte(`<div data-auto-id="glass-product-card"><a class="glass-product-card__assets-link"></a></div>`)
	urls := NewHTMLListingParser().ProductURLs(body, baseURL)
	require.Empty(t, urls)
}
