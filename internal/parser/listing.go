// Package parser extracts structured data from storefront markup. It is the
// only package that touches raw HTML; everything upstream works with the
// records it produces.
package parser

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quochuy242/AdidasScraper/internal/crawler"
)

const (
	paginationSelector  = `span[data-auto-id="pagination-pages-container"]`
	productCardSelector = `div[data-auto-id="glass-product-card"] a.glass-product-card__assets-link`
)

// HTMLListingParser implements crawler.ListingParser for listing pages.
type HTMLListingParser struct{}

// NewHTMLListingParser constructs a listing-page parser.
func NewHTMLListingParser() *HTMLListingParser {
	return &HTMLListingParser{}
}

// PageCount extracts the total page count from the pagination summary text
// ("<label> of <N>"). A missing element or malformed count degrades to a
// single page; pagination absence means one page exists, not an error.
func (p *HTMLListingParser) PageCount(body []byte) int {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 1
	}
	sel := doc.Find(paginationSelector).First()
	if sel.Length() == 0 {
		return 1
	}
	parts := strings.Split(sel.Text(), "of")
	n, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ProductURLs extracts every product-card anchor on one listing page,
// resolved against baseURL to absolute form. A page with zero matching
// cards is valid and simply contributes nothing.
func (p *HTMLListingParser) ProductURLs(body []byte, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var urls []string
	doc.Find(productCardSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		urls = append(urls, crawler.ResolveURL(baseURL, href))
	})
	return urls
}
