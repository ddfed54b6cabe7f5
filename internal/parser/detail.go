package parser

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quochuy242/AdidasScraper/internal/crawler"
)

const (
	titleSelector    = `h1[data-auto-id="product-title"]`
	categorySelector = `div[data-auto-id="product-category"]`
	priceSelector    = `div.gl-price-item`
	colorImgSelector = `div[class*="color-chooser-grid"] a span img`
	sizeSelector     = `div[data-auto-id="size-selector"]`

	colourAltPrefix = "Colour "
)

// priceCleaner strips thousands separators and the currency symbol before
// the integer parse.
var priceCleaner = strings.NewReplacer(".", "", ",", "", "₫", "")

// HTMLDetailParser implements crawler.DetailParser for product detail pages.
type HTMLDetailParser struct{}

// NewHTMLDetailParser constructs a detail-page parser.
func NewHTMLDetailParser() *HTMLDetailParser {
	return &HTMLDetailParser{}
}

// Parse extracts a normalized Product from a detail page. Every attribute is
// extracted independently, but any failure aborts the whole record: the
// caller decides whether to drop it or substitute a placeholder, never to
// abort the batch.
func (p *HTMLDetailParser) Parse(body []byte, pageURL string) (crawler.Product, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return crawler.Product{}, &crawler.ExtractError{URL: pageURL, Field: "document", Err: err}
	}

	title := doc.Find(titleSelector).First()
	if title.Length() == 0 {
		return crawler.Product{}, &crawler.ExtractError{URL: pageURL, Field: "title", Err: crawler.ErrMissingElement}
	}

	category := doc.Find(categorySelector).First()
	if category.Length() == 0 {
		return crawler.Product{}, &crawler.ExtractError{URL: pageURL, Field: "category", Err: crawler.ErrMissingElement}
	}

	price, err := p.price(doc, pageURL)
	if err != nil {
		return crawler.Product{}, err
	}

	sizes, err := p.sizes(doc, pageURL)
	if err != nil {
		return crawler.Product{}, err
	}

	return crawler.Product{
		ID:       crawler.ProductIDFromURL(pageURL),
		Title:    strings.TrimSpace(title.Text()),
		Subtitle: strings.TrimSpace(category.Text()),
		Price:    price,
		URL:      pageURL,
		Images:   p.images(doc),
		Sizes:    sizes,
	}, nil
}

func (p *HTMLDetailParser) price(doc *goquery.Document, pageURL string) (int, error) {
	sel := doc.Find(priceSelector).First()
	if sel.Length() == 0 {
		return 0, &crawler.ExtractError{URL: pageURL, Field: "price", Err: crawler.ErrMissingElement}
	}
	raw := strings.TrimSpace(priceCleaner.Replace(sel.Text()))
	price, err := strconv.Atoi(raw)
	if err != nil || price < 0 {
		return 0, &crawler.ExtractError{URL: pageURL, Field: "price", Err: crawler.ErrPriceFormat}
	}
	return price, nil
}

// images builds the color-name to image-URL map from the color swatches.
// Keys collide silently (last swatch wins), matching DOM order.
func (p *HTMLDetailParser) images(doc *goquery.Document) map[string]string {
	images := map[string]string{}
	doc.Find(colorImgSelector).Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		alt := s.AttrOr("alt", "")
		color := strings.Replace(alt, colourAltPrefix, "", 1)
		images[color] = src
	})
	return images
}

// sizes reads the size-selector buttons in DOM order. Duplicates and
// out-of-stock markers are kept as raw text.
func (p *HTMLDetailParser) sizes(doc *goquery.Document, pageURL string) ([]string, error) {
	container := doc.Find(sizeSelector).First()
	if container.Length() == 0 {
		return nil, &crawler.ExtractError{URL: pageURL, Field: "sizes", Err: crawler.ErrMissingElement}
	}
	var sizes []string
	container.Find("button").Each(func(_ int, s *goquery.Selection) {
		sizes = append(sizes, s.Text())
	})
	return sizes, nil
}
