// Package crawler implements the two-phase crawl orchestrator and the core
// types shared across subsystems.
package crawler

import (
	"context"
	"time"
)

// Target identifies one listing category to crawl, e.g. "men-shoes".
type Target string

// Product is the terminal record emitted for every product or color variant.
type Product struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Subtitle string            `json:"subtitle"`
	Division string            `json:"division"`
	Gender   string            `json:"gender,omitempty"`
	Price    int               `json:"price"`
	URL      string            `json:"url"`
	Images   map[string]string `json:"images"`
	Sizes    []string          `json:"sizes"`
}

// ListingItem is one raw catalog entry returned by the search API.
type ListingItem struct {
	ID              string
	Title           string
	Subtitle        string
	Division        string
	Price           int
	URL             string
	ColorVariations []string
}

// VariationDetail carries the per-id attributes of a single color variation.
type VariationDetail struct {
	ID    string
	Color string
	Image string
}

// Stats tracks per-run success/failure counts for diagnostics.
type Stats struct {
	Pages          int `json:"pages"`
	PagesFailed    int `json:"pages_failed"`
	URLsDiscovered int `json:"urls_discovered"`
	ItemsAttempted int `json:"items_attempted"`
	ItemsSucceeded int `json:"items_succeeded"`
	ItemsFailed    int `json:"items_failed"`
	DuplicateIDs   int `json:"duplicate_ids"`
	Retries        int `json:"retries"`
}

// Page is the raw result of fetching a single URL.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Fetcher fetches one URL and returns the final status and body. All
// failures come back as errors; a non-2xx response is a *StatusError.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// ListingParser extracts pagination and product URLs from listing markup.
type ListingParser interface {
	PageCount(body []byte) int
	ProductURLs(body []byte, baseURL string) []string
}

// DetailParser builds a Product from product detail-page markup.
type DetailParser interface {
	Parse(body []byte, pageURL string) (Product, error)
}

// VariationDetailer fetches color/image attributes for one variation id.
type VariationDetailer interface {
	VariationDetail(ctx context.Context, id string) (VariationDetail, error)
}

// RecordSink receives the final record collection for persistence.
type RecordSink interface {
	Write(ctx context.Context, records []Product) error
}

// Archive optionally stores raw page snapshots and returns a URI.
type Archive interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Publisher pushes completion events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, payload any) (string, error)
}

// Limiter gates outbound requests per domain.
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// RetryPolicy decides whether and when a failed fetch is retried.
type RetryPolicy interface {
	ShouldRetry(err error, attempt int) bool
	Backoff(attempt int) time.Duration
}

// Detector decides whether a fetched page warrants a headless re-fetch.
type Detector interface {
	ShouldPromote(page Page) bool
}
