package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/quochuy242/AdidasScraper/internal/crawler"
)

// Config controls the search client.
type Config struct {
	BaseURL     string
	Market      string
	SearchPath  string
	DetailPath  string
	Concurrency int
	LogRaw      bool
}

// Client pages through the storefront search API and resolves per-id
// variation details. It implements crawler.VariationDetailer.
type Client struct {
	cfg     Config
	fetcher crawler.Fetcher
	logger  *zap.Logger
}

// NewClient builds a search client on top of an existing fetcher.
func NewClient(cfg Config, fetcher crawler.Fetcher, logger *zap.Logger) *Client {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, fetcher: fetcher, logger: logger}
}

// Search fetches one page of results starting at the given item offset.
func (c *Client) Search(ctx context.Context, query string, start int) (SearchPage, error) {
	searchURL := c.searchURL(query, start)
	page, err := c.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search %s: %w", searchURL, err)
	}
	if start == 0 && c.cfg.LogRaw {
		c.logger.Debug("raw search payload", zap.String("url", searchURL), zap.ByteString("body", page.Body))
	}
	decoded, err := decodeSearchPage(page.Body)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search %s: %w", searchURL, err)
	}
	return decoded, nil
}

// SearchAll walks every page of results for the query. The first page
// establishes the total count and page size and its failure is fatal;
// later page failures are logged and contribute nothing. Item order
// follows page order then within-page order. A positive limit caps the
// returned items.
func (c *Client) SearchAll(ctx context.Context, query string, limit int) ([]Item, error) {
	first, err := c.Search(ctx, query, 0)
	if err != nil {
		return nil, fmt.Errorf("first search page: %w", err)
	}
	if first.ViewSize <= 0 || first.Count <= len(first.Items) {
		return capItems(first.Items, limit), nil
	}

	remaining := (first.Count + first.ViewSize - 1) / first.ViewSize
	perPage := make([][]Item, remaining)
	perPage[0] = first.Items

	// Workers write disjoint slots, so no lock is needed around perPage.
	crawler.ForEach(ctx, remaining-1, c.cfg.Concurrency, func(ctx context.Context, i int) {
		pageIndex := i + 1
		page, err := c.Search(ctx, query, pageIndex*first.ViewSize)
		if err != nil {
			c.logger.Warn("search page failed",
				zap.String("query", query),
				zap.Int("page", pageIndex),
				zap.Error(err),
			)
			return
		}
		perPage[pageIndex] = page.Items
	})

	items := make([]Item, 0, first.Count)
	for _, page := range perPage {
		items = append(items, page...)
	}
	return capItems(items, limit), nil
}

// VariationDetail resolves color and image for a single variation id.
func (c *Client) VariationDetail(ctx context.Context, id string) (crawler.VariationDetail, error) {
	detailURL := c.detailURL(id)
	page, err := c.fetcher.Fetch(ctx, detailURL)
	if err != nil {
		return crawler.VariationDetail{}, fmt.Errorf("variation %s: %w", id, err)
	}
	return decodeVariationDetail(page.Body, id)
}

// BaseURL reports the market-scoped site root, used to resolve item links.
func (c *Client) BaseURL() string {
	return c.marketRoot()
}

func (c *Client) searchURL(query string, start int) string {
	values := url.Values{}
	if query != "" {
		values.Set("query", query)
	}
	if start > 0 {
		values.Set("start", strconv.Itoa(start))
	}
	u := c.marketRoot() + c.cfg.SearchPath
	if encoded := values.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func (c *Client) detailURL(id string) string {
	return c.marketRoot() + c.cfg.DetailPath + "/" + url.PathEscape(id)
}

func (c *Client) marketRoot() string {
	root := strings.TrimSuffix(c.cfg.BaseURL, "/")
	if c.cfg.Market != "" {
		root += "/" + strings.Trim(c.cfg.Market, "/")
	}
	return root
}

func capItems(items []Item, limit int) []Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
