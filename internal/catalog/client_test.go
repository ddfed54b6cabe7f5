package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quochuy242/AdidasScraper/internal/crawler"
	collyfetcher "github.com/quochuy242/AdidasScraper/internal/fetcher/colly"
)

func searchBody(count, viewSize int, items ...Item) []byte {
	body, _ := json.Marshal(map[string]any{
		"raw": map[string]any{
			"itemList": map[string]any{
				"count":    count,
				"viewSize": viewSize,
				"items":    items,
			},
		},
	})
	return body
}

func item(id string) Item {
	return Item{
		ProductID:   id,
		DisplayName: "Product " + id,
		SubTitle:    "Men Shoes",
		Division:    "Originals",
		Price:       1500000,
		Link:        "/p/" + id + ".html",
	}
}

func newTestClient(t *testing.T, handler http.Handler, cfg Config) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	if cfg.SearchPath == "" {
		cfg.SearchPath = "/api/search/product"
	}
	if cfg.DetailPath == "" {
		cfg.DetailPath = "/api/products"
	}
	fetcher := collyfetcher.New(collyfetcher.Config{})
	return NewClient(cfg, fetcher, nil), srv
}

func TestSearchDecodesPage(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search/product", r.URL.Path)
		assert.Equal(t, "samba", r.URL.Query().Get("query"))
		_, _ = w.Write(searchBody(2, 48, item("A1"), item("A2")))
	}), Config{})

	page, err := client.Search(context.Background(), "samba", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, 48, page.ViewSize)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "A1", page.Items[0].ProductID)
}

func TestSearchSchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing count", `{"raw":{"itemList":{"viewSize":48,"items":[]}}}`, "raw.itemList.count"},
		{"missing viewSize", `{"raw":{"itemList":{"count":10,"items":[]}}}`, "raw.itemList.viewSize"},
		{"empty payload", `{}`, "raw.itemList.count"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}), Config{})

			_, err := client.Search(context.Background(), "", 0)
			require.Error(t, err)

			var schemaErr *crawler.SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tc.field, schemaErr.Field)
		})
	}
}

func TestSearchAllPagesThroughResults(t *testing.T) {
	t.Parallel()

	// 5 items, 2 per page: offsets 0, 2, 4.
	pages := map[int][]Item{
		0: {item("P0"), item("P1")},
		2: {item("P2"), item("P3")},
		4: {item("P4")},
	}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		_, _ = w.Write(searchBody(5, 2, pages[start]...))
	}), Config{Concurrency: 2})

	items, err := client.SearchAll(context.Background(), "", 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	assert.Equal(t, []string{"P0", "P1", "P2", "P3", "P4"}, ids)
}

func TestSearchAllFirstPageFatal(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), Config{})

	_, err := client.SearchAll(context.Background(), "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first search page")
}

func TestSearchAllIsolatesLaterPageFailures(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		switch start {
		case 0:
			_, _ = w.Write(searchBody(6, 2, item("P0"), item("P1")))
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		case 4:
			_, _ = w.Write(searchBody(6, 2, item("P4"), item("P5")))
		}
	}), Config{Concurrency: 1})

	items, err := client.SearchAll(context.Background(), "", 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	assert.Equal(t, []string{"P0", "P1", "P4", "P5"}, ids)
}

func TestSearchAllAppliesLimit(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		_, _ = w.Write(searchBody(4, 2, item(fmt.Sprintf("P%d", start)), item(fmt.Sprintf("P%d", start+1))))
	}), Config{})

	items, err := client.SearchAll(context.Background(), "", 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestVariationDetail(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/IE3437", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"IE3437","color":"Core Black","image":"https://assets.example.com/ie3437.jpg"}`))
	}), Config{})

	detail, err := client.VariationDetail(context.Background(), "IE3437")
	require.NoError(t, err)
	assert.Equal(t, crawler.VariationDetail{
		ID:    "IE3437",
		Color: "Core Black",
		Image: "https://assets.example.com/ie3437.jpg",
	}, detail)
}

func TestVariationDetailFillsMissingID(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"color":"Cloud White","image":""}`))
	}), Config{})

	detail, err := client.VariationDetail(context.Background(), "HQ6039")
	require.NoError(t, err)
	assert.Equal(t, "HQ6039", detail.ID)
}

func TestListingItemsResolvesLinks(t *testing.T) {
	t.Parallel()

	converted := ListingItems([]Item{item("B75806")}, "https://www.adidas.com.vn")
	require.Len(t, converted, 1)
	assert.Equal(t, "https://www.adidas.com.vn/p/B75806.html", converted[0].URL)
	assert.Equal(t, "B75806", converted[0].ID)
}

func TestMarketScopedURLs(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{
		BaseURL:    "https://www.adidas.com.vn/",
		Market:     "vn/en",
		SearchPath: "/api/search/product",
		DetailPath: "/api/products",
	}, nil, nil)

	assert.Equal(t, "https://www.adidas.com.vn/vn/en/api/search/product?query=samba", client.searchURL("samba", 0))
	assert.Equal(t, "https://www.adidas.com.vn/vn/en/api/search/product?query=samba&start=96", client.searchURL("samba", 96))
	assert.Equal(t, "https://www.adidas.com.vn/vn/en/api/products/IE3437", client.detailURL("IE3437"))
	assert.Equal(t, "https://www.adidas.com.vn/vn/en", client.BaseURL())
}
