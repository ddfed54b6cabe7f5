// Package catalog talks to the storefront search and product APIs. The
// search payload is decoded into a fixed schema; keys the crawl depends on
// are validated up front so a payload change surfaces as a SchemaError
// instead of a zero-valued crawl.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/quochuy242/AdidasScraper/internal/crawler"
)

type searchEnvelope struct {
	Raw rawPayload `json:"raw"`
}

type rawPayload struct {
	ItemList itemList `json:"itemList"`
}

type itemList struct {
	Count    *int   `json:"count"`
	ViewSize *int   `json:"viewSize"`
	Items    []Item `json:"items"`
}

// Item is one product entry from the search API.
type Item struct {
	ProductID       string   `json:"productId"`
	DisplayName     string   `json:"displayName"`
	SubTitle        string   `json:"subTitle"`
	Division        string   `json:"division"`
	Price           int      `json:"price"`
	Link            string   `json:"link"`
	ColorVariations []string `json:"colorVariations"`
}

// SearchPage is one decoded page of search results.
type SearchPage struct {
	Count    int
	ViewSize int
	Items    []Item
}

func decodeSearchPage(body []byte) (SearchPage, error) {
	var envelope searchEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return SearchPage{}, fmt.Errorf("decode search payload: %w", err)
	}
	list := envelope.Raw.ItemList
	if list.Count == nil {
		return SearchPage{}, &crawler.SchemaError{Field: "raw.itemList.count"}
	}
	if list.ViewSize == nil {
		return SearchPage{}, &crawler.SchemaError{Field: "raw.itemList.viewSize"}
	}
	return SearchPage{
		Count:    *list.Count,
		ViewSize: *list.ViewSize,
		Items:    list.Items,
	}, nil
}

type variationEnvelope struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Image string `json:"image"`
}

func decodeVariationDetail(body []byte, id string) (crawler.VariationDetail, error) {
	var envelope variationEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return crawler.VariationDetail{}, fmt.Errorf("decode variation payload: %w", err)
	}
	if envelope.ID == "" {
		envelope.ID = id
	}
	return crawler.VariationDetail{
		ID:    envelope.ID,
		Color: envelope.Color,
		Image: envelope.Image,
	}, nil
}

// ListingItems converts API items into the orchestrator's listing form,
// resolving relative links against base.
func ListingItems(items []Item, base string) []crawler.ListingItem {
	converted := make([]crawler.ListingItem, 0, len(items))
	for _, item := range items {
		converted = append(converted, crawler.ListingItem{
			ID:              item.ProductID,
			Title:           item.DisplayName,
			Subtitle:        item.SubTitle,
			Division:        item.Division,
			Price:           item.Price,
			URL:             crawler.ResolveURL(base, item.Link),
			ColorVariations: append([]string(nil), item.ColorVariations...),
		})
	}
	return converted
}
