package crawler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// ListingURL builds the fetchable URL for one listing page of a target.
// Pagination is offset-based: page index times the fixed page size, carried
// in the "start" query parameter.
func ListingURL(baseURL string, target Target, pageIndex, pageSize int) string {
	u := strings.TrimRight(baseURL, "/") + "/" + strings.Trim(string(target), "/")
	if pageIndex == 0 {
		return u
	}
	return u + "?start=" + strconv.Itoa(pageIndex*pageSize)
}

// ResolveURL resolves a possibly relative href against the base URL.
func ResolveURL(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// VariantURL derives a color variant's URL by substituting the base product
// id with the variation id inside the original URL (first occurrence only).
func VariantURL(productURL, productID, variationID string) string {
	if productID == "" || variationID == "" {
		return productURL
	}
	return strings.Replace(productURL, productID, variationID, 1)
}

// ProductIDFromURL extracts the article id from a detail page URL, e.g.
// ".../ultraboost-1.0-shoes/IF1234.html" -> "IF1234".
func ProductIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// archiveObjectName builds a stable snapshot path for a fetched page.
func archiveObjectName(rawURL string, fetchedAt time.Time) string {
	sum := sha256.Sum256([]byte(rawURL))
	return path.Join(
		"pages",
		fetchedAt.Format("2006-01-02"),
		fmt.Sprintf("%s.html", hex.EncodeToString(sum[:])),
	)
}
