// Package clean normalizes record fields after the crawl.
package clean

import (
	"strings"

	"github.com/quochuy242/AdidasScraper/internal/crawler"
)

// SplitSubtitle derives a gender from a raw subtitle. Single-word
// subtitles have no gender prefix and map to "Unisex"; otherwise the
// first word is the gender and the last word becomes the subtitle.
func SplitSubtitle(subtitle string) (gender, cleaned string) {
	words := strings.Fields(subtitle)
	switch len(words) {
	case 0:
		return "Unisex", ""
	case 1:
		return "Unisex", words[0]
	default:
		return words[0], words[len(words)-1]
	}
}

// Apply rewrites Gender and Subtitle in place for every record.
func Apply(records []crawler.Product) {
	for i := range records {
		gender, subtitle := SplitSubtitle(records[i].Subtitle)
		records[i].Gender = gender
		records[i].Subtitle = subtitle
	}
}
