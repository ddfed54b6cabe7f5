package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quochuy242/AdidasScraper/internal/crawler"
)

func TestSplitSubtitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		subtitle string
		gender   string
		cleaned  string
	}{
		{"Men Originals", "Men", "Originals"},
		{"Women Running Shoes", "Women", "Shoes"},
		{"Originals", "Unisex", "Originals"},
		{"", "Unisex", ""},
		{"  Kids   Football  ", "Kids", "Football"},
	}

	for _, tc := range tests {
		gender, cleaned := SplitSubtitle(tc.subtitle)
		assert.Equal(t, tc.gender, gender, "subtitle %q", tc.subtitle)
		assert.Equal(t, tc.cleaned, cleaned, "subtitle %q", tc.subtitle)
	}
}

func TestApplyRewritesRecords(t *testing.T) {
	t.Parallel()

	records := []crawler.Product{
		{ID: "A", Subtitle: "Men Originals"},
		{ID: "B", Subtitle: "Sportswear"},
	}
	Apply(records)

	assert.Equal(t, "Men", records[0].Gender)
	assert.Equal(t, "Originals", records[0].Subtitle)
	assert.Equal(t, "Unisex", records[1].Gender)
	assert.Equal(t, "Sportswear", records[1].Subtitle)
}
