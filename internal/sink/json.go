package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quochuy242/AdidasScraper/internal/crawler"
)

// JSONSink writes records as one indented JSON array, creating the
// output directory if needed.
type JSONSink struct {
	path string
}

// NewJSONSink creates a JSON file sink at path.
func NewJSONSink(path string) *JSONSink {
	return &JSONSink{path: path}
}

// Write replaces the file contents with the full record array. An empty
// record set still produces a valid empty array.
func (s *JSONSink) Write(_ context.Context, records []crawler.Product) error {
	if records == nil {
		records = []crawler.Product{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return writeFile(s.path, append(data, '\n'))
}
