// Package sink persists final product records.
package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/quochuy242/AdidasScraper/internal/crawler"
)

var csvHeader = []string{"id", "title", "subtitle", "division", "gender", "price", "url", "images", "sizes"}

// CSVSink writes records as one tabular file, creating the output
// directory if needed.
type CSVSink struct {
	path string
}

// NewCSVSink creates a CSV file sink at path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Write replaces the file contents with a header plus one row per record.
// The images column carries the color to image map as JSON; sizes are
// pipe-joined.
func (s *CSVSink) Write(_ context.Context, records []crawler.Product) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		images, err := json.Marshal(record.Images)
		if err != nil {
			return fmt.Errorf("marshal images for %s: %w", record.ID, err)
		}
		row := []string{
			record.ID,
			record.Title,
			record.Subtitle,
			record.Division,
			record.Gender,
			strconv.Itoa(record.Price),
			record.URL,
			string(images),
			strings.Join(record.Sizes, "|"),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", record.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return writeFile(s.path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
