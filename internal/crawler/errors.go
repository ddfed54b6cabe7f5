package crawler

import (
	"errors"
	"fmt"
)

// Sentinel causes for extraction failures. Callers classify with errors.Is.
var (
	// ErrMissingElement marks an expected DOM element that was not found.
	ErrMissingElement = errors.New("element not found")
	// ErrPriceFormat marks a price string that could not be parsed.
	ErrPriceFormat = errors.New("malformed price")
)

// StatusError reports a non-2xx HTTP response for a fetched URL.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// ExtractError reports a failed record construction from a detail page.
// Field names the attribute that broke; Err is one of the sentinel causes
// above, or the underlying parse error.
type ExtractError struct {
	URL   string
	Field string
	Err   error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s from %s: %v", e.Field, e.URL, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// SchemaError reports a catalog API payload missing a required key.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("catalog payload missing %q", e.Field)
}
