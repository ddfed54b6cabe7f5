package crawler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type timeoutError struct{ timeout bool }

func (e *timeoutError) Error() string { return "net op" }
func (e *timeoutError) Timeout() bool { return e.timeout }
func (e *timeoutError) Temporary() bool {
	return e.timeout
}

func TestShouldRetryClassification(t *testing.T) {
	t.Parallel()

	p := NewExponentialRetryPolicy()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"canceled context", context.Canceled, false},
		{"deadline exceeded", fmt.Errorf("fetch: %w", context.DeadlineExceeded), false},
		{"server error", &StatusError{StatusCode: 503}, true},
		{"client error", &StatusError{StatusCode: 404}, false},
		{"rate limited", &StatusError{StatusCode: 429}, false},
		{"wrapped server error", fmt.Errorf("visit: %w", &StatusError{StatusCode: 500}), true},
		{"net timeout", &timeoutError{timeout: true}, true},
		{"net non-timeout", &timeoutError{timeout: false}, false},
		{"plain transport error", errors.New("connection reset"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, p.ShouldRetry(tc.err, 0))
		})
	}
}

func TestShouldRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	p := NewExponentialRetryPolicy()
	err := errors.New("transient")

	assert.True(t, p.ShouldRetry(err, 0))
	assert.True(t, p.ShouldRetry(err, 1))
	assert.False(t, p.ShouldRetry(err, 2), "third attempt is the last")
	assert.False(t, p.ShouldRetry(err, 5))
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	t.Parallel()

	p := NewExponentialRetryPolicy()

	for attempt := 0; attempt < 8; attempt++ {
		d := p.Backoff(attempt)
		assert.Positive(t, d, "attempt %d", attempt)
		assert.LessOrEqual(t, d, 5*time.Second, "attempt %d", attempt)
	}

	// Jitter keeps the wait within [half, full] of the exponential step.
	d := p.Backoff(0)
	assert.GreaterOrEqual(t, d, 125*time.Millisecond)
	assert.LessOrEqual(t, d, 250*time.Millisecond)
}
