package crawler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForEachRunsEveryIndexOnce(t *testing.T) {
	t.Parallel()

	const n = 50
	results := make([]int, n)
	ForEach(context.Background(), n, 8, func(_ context.Context, i int) {
		results[i]++
	})

	for i, count := range results {
		assert.Equal(t, 1, count, "index %d", i)
	}
}

func TestForEachRespectsConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int64
	var mu sync.Mutex
	ForEach(context.Background(), 32, 4, func(_ context.Context, _ int) {
		cur := inFlight.Add(1)
		mu.Lock()
		if cur > peak.Load() {
			peak.Store(cur)
		}
		mu.Unlock()
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
	})

	assert.LessOrEqual(t, peak.Load(), int64(4))
}

func TestForEachStopsSubmittingOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Int64
	ForEach(ctx, 100, 1, func(_ context.Context, i int) {
		if i == 2 {
			cancel()
		}
		ran.Add(1)
		time.Sleep(time.Millisecond)
	})

	assert.Less(t, ran.Load(), int64(100))
}

func TestForEachZeroAndNegative(t *testing.T) {
	t.Parallel()

	var ran atomic.Int64
	ForEach(context.Background(), 0, 4, func(_ context.Context, _ int) { ran.Add(1) })
	ForEach(context.Background(), -3, 4, func(_ context.Context, _ int) { ran.Add(1) })
	assert.Zero(t, ran.Load())

	// A non-positive limit still makes progress.
	ForEach(context.Background(), 3, 0, func(_ context.Context, _ int) { ran.Add(1) })
	assert.Equal(t, int64(3), ran.Load())
}
