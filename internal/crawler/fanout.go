package crawler

import (
	"context"
	"sync"
)

// ForEach runs fn for every index in [0, n) with at most limit goroutines in
// flight, and blocks until all of them finish. Results are communicated
// through whatever fn captures; each index owns its own result slot, so the
// merge needs no locking. A canceled context stops new submissions but still
// waits for running tasks.
func ForEach(ctx context.Context, n, limit int, fn func(ctx context.Context, i int)) {
	if n <= 0 {
		return
	}
	if limit <= 0 {
		limit = 1
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(ctx, i)
		}(i)
	}
	wg.Wait()
}
