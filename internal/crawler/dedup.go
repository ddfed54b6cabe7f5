package crawler

import "sync"

// idTracker provides thread-safe duplicate-id detection. Duplicates are a
// diagnostic signal, never a filter: the source storefront is trusted to
// keep product and variation ids distinct, so a collision is logged and
// counted but the record is still emitted.
type idTracker struct {
	seen sync.Map
}

func newIDTracker() *idTracker {
	return &idTracker{}
}

// MarkIfNew stores the id if it has not been seen before and returns true.
func (t *idTracker) MarkIfNew(id string) bool {
	if id == "" {
		return false
	}
	_, loaded := t.seen.LoadOrStore(id, struct{}{})
	return !loaded
}
