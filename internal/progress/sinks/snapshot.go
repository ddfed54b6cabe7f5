package sinks

import (
	"context"
	"sync"

	"github.com/quochuy242/AdidasScraper/internal/progress"
)

// Counts is a point-in-time view of a crawl's progress, serialized by the
// status server's /progress endpoint.
type Counts struct {
	RunID          string `json:"run_id"`
	Target         string `json:"target"`
	PagesDone      int    `json:"pages_done"`
	PagesFailed    int    `json:"pages_failed"`
	ItemsDone      int    `json:"items_done"`
	ItemsFailed    int    `json:"items_failed"`
	RecordsEmitted int    `json:"records_emitted"`
	Finished       bool   `json:"finished"`
}

// SnapshotSink accumulates live counters for the status server.
type SnapshotSink struct {
	mu     sync.Mutex
	counts Counts
}

// NewSnapshotSink returns an empty snapshot accumulator.
func NewSnapshotSink() *SnapshotSink {
	return &SnapshotSink{}
}

// Consume folds the event into the running counters.
func (s *SnapshotSink) Consume(_ context.Context, evt progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch evt.Stage {
	case progress.StageRunStart:
		s.counts = Counts{RunID: evt.RunID.String(), Target: evt.Target}
	case progress.StagePageDone:
		if evt.OK {
			s.counts.PagesDone++
		} else {
			s.counts.PagesFailed++
		}
	case progress.StageItemDone:
		if evt.OK {
			s.counts.ItemsDone++
		} else {
			s.counts.ItemsFailed++
		}
		s.counts.RecordsEmitted += evt.Records
	case progress.StageRunDone, progress.StageRunError:
		s.counts.Finished = true
	}
	return nil
}

// Snapshot returns a copy of the current counters.
func (s *SnapshotSink) Snapshot() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts
}

// Close implements the Sink interface; it performs no action.
func (s *SnapshotSink) Close(context.Context) error {
	return nil
}
