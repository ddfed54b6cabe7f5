// Package progress defines the milestone events emitted by a crawl run and
// the observer plumbing that fans them out to sinks. The orchestrator stays
// side-effect-free: everything user-visible about crawl progress flows
// through an Emitter.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageRunStart Stage = "RUN_START"
	StagePageDone Stage = "PAGE_DONE"
	StageItemDone Stage = "ITEM_DONE"
	StageRunDone  Stage = "RUN_DONE"
	StageRunError Stage = "RUN_ERROR"
)

// Event captures a single component of crawl progress.
type Event struct {
	// RunID uniquely identifies one crawl run.
	RunID uuid.UUID
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which lifecycle or unit milestone occurred.
	Stage Stage
	// Target scopes the event to a listing category.
	Target string
	// URL is the optional page or item URL.
	URL string
	// OK reports whether the unit of work succeeded.
	OK bool
	// Records carries the number of records or URLs the unit contributed.
	Records int
	// Dur captures execution latency for the unit.
	Dur time.Duration
	// Note lets emitters attach low-volume debug context (e.g. error text).
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == uuid.Nil {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone, StageRunError:
	case StagePageDone, StageItemDone:
		if e.URL == "" {
			return fmt.Errorf("%s requires url", e.Stage)
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}
