package sinks

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quochuy242/AdidasScraper/internal/progress"
)

// PrometheusSink exports progress events as Prometheus counters.
type PrometheusSink struct {
	events *prometheus.CounterVec
}

// NewPrometheusSink builds a sink registered against reg. Pass
// prometheus.DefaultRegisterer for the standard /metrics endpoint.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_progress_events_total",
			Help: "Total progress events observed, labeled by stage and outcome.",
		},
		[]string{"stage", "ok"},
	)
	if err := reg.Register(events); err != nil {
		return nil, err
	}
	return &PrometheusSink{events: events}, nil
}

// Consume increments the counter for the event's stage/outcome pair.
func (s *PrometheusSink) Consume(_ context.Context, evt progress.Event) error {
	s.events.WithLabelValues(string(evt.Stage), strconv.FormatBool(evt.OK)).Inc()
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
