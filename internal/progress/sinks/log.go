// Package sinks provides Sink implementations for crawl progress events.
package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/quochuy242/AdidasScraper/internal/progress"
)

// LogSink emits structured logs for progress streams. It is the default
// user-visible progress indication for CLI runs.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs the event using structured fields.
func (s *LogSink) Consume(_ context.Context, evt progress.Event) error {
	fields := []zap.Field{
		zap.String("run_id", evt.RunID.String()),
		zap.String("stage", string(evt.Stage)),
		zap.String("target", evt.Target),
		zap.String("url", evt.URL),
		zap.Bool("ok", evt.OK),
		zap.Int("records", evt.Records),
		zap.Duration("dur", evt.Dur),
	}
	if evt.Note != "" {
		fields = append(fields, zap.String("note", evt.Note))
	}
	s.logger.Info("progress event", fields...)
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
