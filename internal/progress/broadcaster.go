package progress

import (
	"context"

	"go.uber.org/zap"
)

// Sink consumes progress events. Implementations must be safe for concurrent
// use; Consume is called from crawl worker goroutines.
type Sink interface {
	Consume(ctx context.Context, evt Event) error
	Close(ctx context.Context) error
}

// Emitter publishes individual events; Broadcaster satisfies this interface
// so the orchestrator stays agnostic about where events end up.
type Emitter interface {
	Emit(evt Event)
}

// Nop is an Emitter that discards everything.
type Nop struct{}

// Emit implements Emitter.
func (Nop) Emit(Event) {}

// Broadcaster fans events out synchronously to its sinks. Sink errors are
// logged and swallowed so a broken sink never stalls the crawl.
type Broadcaster struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewBroadcaster wires a set of sinks behind one Emitter.
func NewBroadcaster(logger *zap.Logger, sinks ...Sink) *Broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broadcaster{
		sinks:  append([]Sink(nil), sinks...),
		logger: logger,
	}
}

// Emit validates the event and hands it to every sink.
func (b *Broadcaster) Emit(evt Event) {
	if err := evt.Validate(); err != nil {
		b.logger.Warn("dropping invalid progress event", zap.Error(err))
		return
	}
	for _, s := range b.sinks {
		if err := s.Consume(context.Background(), evt); err != nil {
			b.logger.Warn("progress sink failed",
				zap.String("stage", string(evt.Stage)),
				zap.Error(err),
			)
		}
	}
}

// Close shuts down all sinks, returning the first error encountered.
func (b *Broadcaster) Close(ctx context.Context) error {
	var first error
	for _, s := range b.sinks {
		if err := s.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
