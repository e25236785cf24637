package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the logger. Used when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "event",
		"event_id", event.ID,
		"type", event.Type,
		"key", event.Key,
		"data", event.Data,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

var _ Publisher = (*LogPublisher)(nil)
