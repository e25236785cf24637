package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"ridehail/internal/observability"
)

// batchTimeout bounds how long an enqueued event waits for a batch to fill.
const batchTimeout = 50 * time.Millisecond

const typeHeader = "type"

// KafkaPublisher writes events as JSON to a single topic. Writes are
// asynchronous: Publish only enqueues, and delivery failures are counted
// and logged when the batch completes.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	k := &KafkaPublisher{logger: logger}
	k.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		Async:        true,
		Completion:   k.completed,
	}
	return k
}

// Publish enqueues event keyed by event.Key.
func (k *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: b,
		Headers: []kafka.Header{
			{Key: typeHeader, Value: []byte(event.Type)},
		},
	})
}

func (k *KafkaPublisher) completed(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range messages {
		typ := messageType(m)
		observability.EventsPublished.WithLabelValues(typ, "error").Inc()
		k.logger.Error("deliver ride event failed", "type", typ, "key", string(m.Key), "error", err)
	}
}

func messageType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == typeHeader {
			return string(h.Value)
		}
	}
	return "unknown"
}

// Close flushes pending events and closes the writer.
func (k *KafkaPublisher) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}

var _ Publisher = (*KafkaPublisher)(nil)
