package events

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/segmentio/kafka-go"

	"ridehail/internal/observability"
)

func TestKafkaPublisher_WritesAsynchronously(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "ride-events", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	defer p.Close()

	if !p.writer.Async {
		t.Error("expected an async writer")
	}
	if p.writer.BatchTimeout != batchTimeout {
		t.Errorf("expected batch timeout %s, got %s", batchTimeout, p.writer.BatchTimeout)
	}
	if p.writer.Completion == nil {
		t.Error("expected a completion callback")
	}
}

func TestKafkaPublisher_FailedDeliveryCountedPerEvent(t *testing.T) {
	var buf bytes.Buffer
	p := NewKafkaPublisher([]string{"localhost:9092"}, "ride-events", slog.New(slog.NewTextHandler(&buf, nil)))
	defer p.Close()

	counter := observability.EventsPublished.WithLabelValues(string(TypeRideAccepted), "error")
	before := counterValue(t, counter)

	msg := kafka.Message{
		Key:     []byte("ride-1"),
		Headers: []kafka.Header{{Key: typeHeader, Value: []byte(TypeRideAccepted)}},
	}
	p.completed([]kafka.Message{msg, msg}, errors.New("broker unavailable"))

	if got := counterValue(t, counter) - before; got != 2 {
		t.Errorf("expected 2 failed deliveries counted, got %v", got)
	}
	if !strings.Contains(buf.String(), "ride-1") {
		t.Errorf("expected the failure to be logged with the ride key, got %q", buf.String())
	}
}

func TestKafkaPublisher_SuccessfulDeliveryNotCounted(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "ride-events", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	defer p.Close()

	counter := observability.EventsPublished.WithLabelValues(string(TypeRatingCreated), "error")
	before := counterValue(t, counter)

	p.completed([]kafka.Message{{Headers: []kafka.Header{{Key: typeHeader, Value: []byte(TypeRatingCreated)}}}}, nil)

	if got := counterValue(t, counter); got != before {
		t.Errorf("expected no error count, got %v more", got-before)
	}
}

func TestMessageType_MissingHeader(t *testing.T) {
	if got := messageType(kafka.Message{}); got != "unknown" {
		t.Errorf("expected unknown, got %q", got)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
