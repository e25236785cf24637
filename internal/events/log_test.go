package events

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func TestLogPublisher_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := p.Publish(context.Background(), Event{
		ID:         "e-1",
		Type:       TypeRideAccepted,
		Key:        "ride-1",
		Data:       map[string]any{"driverId": "d-1"},
		OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["type"] != string(TypeRideAccepted) || entry["key"] != "ride-1" {
		t.Errorf("unexpected log entry %v", entry)
	}
	if err := p.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
