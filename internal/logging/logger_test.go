package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := levelFromString(in).Level(); got != want {
			t.Errorf("levelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerTo_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "info")

	logger.Debug("hidden")
	logger.Info("ride requested", "ride_id", "r-1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "ride requested" || entry["ride_id"] != "r-1" {
		t.Errorf("unexpected entry %v", entry)
	}
}
