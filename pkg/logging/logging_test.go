package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	logger.With("component", "web").InfoContext(ctx, "plot rendered", "series", 2)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}

	want := map[string]any{
		"msg":        "plot rendered",
		"severity":   "INFO",
		"service":    ServiceName,
		"request_id": "req-1",
		"component":  "web",
	}
	for k, v := range want {
		if record[k] != v {
			t.Errorf("field %q = %v, want %v", k, record[k], v)
		}
	}
	if _, ok := record["ts"]; !ok {
		t.Error("expected ts field")
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info record should be filtered at warn level, got %s", buf.String())
	}
}
