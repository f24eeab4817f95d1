package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		expect slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.expect {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.expect)
		}
	}
}

func TestNewLogger_ErrorCarriesStack(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "prod", "INFO")

	log.Debug("hidden")
	log.Error("boom", "quote_id", "q1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %d: %s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec["quote_id"] != "q1" {
		t.Fatalf("missing attribute: %v", rec)
	}
	if _, ok := rec["stacktrace"]; !ok {
		t.Fatalf("expected stacktrace on error record: %v", rec)
	}
}

func TestNewLogger_LocalIsText(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "local", "DEBUG").With("component", "test").Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") || !strings.Contains(buf.String(), "component=test") {
		t.Fatalf("unexpected text output: %q", buf.String())
	}
}
