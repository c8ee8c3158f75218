package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"off", LogLevelNone},
		{"bogus", LogLevelInfo},
		{"", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", &buf)

	l.Info("hidden message")
	l.Warn("visible message", "page", 3)

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info message should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "[WARN] visible message page=3") {
		t.Errorf("expected warn line with fields, got %q", out)
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New("debug", &buf).With("component", "remote")

	l.Error("request failed", errors.New("boom"), "status", 500)

	out := buf.String()
	if !strings.Contains(out, "component=remote") || !strings.Contains(out, "error=boom") || !strings.Contains(out, "status=500") {
		t.Errorf("missing fields in %q", out)
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	l := Nop()
	l.Error("nothing", errors.New("x"))
	if l.Level() != LogLevelNone {
		t.Errorf("Nop logger level = %v, want LogLevelNone", l.Level())
	}
}
