package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   LogLevel
		logFunc func(Logger)
		want    bool
	}{
		{"debug hidden at info", INFO, func(l Logger) { l.Debug("msg") }, false},
		{"info shown at info", INFO, func(l Logger) { l.Info("msg") }, true},
		{"warn shown at info", INFO, func(l Logger) { l.Warn("msg") }, true},
		{"info hidden at warn", WARN, func(l Logger) { l.Info("msg") }, false},
		{"error shown at warn", WARN, func(l Logger) { l.Error("msg") }, true},
		{"debug shown at debug", DEBUG, func(l Logger) { l.Debug("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewConsoleLogger(ConsoleLoggerConfig{Writer: &buf, Level: tt.level})

			tt.logFunc(logger)

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("output written = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestConsoleLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(ConsoleLoggerConfig{Writer: &buf, Level: DEBUG})

	logger.Warn("cannot read", F("path", "a/b"), F("cause", "permission denied"))

	got := strings.TrimSpace(buf.String())
	want := "WARN  cannot read path=a/b, cause=permission denied"
	if got != want {
		t.Errorf("line = %q, want %q", got, want)
	}

	if strings.Contains(got, "\033[") {
		t.Error("color codes written to a non-terminal writer")
	}
}

func TestConsoleLogger_WithTraceID(t *testing.T) {
	var buf bytes.Buffer
	base := NewConsoleLogger(ConsoleLoggerConfig{Writer: &buf, Level: INFO})

	base.WithTraceID("0123456789abcdef").Info("scan started")
	base.Info("untagged")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}

	if !strings.Contains(lines[0], "[01234567] scan started") {
		t.Errorf("traced line = %q, want truncated trace id", lines[0])
	}

	if strings.Contains(lines[1], "[") {
		t.Errorf("base logger picked up trace id: %q", lines[1])
	}
}

func TestLogLevel_String(t *testing.T) {
	for level, want := range map[LogLevel]string{DEBUG: "DEBUG", INFO: "INFO", WARN: "WARN", ERROR: "ERROR", 42: "UNKNOWN"} {
		if got := level.String(); got != want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", level, got, want)
		}
	}
}
