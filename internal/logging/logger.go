// Package logging provides a small levelled logger with structured fields.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Field is a key/value pair attached to a log message.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for constructing a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is the logging interface used throughout dusort.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithTraceID(traceID string) Logger
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// ConsoleLogger writes human-readable log lines to a writer, stderr by default.
type ConsoleLogger struct {
	mu               *sync.Mutex
	writer           io.Writer
	level            LogLevel
	traceID          string
	colorEnabled     bool
	timestampEnabled bool
}

// ConsoleLoggerConfig contains configuration for the console logger.
type ConsoleLoggerConfig struct {
	Writer           io.Writer
	Level            LogLevel
	TimestampEnabled bool
}

// NewConsoleLogger creates a console logger. Color is enabled only when the
// writer is a terminal.
func NewConsoleLogger(config ConsoleLoggerConfig) *ConsoleLogger {
	if config.Writer == nil {
		config.Writer = os.Stderr
	}

	return &ConsoleLogger{
		mu:               &sync.Mutex{},
		writer:           config.Writer,
		level:            config.Level,
		colorEnabled:     isTerminal(config.Writer),
		timestampEnabled: config.TimestampEnabled,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatMessage formats a log message with colors and fields.
func (l *ConsoleLogger) formatMessage(level LogLevel, msg string, fields ...Field) string {
	var sb strings.Builder

	if l.timestampEnabled {
		l.paint(&sb, colorGray, time.Now().Format("2006-01-02 15:04:05")+" ")
	}

	var color string

	switch level {
	case DEBUG:
		color = colorBlue
	case WARN:
		color = colorYellow
	case ERROR:
		color = colorRed
	default:
		color = colorReset
	}

	l.paint(&sb, color, fmt.Sprintf("%-5s", level.String()))
	sb.WriteString(" ")

	if l.traceID != "" {
		id := l.traceID
		if len(id) > 8 {
			id = id[:8]
		}

		l.paint(&sb, colorGray, "["+id+"] ")
	}

	sb.WriteString(msg)

	for i, field := range fields {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}

		fmt.Fprintf(&sb, "%s=%v", field.Key, field.Value)
	}

	return sb.String()
}

func (l *ConsoleLogger) paint(sb *strings.Builder, color, s string) {
	if !l.colorEnabled {
		sb.WriteString(s)

		return
	}

	sb.WriteString(color)
	sb.WriteString(s)
	sb.WriteString(colorReset)
}

func (l *ConsoleLogger) log(level LogLevel, msg string, fields ...Field) {
	if level < l.level {
		return
	}

	formatted := l.formatMessage(level, msg, fields...)

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.writer, formatted)
}

// Debug logs a debug-level message.
func (l *ConsoleLogger) Debug(msg string, fields ...Field) {
	l.log(DEBUG, msg, fields...)
}

// Info logs an info-level message.
func (l *ConsoleLogger) Info(msg string, fields ...Field) {
	l.log(INFO, msg, fields...)
}

// Warn logs a warning-level message.
func (l *ConsoleLogger) Warn(msg string, fields ...Field) {
	l.log(WARN, msg, fields...)
}

// Error logs an error-level message.
func (l *ConsoleLogger) Error(msg string, fields ...Field) {
	l.log(ERROR, msg, fields...)
}

// WithTraceID returns a logger sharing the same writer that tags every line
// with traceID.
func (l *ConsoleLogger) WithTraceID(traceID string) Logger {
	clone := *l
	clone.traceID = traceID

	return &clone
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)      {}
func (nopLogger) Info(string, ...Field)       {}
func (nopLogger) Warn(string, ...Field)       {}
func (nopLogger) Error(string, ...Field)      {}
func (n nopLogger) WithTraceID(string) Logger { return n }

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}
