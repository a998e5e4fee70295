package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Sink receives sanitized log entries, one method per severity. The metadata
// argument is nil when the caller supplied none. Implementations must be safe
// for concurrent use.
type Sink interface {
	Debug(msg string, metadata any)
	Info(msg string, metadata any)
	Warn(msg string, metadata any)
	Error(msg string, metadata any)
}

// Logger sanitizes messages and metadata before dispatching them to a Sink.
// It holds no mutable state and is safe for concurrent use.
type Logger struct {
	sink Sink
}

// New creates a Logger that writes through the given sink.
func New(sink Sink) *Logger {
	return &Logger{sink: sink}
}

// Debug logs at debug severity.
func (l *Logger) Debug(msg string, metadata ...any) {
	l.sink.Debug(SanitizeMessage(msg), sanitizeArgs(metadata))
}

// Info logs at info severity.
func (l *Logger) Info(msg string, metadata ...any) {
	l.sink.Info(SanitizeMessage(msg), sanitizeArgs(metadata))
}

// Warn logs at warn severity.
func (l *Logger) Warn(msg string, metadata ...any) {
	l.sink.Warn(SanitizeMessage(msg), sanitizeArgs(metadata))
}

// Error logs at error severity.
func (l *Logger) Error(msg string, metadata ...any) {
	l.sink.Error(SanitizeMessage(msg), sanitizeArgs(metadata))
}

// Log is an alias for Info.
func (l *Logger) Log(msg string, metadata ...any) {
	l.Info(msg, metadata...)
}

// sanitizeArgs collapses the optional metadata arguments into a single
// sanitized value: nil for none, the value itself for one, a sequence for
// several.
func sanitizeArgs(metadata []any) any {
	switch len(metadata) {
	case 0:
		return nil
	case 1:
		return Sanitize(metadata[0])
	default:
		return Sanitize(metadata)
	}
}

// LogFormat represents the output format for the slog-backed sink.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in plain text format.
	FormatText LogFormat = "text"
)

// Config contains configuration for the slog-backed sink.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string

	// Format is the output format ("json", "text").
	Format string

	// Writer is the output writer (defaults to os.Stdout).
	Writer io.Writer
}

// SlogSink adapts log/slog as a Sink. Metadata is attached as a single
// "metadata" attribute.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a slog-backed sink from the given configuration.
func NewSlogSink(cfg Config) (*SlogSink, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	return &SlogSink{logger: slog.New(handler)}, nil
}

// Debug writes a debug entry.
func (s *SlogSink) Debug(msg string, metadata any) {
	s.write(slog.LevelDebug, msg, metadata)
}

// Info writes an info entry.
func (s *SlogSink) Info(msg string, metadata any) {
	s.write(slog.LevelInfo, msg, metadata)
}

// Warn writes a warn entry.
func (s *SlogSink) Warn(msg string, metadata any) {
	s.write(slog.LevelWarn, msg, metadata)
}

// Error writes an error entry.
func (s *SlogSink) Error(msg string, metadata any) {
	s.write(slog.LevelError, msg, metadata)
}

func (s *SlogSink) write(level slog.Level, msg string, metadata any) {
	if metadata == nil {
		s.logger.Log(context.Background(), level, msg)
		return
	}
	s.logger.Log(context.Background(), level, msg, slog.Any("metadata", metadata))
}

// parseLevel parses a log level string into slog.Level.
func parseLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "debug", "DEBUG":
		return slog.LevelDebug, nil
	case "info", "INFO", "":
		return slog.LevelInfo, nil
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn, nil
	case "error", "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", levelStr)
	}
}

// parseFormat parses a log format string into LogFormat.
func parseFormat(formatStr string) (LogFormat, error) {
	switch formatStr {
	case "json", "JSON", "":
		return FormatJSON, nil
	case "text", "TEXT":
		return FormatText, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format: %s", formatStr)
	}
}
