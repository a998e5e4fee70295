package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
)

// captureSink records entries for assertions.
type captureSink struct {
	mu      sync.Mutex
	entries []capturedEntry
}

type capturedEntry struct {
	level    slog.Level
	message  string
	metadata any
}

func (c *captureSink) record(level slog.Level, msg string, metadata any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, capturedEntry{level: level, message: msg, metadata: metadata})
}

func (c *captureSink) Debug(msg string, metadata any) { c.record(slog.LevelDebug, msg, metadata) }
func (c *captureSink) Info(msg string, metadata any)  { c.record(slog.LevelInfo, msg, metadata) }
func (c *captureSink) Warn(msg string, metadata any)  { c.record(slog.LevelWarn, msg, metadata) }
func (c *captureSink) Error(msg string, metadata any) { c.record(slog.LevelError, msg, metadata) }

func (c *captureSink) all() []capturedEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]capturedEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func TestLogger_DispatchesToMatchingSeverity(t *testing.T) {
	sink := &captureSink{}
	logger := New(sink)

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	entries := sink.all()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	wantLevels := []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}
	for i, want := range wantLevels {
		if entries[i].level != want {
			t.Errorf("entry %d: level = %v, want %v", i, entries[i].level, want)
		}
	}
}

func TestLogger_LogAliasesInfo(t *testing.T) {
	sink := &captureSink{}
	logger := New(sink)

	logger.Log("hello")

	entries := sink.all()
	if len(entries) != 1 || entries[0].level != slog.LevelInfo {
		t.Fatalf("Log should dispatch at info level, got %+v", entries)
	}
}

func TestLogger_SanitizesBeforeDispatch(t *testing.T) {
	sink := &captureSink{}
	logger := New(sink)

	logger.Error("failed with password=abc", map[string]any{"token": "t", "id": 7})

	entries := sink.all()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if entries[0].message != "failed with password=[REDACTED]" {
		t.Errorf("message = %q", entries[0].message)
	}

	want := map[string]any{"token": "[REDACTED]", "id": 7}
	if !reflect.DeepEqual(entries[0].metadata, want) {
		t.Errorf("metadata = %#v, want %#v", entries[0].metadata, want)
	}
}

func TestLogger_NoMetadataIsNil(t *testing.T) {
	sink := &captureSink{}
	logger := New(sink)

	logger.Info("plain")

	entries := sink.all()
	if entries[0].metadata != nil {
		t.Errorf("metadata = %v, want nil", entries[0].metadata)
	}
}

func TestLogger_MultipleMetadataValues(t *testing.T) {
	sink := &captureSink{}
	logger := New(sink)

	logger.Info("multi", "a", map[string]any{"secret": "s"})

	entries := sink.all()
	seq, ok := entries[0].metadata.([]any)
	if !ok || len(seq) != 2 {
		t.Fatalf("metadata = %#v, want sequence of 2", entries[0].metadata)
	}
	m := seq[1].(map[string]any)
	if m["secret"] != "[REDACTED]" {
		t.Errorf("nested secret = %v, want placeholder", m["secret"])
	}
}

func TestSlogSink_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewSlogSink(Config{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("NewSlogSink: %v", err)
	}

	sink.Warn("careful", map[string]any{"attempt": 2})

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "careful" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["level"] != "WARN" {
		t.Errorf("level = %v", record["level"])
	}
}

func TestSlogSink_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewSlogSink(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("NewSlogSink: %v", err)
	}

	sink.Info("ignored", nil)
	sink.Error("kept", nil)

	out := buf.String()
	if strings.Contains(out, "ignored") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("error entry missing")
	}
}

func TestNewSlogSink_InvalidConfig(t *testing.T) {
	if _, err := NewSlogSink(Config{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := NewSlogSink(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
