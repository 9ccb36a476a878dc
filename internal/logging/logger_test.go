package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)

	l.Info("prompt saved", map[string]interface{}{"id": "abc"})

	line := strings.TrimSpace(buf.String())
	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Expected JSON line, got %q: %v", line, err)
	}
	if entry.Level != "INFO" || entry.Message != "prompt saved" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
	if entry.Context["id"] != "abc" {
		t.Errorf("Expected context id, got %v", entry.Context)
	}
	if entry.Timestamp == "" {
		t.Error("Expected a timestamp")
	}
}

func TestLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debug("ignored")
	l.Info("ignored too")
	l.Warn("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "kept") {
		t.Errorf("Expected the warning line, got %q", lines[0])
	}
}

func TestLoggerIncludesError(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)

	l.Error("write failed", errors.New("disk full"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON line: %v", err)
	}
	if entry.Error != "disk full" {
		t.Errorf("Expected error field, got %q", entry.Error)
	}
}

func TestInitReplacesImplicitDefault(t *testing.T) {
	// Logging before Init seeds the stdout/info default.
	Get().Info("early message")

	var buf bytes.Buffer
	Init(&buf, LevelDebug)

	Get().Debug("after init")
	if !strings.Contains(buf.String(), "after init") {
		t.Errorf("Expected Init to replace the default logger, got %q", buf.String())
	}
}

func TestMergeContext(t *testing.T) {
	merged := mergeContext(
		map[string]interface{}{"a": 1},
		map[string]interface{}{"b": 2},
	)
	if merged["a"] != 1 || merged["b"] != 2 {
		t.Errorf("Expected merged maps, got %v", merged)
	}

	if mergeContext() != nil {
		t.Error("Expected nil for no context")
	}
}
