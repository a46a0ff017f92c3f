package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestNewLoggerWritesJSONToFile(t *testing.T) {
	dir := t.TempDir()

	l, err := NewLogger(dir, LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.WithCommand("validate").WithFile("backlog/a.md").Info("checked", "issues", 2)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "trellis.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if entry["command"] != "validate" {
		t.Errorf("command attr = %v, want validate", entry["command"])
	}
	if entry["file"] != "backlog/a.md" {
		t.Errorf("file attr = %v, want backlog/a.md", entry["file"])
	}
	if entry["msg"] != "checked" {
		t.Errorf("msg = %v, want checked", entry["msg"])
	}
}

func TestChildLoggerDoesNotMutateParent(t *testing.T) {
	parent := NopLogger()
	child := parent.WithCommand("next")

	if len(parent.attrs) != 0 {
		t.Errorf("parent attrs mutated: %v", parent.attrs)
	}
	if len(child.attrs) != 1 {
		t.Errorf("child attrs = %v, want one", child.attrs)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
