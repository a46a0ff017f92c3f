package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevantFiltersEvents(t *testing.T) {
	w := &Watcher{}
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"markdown write", fsnotify.Event{Name: "backlog/a.md", Op: fsnotify.Write}, true},
		{"markdown rename", fsnotify.Event{Name: "done/a.md", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "backlog/a.md", Op: fsnotify.Chmod}, false},
		{"lock file", fsnotify.Event{Name: ".trellis.lock", Op: fsnotify.Write}, false},
		{"scratch file", fsnotify.Event{Name: "backlog/notes.txt", Op: fsnotify.Write}, false},
		{"new bucket dir", fsnotify.Event{Name: "archive", Op: fsnotify.Create}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.relevant(tt.ev); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestWatcherFiresAfterDebounce(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "backlog"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	fired := make(chan struct{}, 4)
	w, err := New(root, nil, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Two rapid writes should collapse into one callback.
	path := filepath.Join(root, "backlog", "a.md")
	for i := 0; i < 2; i++ {
		if err := os.WriteFile(path, []byte("---\nid: a\ntitle: A\nkind: task\nstatus: ready\n---\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never fired")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
