// Package watch re-runs validation whenever the task directory changes.
// It is a convenience layer over the validation engine, not part of the
// engine contract: a slow editor save simply triggers one more run.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/t-hobson/trellis/internal/loader"
	"github.com/t-hobson/trellis/internal/logging"
)

// Debounce interval: many editors emit several events for a single save.
const debounceInterval = 50 * time.Millisecond

// Watcher observes a task directory and invokes a callback after each
// debounced burst of changes.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher
	log     *logging.Logger
	onDirty func()
}

// New creates a Watcher over root's bucket directories. onDirty runs on the
// watch goroutine after every debounced change burst.
func New(root string, log *logging.Logger, onDirty func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NopLogger()
	}

	w := &Watcher{root: root, watcher: fsw, log: log, onDirty: onDirty}

	if err := fsw.Add(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	for _, bucket := range loader.Buckets {
		// Missing buckets are fine; they get picked up when created because
		// the root itself is watched.
		_ = fsw.Add(filepath.Join(root, bucket))
	}
	return w, nil
}

// Run blocks processing events until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	debounce := time.NewTimer(0)
	<-debounce.C
	dirty := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			// A new bucket directory must itself be watched.
			if event.Op&fsnotify.Create != 0 {
				_ = w.watcher.Add(event.Name)
			}
			dirty = true
			debounce.Reset(debounceInterval)

		case <-debounce.C:
			if !dirty {
				continue
			}
			dirty = false
			w.log.Debug("change burst settled, revalidating")
			w.onDirty()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// relevant filters events down to task-document changes and new bucket
// directories.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if strings.HasSuffix(base, ".md") {
		return true
	}
	// Bucket directories themselves.
	for _, bucket := range loader.Buckets {
		if base == bucket {
			return true
		}
	}
	return false
}
