package repair

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/t-hobson/trellis/internal/errors"
	"github.com/t-hobson/trellis/internal/filelock"
	"github.com/t-hobson/trellis/internal/loader"
)

func write(t *testing.T, root, bucket, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

const doneTask = "---\nid: shipped\ntitle: Shipped\nkind: task\nstatus: done\n---\n\n## Outcome\n\nDone.\n"

func TestPlanFindsMisnamedAndMisfiled(t *testing.T) {
	root := t.TempDir()
	write(t, root, "backlog", "wrong-name.md", "---\nid: real-name\ntitle: R\nkind: task\nstatus: ready\n---\n\n## Acceptance\n\nok\n")
	write(t, root, "backlog", "shipped.md", doneTask)
	write(t, root, "current", "fine.md", "---\nid: fine\ntitle: F\nkind: task\nstatus: in-progress\n---\n\n## Acceptance\n\nok\n")

	loaded, err := loader.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	moves := Plan(loaded, root)
	if len(moves) != 2 {
		t.Fatalf("moves = %+v, want 2", moves)
	}

	byID := map[string]Move{}
	for _, mv := range moves {
		byID[mv.TaskID] = mv
	}
	if mv := byID["real-name"]; filepath.Base(mv.To) != "real-name.md" || len(mv.Reasons) != 1 || mv.Reasons[0] != "filename" {
		t.Errorf("rename move = %+v", mv)
	}
	if mv := byID["shipped"]; !strings.HasPrefix(mv.To, filepath.Join(root, "done")) {
		t.Errorf("bucket move = %+v", mv)
	}
}

func TestRunAppliesMoves(t *testing.T) {
	root := t.TempDir()
	write(t, root, "backlog", "shipped.md", doneTask)

	res, err := Run(root, Options{}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Applied != 1 || len(res.Skipped) != 0 {
		t.Fatalf("result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(root, "done", "shipped.md")); err != nil {
		t.Errorf("moved file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "backlog", "shipped.md")); !os.IsNotExist(err) {
		t.Errorf("source still present: %v", err)
	}

	// A second run has nothing to do.
	res, err = Run(root, Options{}, nil)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(res.Moves) != 0 {
		t.Errorf("second run planned moves: %+v", res.Moves)
	}
}

func TestRunDryRun(t *testing.T) {
	root := t.TempDir()
	src := write(t, root, "backlog", "shipped.md", doneTask)

	res, err := Run(root, Options{DryRun: true}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Moves) != 1 || res.Applied != 0 {
		t.Fatalf("result = %+v", res)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("dry run moved the file: %v", err)
	}
}

func TestRunSkipsOccupiedTarget(t *testing.T) {
	root := t.TempDir()
	write(t, root, "backlog", "shipped.md", doneTask)
	write(t, root, "done", "shipped.md", doneTask)

	res, err := Run(root, Options{}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Applied != 0 || len(res.Skipped) != 1 {
		t.Errorf("result = %+v, want one skipped move", res)
	}
}

func TestRunRespectsLock(t *testing.T) {
	root := t.TempDir()
	write(t, root, "backlog", "shipped.md", doneTask)

	lock := filelock.New(root)
	if err := lock.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer func() { _ = lock.Unlock() }()

	// flock conflicts are per open file description, so the second FileLock
	// inside Run collides even within one process.
	if _, err := Run(root, Options{}, nil); !errors.Is(err, errors.ErrRepairLocked) {
		t.Errorf("err = %v, want ErrRepairLocked", err)
	}
}
