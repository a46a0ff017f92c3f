// Package repair normalizes the on-disk layout of the task forest: every
// document is renamed to the canonical <id>.md filename and moved into the
// bucket directory matching its status. Repair never edits file content;
// it only moves files.
package repair

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/t-hobson/trellis/internal/errors"
	"github.com/t-hobson/trellis/internal/filelock"
	"github.com/t-hobson/trellis/internal/gitops"
	"github.com/t-hobson/trellis/internal/loader"
	"github.com/t-hobson/trellis/internal/logging"
	"github.com/t-hobson/trellis/internal/task"
)

// Move is one planned file relocation.
type Move struct {
	// TaskID is the document being moved.
	TaskID string

	// From and To are absolute file paths.
	From string
	To   string

	// Reasons lists why the move is needed: "filename", "bucket", or both.
	Reasons []string
}

// Result reports what a repair run planned and did.
type Result struct {
	// Moves is every planned relocation, applied or not.
	Moves []Move

	// Applied counts moves actually performed. Zero in a dry run.
	Applied int

	// Skipped lists moves abandoned because the target already existed.
	Skipped []Move
}

// Options configures a repair run.
type Options struct {
	// DryRun plans moves without touching the filesystem.
	DryRun bool
}

// Plan computes the moves needed to normalize the loaded forest. Documents
// without a valid id are left alone; validation reports those.
func Plan(res *loader.Result, root string) []Move {
	var moves []Move
	for _, doc := range res.Docs {
		if !task.IsValidID(doc.ID()) || !doc.Task.Status.IsValid() {
			continue
		}

		wantName := task.CanonicalFilename(doc.ID())
		wantBucket := loader.BucketForStatus(doc.Task.Status)

		var reasons []string
		if filepath.Base(doc.Path) != wantName {
			reasons = append(reasons, "filename")
		}
		if doc.Bucket != wantBucket {
			reasons = append(reasons, "bucket")
		}
		if len(reasons) == 0 {
			continue
		}

		moves = append(moves, Move{
			TaskID:  doc.ID(),
			From:    doc.Path,
			To:      filepath.Join(root, wantBucket, wantName),
			Reasons: reasons,
		})
	}
	return moves
}

// Run loads the forest, plans moves, and applies them under an exclusive
// directory lock. A concurrently running repair causes ErrRepairLocked.
func Run(root string, opts Options, log *logging.Logger) (*Result, error) {
	if log == nil {
		log = logging.NopLogger()
	}

	loaded, err := loader.Load(root)
	if err != nil {
		return nil, err
	}

	result := &Result{Moves: Plan(loaded, root)}
	if opts.DryRun || len(result.Moves) == 0 {
		return result, nil
	}

	lock := filelock.New(root)
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock task directory: %w", err)
	}
	if !held {
		return nil, errors.ErrRepairLocked
	}
	defer func() { _ = lock.Unlock() }()

	useGit := gitops.IsRepo(root)
	for _, mv := range result.Moves {
		if _, err := os.Stat(mv.To); err == nil {
			log.Warn("repair target exists, skipping", "task", mv.TaskID, "to", mv.To)
			result.Skipped = append(result.Skipped, mv)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(mv.To), 0755); err != nil {
			return result, fmt.Errorf("create bucket dir: %w", err)
		}
		if err := rename(root, mv, useGit); err != nil {
			return result, errors.NewRepairError(mv.From, err)
		}
		log.Info("repaired", "task", mv.TaskID, "from", mv.From, "to", mv.To, "reasons", mv.Reasons)
		result.Applied++
	}
	return result, nil
}

// rename moves one file, through git when the file is tracked so history
// follows the rename.
func rename(root string, mv Move, useGit bool) error {
	if useGit && gitops.IsTracked(root, mv.From) {
		return gitops.Move(root, mv.From, mv.To)
	}
	return os.Rename(mv.From, mv.To)
}
