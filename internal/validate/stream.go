package validate

import (
	"context"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/t-hobson/trellis/internal/event"
	"github.com/t-hobson/trellis/internal/hierarchy"
	"github.com/t-hobson/trellis/internal/loader"
	"github.com/t-hobson/trellis/internal/logging"
)

// Options configures a validation run.
type Options struct {
	// Workers bounds the per-document worker pool. Zero or negative means
	// one worker per CPU.
	Workers int

	// MinFilesForPool is the file count below which the pool is skipped and
	// documents are checked on a single worker. Pool spin-up costs more than
	// it saves on small forests.
	MinFilesForPool int

	// Strict promotes every warning to an error.
	Strict bool
}

// Runner executes a full validation pass over a loaded task directory and
// publishes results on the event bus: one FileEvent per file per stage that
// produced a result, in canonical document order, then one SummaryEvent.
type Runner struct {
	opts Options
	bus  *event.Bus
	log  *logging.Logger
}

// NewRunner creates a Runner. A nil bus suppresses event emission; a nil
// logger is replaced with a no-op logger.
func NewRunner(opts Options, bus *event.Bus, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Runner{opts: opts, bus: bus, log: log}
}

// Run validates the loaded forest and returns the aggregated summary.
//
// Per-document checks fan out across a bounded pool; results land in
// index-addressed slots and a single cursor publishes them serially, so
// result i is never emitted before result i-1 regardless of completion
// order. Cross-document checks run once after the per-document stage.
func (r *Runner) Run(ctx context.Context, res *loader.Result) (*Summary, error) {
	start := time.Now()
	entries := res.Entries

	summary := &Summary{
		FilesChecked: len(entries),
		DocsParsed:   len(res.Docs),
		ParseErrors:  len(res.Failures),
	}

	results := make([]FileResult, len(entries))
	slots := make([]chan struct{}, len(entries))
	for i := range slots {
		slots[i] = make(chan struct{})
	}

	p := pool.New().WithMaxGoroutines(r.workerCount(len(entries)))
	for i := range entries {
		p.Go(func() {
			results[i] = r.checkEntry(entries[i])
			close(slots[i])
		})
	}

	// Serial emission cursor. Workers complete out of order; publication
	// never does.
	for i := range entries {
		select {
		case <-slots[i]:
		case <-ctx.Done():
			p.Wait()
			return nil, ctx.Err()
		}
		r.emit(results[i], summary)
	}
	p.Wait()

	idx := hierarchy.Build(res.Docs)
	findings := CheckCollection(res.Docs, idx)
	for _, entry := range entries {
		issues, ok := findings[entry.File]
		if !ok {
			continue
		}
		fr := FileResult{
			File:   entry.File,
			Bucket: entry.Bucket,
			Stage:  StageCollection,
			Issues: issues,
		}
		if entry.Doc != nil {
			fr.TaskID = entry.Doc.ID()
		}
		r.emit(fr, summary)
	}

	summary.ElapsedMS = time.Since(start).Milliseconds()
	summary.OK = summary.Errors == 0 && summary.ParseErrors == 0
	if r.bus != nil {
		r.bus.Publish(NewSummaryEvent(*summary))
	}

	r.log.Info("validation complete",
		"files", summary.FilesChecked,
		"errors", summary.Errors,
		"warnings", summary.Warnings,
		"elapsed_ms", summary.ElapsedMS,
	)
	return summary, nil
}

// workerCount resolves the effective pool size for n files.
func (r *Runner) workerCount(n int) int {
	if n < r.opts.MinFilesForPool {
		return 1
	}
	if r.opts.Workers > 0 {
		return r.opts.Workers
	}
	return runtime.NumCPU()
}

// checkEntry runs the parse and document stages for one file.
func (r *Runner) checkEntry(entry loader.Entry) FileResult {
	if entry.Failure != nil {
		return FileResult{
			File:   entry.File,
			Bucket: entry.Bucket,
			Stage:  StageParse,
			Issues: []Issue{{
				Severity: SeverityError,
				Message:  entry.Failure.Reason,
			}},
		}
	}
	return FileResult{
		File:   entry.File,
		Bucket: entry.Bucket,
		TaskID: entry.Doc.ID(),
		Stage:  StageDocument,
		Issues: CheckDocument(entry.Doc),
	}
}

// emit applies strict escalation, folds the result into the summary, and
// publishes it.
func (r *Runner) emit(fr FileResult, summary *Summary) {
	if r.opts.Strict {
		fr.Issues = escalate(fr.Issues)
	}
	errs, warns := countBySeverity(fr.Issues)
	summary.Errors += errs
	summary.Warnings += warns

	if len(fr.Issues) > 0 {
		r.log.Debug("validation issues",
			"file", fr.File,
			"stage", string(fr.Stage),
			"errors", errs,
			"warnings", warns,
		)
	}
	if r.bus != nil {
		r.bus.Publish(NewFileEvent(fr))
	}
}
