package validate

import "github.com/t-hobson/trellis/internal/event"

// Event type identifiers published by the runner.
const (
	EventValidationFile    = "validation.file"
	EventValidationSummary = "validation.summary"
)

// Stage identifies which layer of validation produced a result.
type Stage string

const (
	// StageParse covers file read and frontmatter parse failures.
	StageParse Stage = "parse"

	// StageDocument covers per-document checks.
	StageDocument Stage = "document"

	// StageCollection covers cross-document checks.
	StageCollection Stage = "collection"
)

// FileResult is the outcome of checking a single file at one stage.
type FileResult struct {
	// File is the path of the checked file.
	File string `json:"file"`

	// Bucket is the lifecycle directory the file was found under.
	Bucket string `json:"bucket"`

	// TaskID is the parsed document's id, empty for parse failures.
	TaskID string `json:"task_id,omitempty"`

	// Stage indicates which validation layer produced the issues.
	Stage Stage `json:"stage"`

	// Issues holds the findings for this file at this stage. May be empty
	// for document-stage results; clean files are still announced so
	// renderers can show progress.
	Issues []Issue `json:"issues,omitempty"`
}

// Summary aggregates a whole validation run.
type Summary struct {
	// FilesChecked is the number of files scanned, parseable or not.
	FilesChecked int `json:"files_checked"`

	// DocsParsed is the number of files that yielded a document.
	DocsParsed int `json:"docs_parsed"`

	// ParseErrors is the number of files that failed to parse.
	ParseErrors int `json:"parse_errors"`

	// Errors is the total error count across all stages, after any strict
	// escalation.
	Errors int `json:"errors"`

	// Warnings is the total warning count across all stages.
	Warnings int `json:"warnings"`

	// ElapsedMS is the wall-clock duration of the run in milliseconds.
	ElapsedMS int64 `json:"elapsed_ms"`

	// OK is true when the run produced no errors.
	OK bool `json:"ok"`
}

// FileEvent is published once per file per stage that produced a result,
// always in canonical document order.
type FileEvent struct {
	event.Base
	Result FileResult
}

// NewFileEvent creates a FileEvent for the given result.
func NewFileEvent(res FileResult) FileEvent {
	return FileEvent{
		Base:   event.NewBase(EventValidationFile),
		Result: res,
	}
}

// SummaryEvent is published exactly once, after all FileEvents.
type SummaryEvent struct {
	event.Base
	Summary Summary
}

// NewSummaryEvent creates a SummaryEvent for the given summary.
func NewSummaryEvent(s Summary) SummaryEvent {
	return SummaryEvent{
		Base:    event.NewBase(EventValidationSummary),
		Summary: s,
	}
}
