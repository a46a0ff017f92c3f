package render

import (
	"encoding/json"
	"io"

	"github.com/t-hobson/trellis/internal/dispatch"
	"github.com/t-hobson/trellis/internal/event"
	"github.com/t-hobson/trellis/internal/task"
	"github.com/t-hobson/trellis/internal/validate"
)

// JSON renders machine-readable output: one JSON object per line for the
// validation stream, and single documents for dispatch and list results.
type JSON struct {
	enc *json.Encoder
}

// NewJSON creates a JSON renderer writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w)}
}

// Attach subscribes the renderer to validation events on the bus and
// returns the subscription ids.
func (j *JSON) Attach(bus *event.Bus) []string {
	return []string{
		bus.Subscribe(validate.EventValidationFile, func(e event.Event) {
			fe := e.(validate.FileEvent)
			j.emit("file", fe.Result)
		}),
		bus.Subscribe(validate.EventValidationSummary, func(e event.Event) {
			se := e.(validate.SummaryEvent)
			j.emit("summary", se.Summary)
		}),
	}
}

// emit writes one {"kind": ..., "data": ...} line. Encoding errors are
// swallowed: a broken pipe on stdout has no useful recovery here.
func (j *JSON) emit(kind string, data any) {
	_ = j.enc.Encode(map[string]any{"kind": kind, "data": data})
}

// dispatchDoc is the serializable view of one candidate.
type dispatchDoc struct {
	ID    string                  `json:"id"`
	Title string                  `json:"title"`
	Kind  task.Kind               `json:"kind"`
	Score dispatch.ScoreBreakdown `json:"score"`
}

// Dispatch writes the full selection outcome as one JSON document.
func (j *JSON) Dispatch(res *dispatch.Result) {
	type skipped struct {
		ID            string   `json:"id"`
		ConflictsWith []string `json:"conflicts_with"`
	}
	out := struct {
		Candidates []dispatchDoc `json:"candidates"`
		Selected   []dispatchDoc `json:"selected"`
		Skipped    []skipped     `json:"skipped"`
	}{
		Candidates: toDocs(res.Candidates),
		Selected:   toDocs(res.Selected),
	}
	for _, sk := range res.Skipped {
		out.Skipped = append(out.Skipped, skipped{ID: sk.Doc.ID(), ConflictsWith: sk.ConflictsWith})
	}
	_ = j.enc.Encode(out)
}

func toDocs(cands []dispatch.Candidate) []dispatchDoc {
	out := make([]dispatchDoc, 0, len(cands))
	for _, c := range cands {
		out = append(out, dispatchDoc{
			ID:    c.Doc.ID(),
			Title: c.Doc.Task.Title,
			Kind:  c.Doc.Task.Kind,
			Score: c.Score,
		})
	}
	return out
}

// List writes the loaded documents as one JSON array.
func (j *JSON) List(docs []*task.Document) {
	type item struct {
		ID     string      `json:"id"`
		Title  string      `json:"title"`
		Kind   task.Kind   `json:"kind"`
		Status task.Status `json:"status"`
		Bucket string      `json:"bucket"`
		Path   string      `json:"path"`
	}
	out := make([]item, 0, len(docs))
	for _, doc := range docs {
		out = append(out, item{
			ID:     doc.ID(),
			Title:  doc.Task.Title,
			Kind:   doc.Task.Kind,
			Status: doc.Task.Status,
			Bucket: doc.Bucket,
			Path:   doc.Path,
		})
	}
	_ = j.enc.Encode(out)
}
