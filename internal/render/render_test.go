package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/t-hobson/trellis/internal/dispatch"
	"github.com/t-hobson/trellis/internal/event"
	"github.com/t-hobson/trellis/internal/task"
	"github.com/t-hobson/trellis/internal/validate"
)

func sampleResult() validate.FileResult {
	return validate.FileResult{
		File:   "backlog/fix-login.md",
		Bucket: "backlog",
		TaskID: "fix-login",
		Stage:  validate.StageDocument,
		Issues: []validate.Issue{{
			Severity: validate.SeverityError,
			Message:  "document has no title",
			Field:    "title",
		}},
	}
}

func TestHumanRendersIssuesAndSummary(t *testing.T) {
	var buf bytes.Buffer
	h := NewHuman(&buf)

	bus := event.NewBus()
	h.Attach(bus)
	bus.Publish(validate.NewFileEvent(sampleResult()))
	bus.Publish(validate.NewSummaryEvent(validate.Summary{
		FilesChecked: 1, DocsParsed: 1, Errors: 1,
	}))

	out := buf.String()
	for _, want := range []string{"backlog/fix-login.md", "document has no title", "invalid", "1 errors"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHumanQuietSkipsCleanFiles(t *testing.T) {
	var buf bytes.Buffer
	h := NewHuman(&buf)
	h.Quiet = true

	h.FileResult(validate.FileResult{File: "backlog/ok.md", Stage: validate.StageDocument})
	if buf.Len() != 0 {
		t.Errorf("quiet renderer printed clean file: %q", buf.String())
	}
}

func TestJSONStreamIsDecodable(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSON(&buf)

	bus := event.NewBus()
	j.Attach(bus)
	bus.Publish(validate.NewFileEvent(sampleResult()))
	bus.Publish(validate.NewSummaryEvent(validate.Summary{FilesChecked: 1, OK: false}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, line := range lines {
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			t.Fatalf("line not valid json: %q: %v", line, err)
		}
		if obj["kind"] == "" {
			t.Errorf("line missing kind: %q", line)
		}
	}
}

func TestJSONDispatch(t *testing.T) {
	var buf bytes.Buffer
	doc := &task.Document{Task: task.Task{ID: "t1", Title: "One", Kind: task.KindTask}}
	res := &dispatch.Result{
		Candidates: []dispatch.Candidate{{Doc: doc}},
		Selected:   []dispatch.Candidate{{Doc: doc}},
		Skipped: []dispatch.Skipped{{
			Doc:           &task.Document{Task: task.Task{ID: "t2"}},
			ConflictsWith: []string{"t1"},
		}},
	}

	NewJSON(&buf).Dispatch(res)

	var out struct {
		Selected []struct {
			ID string `json:"id"`
		} `json:"selected"`
		Skipped []struct {
			ConflictsWith []string `json:"conflicts_with"`
		} `json:"skipped"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Selected) != 1 || out.Selected[0].ID != "t1" {
		t.Errorf("selected = %+v", out.Selected)
	}
	if len(out.Skipped) != 1 || out.Skipped[0].ConflictsWith[0] != "t1" {
		t.Errorf("skipped = %+v", out.Skipped)
	}
}
