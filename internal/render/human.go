package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/t-hobson/trellis/internal/dispatch"
	"github.com/t-hobson/trellis/internal/event"
	"github.com/t-hobson/trellis/internal/task"
	"github.com/t-hobson/trellis/internal/util"
	"github.com/t-hobson/trellis/internal/validate"
)

// Human renders validation and dispatch output for a terminal.
type Human struct {
	w io.Writer

	// Quiet suppresses per-file lines for clean files.
	Quiet bool
}

// NewHuman creates a human renderer writing to w.
func NewHuman(w io.Writer) *Human {
	return &Human{w: w}
}

// Attach subscribes the renderer to validation events on the bus and
// returns the subscription ids.
func (h *Human) Attach(bus *event.Bus) []string {
	return []string{
		bus.Subscribe(validate.EventValidationFile, func(e event.Event) {
			h.FileResult(e.(validate.FileEvent).Result)
		}),
		bus.Subscribe(validate.EventValidationSummary, func(e event.Event) {
			h.Summary(e.(validate.SummaryEvent).Summary)
		}),
	}
}

// FileResult prints one file's outcome at one stage.
func (h *Human) FileResult(fr validate.FileResult) {
	if len(fr.Issues) == 0 {
		if !h.Quiet && fr.Stage == validate.StageDocument {
			fmt.Fprintf(h.w, "%s %s\n", okStyle.Render("ok"), fr.File)
		}
		return
	}

	for _, is := range fr.Issues {
		label := warnStyle.Render("warn")
		if is.IsError() {
			label = errStyle.Render("fail")
		}
		line := fmt.Sprintf("%s %s", label, fr.File)
		if is.Field != "" {
			line += mutedStyle.Render(" [" + is.Field + "]")
		}
		line += ": " + is.Message
		if len(is.RelatedIDs) > 0 {
			line += mutedStyle.Render(" (" + strings.Join(is.RelatedIDs, ", ") + ")")
		}
		fmt.Fprintln(h.w, line)
	}
}

// Summary prints the final validation summary line.
func (h *Human) Summary(s validate.Summary) {
	verdict := okStyle.Render("valid")
	if !s.OK {
		verdict = errStyle.Render("invalid")
	}
	fmt.Fprintf(h.w, "\n%s: %d files, %d parsed, %d errors, %d warnings (%dms)\n",
		verdict, s.FilesChecked, s.DocsParsed, s.Errors, s.Warnings, s.ElapsedMS)
}

// Dispatch prints the selection outcome: the chosen set, then skipped
// conflicts, then the remaining ranked candidates.
func (h *Human) Dispatch(res *dispatch.Result) {
	if len(res.Candidates) == 0 {
		fmt.Fprintln(h.w, mutedStyle.Render("no eligible tasks"))
		return
	}

	fmt.Fprintln(h.w, titleStyle.Render("Selected"))
	for i, cand := range res.Selected {
		fmt.Fprintf(h.w, "%2d. %s\n", i+1, h.candidateLine(cand))
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(h.w, titleStyle.Render("\nSkipped (conflicts)"))
		for _, sk := range res.Skipped {
			fmt.Fprintf(h.w, "    %s %s\n",
				boldStyle.Render(sk.Doc.ID()),
				mutedStyle.Render("conflicts with "+strings.Join(sk.ConflictsWith, ", ")))
		}
	}

	shown := len(res.Selected) + len(res.Skipped)
	if shown > len(res.Candidates) {
		shown = len(res.Candidates)
	}
	if rest := res.Candidates[shown:]; len(rest) > 0 {
		fmt.Fprintln(h.w, titleStyle.Render("\nAlso ranked"))
		for _, cand := range rest {
			fmt.Fprintf(h.w, "    %s\n", h.candidateLine(cand))
		}
	}
}

// candidateLine formats one candidate with its score breakdown.
func (h *Human) candidateLine(c dispatch.Candidate) string {
	t := &c.Doc.Task
	parts := []string{
		"prio=" + t.EffectivePriority().String(),
		"size=" + t.EffectiveSize().String(),
		"exec=" + t.EffectiveExecutor().String(),
		"iso=" + t.EffectiveIsolation().String(),
	}
	if c.Score.EpicInFlight {
		parts = append(parts, "epic-in-flight")
	}
	return fmt.Sprintf("%s %s %s",
		boldStyle.Render(c.Doc.ID()),
		util.TruncateString(t.Title, 48),
		mutedStyle.Render("("+strings.Join(parts, " ")+")"))
}

// List prints documents grouped by bucket in load order.
func (h *Human) List(docs []*task.Document) {
	bucket := ""
	for _, doc := range docs {
		if doc.Bucket != bucket {
			bucket = doc.Bucket
			fmt.Fprintln(h.w, titleStyle.Render(bucket+"/"))
		}
		status := doc.Task.Status.String()
		switch {
		case doc.Task.Status == task.StatusDone:
			status = okStyle.Render(status)
		case doc.Task.IsBlocked():
			status = errStyle.Render(status + " blocked")
		case doc.Task.Status == task.StatusInProgress:
			status = warnStyle.Render(status)
		default:
			status = mutedStyle.Render(status)
		}
		fmt.Fprintf(h.w, "  %-24s %-8s %s\n", doc.ID(), doc.Task.Kind, status)
	}
}
