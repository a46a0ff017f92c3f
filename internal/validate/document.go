package validate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/t-hobson/trellis/internal/loader"
	"github.com/t-hobson/trellis/internal/task"
)

// Body sections required by lifecycle state. Acceptance criteria must be
// present once a task is actionable; a wrap-up section is required once it
// is done.
const (
	acceptanceHeading = "## Acceptance"
	outcomeHeading    = "## Outcome"
)

// CheckDocument applies all per-document rules to a single parsed document:
// schema conformance, enum membership, state-conditioned required sections,
// and filename/bucket conventions. It never consults other documents.
func CheckDocument(doc *task.Document) []Issue {
	var issues []Issue
	t := &doc.Task

	switch {
	case t.ID == "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  "document has no id",
			Field:    "id",
		})
	case !task.IsValidID(t.ID):
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("id %q is not a lowercase hyphenated slug", t.ID),
			TaskID:   t.ID,
			Field:    "id",
		})
	}

	if strings.TrimSpace(t.Title) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  "document has no title",
			TaskID:   t.ID,
			Field:    "title",
		})
	}

	issues = append(issues, checkEnums(t)...)

	if t.Kind == task.KindTask && t.HasChildren() {
		issues = append(issues, Issue{
			Severity:   SeverityError,
			Message:    "plain tasks cannot own children",
			TaskID:     t.ID,
			Field:      "children",
			RelatedIDs: t.Children,
		})
	}

	issues = append(issues, checkSections(doc)...)
	issues = append(issues, checkConventions(doc)...)

	return issues
}

// checkEnums validates every enum-typed field. Empty optional fields are
// allowed and resolve to their defaults.
func checkEnums(t *task.Task) []Issue {
	var issues []Issue

	if !t.Kind.IsValid() {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("kind %q is not one of epic, story, task", t.Kind),
			TaskID:   t.ID,
			Field:    "kind",
		})
	}
	if !t.Status.IsValid() {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("status %q is not a recognized lifecycle state", t.Status),
			TaskID:   t.ID,
			Field:    "status",
		})
	}
	if t.Priority != "" && !t.Priority.IsValid() {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("priority %q is not recognized", t.Priority),
			TaskID:   t.ID,
			Field:    "priority",
		})
	}
	if t.Size != "" && !t.Size.IsValid() {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("size %q is not recognized", t.Size),
			TaskID:   t.ID,
			Field:    "size",
		})
	}
	if t.Ambiguity != "" && !t.Ambiguity.IsValid() {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("ambiguity %q is not recognized", t.Ambiguity),
			TaskID:   t.ID,
			Field:    "ambiguity",
		})
	}
	if t.Executor != "" && !t.Executor.IsValid() {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("executor %q is not recognized", t.Executor),
			TaskID:   t.ID,
			Field:    "executor",
		})
	}
	if t.Isolation != "" && !t.Isolation.IsValid() {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("isolation %q is not recognized", t.Isolation),
			TaskID:   t.ID,
			Field:    "isolation",
		})
	}

	return issues
}

// checkSections enforces state-conditioned body sections.
func checkSections(doc *task.Document) []Issue {
	var issues []Issue
	t := &doc.Task

	hasHeading := func(h string) bool {
		for _, line := range strings.Split(doc.Body, "\n") {
			if strings.TrimSpace(line) == h {
				return true
			}
		}
		return false
	}

	if t.Status.IsActive() && !hasHeading(acceptanceHeading) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("%s tasks require an %q section", t.Status, acceptanceHeading),
			TaskID:   t.ID,
			Field:    "body",
		})
	}
	if t.Status == task.StatusDone && !hasHeading(outcomeHeading) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("done tasks require an %q section", outcomeHeading),
			TaskID:   t.ID,
			Field:    "body",
		})
	}

	return issues
}

// checkConventions verifies the filename matches the id and the document
// lives in the bucket its status maps to. Misfiling is a warning; repair
// normalizes it.
func checkConventions(doc *task.Document) []Issue {
	var issues []Issue
	t := &doc.Task

	if doc.Path == "" || t.ID == "" {
		return nil
	}

	if base := filepath.Base(doc.Path); base != task.CanonicalFilename(t.ID) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("filename %q does not match id (want %q)", base, task.CanonicalFilename(t.ID)),
			TaskID:   t.ID,
			Field:    "filename",
		})
	}

	if doc.Bucket != "" && t.Status.IsValid() {
		if want := loader.BucketForStatus(t.Status); doc.Bucket != want {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("status %s belongs in %s/ but file is under %s/", t.Status, want, doc.Bucket),
				TaskID:   t.ID,
				Field:    "status",
			})
		}
	}

	return issues
}
