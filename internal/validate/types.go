// Package validate checks the task forest for structural soundness.
//
// Validation runs in two layers. Per-document checks are independent and
// side-effect free, so the streaming runner fans them out across a bounded
// worker pool while still delivering results to the caller in original
// document order. Cross-document checks (duplicate ids, dangling
// references, hierarchy depth and cycles, done-parent consistency) run once,
// synchronously, over the successfully parsed subset.
package validate

// Severity represents the severity level of a validation issue.
//
// Errors block success; warnings are advisory unless strict mode promotes
// them to errors.
type Severity string

const (
	// SeverityError indicates a blocking issue that must be fixed.
	// Examples: hierarchy cycles, dangling references, duplicate ids.
	SeverityError Severity = "error"

	// SeverityWarning indicates a potential issue that should be reviewed.
	// Examples: an idea-state parent owning done children, a document
	// filed under the wrong lifecycle bucket.
	SeverityWarning Severity = "warning"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Issue represents a single validation finding with structured context.
type Issue struct {
	// Severity indicates how critical this issue is.
	Severity Severity `json:"severity"`

	// Message is a human-readable description of the issue.
	Message string `json:"message"`

	// TaskID identifies the task this issue relates to.
	// Empty for file-level issues with no parsed task.
	TaskID string `json:"task_id,omitempty"`

	// Field identifies the specific field causing the issue.
	// Examples: "kind", "depends_on", "children".
	Field string `json:"field,omitempty"`

	// RelatedIDs lists other task IDs involved in this issue.
	// Used for cycles, duplicate claims, and cross-task findings.
	RelatedIDs []string `json:"related_ids,omitempty"`
}

// IsError returns true if this issue is an error.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError
}

// IsWarning returns true if this issue is a warning.
func (i Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// escalate promotes warnings to errors. Applied to every finding when
// strict mode is requested.
func escalate(issues []Issue) []Issue {
	for n := range issues {
		if issues[n].Severity == SeverityWarning {
			issues[n].Severity = SeverityError
		}
	}
	return issues
}

// countBySeverity tallies errors and warnings in one pass.
func countBySeverity(issues []Issue) (errors, warnings int) {
	for _, is := range issues {
		switch is.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
