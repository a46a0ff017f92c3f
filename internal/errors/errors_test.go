package errors

import (
	stderrors "errors"
	"testing"
)

func TestNotFoundErrorIs(t *testing.T) {
	err := NewNotFoundError("task", "auth-epic")
	if !Is(err, ErrTaskNotFound) {
		t.Error("task NotFoundError should match ErrTaskNotFound")
	}
	if got := err.Error(); got != "task not found: auth-epic" {
		t.Errorf("Error() = %q", got)
	}

	bucket := NewNotFoundError("bucket", "backlog")
	if Is(bucket, ErrTaskNotFound) {
		t.Error("non-task NotFoundError should not match ErrTaskNotFound")
	}
}

func TestLoadErrorWrapping(t *testing.T) {
	cause := stderrors.New("yaml: line 3: mapping values are not allowed")
	err := NewLoadError("backlog/foo.md", cause)

	if !Is(err, cause) {
		t.Error("LoadError should unwrap to its cause")
	}
	if !IsParseFailure(err) {
		t.Error("IsParseFailure(LoadError) = false, want true")
	}
	if IsParseFailure(cause) {
		t.Error("IsParseFailure(bare error) = true, want false")
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := NewValidationError("kind", "must be one of epic, story, task")
	if got := err.Error(); got != "kind: must be one of epic, story, task" {
		t.Errorf("Error() = %q", got)
	}
	bare := NewValidationError("", "document is empty")
	if got := bare.Error(); got != "document is empty" {
		t.Errorf("Error() = %q", got)
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}
