// Package errors provides centralized error definitions and error handling
// utilities for the Trellis codebase. It defines domain-specific errors,
// semantic error types, and classification helpers.
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - LoadError: errors related to reading and parsing task documents
//   - RepairError: errors related to repairing the task directory layout
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// Callers import only this package for all error handling; the standard
// library helpers are re-exported for convenience.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityWarning is for errors that might indicate a problem but do
	// not block a run on their own.
	SeverityWarning Severity = iota
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Document-related sentinel errors
var (
	// ErrTaskNotFound indicates that a task id could not be resolved.
	ErrTaskNotFound = New("task not found")
	// ErrDuplicateID indicates two documents share the same id.
	ErrDuplicateID = New("duplicate task id")
	// ErrMissingFrontmatter indicates a document has no frontmatter block.
	ErrMissingFrontmatter = New("missing frontmatter")
	// ErrUnterminatedFrontmatter indicates a frontmatter block never closes.
	ErrUnterminatedFrontmatter = New("unterminated frontmatter")
)

// Hierarchy-related sentinel errors
var (
	// ErrHierarchyCycle indicates a task is its own transitive ancestor.
	ErrHierarchyCycle = New("hierarchy cycle detected")
	// ErrDepthExceeded indicates the epic→story→task depth bound was broken.
	ErrDepthExceeded = New("hierarchy depth exceeded")
)

// Repair-related sentinel errors
var (
	// ErrRepairLocked indicates another process holds the repair lock.
	ErrRepairLocked = New("repair already in progress")
	// ErrNotTaskDir indicates the directory is not a trellis task root.
	ErrNotTaskDir = New("not a trellis task directory")
)

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError indicates a named resource could not be found.
type NotFoundError struct {
	// Resource is the kind of thing that was missing ("task", "bucket").
	Resource string
	// ID identifies the specific instance that was missing.
	ID string
}

// NewNotFoundError creates a NotFoundError for the given resource and id.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Is reports whether the target is ErrTaskNotFound for task resources.
func (e *NotFoundError) Is(target error) bool {
	return e.Resource == "task" && target == ErrTaskNotFound
}

// ValidationError indicates a document or argument violates required
// structure.
type ValidationError struct {
	// Field is the offending field or flag name.
	Field string
	// Message describes the violation.
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// LoadError represents a failure to read or parse a task document.
// It is scoped to a single file and never aborts a whole run.
type LoadError struct {
	// File is the path of the document that failed.
	File string
	// cause is the underlying error.
	cause error
}

// NewLoadError creates a LoadError for the given file.
func NewLoadError(file string, cause error) *LoadError {
	return &LoadError{File: file, cause: cause}
}

// Error returns the formatted error message.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.File, e.cause)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.cause
}

// RepairError represents a failure while repairing the task directory.
type RepairError struct {
	// Path is the file or directory the repair step was operating on.
	Path string
	// cause is the underlying error.
	cause error
}

// NewRepairError creates a RepairError for the given path.
func NewRepairError(path string, cause error) *RepairError {
	return &RepairError{Path: path, cause: cause}
}

// Error returns the formatted error message.
func (e *RepairError) Error() string {
	return fmt.Sprintf("repair %s: %v", e.Path, e.cause)
}

// Unwrap returns the underlying error.
func (e *RepairError) Unwrap() error {
	return e.cause
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return As(err, &nf) || Is(err, ErrTaskNotFound)
}

// IsParseFailure returns true if the error is a per-file load failure that
// should be folded into the validation stream instead of aborting.
func IsParseFailure(err error) bool {
	var le *LoadError
	return As(err, &le)
}
