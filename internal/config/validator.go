package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "validate.workers")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidExecutorTiers returns the list of valid executor tier preferences.
// Empty string means no preference.
func ValidExecutorTiers() []string {
	return []string{"", "fast", "standard", "deep"}
}

func (c *ValidateConfig) validate() []ValidationError {
	var errs []ValidationError
	if c.Workers < 0 {
		errs = append(errs, ValidationError{
			Field:   "validate.workers",
			Value:   c.Workers,
			Message: "must be zero (auto) or positive",
		})
	}
	if c.MinFilesForPool < 0 {
		errs = append(errs, ValidationError{
			Field:   "validate.min_files_for_pool",
			Value:   c.MinFilesForPool,
			Message: "must not be negative",
		})
	}
	return errs
}

func (c *DispatchConfig) validate() []ValidationError {
	var errs []ValidationError
	if c.Count < 0 {
		errs = append(errs, ValidationError{
			Field:   "dispatch.count",
			Value:   c.Count,
			Message: "must not be negative",
		})
	}
	if c.Parallel < 0 {
		errs = append(errs, ValidationError{
			Field:   "dispatch.parallel",
			Value:   c.Parallel,
			Message: "must not be negative",
		})
	}
	if !slices.Contains(ValidExecutorTiers(), c.Executor) {
		errs = append(errs, ValidationError{
			Field:   "dispatch.executor",
			Value:   c.Executor,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidExecutorTiers()[1:], ", ")),
		})
	}
	return errs
}

func (c *LoggingConfig) validate() []ValidationError {
	var errs []ValidationError
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	return errs
}
