package spec

import (
	"fmt"

	"clearline-hq/arbiter/pkg/decision"
)

// NotFoundError indicates no active spec matches a decision request key.
// This is fatal to the pipeline: no fallback spec is invented.
type NotFoundError struct {
	Organization string
	Domain       string
	Intent       string
	Stage        decision.Stage
}

// Error returns the error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no active spec for %s/%s/%s/%s",
		e.Organization, e.Domain, e.Intent, e.Stage)
}

// ValidationError collects structural integrity failures for one spec.
type ValidationError struct {
	SpecID string
	Errors []string
}

// Add appends a validation failure message.
func (e *ValidationError) Add(msg string) {
	e.Errors = append(e.Errors, msg)
}

// HasErrors reports whether any failures were collected.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("spec %s: validation error: %s", e.SpecID, e.Errors[0])
	}
	return fmt.Sprintf("spec %s: %d validation errors: %v", e.SpecID, len(e.Errors), e.Errors)
}

// RegistryError indicates a registry operation failure.
type RegistryError struct {
	SpecID    string
	Operation string
	Message   string
}

// Error returns the error message.
func (e *RegistryError) Error() string {
	if e.SpecID != "" {
		return fmt.Sprintf("spec registry %s: spec %s: %s", e.Operation, e.SpecID, e.Message)
	}
	return fmt.Sprintf("spec registry %s: %s", e.Operation, e.Message)
}

// LoadError indicates a spec file could not be read.
type LoadError struct {
	FilePath string
	Message  string
	Cause    error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("spec load failed for %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("spec load failed for %q: %s", e.FilePath, e.Message)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ParseError indicates a spec file could not be parsed.
type ParseError struct {
	FilePath string
	Cause    error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("spec parse failed for %q: %v", e.FilePath, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
