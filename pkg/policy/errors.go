package policy

import "fmt"

// BindingError indicates a policy references a spec, scope, or signal that
// does not exist. Binding is a configuration-time integrity failure: an
// invalid policy set prevents startup rather than silently skipping the
// bad policy.
type BindingError struct {
	PolicyID string
	Field    string
	Message  string
}

// Error returns the error message.
func (e *BindingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("policy %s: binding error on %q: %s", e.PolicyID, e.Field, e.Message)
	}
	return fmt.Sprintf("policy %s: binding error: %s", e.PolicyID, e.Message)
}

// LoadError indicates a policy file could not be read.
type LoadError struct {
	FilePath string
	Message  string
	Cause    error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("policy load failed for %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("policy load failed for %q: %s", e.FilePath, e.Message)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ParseError indicates a policy file could not be parsed.
type ParseError struct {
	FilePath string
	Cause    error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("policy parse failed for %q: %v", e.FilePath, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
