package signal

import "fmt"

// RequiredSignalError indicates a signal the spec marks required is absent
// after population. The pipeline fails closed: the evaluator is never
// invoked for this decision.
type RequiredSignalError struct {
	Signal string
	SpecID string
}

// Error returns the error message.
func (e *RequiredSignalError) Error() string {
	return fmt.Sprintf("required signal %q missing after population (spec %s)", e.Signal, e.SpecID)
}

// AssistedError wraps a failure of the assisted extractor. It is logged and
// absorbed by the populator, never surfaced to the caller.
type AssistedError struct {
	Message string
	Cause   error
}

// Error returns the error message.
func (e *AssistedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("assisted extraction: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("assisted extraction: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *AssistedError) Unwrap() error {
	return e.Cause
}
