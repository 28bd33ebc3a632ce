package pipeline

import (
	"fmt"

	"clearline-hq/arbiter/pkg/decision"
)

// RequestError indicates a structurally invalid decision request.
type RequestError struct {
	Field   string
	Message string
}

// Error returns the error message.
func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid decision request: %s: %s", e.Field, e.Message)
}

// VerdictNotPermittedError indicates evaluation resolved a verdict the
// governing spec does not permit. Binding validation makes this
// unreachable for loaded snapshots; it is asserted again before
// persistence because a verdict outside the contract must never be
// recorded.
type VerdictNotPermittedError struct {
	SpecID  string
	Verdict decision.Verdict
}

// Error returns the error message.
func (e *VerdictNotPermittedError) Error() string {
	return fmt.Sprintf("spec %s does not permit verdict %s", e.SpecID, e.Verdict)
}
