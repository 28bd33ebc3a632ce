package scope

import "fmt"

// IsolationError indicates a scope identifier that does not carry its
// declared domain as a prefix. Writes carrying such identifiers are
// rejected at the data boundary.
type IsolationError struct {
	ScopeID string
	Domain  string
	Message string
}

// Error returns the error message.
func (e *IsolationError) Error() string {
	return fmt.Sprintf("scope isolation violation for scope %q (domain %q): %s", e.ScopeID, e.Domain, e.Message)
}
