package signal

import (
	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/spec"
)

// ValidateRequired verifies that every signal sp marks required carries a
// value in the event context after population. The first missing required
// signal, in declaration order, is returned as a *RequiredSignalError.
//
// Optional signals left unpopulated are simply absent; conditions that
// reference them match nothing, which is not an error.
func ValidateRequired(event *decision.Event, sp *spec.Spec) error {
	for _, def := range sp.RequiredSignals() {
		if _, ok := event.Context[def.Name]; !ok {
			return &RequiredSignalError{Signal: def.Name, SpecID: sp.ID}
		}
	}
	return nil
}
