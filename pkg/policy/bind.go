package policy

import (
	"fmt"

	"clearline-hq/arbiter/pkg/scope"
	"clearline-hq/arbiter/pkg/spec"
)

// Bind verifies the referential integrity of a snapshot against the active
// decision contracts and the scope catalog:
//
//   - every policy's spec_id must name an active spec;
//   - every policy's scope_id must name a catalogued scope, and the policy
//     selector's domain must agree with that scope's domain;
//   - every condition field must be a signal the bound spec declares or a
//     scope dimension;
//   - the policy's verdict must be one the bound spec permits.
//
// Any failure returns a *BindingError and the snapshot must be rejected
// wholesale: an invalid policy set prevents startup.
func Bind(snap *Snapshot, activeSpecs []*spec.Spec, scopes *scope.Catalog) error {
	specsByID := make(map[string]*spec.Spec, len(activeSpecs))
	for _, s := range activeSpecs {
		specsByID[s.ID] = s
	}

	for _, p := range snap.Policies {
		bound, ok := specsByID[p.SpecID]
		if !ok {
			return &BindingError{
				PolicyID: p.ID,
				Field:    "spec_id",
				Message:  fmt.Sprintf("no active spec %q", p.SpecID),
			}
		}

		sc, ok := scopes.Get(p.ScopeID)
		if !ok {
			return &BindingError{
				PolicyID: p.ID,
				Field:    "scope_id",
				Message:  fmt.Sprintf("no scope %q", p.ScopeID),
			}
		}
		if sc.Selector.Domain != p.Scope.Domain {
			return &BindingError{
				PolicyID: p.ID,
				Field:    "scope",
				Message: fmt.Sprintf("selector domain %q disagrees with scope %q domain %q",
					p.Scope.Domain, p.ScopeID, sc.Selector.Domain),
			}
		}

		if !bound.PermitsVerdict(p.Verdict) {
			return &BindingError{
				PolicyID: p.ID,
				Field:    "verdict",
				Message:  fmt.Sprintf("spec %q does not permit verdict %q", p.SpecID, p.Verdict),
			}
		}

		for _, c := range p.Conditions {
			if bound.DeclaresSignal(c.Field) || scope.IsDimension(c.Field) {
				continue
			}
			return &BindingError{
				PolicyID: p.ID,
				Field:    c.Field,
				Message:  fmt.Sprintf("spec %q declares no signal %q", p.SpecID, c.Field),
			}
		}
	}

	return nil
}
