package engine

import (
	"fmt"

	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/policy"
	"clearline-hq/arbiter/pkg/scope"
	"clearline-hq/arbiter/pkg/spec"
)

// Result is the outcome of evaluating one decision against a snapshot.
type Result struct {
	// Verdict is the resolved final verdict.
	Verdict decision.Verdict

	// MatchedPolicyIDs lists every policy whose scope and conditions
	// matched, in snapshot order. All of them, not just the winner.
	MatchedPolicyIDs []string

	// EvaluatedPolicies is the number of policies considered (those bound
	// to the governing spec).
	EvaluatedPolicies int
}

// Evaluate runs every policy in the snapshot bound to the governing spec
// against the decision event: scope match first, then the AND-fold of
// conditions. Matches are collected and reduced to a single verdict by the
// fixed precedence order; zero matches resolve to ALLOW.
//
// Evaluate is pure: it performs no I/O, reads no clock, and mutates none
// of its inputs. Calling it repeatedly with the same inputs returns
// identical results.
func Evaluate(event *decision.Event, sp *spec.Spec, snap *policy.Snapshot) (*Result, error) {
	if event == nil {
		return nil, fmt.Errorf("decision event cannot be nil")
	}
	if sp == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}
	if snap == nil {
		return nil, fmt.Errorf("policy snapshot cannot be nil")
	}

	bound := snap.PoliciesForSpec(sp.ID)

	var (
		matchedIDs      []string
		matchedVerdicts []decision.Verdict
	)

	for _, p := range bound {
		if !scope.Matches(p.Scope, event.Scope) {
			continue
		}
		if !allConditionsMatch(p, event) {
			continue
		}
		matchedIDs = append(matchedIDs, p.ID)
		matchedVerdicts = append(matchedVerdicts, p.Verdict)
	}

	return &Result{
		Verdict:           decision.ResolveVerdicts(matchedVerdicts),
		MatchedPolicyIDs:  matchedIDs,
		EvaluatedPolicies: len(bound),
	}, nil
}

// allConditionsMatch is the AND-fold over a policy's conditions. A policy
// with no conditions matches whenever its scope matches.
func allConditionsMatch(p *policy.Policy, event *decision.Event) bool {
	for _, c := range p.Conditions {
		if !EvaluateCondition(c, event) {
			return false
		}
	}
	return true
}
