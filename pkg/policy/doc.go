// Package policy defines governance policies and the immutable snapshots
// they are evaluated as.
//
// A policy is one flat assertion: bound to exactly one spec and one scope,
// carrying an AND-folded list of conditions and exactly one verdict it may
// emit. Conditions use a closed operator set with strongly-typed literal
// values; unknown operators and malformed literals are rejected when a
// snapshot is loaded, never at evaluation time.
//
// Policies are grouped into versioned, immutable snapshots loaded as a
// unit. Every verdict records the snapshot it was evaluated against, so
// historical decisions remain replayable. Binding integrity (spec, scope,
// and signal references) is checked wholesale at load time by Bind; an
// invalid policy set prevents startup rather than silently skipping the
// bad policy.
package policy
