// Package scope defines governance scopes: the slice of an organization a
// policy governs and the slice a decision event occurred in.
//
// A policy carries a Selector; a decision event carries a Record. Matching
// is exact and flat: the domain must match exactly (the non-negotiable
// governance boundary), and each optional dimension on the selector side
// either is absent (matches anything) or must equal the record's value
// exactly. There is no substring matching, hierarchy traversal, or
// inheritance between scopes.
//
// Scope identifiers are stable human-readable strings that must carry their
// domain as a prefix. Identifiers that violate this rule are rejected at the
// data boundary, never silently corrected.
package scope
