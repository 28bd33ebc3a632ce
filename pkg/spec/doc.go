// Package spec defines immutable decision contracts and the registry that
// resolves the single active contract for a decision request.
//
// A Spec is keyed by (organization, domain, intent, stage) and declares the
// signals a policy may reference, the verdicts it permits, and its
// enforcement semantics. Once activated a spec's fields never change;
// evolution happens by registering a new version and deprecating the old
// one. The registry holds deep copies and hands out deep copies, so no
// caller can mutate an active contract.
//
// Specs can be authored as YAML files and loaded with LoadFromFile or
// LoadFromDirectory.
package spec
