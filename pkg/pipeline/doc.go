// Package pipeline orchestrates one decision from request to audited
// verdict.
//
// The pipeline is the only stateful layer of the engine. Each call to
// Decide runs the fixed sequence:
//
//  1. resolve the active spec for (organization, domain, intent, stage);
//     no match is fatal, no fallback spec is invented
//  2. record the reception timeline entry
//  3. populate declared signals (assisted failures are absorbed)
//  4. validate required signals; a missing one fails closed and the
//     evaluator never runs
//  5. evaluate the event against the current policy snapshot
//  6. build the verdict event and append decision, verdict, and issuance
//     timeline entry to the audit sink
//
// The policy snapshot handle is captured once per call; a concurrent
// snapshot swap never affects an in-flight decision. The resolved spec is
// likewise locked to its version for the whole run.
package pipeline
