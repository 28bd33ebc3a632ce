// Package decision defines the immutable event types that flow through the
// decision pipeline: the inbound DecisionEvent describing an intent to act,
// the VerdictEvent the engine answers with, and the TimelineEntry records
// that make both explainable for compliance replay.
//
// All three types are append-only. Corrections require a new event, never a
// mutation; code that needs to change an event copies it first (see Clone).
//
// The package also owns the Verdict enumeration and its fixed precedence
// order (BLOCK > PAUSE > ALLOW > OBSERVE) used by verdict resolution.
package decision
