// Package health provides liveness and readiness checks for the decision
// engine's HTTP server.
//
// Liveness is a constant-time "process is up" answer. Readiness runs every
// registered component check (audit store, spec registry, policy snapshot)
// concurrently and reports degraded when any of them fails, so orchestrators
// stop routing traffic while the engine cannot decide safely.
package health
