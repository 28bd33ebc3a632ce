// Package server provides the HTTP API for the arbiter decision engine.
//
// The server exposes the decision endpoint, read-only audit queries, and
// the operational endpoints (health, readiness, version, metrics):
//
//	POST /v1/decisions                  submit a decision request
//	GET  /v1/decisions                  query recorded decision events
//	GET  /v1/decisions/{id}/timeline    fetch the timeline of one decision
//	GET  /v1/verdicts                   query recorded verdicts
//	GET  /health                        liveness probe
//	GET  /ready                         readiness probe
//	GET  /version                       build information
//	GET  /metrics                       Prometheus exposition
//
// All handlers run behind a middleware chain (recovery, request ID,
// logging, timeout) assembled in setupRoutes.
package server
