// Package telemetry provides observability for the Arbiter decision engine.
//
// # Components
//
//   - logging: structured logging built on log/slog with configurable
//     level and format
//   - metrics: Prometheus metrics for decisions, verdicts, and signal
//     extraction outcomes
//   - health: liveness and readiness endpoints for run mode
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	registry := prometheus.NewRegistry()
//	m := metrics.New(metrics.Config{Enabled: true}, registry)
//	m.RecordVerdict("payments", "pre_commit", "PAUSE")
//
// The decision path is designed to stay fast; metric updates are plain
// pre-registered counter increments and logging is synchronous slog.
package telemetry
