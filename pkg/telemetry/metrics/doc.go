// Package metrics provides Prometheus metrics for the Arbiter decision
// engine.
//
// Metrics are registered on an injected *prometheus.Registry so tests and
// embedders can isolate their metric namespaces. The collector covers two
// subsystems: decision pipeline throughput/latency and signal extraction
// outcomes.
//
// All recording methods are nil-safe; components that receive no collector
// simply record nothing.
package metrics
