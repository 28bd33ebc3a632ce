package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled turns metric recording on. When false all Record methods
	// are no-ops.
	Enabled bool

	// Namespace is the Prometheus namespace (defaults to "arbiter").
	Namespace string

	// Subsystem is the Prometheus subsystem (defaults to "engine").
	Subsystem string
}

// Metrics is the collector for all Arbiter Prometheus metrics. It manages
// metric registration and provides a unified recording interface for the
// decision pipeline and the signal populator.
//
// All Record methods are safe to call on a nil *Metrics, so components can
// treat metrics as optional.
type Metrics struct {
	config   Config
	registry *prometheus.Registry

	decisions  *DecisionMetrics
	extraction *ExtractionMetrics
}

// New creates a metrics collector registered on the given registry.
// If registry is nil a new one is created; retrieve it with Registry()
// to expose it over HTTP.
func New(cfg Config, registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "arbiter"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "engine"
	}

	return &Metrics{
		config:     cfg,
		registry:   registry,
		decisions:  NewDecisionMetrics(cfg, registry),
		extraction: NewExtractionMetrics(cfg, registry),
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordDecision records one completed pipeline run.
// status is "success" or the failure class ("spec_not_found",
// "missing_signal", "audit_error").
func (m *Metrics) RecordDecision(domain, stage, status string, duration time.Duration) {
	if m == nil || !m.config.Enabled {
		return
	}
	m.decisions.RecordDecision(domain, stage, status, duration)
}

// RecordVerdict records an issued verdict by kind.
func (m *Metrics) RecordVerdict(domain, stage, verdict string) {
	if m == nil || !m.config.Enabled {
		return
	}
	m.decisions.RecordVerdict(domain, stage, verdict)
}

// RecordSignalPopulated records one populated signal by its population
// source ("scope", "timestamp", "caller", "deterministic", "assisted").
func (m *Metrics) RecordSignalPopulated(source string) {
	if m == nil || !m.config.Enabled {
		return
	}
	m.extraction.RecordSignalPopulated(source)
}

// RecordAssistedExtraction records the outcome of one assisted extractor
// invocation ("applied", "low_confidence", "invalid_value", "failed").
func (m *Metrics) RecordAssistedExtraction(outcome string, duration time.Duration) {
	if m == nil || !m.config.Enabled {
		return
	}
	m.extraction.RecordAssisted(outcome, duration)
}
