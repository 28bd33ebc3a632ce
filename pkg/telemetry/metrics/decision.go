package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DecisionMetrics tracks metrics for the decision pipeline.
//
// Metrics:
//   - arbiter_engine_decisions_total: Total decisions by domain, stage, status
//   - arbiter_engine_decision_duration_seconds: End-to-end pipeline duration
//   - arbiter_engine_verdicts_total: Issued verdicts by kind
type DecisionMetrics struct {
	decisionsTotal *prometheus.CounterVec

	decisionDuration *prometheus.HistogramVec

	verdictsTotal *prometheus.CounterVec
}

// NewDecisionMetrics creates and registers decision metrics with the
// provided registry.
func NewDecisionMetrics(cfg Config, registry *prometheus.Registry) *DecisionMetrics {
	dm := &DecisionMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Total number of decision requests processed",
			},
			[]string{"domain", "stage", "status"},
		),

		decisionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decision_duration_seconds",
				Help:      "End-to-end decision pipeline duration in seconds",
				// Evaluation is in-memory; only assisted extraction adds latency.
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs to ~27min
			},
			[]string{"domain"},
		),

		verdictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "verdicts_total",
				Help:      "Total number of issued verdicts by kind",
			},
			[]string{"domain", "stage", "verdict"},
		),
	}

	registry.MustRegister(
		dm.decisionsTotal,
		dm.decisionDuration,
		dm.verdictsTotal,
	)

	return dm
}

// RecordDecision records one completed pipeline run.
func (dm *DecisionMetrics) RecordDecision(domain, stage, status string, duration time.Duration) {
	dm.decisionsTotal.WithLabelValues(domain, stage, status).Inc()
	dm.decisionDuration.WithLabelValues(domain).Observe(duration.Seconds())
}

// RecordVerdict records an issued verdict.
func (dm *DecisionMetrics) RecordVerdict(domain, stage, verdict string) {
	dm.verdictsTotal.WithLabelValues(domain, stage, verdict).Inc()
}
