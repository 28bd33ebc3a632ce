package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ExtractionMetrics tracks metrics for signal population.
//
// Metrics:
//   - arbiter_engine_signals_populated_total: Populated signals by source
//   - arbiter_engine_assisted_extractions_total: Assisted extractor outcomes
//   - arbiter_engine_assisted_duration_seconds: Assisted extractor latency
type ExtractionMetrics struct {
	signalsPopulated *prometheus.CounterVec

	assistedTotal *prometheus.CounterVec

	assistedDuration prometheus.Histogram
}

// NewExtractionMetrics creates and registers extraction metrics with the
// provided registry.
func NewExtractionMetrics(cfg Config, registry *prometheus.Registry) *ExtractionMetrics {
	em := &ExtractionMetrics{
		signalsPopulated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "signals_populated_total",
				Help:      "Total number of populated signals by population source",
			},
			[]string{"source"},
		),

		assistedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "assisted_extractions_total",
				Help:      "Total number of assisted extractor invocations by outcome",
			},
			[]string{"outcome"},
		),

		assistedDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "assisted_duration_seconds",
				Help:      "Duration of assisted extractor invocations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
		),
	}

	registry.MustRegister(
		em.signalsPopulated,
		em.assistedTotal,
		em.assistedDuration,
	)

	return em
}

// RecordSignalPopulated records one populated signal.
func (em *ExtractionMetrics) RecordSignalPopulated(source string) {
	em.signalsPopulated.WithLabelValues(source).Inc()
}

// RecordAssisted records one assisted extractor invocation.
func (em *ExtractionMetrics) RecordAssisted(outcome string, duration time.Duration) {
	em.assistedTotal.WithLabelValues(outcome).Inc()
	em.assistedDuration.Observe(duration.Seconds())
}
