package signal

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/spec"
	"clearline-hq/arbiter/pkg/telemetry/metrics"
)

const (
	// DefaultConfidenceThreshold is the minimum assisted-extraction
	// confidence accepted when none is configured.
	DefaultConfidenceThreshold = 0.8

	// DefaultTimeout bounds a single assisted extractor call when no
	// timeout is configured.
	DefaultTimeout = 2 * time.Second
)

// Config controls assisted extraction behavior.
type Config struct {
	// AssistedEnabled turns the assisted extractor on. Deterministic
	// extraction always runs regardless.
	AssistedEnabled bool

	// ConfidenceThreshold is the minimum confidence for an assisted
	// result to be merged. Defaults to 0.8.
	ConfidenceThreshold float64

	// Timeout bounds one assisted extractor invocation. Defaults to 2s.
	Timeout time.Duration
}

// threshold returns the effective confidence threshold.
func (c Config) threshold() float64 {
	if c.ConfidenceThreshold <= 0 {
		return DefaultConfidenceThreshold
	}
	return c.ConfidenceThreshold
}

// timeout returns the effective extractor timeout.
func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Populator fills decision events with the signal values their governing
// spec declares. It is safe for concurrent use.
type Populator struct {
	assisted Extractor
	config   Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewPopulator creates a populator. assisted may be nil, in which case
// only verbatim copies and deterministic extraction run. metrics may be
// nil. If logger is nil, slog.Default() is used.
func NewPopulator(assisted Extractor, cfg Config, logger *slog.Logger, m *metrics.Metrics) *Populator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Populator{
		assisted: assisted,
		config:   cfg,
		logger:   logger.With("component", "populator"),
		metrics:  m,
	}
}

// Populate returns an enriched copy of event with every signal sp declares
// populated where a value could be established. The input event is never
// mutated and the unstructured text is never attached to the result.
//
// Assisted extraction failures are logged and absorbed; Populate only
// errors on nil inputs.
func (p *Populator) Populate(ctx context.Context, event *decision.Event, sp *spec.Spec, unstructured string) (*decision.Event, error) {
	if event == nil {
		return nil, &AssistedError{Message: "nil event"}
	}
	if sp == nil {
		return nil, &AssistedError{Message: "nil spec"}
	}

	enriched := event.Clone()

	for _, def := range sp.Signals {
		switch def.Source {
		case spec.SourceScope:
			// Scope values are authoritative and overwrite anything
			// the caller put in context under the same name.
			if v, ok := enriched.Scope.DimensionValue(def.Name); ok && v != "" {
				enriched.Context[def.Name] = v
				p.metrics.RecordSignalPopulated("scope")
			}

		case spec.SourceTimestamp:
			enriched.Context[def.Name] = enriched.Timestamp
			p.metrics.RecordSignalPopulated("timestamp")

		case spec.SourceContext:
			if _, ok := enriched.Context[def.Name]; ok {
				p.metrics.RecordSignalPopulated("caller")
				continue
			}
			if value, ok := extractDeterministic(unstructured, def); ok {
				enriched.Context[def.Name] = value
				p.metrics.RecordSignalPopulated("deterministic")
			}
		}
	}

	p.runAssisted(ctx, enriched, sp, unstructured)

	return enriched, nil
}

// extractDeterministic applies the type-specific pattern rule for def.
func extractDeterministic(text string, def spec.SignalDef) (any, bool) {
	switch def.Type {
	case spec.SignalNumber:
		if v, ok := extractNumber(text, def.Name); ok {
			return v, true
		}
	case spec.SignalEnum:
		if v, ok := extractEnum(text, def.Values); ok {
			return v, true
		}
	case spec.SignalBoolean:
		if v, ok := extractBoolean(text); ok {
			return v, true
		}
	case spec.SignalString:
		if v, ok := extractString(text, def.Values); ok {
			return v, true
		}
	}
	return nil, false
}

// runAssisted invokes the assisted extractor for context-sourced signals
// that remain unpopulated and merges accepted results into the event.
func (p *Populator) runAssisted(ctx context.Context, event *decision.Event, sp *spec.Spec, unstructured string) {
	if !p.config.AssistedEnabled || p.assisted == nil || unstructured == "" {
		return
	}

	missing := missingContextSignals(event, sp)
	if len(missing) == 0 {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, p.config.timeout())
	defer cancel()

	start := time.Now()
	results, err := p.assisted.Extract(callCtx, unstructured, missing)
	elapsed := time.Since(start)

	if err != nil {
		aerr := &AssistedError{Message: "extractor failed", Cause: err}
		p.logger.Warn("assisted extraction failed, continuing without it",
			"error", aerr, "missing_signals", len(missing))
		p.metrics.RecordAssistedExtraction("failed", elapsed)
		return
	}

	p.merge(event, sp, missing, results, elapsed)
}

// merge applies assisted results under the isolation rules: only signals
// in the missing set, confidence at or above threshold, value valid for
// the declared type. Nothing already populated is ever overwritten.
func (p *Populator) merge(event *decision.Event, sp *spec.Spec, missing []spec.SignalDef, results map[string]Extraction, elapsed time.Duration) {
	eligible := make(map[string]spec.SignalDef, len(missing))
	for _, def := range missing {
		eligible[def.Name] = def
	}

	applied := 0
	for name, result := range results {
		def, ok := eligible[name]
		if !ok {
			p.logger.Warn("assisted extractor returned undeclared or ineligible signal, dropping",
				"signal", name)
			continue
		}
		if _, populated := event.Context[name]; populated {
			continue
		}
		if result.Confidence < p.config.threshold() {
			p.logger.Debug("assisted result below confidence threshold, discarding",
				"signal", name, "confidence", result.Confidence)
			p.metrics.RecordAssistedExtraction("low_confidence", elapsed)
			continue
		}

		value, ok := coerceValue(def, result.Value)
		if !ok {
			p.logger.Warn("assisted result failed type validation, dropping",
				"signal", name, "type", def.Type)
			p.metrics.RecordAssistedExtraction("invalid_value", elapsed)
			continue
		}

		event.Context[name] = value
		p.metrics.RecordSignalPopulated("assisted")
		applied++
	}

	if applied > 0 {
		p.metrics.RecordAssistedExtraction("applied", elapsed)
	}
}

// missingContextSignals returns the context-sourced signal definitions
// that have no value yet, in declaration order.
func missingContextSignals(event *decision.Event, sp *spec.Spec) []spec.SignalDef {
	var missing []spec.SignalDef
	for _, def := range sp.ContextSignals() {
		if _, ok := event.Context[def.Name]; !ok {
			missing = append(missing, def)
		}
	}
	return missing
}

// coerceValue validates and normalizes an assisted value against the
// declared signal type. Numbers widen to float64; enum values must be a
// member of the declared set and are canonicalized to its spelling.
func coerceValue(def spec.SignalDef, value any) (any, bool) {
	switch def.Type {
	case spec.SignalNumber:
		switch v := value.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case int32:
			return float64(v), true
		case int64:
			return float64(v), true
		}
		return nil, false

	case spec.SignalBoolean:
		if v, ok := value.(bool); ok {
			return v, true
		}
		return nil, false

	case spec.SignalEnum:
		v, ok := value.(string)
		if !ok {
			return nil, false
		}
		for _, declared := range def.Values {
			if strings.EqualFold(v, declared) {
				return declared, true
			}
		}
		return nil, false

	case spec.SignalString:
		if v, ok := value.(string); ok && v != "" {
			return v, true
		}
		return nil, false
	}

	return nil, false
}
