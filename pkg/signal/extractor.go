package signal

import (
	"context"

	"clearline-hq/arbiter/pkg/spec"
)

// Extraction is one assisted extraction result for a single signal.
type Extraction struct {
	// Value is the extracted signal value.
	Value any

	// Confidence is the extractor's self-reported confidence in [0, 1].
	// Results below the populator's threshold are discarded.
	Confidence float64
}

// Extractor is the contract for an externally supplied assisted extractor,
// typically model-backed. It receives only context-sourced signal
// definitions that deterministic extraction left unpopulated, and may
// return results for any subset of them.
//
// Implementations must honor ctx cancellation; the populator bounds every
// call with a timeout. Returned errors are absorbed by the populator and
// never abort a decision.
type Extractor interface {
	Extract(ctx context.Context, text string, defs []spec.SignalDef) (map[string]Extraction, error)
}
