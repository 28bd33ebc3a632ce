package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/scope"
)

func TestValidateRequired_AllPresent(t *testing.T) {
	event := &decision.Event{Context: map[string]any{
		"amount":   float64(5000),
		"priority": "high",
	}}

	if err := ValidateRequired(event, transferSpec()); err != nil {
		t.Errorf("ValidateRequired() = %v, want nil", err)
	}
}

func TestValidateRequired_MissingRequiredSignal(t *testing.T) {
	event := &decision.Event{Context: map[string]any{"priority": "high"}}

	err := ValidateRequired(event, transferSpec())
	if err == nil {
		t.Fatal("expected error for missing required signal")
	}

	var reqErr *RequiredSignalError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequiredSignalError", err)
	}
	if reqErr.Signal != "amount" {
		t.Errorf("Signal = %q, want amount", reqErr.Signal)
	}
	if reqErr.SpecID != "transfer-governance" {
		t.Errorf("SpecID = %q", reqErr.SpecID)
	}
}

func TestValidateRequired_OptionalSignalsMayBeAbsent(t *testing.T) {
	// priority is optional; its absence is not an error.
	event := &decision.Event{Context: map[string]any{"amount": float64(10)}}

	if err := ValidateRequired(event, transferSpec()); err != nil {
		t.Errorf("ValidateRequired() = %v, want nil", err)
	}
}

// TestValidateRequired_FailClosedAfterPopulation covers the end of the
// population path: text without any numeral leaves the required amount
// unpopulated and validation fails closed.
func TestValidateRequired_FailClosedAfterPopulation(t *testing.T) {
	p := NewPopulator(nil, Config{}, nil, nil)
	event := &decision.Event{
		ID:     "dec-7",
		Domain: "payments",
		Scope: scope.Record{
			ID:     "payments.billing",
			Domain: "payments",
		},
		Context:   map[string]any{},
		Timestamp: time.Now().UTC(),
	}

	enriched, err := p.Populate(context.Background(), event, transferSpec(),
		"transfer funds when convenient")
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}

	var reqErr *RequiredSignalError
	if err := ValidateRequired(enriched, transferSpec()); !errors.As(err, &reqErr) {
		t.Fatalf("ValidateRequired() = %v, want *RequiredSignalError", err)
	}
}
