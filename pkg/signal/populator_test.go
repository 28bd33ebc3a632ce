package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/scope"
	"clearline-hq/arbiter/pkg/spec"
)

// mockExtractor is a scriptable assisted extractor.
type mockExtractor struct {
	results map[string]Extraction
	err     error
	block   bool

	calls   int
	gotText string
	gotDefs []spec.SignalDef
}

func (m *mockExtractor) Extract(ctx context.Context, text string, defs []spec.SignalDef) (map[string]Extraction, error) {
	m.calls++
	m.gotText = text
	m.gotDefs = defs
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func transferSpec() *spec.Spec {
	return &spec.Spec{
		ID:      "transfer-governance",
		Version: "1.0.0",
		Key: spec.Key{
			Organization: "acme",
			Domain:       "payments",
			Intent:       "transfer_funds",
			Stage:        decision.StagePreCommit,
		},
		Signals: []spec.SignalDef{
			{Name: "environment", Type: spec.SignalString, Source: spec.SourceScope},
			{Name: "requested_at", Type: spec.SignalString, Source: spec.SourceTimestamp},
			{Name: "amount", Type: spec.SignalNumber, Required: true, Source: spec.SourceContext},
			{Name: "priority", Type: spec.SignalEnum, Values: []string{"low", "normal", "high", "critical"}, Source: spec.SourceContext},
		},
		AllowedVerdicts: decision.AllVerdicts(),
	}
}

func transferEvent() *decision.Event {
	return &decision.Event{
		ID:     "dec-1",
		Domain: "payments",
		Scope: scope.Record{
			ID:          "payments.billing",
			Domain:      "payments",
			Service:     "billing",
			Environment: "production",
		},
		Context:   map[string]any{},
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestPopulate_DeterministicExtraction(t *testing.T) {
	p := NewPopulator(nil, Config{}, nil, nil)

	enriched, err := p.Populate(context.Background(), transferEvent(), transferSpec(),
		"Transfer $5000 with high priority")
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}

	if got := enriched.Context["amount"]; got != float64(5000) {
		t.Errorf("amount = %v, want 5000", got)
	}
	if got := enriched.Context["priority"]; got != "high" {
		t.Errorf("priority = %v, want high", got)
	}
}

func TestPopulate_ScopeAndTimestampCopiedVerbatim(t *testing.T) {
	p := NewPopulator(nil, Config{}, nil, nil)
	event := transferEvent()

	enriched, err := p.Populate(context.Background(), event, transferSpec(), "")
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}

	if got := enriched.Context["environment"]; got != "production" {
		t.Errorf("environment = %v, want production", got)
	}
	if got := enriched.Context["requested_at"]; got != event.Timestamp {
		t.Errorf("requested_at = %v, want %v", got, event.Timestamp)
	}
}

func TestPopulate_ScopeValueOverridesCallerContext(t *testing.T) {
	p := NewPopulator(nil, Config{}, nil, nil)
	event := transferEvent()
	event.Context["environment"] = "sandbox"

	enriched, err := p.Populate(context.Background(), event, transferSpec(), "")
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if got := enriched.Context["environment"]; got != "production" {
		t.Errorf("environment = %v, scope record must win over caller context", got)
	}
}

func TestPopulate_CallerValueSkipsExtraction(t *testing.T) {
	p := NewPopulator(nil, Config{}, nil, nil)
	event := transferEvent()
	event.Context["amount"] = float64(75)

	enriched, err := p.Populate(context.Background(), event, transferSpec(),
		"Transfer $5000 with high priority")
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if got := enriched.Context["amount"]; got != float64(75) {
		t.Errorf("amount = %v, caller-supplied value must be kept", got)
	}
}

func TestPopulate_DeterministicWinsOverAssisted(t *testing.T) {
	// The extractor claims amount=1 with near-certain confidence; the
	// deterministic result must stand.
	mock := &mockExtractor{results: map[string]Extraction{
		"amount": {Value: float64(1), Confidence: 0.99},
	}}
	p := NewPopulator(mock, Config{AssistedEnabled: true}, nil, nil)

	enriched, err := p.Populate(context.Background(), transferEvent(), transferSpec(),
		"Transfer $5000 with high priority")
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if got := enriched.Context["amount"]; got != float64(5000) {
		t.Errorf("amount = %v, deterministic extraction must win", got)
	}
}

func TestPopulate_AssistedFillsOnlyMissingSignals(t *testing.T) {
	mock := &mockExtractor{results: map[string]Extraction{
		"priority": {Value: "critical", Confidence: 0.95},
	}}
	p := NewPopulator(mock, Config{AssistedEnabled: true}, nil, nil)

	// The text yields amount deterministically but no priority token.
	enriched, err := p.Populate(context.Background(), transferEvent(), transferSpec(),
		"Transfer $5000 right away")
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}

	if got := enriched.Context["priority"]; got != "critical" {
		t.Errorf("priority = %v, want critical from assisted extraction", got)
	}
	if len(mock.gotDefs) != 1 || mock.gotDefs[0].Name != "priority" {
		t.Errorf("extractor saw defs %v, want only the missing priority signal", mock.gotDefs)
	}
}

func TestPopulate_AssistedNeverSeesScopeOrTimestampSignals(t *testing.T) {
	mock := &mockExtractor{results: map[string]Extraction{
		"environment":  {Value: "sandbox", Confidence: 1.0},
		"requested_at": {Value: "1999-01-01", Confidence: 1.0},
	}}
	p := NewPopulator(mock, Config{AssistedEnabled: true}, nil, nil)
	event := transferEvent()

	enriched, err := p.Populate(context.Background(), event, transferSpec(),
		"no amount here at all")
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}

	for _, def := range mock.gotDefs {
		if def.Source != spec.SourceContext {
			t.Errorf("extractor received %s-sourced signal %q", def.Source, def.Name)
		}
	}
	if got := enriched.Context["environment"]; got != "production" {
		t.Errorf("environment = %v, assisted result for scope signal must be ignored", got)
	}
	if got := enriched.Context["requested_at"]; got != event.Timestamp {
		t.Errorf("requested_at = %v, assisted result for timestamp signal must be ignored", got)
	}
}

func TestPopulate_ConfidenceThreshold(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		threshold  float64
		wantSet    bool
	}{
		{name: "below default threshold", confidence: 0.79, wantSet: false},
		{name: "at default threshold", confidence: 0.8, wantSet: true},
		{name: "above default threshold", confidence: 0.95, wantSet: true},
		{name: "custom threshold rejects", confidence: 0.85, threshold: 0.9, wantSet: false},
		{name: "custom threshold accepts", confidence: 0.92, threshold: 0.9, wantSet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockExtractor{results: map[string]Extraction{
				"priority": {Value: "high", Confidence: tt.confidence},
			}}
			p := NewPopulator(mock, Config{
				AssistedEnabled:     true,
				ConfidenceThreshold: tt.threshold,
			}, nil, nil)

			enriched, err := p.Populate(context.Background(), transferEvent(), transferSpec(),
				"no recognizable tokens in this text")
			if err != nil {
				t.Fatalf("Populate() error = %v", err)
			}

			_, set := enriched.Context["priority"]
			if set != tt.wantSet {
				t.Errorf("priority set = %v, want %v", set, tt.wantSet)
			}
		})
	}
}

func TestPopulate_AssistedTypeValidation(t *testing.T) {
	tests := []struct {
		name    string
		results map[string]Extraction
		signal  string
		want    any
		wantSet bool
	}{
		{
			name:    "int widens to float64",
			results: map[string]Extraction{"amount": {Value: 1200, Confidence: 0.9}},
			signal:  "amount",
			want:    float64(1200),
			wantSet: true,
		},
		{
			name:    "string for number dropped",
			results: map[string]Extraction{"amount": {Value: "1200", Confidence: 0.9}},
			signal:  "amount",
			wantSet: false,
		},
		{
			name:    "enum member canonicalized",
			results: map[string]Extraction{"priority": {Value: "HIGH", Confidence: 0.9}},
			signal:  "priority",
			want:    "high",
			wantSet: true,
		},
		{
			name:    "non-member enum value dropped",
			results: map[string]Extraction{"priority": {Value: "urgent", Confidence: 0.9}},
			signal:  "priority",
			wantSet: false,
		},
		{
			name:    "undeclared signal dropped",
			results: map[string]Extraction{"velocity": {Value: float64(3), Confidence: 0.9}},
			signal:  "velocity",
			wantSet: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockExtractor{results: tt.results}
			p := NewPopulator(mock, Config{AssistedEnabled: true}, nil, nil)

			enriched, err := p.Populate(context.Background(), transferEvent(), transferSpec(),
				"nothing extractable here")
			if err != nil {
				t.Fatalf("Populate() error = %v", err)
			}

			got, set := enriched.Context[tt.signal]
			if set != tt.wantSet {
				t.Fatalf("%s set = %v, want %v", tt.signal, set, tt.wantSet)
			}
			if set && got != tt.want {
				t.Errorf("%s = %v, want %v", tt.signal, got, tt.want)
			}
		})
	}
}

func TestPopulate_ExtractorFailureIsAbsorbed(t *testing.T) {
	mock := &mockExtractor{err: errors.New("model backend unavailable")}
	p := NewPopulator(mock, Config{AssistedEnabled: true}, nil, nil)

	enriched, err := p.Populate(context.Background(), transferEvent(), transferSpec(),
		"nothing extractable here")
	if err != nil {
		t.Fatalf("Populate() must absorb extractor errors, got %v", err)
	}
	if _, set := enriched.Context["amount"]; set {
		t.Error("failed extraction must leave the signal unpopulated")
	}
}

func TestPopulate_ExtractorTimeoutIsAbsorbed(t *testing.T) {
	mock := &mockExtractor{block: true}
	p := NewPopulator(mock, Config{
		AssistedEnabled: true,
		Timeout:         10 * time.Millisecond,
	}, nil, nil)

	start := time.Now()
	_, err := p.Populate(context.Background(), transferEvent(), transferSpec(),
		"nothing extractable here")
	if err != nil {
		t.Fatalf("Populate() must absorb extractor timeouts, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout not enforced, Populate took %v", elapsed)
	}
}

func TestPopulate_AssistedSkippedWhenNothingMissing(t *testing.T) {
	mock := &mockExtractor{}
	p := NewPopulator(mock, Config{AssistedEnabled: true}, nil, nil)

	_, err := p.Populate(context.Background(), transferEvent(), transferSpec(),
		"Transfer $5000 with high priority")
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if mock.calls != 0 {
		t.Errorf("extractor called %d times with nothing missing", mock.calls)
	}
}

func TestPopulate_AssistedSkippedWhenDisabled(t *testing.T) {
	mock := &mockExtractor{}
	p := NewPopulator(mock, Config{AssistedEnabled: false}, nil, nil)

	_, err := p.Populate(context.Background(), transferEvent(), transferSpec(),
		"nothing extractable here")
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if mock.calls != 0 {
		t.Errorf("disabled extractor called %d times", mock.calls)
	}
}

func TestPopulate_InputEventNotMutated(t *testing.T) {
	p := NewPopulator(nil, Config{}, nil, nil)
	event := transferEvent()

	enriched, err := p.Populate(context.Background(), event, transferSpec(),
		"Transfer $5000 with high priority")
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if enriched == event {
		t.Fatal("Populate() must return a copy")
	}
	if len(event.Context) != 0 {
		t.Errorf("input context mutated: %v", event.Context)
	}
}

func TestPopulate_RawTextNeverOnEvent(t *testing.T) {
	p := NewPopulator(nil, Config{}, nil, nil)
	text := "Transfer $5000 with high priority, account 4432"

	enriched, err := p.Populate(context.Background(), transferEvent(), transferSpec(), text)
	if err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	for name, value := range enriched.Context {
		if s, ok := value.(string); ok && s == text {
			t.Errorf("raw text leaked into context signal %q", name)
		}
	}
}
