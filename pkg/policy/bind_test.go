package policy

import (
	"errors"
	"testing"

	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/scope"
	"clearline-hq/arbiter/pkg/spec"
)

func bindFixtures(t *testing.T) ([]*spec.Spec, *scope.Catalog) {
	t.Helper()

	s := &spec.Spec{
		ID:      "transfer-governance",
		Version: "1.0.0",
		Status:  spec.StatusActive,
		Key: spec.Key{
			Organization: "acme",
			Domain:       "payments",
			Intent:       "transfer_funds",
			Stage:        decision.StagePreCommit,
		},
		Signals: []spec.SignalDef{
			{Name: "amount", Type: spec.SignalNumber, Required: true, Source: spec.SourceContext},
			{Name: "priority", Type: spec.SignalEnum, Values: []string{"low", "high"}, Source: spec.SourceContext},
		},
		AllowedVerdicts: []decision.Verdict{decision.VerdictAllow, decision.VerdictPause, decision.VerdictBlock},
	}

	scopes := scope.NewCatalog()
	if err := scopes.Add(&scope.Scope{
		ID:         "payments.billing",
		OwningTeam: "payments-core",
		Selector:   scope.Selector{Domain: "payments", Service: "billing"},
	}); err != nil {
		t.Fatalf("failed to add scope: %v", err)
	}

	return []*spec.Spec{s}, scopes
}

func boundPolicy() *Policy {
	return &Policy{
		ID:      "pause-large-transfers",
		SpecID:  "transfer-governance",
		ScopeID: "payments.billing",
		Scope:   scope.Selector{Domain: "payments", Service: "billing"},
		Conditions: []Condition{
			{Field: "amount", Operator: OperatorGreaterThan, Value: float64(1000)},
		},
		Verdict: decision.VerdictPause,
	}
}

func TestBind(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Policy)
		wantErr   bool
		wantField string
	}{
		{
			name:   "valid binding",
			mutate: func(p *Policy) {},
		},
		{
			name:      "unknown spec reference",
			mutate:    func(p *Policy) { p.SpecID = "ghost-spec" },
			wantErr:   true,
			wantField: "spec_id",
		},
		{
			name:      "unknown scope reference",
			mutate:    func(p *Policy) { p.ScopeID = "payments.ghost" },
			wantErr:   true,
			wantField: "scope_id",
		},
		{
			name:      "undeclared signal",
			mutate:    func(p *Policy) { p.Conditions[0].Field = "velocity" },
			wantErr:   true,
			wantField: "velocity",
		},
		{
			name:   "scope dimension is a legal field",
			mutate: func(p *Policy) { p.Conditions[0] = Condition{Field: "environment", Operator: OperatorEqual, Value: "production"} },
		},
		{
			name:      "verdict not permitted by spec",
			mutate:    func(p *Policy) { p.Verdict = decision.VerdictObserve },
			wantErr:   true,
			wantField: "verdict",
		},
		{
			name: "selector domain disagrees with scope",
			mutate: func(p *Policy) {
				p.Scope.Domain = "shipping"
			},
			wantErr:   true,
			wantField: "scope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, scopes := bindFixtures(t)
			p := boundPolicy()
			tt.mutate(p)

			err := Bind(NewSnapshot("v1", []*Policy{p}), specs, scopes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Bind() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var bindErr *BindingError
				if !errors.As(err, &bindErr) {
					t.Fatalf("error type = %T, want *BindingError", err)
				}
				if bindErr.Field != tt.wantField {
					t.Errorf("BindingError.Field = %q, want %q", bindErr.Field, tt.wantField)
				}
			}
		})
	}
}

// TestBind_RejectsWholeSnapshot verifies one bad policy rejects the set.
func TestBind_RejectsWholeSnapshot(t *testing.T) {
	specs, scopes := bindFixtures(t)

	good := boundPolicy()
	bad := boundPolicy()
	bad.ID = "bad-policy"
	bad.SpecID = "ghost-spec"

	err := Bind(NewSnapshot("v1", []*Policy{good, bad}), specs, scopes)
	if err == nil {
		t.Fatal("Bind() should reject a snapshot containing any unbindable policy")
	}
}
