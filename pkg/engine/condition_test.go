package engine

import (
	"testing"

	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/policy"
	"clearline-hq/arbiter/pkg/scope"
)

func conditionEvent(context map[string]any) *decision.Event {
	return &decision.Event{
		ID:     "dec-1",
		Domain: "payments",
		Scope: scope.Record{
			ID:          "payments.billing",
			Domain:      "payments",
			Service:     "billing",
			Environment: "production",
		},
		Context: context,
	}
}

func TestEvaluateCondition(t *testing.T) {
	tests := []struct {
		name    string
		cond    policy.Condition
		context map[string]any
		want    bool
	}{
		{
			name:    "equal string",
			cond:    policy.Condition{Field: "priority", Operator: policy.OperatorEqual, Value: "high"},
			context: map[string]any{"priority": "high"},
			want:    true,
		},
		{
			name:    "equal number across widths",
			cond:    policy.Condition{Field: "amount", Operator: policy.OperatorEqual, Value: float64(5000)},
			context: map[string]any{"amount": int(5000)},
			want:    true,
		},
		{
			name:    "not equal",
			cond:    policy.Condition{Field: "priority", Operator: policy.OperatorNotEqual, Value: "low"},
			context: map[string]any{"priority": "high"},
			want:    true,
		},
		{
			name:    "strict typing: number never equals its string form",
			cond:    policy.Condition{Field: "amount", Operator: policy.OperatorEqual, Value: float64(5000)},
			context: map[string]any{"amount": "5000"},
			want:    false,
		},
		{
			name:    "greater than",
			cond:    policy.Condition{Field: "amount", Operator: policy.OperatorGreaterThan, Value: float64(1000)},
			context: map[string]any{"amount": float64(5000)},
			want:    true,
		},
		{
			name:    "less equal boundary",
			cond:    policy.Condition{Field: "amount", Operator: policy.OperatorLessEqual, Value: float64(5000)},
			context: map[string]any{"amount": float64(5000)},
			want:    true,
		},
		{
			name:    "numeric operator over string operand is false, not an error",
			cond:    policy.Condition{Field: "amount", Operator: policy.OperatorGreaterThan, Value: float64(1000)},
			context: map[string]any{"amount": "a lot"},
			want:    false,
		},
		{
			name:    "numeric operator over boolean operand is false",
			cond:    policy.Condition{Field: "approved", Operator: policy.OperatorLessThan, Value: float64(1)},
			context: map[string]any{"approved": true},
			want:    false,
		},
		{
			name:    "in membership",
			cond:    policy.Condition{Field: "priority", Operator: policy.OperatorIn, Value: []any{"high", "critical"}},
			context: map[string]any{"priority": "critical"},
			want:    true,
		},
		{
			name:    "in non-membership",
			cond:    policy.Condition{Field: "priority", Operator: policy.OperatorIn, Value: []any{"high", "critical"}},
			context: map[string]any{"priority": "low"},
			want:    false,
		},
		{
			name:    "in with numeric membership across widths",
			cond:    policy.Condition{Field: "amount", Operator: policy.OperatorIn, Value: []any{float64(100), float64(200)}},
			context: map[string]any{"amount": int(200)},
			want:    true,
		},
		{
			name:    "missing optional signal evaluates false",
			cond:    policy.Condition{Field: "velocity", Operator: policy.OperatorEqual, Value: "fast"},
			context: map[string]any{},
			want:    false,
		},
		{
			name:    "missing signal with not-equal still false",
			cond:    policy.Condition{Field: "velocity", Operator: policy.OperatorNotEqual, Value: "fast"},
			context: map[string]any{},
			want:    false,
		},
		{
			name:    "falls back to scope dimension",
			cond:    policy.Condition{Field: "environment", Operator: policy.OperatorEqual, Value: "production"},
			context: map[string]any{},
			want:    true,
		},
		{
			name:    "context shadows scope dimension",
			cond:    policy.Condition{Field: "environment", Operator: policy.OperatorEqual, Value: "staging"},
			context: map[string]any{"environment": "staging"},
			want:    true,
		},
		{
			name:    "boolean equality",
			cond:    policy.Condition{Field: "approved", Operator: policy.OperatorEqual, Value: true},
			context: map[string]any{"approved": true},
			want:    true,
		},
		{
			name:    "boolean never equals number",
			cond:    policy.Condition{Field: "approved", Operator: policy.OperatorEqual, Value: float64(1)},
			context: map[string]any{"approved": true},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCondition(tt.cond, conditionEvent(tt.context))
			if got != tt.want {
				t.Errorf("EvaluateCondition() = %v, want %v", got, tt.want)
			}
		})
	}
}
