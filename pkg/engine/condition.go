package engine

import (
	"reflect"

	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/policy"
)

// resolveField looks up a condition field on the decision: the signal
// context first, then the scope dimensions. Absence is not an error; the
// condition simply evaluates false.
func resolveField(event *decision.Event, field string) (any, bool) {
	if v, ok := event.ContextValue(field); ok {
		return v, true
	}
	if v, ok := event.Scope.DimensionValue(field); ok && v != "" {
		return v, true
	}
	return nil, false
}

// EvaluateCondition evaluates one condition against the decision's
// resolved field value. It never errors: missing fields and type
// mismatches evaluate false.
func EvaluateCondition(cond policy.Condition, event *decision.Event) bool {
	actual, ok := resolveField(event, cond.Field)
	if !ok {
		return false
	}

	switch cond.Operator {
	case policy.OperatorEqual:
		return valuesEqual(actual, cond.Value)
	case policy.OperatorNotEqual:
		return !valuesEqual(actual, cond.Value)
	case policy.OperatorGreaterThan:
		a, b, ok := bothNumeric(actual, cond.Value)
		return ok && a > b
	case policy.OperatorLessThan:
		a, b, ok := bothNumeric(actual, cond.Value)
		return ok && a < b
	case policy.OperatorGreaterEqual:
		a, b, ok := bothNumeric(actual, cond.Value)
		return ok && a >= b
	case policy.OperatorLessEqual:
		a, b, ok := bothNumeric(actual, cond.Value)
		return ok && a <= b
	case policy.OperatorIn:
		list, ok := cond.Value.([]any)
		if !ok {
			return false
		}
		for _, elem := range list {
			if valuesEqual(actual, elem) {
				return true
			}
		}
		return false
	default:
		// Unknown operators are rejected at load time; an operator that
		// still reaches evaluation matches nothing.
		return false
	}
}

// valuesEqual compares two values with strict type+value semantics.
// Numeric values compare across integer widths (int vs float64), matching
// how caller-supplied context and YAML literals decode differently.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}

	aNum, aOK := asFloat64(actual)
	bNum, bOK := asFloat64(expected)
	if aOK && bOK {
		return aNum == bNum
	}
	if aOK != bOK {
		// One numeric, one not: strict typing, no coercion.
		return false
	}

	return reflect.DeepEqual(actual, expected)
}

// bothNumeric converts both operands for an ordering comparison. Any
// non-numeric operand fails the conversion and the condition evaluates
// false.
func bothNumeric(actual, expected any) (float64, float64, bool) {
	a, ok := asFloat64(actual)
	if !ok {
		return 0, 0, false
	}
	b, ok := asFloat64(expected)
	if !ok {
		return 0, 0, false
	}
	return a, b, true
}

// asFloat64 widens any numeric value to float64. Booleans and strings are
// not numeric; there is no lexical coercion.
func asFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}
