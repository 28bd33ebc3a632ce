package policy

import (
	"crypto/sha256"
	"fmt"
	"time"

	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/scope"
)

// Operator is a condition comparison operator. The set is closed: unknown
// operators are rejected when policies are loaded.
type Operator string

const (
	OperatorEqual        Operator = "=="
	OperatorNotEqual     Operator = "!="
	OperatorGreaterThan  Operator = ">"
	OperatorLessThan     Operator = "<"
	OperatorGreaterEqual Operator = ">="
	OperatorLessEqual    Operator = "<="
	OperatorIn           Operator = "in"
)

// Valid returns true if op is a member of the closed operator set.
func (op Operator) Valid() bool {
	switch op {
	case OperatorEqual, OperatorNotEqual, OperatorGreaterThan, OperatorLessThan,
		OperatorGreaterEqual, OperatorLessEqual, OperatorIn:
		return true
	}
	return false
}

// Numeric returns true for the ordering operators, which are only valid
// over numeric operands.
func (op Operator) Numeric() bool {
	switch op {
	case OperatorGreaterThan, OperatorLessThan, OperatorGreaterEqual, OperatorLessEqual:
		return true
	}
	return false
}

// Condition is one field/operator/literal assertion. A policy matches only
// if all of its conditions evaluate true; there is no OR, NOT, or nesting.
type Condition struct {
	// Field is the signal name (or scope dimension) the condition reads.
	Field string `yaml:"field"`

	// Operator is the comparison operator.
	Operator Operator `yaml:"operator"`

	// Value is the literal to compare against: string, float64, bool, or a
	// slice of those (only for the "in" operator). Normalized on load.
	Value any `yaml:"value"`
}

// NormalizeLiteral converts a YAML-decoded literal into the closed value
// union (string | float64 | bool | []any of those). Integers widen to
// float64; anything else is rejected.
func NormalizeLiteral(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return val, nil
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case []any:
		normalized := make([]any, len(val))
		for i, elem := range val {
			ne, err := NormalizeLiteral(elem)
			if err != nil {
				return nil, err
			}
			if _, nested := ne.([]any); nested {
				return nil, fmt.Errorf("nested arrays are not valid literals")
			}
			normalized[i] = ne
		}
		return normalized, nil
	case nil:
		return nil, fmt.Errorf("literal value cannot be null")
	default:
		return nil, fmt.Errorf("unsupported literal type %T", v)
	}
}

// Validate checks the condition's operator and literal shape.
func (c *Condition) Validate() error {
	if c.Field == "" {
		return fmt.Errorf("condition field is required")
	}
	if !c.Operator.Valid() {
		return fmt.Errorf("unknown operator %q", c.Operator)
	}

	normalized, err := NormalizeLiteral(c.Value)
	if err != nil {
		return fmt.Errorf("condition on %q: %w", c.Field, err)
	}

	_, isList := normalized.([]any)
	if c.Operator == OperatorIn && !isList {
		return fmt.Errorf("condition on %q: operator %q requires an array literal", c.Field, c.Operator)
	}
	if c.Operator != OperatorIn && isList {
		return fmt.Errorf("condition on %q: operator %q does not accept an array literal", c.Field, c.Operator)
	}
	if c.Operator.Numeric() {
		if _, ok := normalized.(float64); !ok {
			return fmt.Errorf("condition on %q: operator %q requires a numeric literal", c.Field, c.Operator)
		}
	}

	c.Value = normalized
	return nil
}

// Policy is one governance assertion: if its scope and all conditions
// match a decision, it votes for exactly one verdict.
type Policy struct {
	// ID uniquely identifies the policy within its snapshot.
	ID string `yaml:"id"`

	// Name is the human-readable policy name.
	Name string `yaml:"name,omitempty"`

	// SpecID references the decision contract this policy is bound to.
	SpecID string `yaml:"spec_id"`

	// ScopeID references the governance scope this policy is bound to.
	ScopeID string `yaml:"scope_id"`

	// Scope is the scope selector evaluated against decision scopes.
	Scope scope.Selector `yaml:"scope"`

	// Conditions are AND-folded assertions over resolved signal values.
	Conditions []Condition `yaml:"conditions,omitempty"`

	// Verdict is the single verdict this policy may emit.
	Verdict decision.Verdict `yaml:"verdict"`
}

// Validate checks the policy's structural integrity (not its binding
// references, which Bind checks against the spec registry and scope
// catalog).
func (p *Policy) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("policy id is required")
	}
	if p.SpecID == "" {
		return fmt.Errorf("policy %s: spec_id is required", p.ID)
	}
	if p.ScopeID == "" {
		return fmt.Errorf("policy %s: scope_id is required", p.ID)
	}
	if p.Scope.Domain == "" {
		return fmt.Errorf("policy %s: scope domain is required", p.ID)
	}
	if !p.Verdict.Valid() {
		return fmt.Errorf("policy %s: unknown verdict %q", p.ID, p.Verdict)
	}
	for i := range p.Conditions {
		if err := p.Conditions[i].Validate(); err != nil {
			return fmt.Errorf("policy %s: %w", p.ID, err)
		}
	}
	return nil
}

// Snapshot is a versioned, immutable bundle of policies evaluated as a
// unit. Once built it is treated as a read-only value shared by all
// concurrent evaluations.
type Snapshot struct {
	// ID identifies the snapshot (e.g. a fingerprint or load label).
	ID string

	// Version is the snapshot version string.
	Version string

	// CreatedAt is when the snapshot was built.
	CreatedAt time.Time

	// Policies is the full policy set, ordered as loaded.
	Policies []*Policy

	// bySpec indexes policies by bound spec id, built once at load.
	bySpec map[string][]*Policy
}

// NewSnapshot builds a snapshot from the given policies. The snapshot ID
// defaults to the content fingerprint when empty.
func NewSnapshot(version string, policies []*Policy) *Snapshot {
	s := &Snapshot{
		Version:   version,
		CreatedAt: time.Now().UTC(),
		Policies:  policies,
		bySpec:    make(map[string][]*Policy),
	}
	for _, p := range policies {
		s.bySpec[p.SpecID] = append(s.bySpec[p.SpecID], p)
	}
	s.ID = s.Fingerprint()
	return s
}

// Fingerprint returns a stable content hash over the snapshot's policies,
// used as the snapshot identity recorded on verdicts.
func (s *Snapshot) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(s.Version))
	for _, p := range s.Policies {
		h.Write([]byte(p.ID))
		h.Write([]byte(p.SpecID))
		h.Write([]byte(p.ScopeID))
		h.Write([]byte(p.Verdict))
		for _, c := range p.Conditions {
			h.Write([]byte(c.Field))
			h.Write([]byte(c.Operator))
			fmt.Fprintf(h, "%v", c.Value)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// PoliciesForSpec returns the policies bound to the given spec id.
func (s *Snapshot) PoliciesForSpec(specID string) []*Policy {
	return s.bySpec[specID]
}

// Count returns the number of policies in the snapshot.
func (s *Snapshot) Count() int {
	return len(s.Policies)
}
