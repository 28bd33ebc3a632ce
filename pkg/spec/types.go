package spec

import (
	"fmt"
	"time"

	"clearline-hq/arbiter/pkg/decision"
)

// SignalType is the declared type of a signal value.
type SignalType string

const (
	SignalEnum    SignalType = "enum"
	SignalBoolean SignalType = "boolean"
	SignalString  SignalType = "string"
	SignalNumber  SignalType = "number"
)

// Valid returns true if t is a known signal type.
func (t SignalType) Valid() bool {
	switch t {
	case SignalEnum, SignalBoolean, SignalString, SignalNumber:
		return true
	}
	return false
}

// SignalSource declares where a signal's value comes from during population.
type SignalSource string

const (
	// SourceScope copies the value from the decision's scope record.
	// Always authoritative, never extractable.
	SourceScope SignalSource = "scope"

	// SourceContext fills the value from caller-supplied context or by
	// extraction from unstructured text.
	SourceContext SignalSource = "context"

	// SourceTimestamp copies the decision timestamp.
	SourceTimestamp SignalSource = "timestamp"
)

// Valid returns true if s is a known signal source.
func (s SignalSource) Valid() bool {
	switch s {
	case SourceScope, SourceContext, SourceTimestamp:
		return true
	}
	return false
}

// SignalDef declares one typed input value policies bound to a spec may
// reference.
type SignalDef struct {
	// Name is the signal name, unique within the spec.
	Name string `yaml:"name"`

	// Type is the declared value type.
	Type SignalType `yaml:"type"`

	// Values is the legal value set for enum signals.
	Values []string `yaml:"values,omitempty"`

	// Required marks signals that must be present after population.
	// A missing required signal fails the decision closed.
	Required bool `yaml:"required"`

	// Source declares where the value comes from.
	Source SignalSource `yaml:"source"`
}

// Enforcement declares how a PAUSE verdict issued under this spec is
// resolved.
type Enforcement struct {
	// PauseApprover names who must approve a paused action.
	PauseApprover string `yaml:"pause_approver,omitempty"`

	// ResolutionTimeout is how long a paused action may wait for
	// resolution before the caller should treat it as expired.
	ResolutionTimeout time.Duration `yaml:"resolution_timeout,omitempty"`
}

// Status is a spec's lifecycle status.
type Status string

const (
	// StatusDraft means the spec exists but does not govern decisions yet.
	StatusDraft Status = "draft"

	// StatusActive means the spec is the single live contract for its key.
	StatusActive Status = "active"

	// StatusDeprecated means the spec has been superseded. Deprecated
	// specs are never deleted; historical verdicts reference them.
	StatusDeprecated Status = "deprecated"
)

// Key identifies the decision flow a spec governs.
type Key struct {
	Organization string         `yaml:"organization"`
	Domain       string         `yaml:"domain"`
	Intent       string         `yaml:"intent"`
	Stage        decision.Stage `yaml:"stage"`
}

// String returns the key in org/domain/intent/stage form.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Organization, k.Domain, k.Intent, k.Stage)
}

// Spec is an immutable decision contract: the legal signals, verdicts, and
// enforcement semantics for one (organization, domain, intent, stage).
type Spec struct {
	// ID identifies the contract; (ID, Version) is unique.
	ID string `yaml:"id"`

	// Version is the contract version (e.g. "1.0.0").
	Version string `yaml:"version"`

	// Key is the decision flow this spec governs.
	Key Key `yaml:",inline"`

	// Status is the lifecycle status.
	Status Status `yaml:"status"`

	// Signals is the ordered list of declared signals.
	Signals []SignalDef `yaml:"signals"`

	// AllowedVerdicts is the set of verdicts policies bound to this spec
	// may emit.
	AllowedVerdicts []decision.Verdict `yaml:"allowed_verdicts"`

	// Enforcement declares pause-resolution semantics.
	Enforcement Enforcement `yaml:"enforcement,omitempty"`
}

// Signal returns the signal definition with the given name, if declared.
func (s *Spec) Signal(name string) (SignalDef, bool) {
	for _, def := range s.Signals {
		if def.Name == name {
			return def, true
		}
	}
	return SignalDef{}, false
}

// DeclaresSignal reports whether the spec declares a signal with the name.
func (s *Spec) DeclaresSignal(name string) bool {
	_, ok := s.Signal(name)
	return ok
}

// RequiredSignals returns the declared signals marked required, in order.
func (s *Spec) RequiredSignals() []SignalDef {
	var required []SignalDef
	for _, def := range s.Signals {
		if def.Required {
			required = append(required, def)
		}
	}
	return required
}

// ContextSignals returns the declared signals sourced from context, in order.
func (s *Spec) ContextSignals() []SignalDef {
	var defs []SignalDef
	for _, def := range s.Signals {
		if def.Source == SourceContext {
			defs = append(defs, def)
		}
	}
	return defs
}

// PermitsVerdict reports whether the spec allows policies to emit v.
func (s *Spec) PermitsVerdict(v decision.Verdict) bool {
	for _, allowed := range s.AllowedVerdicts {
		if allowed == v {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the spec.
func (s *Spec) Clone() *Spec {
	clone := *s
	clone.Signals = make([]SignalDef, len(s.Signals))
	for i, def := range s.Signals {
		copied := def
		copied.Values = append([]string(nil), def.Values...)
		clone.Signals[i] = copied
	}
	clone.AllowedVerdicts = append([]decision.Verdict(nil), s.AllowedVerdicts...)
	return &clone
}

// Validate checks the structural integrity of the spec.
func (s *Spec) Validate() error {
	errs := &ValidationError{SpecID: s.ID}

	if s.ID == "" {
		errs.Add("spec id is required")
	}
	if s.Version == "" {
		errs.Add("spec version is required")
	}
	if s.Key.Organization == "" {
		errs.Add("organization is required")
	}
	if s.Key.Domain == "" {
		errs.Add("domain is required")
	}
	if s.Key.Intent == "" {
		errs.Add("intent is required")
	}
	if !s.Key.Stage.Valid() {
		errs.Add(fmt.Sprintf("unknown stage %q", s.Key.Stage))
	}

	if len(s.AllowedVerdicts) == 0 {
		errs.Add("at least one allowed verdict is required")
	}
	for _, v := range s.AllowedVerdicts {
		if !v.Valid() {
			errs.Add(fmt.Sprintf("unknown verdict %q", v))
		}
	}

	seen := make(map[string]bool, len(s.Signals))
	for _, def := range s.Signals {
		if def.Name == "" {
			errs.Add("signal name is required")
			continue
		}
		if seen[def.Name] {
			errs.Add(fmt.Sprintf("duplicate signal %q", def.Name))
		}
		seen[def.Name] = true

		if !def.Type.Valid() {
			errs.Add(fmt.Sprintf("signal %q: unknown type %q", def.Name, def.Type))
		}
		if !def.Source.Valid() {
			errs.Add(fmt.Sprintf("signal %q: unknown source %q", def.Name, def.Source))
		}
		if def.Type == SignalEnum && len(def.Values) == 0 {
			errs.Add(fmt.Sprintf("signal %q: enum signals require a value set", def.Name))
		}
		if def.Type != SignalEnum && len(def.Values) > 0 {
			errs.Add(fmt.Sprintf("signal %q: value sets are only valid for enum signals", def.Name))
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
