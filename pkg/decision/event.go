package decision

import (
	"time"

	"clearline-hq/arbiter/pkg/scope"
)

// Stage represents the lifecycle stage of a decision event.
type Stage string

const (
	// StageProposed means the action is being considered but not committed.
	StageProposed Stage = "proposed"

	// StagePreCommit means the action is about to be taken pending a verdict.
	StagePreCommit Stage = "pre_commit"

	// StageExecuted means the action has already been taken and is being
	// evaluated after the fact.
	StageExecuted Stage = "executed"
)

// Valid returns true if s is a known lifecycle stage.
func (s Stage) Valid() bool {
	switch s {
	case StageProposed, StagePreCommit, StageExecuted:
		return true
	}
	return false
}

// Event represents one declared intent to act. It is immutable once created:
// enrichment (signal population, spec binding) operates on a Clone and the
// original is never touched.
type Event struct {
	// ID is the unique identifier for this event (UUID v4).
	ID string `json:"id" yaml:"id"`

	// Organization is the owning organization.
	Organization string `json:"organization" yaml:"organization"`

	// Domain is the governance domain (hard boundary, never inferred).
	Domain string `json:"domain" yaml:"domain"`

	// Intent names the action being declared (e.g. "transfer_funds").
	Intent string `json:"intent" yaml:"intent"`

	// Stage is the lifecycle stage of the action.
	Stage Stage `json:"stage" yaml:"stage"`

	// Actor identifies who or what intends to act.
	Actor string `json:"actor" yaml:"actor"`

	// Target identifies what the action operates on.
	Target string `json:"target" yaml:"target"`

	// Scope is the resolved governance scope of the event.
	Scope scope.Record `json:"scope" yaml:"scope"`

	// Context holds signal values, initially sparse and enriched by
	// signal population. Keys are signal names declared by the spec.
	Context map[string]any `json:"context" yaml:"context"`

	// Timestamp is when the intent was declared.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// SpecID and SpecVersion record which decision contract governed this
	// event. Set once the spec is resolved, empty before.
	SpecID      string `json:"spec_id,omitempty" yaml:"spec_id,omitempty"`
	SpecVersion string `json:"spec_version,omitempty" yaml:"spec_version,omitempty"`
}

// Clone returns a deep copy of the event. The context map and scope record
// are copied so mutations of the clone never reach the original.
func (e *Event) Clone() *Event {
	clone := *e
	clone.Context = make(map[string]any, len(e.Context))
	for k, v := range e.Context {
		clone.Context[k] = v
	}
	return &clone
}

// ContextValue returns the signal value stored under name, if present.
func (e *Event) ContextValue(name string) (any, bool) {
	v, ok := e.Context[name]
	return v, ok
}

// VerdictEvent is the engine's answer to one decision event. Immutable,
// append-only, always traceable to exactly one Event.
type VerdictEvent struct {
	// ID is the unique identifier for this verdict (UUID v4).
	ID string `json:"id"`

	// DecisionID references the decision event this verdict answers.
	DecisionID string `json:"decision_id"`

	// Verdict is the resolved final verdict.
	Verdict Verdict `json:"verdict"`

	// MatchedPolicyIDs lists every policy that matched during evaluation,
	// not just the one carrying the winning verdict.
	MatchedPolicyIDs []string `json:"matched_policy_ids"`

	// SnapshotID identifies the policy snapshot the verdict was evaluated
	// against, so the decision remains replayable.
	SnapshotID string `json:"snapshot_id"`

	// SpecID and SpecVersion identify the governing decision contract.
	SpecID      string `json:"spec_id"`
	SpecVersion string `json:"spec_version"`

	// ScopeID is the identifier of the scope that governed the decision.
	ScopeID string `json:"scope_id"`

	// OwningTeam is the team accountable for the governing scope.
	OwningTeam string `json:"owning_team,omitempty"`

	// Domain is the governance domain of the decision.
	Domain string `json:"domain"`

	// IssuedAt is when the verdict was issued.
	IssuedAt time.Time `json:"issued_at"`
}

// Source identifies what kind of participant produced a timeline entry.
type Source string

const (
	SourceSystem Source = "system"
	SourceAgent  Source = "agent"
	SourceHuman  Source = "human"
)

// Authority is the authority level a timeline entry was recorded under.
type Authority string

const (
	// AuthorityStandard is routine automated processing.
	AuthorityStandard Authority = "standard"

	// AuthorityElevated is processing that gates or suspends an action.
	AuthorityElevated Authority = "elevated"

	// AuthorityFinal is a binding resolution (e.g. an issued verdict).
	AuthorityFinal Authority = "final"
)

// Timeline step names recorded by the pipeline.
const (
	StepReceived      = "received"
	StepVerdictIssued = "verdict_issued"
)

// TimelineEntry is a human-explainable record of one step in the pipeline.
// Append-only.
type TimelineEntry struct {
	// ID is the unique identifier for this entry (UUID v4).
	ID string `json:"id"`

	// DecisionID references the decision event this entry belongs to.
	DecisionID string `json:"decision_id"`

	// Step names the pipeline step (e.g. "received", "verdict_issued").
	Step string `json:"step"`

	// Source identifies who recorded the step.
	Source Source `json:"source"`

	// Authority is the authority level of the step.
	Authority Authority `json:"authority"`

	// Detail is a human-readable explanation of the step.
	Detail string `json:"detail"`

	// At is when the step occurred.
	At time.Time `json:"at"`
}
