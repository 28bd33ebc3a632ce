package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clearline-hq/arbiter/pkg/audit"
	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/engine"
	"clearline-hq/arbiter/pkg/policy"
	"clearline-hq/arbiter/pkg/scope"
	"clearline-hq/arbiter/pkg/signal"
	"clearline-hq/arbiter/pkg/spec"
	"clearline-hq/arbiter/pkg/telemetry/metrics"
)

// Request is one decision request as received from a caller.
type Request struct {
	// Organization, Domain, Intent, and Stage form the spec resolution key.
	Organization string         `json:"organization" yaml:"organization"`
	Domain       string         `json:"domain" yaml:"domain"`
	Intent       string         `json:"intent" yaml:"intent"`
	Stage        decision.Stage `json:"stage" yaml:"stage"`

	// Actor is who wants to act; Target is what it wants to act on.
	Actor  string `json:"actor" yaml:"actor"`
	Target string `json:"target" yaml:"target"`

	// Scope is the decision's scope record.
	Scope scope.Record `json:"scope" yaml:"scope"`

	// Context holds caller-supplied signal values, possibly sparse.
	Context map[string]any `json:"context" yaml:"context"`

	// Timestamp is when the intent was declared. Zero means now.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Unstructured is free text accompanying the request. Signals may be
	// extracted from it; the text itself is never persisted.
	Unstructured string `json:"unstructured" yaml:"unstructured"`
}

// Outcome is the pipeline's answer: the enriched, persisted decision event
// and the issued verdict.
type Outcome struct {
	Decision *decision.Event
	Verdict  *decision.VerdictEvent
	Result   *engine.Result
}

// SnapshotProvider hands the pipeline the policy snapshot to evaluate
// against. *policy.Store implements it.
type SnapshotProvider interface {
	Current() *policy.Snapshot
}

// Pipeline runs decisions through spec resolution, signal population,
// validation, evaluation, and audit persistence. It is safe for concurrent
// use and keeps no per-request state.
type Pipeline struct {
	specs     *spec.Registry
	snapshots SnapshotProvider
	scopes    *scope.Catalog
	populator *signal.Populator
	sink      audit.Sink
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New creates a decision pipeline. logger may be nil (slog.Default is
// used); metrics may be nil.
func New(specs *spec.Registry, snapshots SnapshotProvider, scopes *scope.Catalog, populator *signal.Populator, sink audit.Sink, logger *slog.Logger, m *metrics.Metrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		specs:     specs,
		snapshots: snapshots,
		scopes:    scopes,
		populator: populator,
		sink:      sink,
		logger:    logger.With("component", "pipeline"),
		metrics:   m,
		now:       time.Now,
	}
}

// Decide runs one decision request through the full pipeline and returns
// the audited outcome.
func (p *Pipeline) Decide(ctx context.Context, req *Request) (*Outcome, error) {
	start := p.now()

	if err := validateRequest(req); err != nil {
		domain, stage := "", ""
		if req != nil {
			domain, stage = req.Domain, string(req.Stage)
		}
		p.metrics.RecordDecision(domain, stage, "invalid_request", p.now().Sub(start))
		return nil, err
	}

	event := p.newEvent(req)

	// 1. Resolve the governing spec; the decision is locked to this
	// version for the rest of the run.
	sp, err := p.specs.ResolveActive(req.Organization, req.Domain, req.Intent, req.Stage)
	if err != nil {
		p.logger.Warn("no active spec for decision request",
			"decision_id", event.ID,
			"organization", req.Organization,
			"domain", req.Domain,
			"intent", req.Intent,
			"stage", req.Stage,
		)
		p.metrics.RecordDecision(req.Domain, string(req.Stage), "spec_not_found", p.now().Sub(start))
		return nil, err
	}
	event.SpecID = sp.ID
	event.SpecVersion = sp.Version

	// 2. Record reception.
	if err := p.appendTimeline(ctx, event.ID, decision.StepReceived,
		decision.AuthorityStandard,
		fmt.Sprintf("decision event received for intent %q", req.Intent)); err != nil {
		p.metrics.RecordDecision(req.Domain, string(req.Stage), "audit_error", p.now().Sub(start))
		return nil, err
	}

	// 3. Populate signals. Assisted failures are absorbed inside.
	enriched, err := p.populator.Populate(ctx, event, sp, req.Unstructured)
	if err != nil {
		p.metrics.RecordDecision(req.Domain, string(req.Stage), "populate_error", p.now().Sub(start))
		return nil, err
	}

	// The decision event is part of the permanent record even when it
	// fails validation below; corrections are new events, never edits.
	if err := p.sink.AppendDecision(ctx, enriched); err != nil {
		p.metrics.RecordDecision(req.Domain, string(req.Stage), "audit_error", p.now().Sub(start))
		return nil, err
	}

	// 4. Validate required signals; fail closed.
	if err := signal.ValidateRequired(enriched, sp); err != nil {
		p.logger.Warn("required signal missing, failing closed",
			"decision_id", enriched.ID, "error", err)
		p.metrics.RecordDecision(req.Domain, string(req.Stage), "missing_signal", p.now().Sub(start))
		return nil, err
	}

	// 5. Evaluate against the snapshot captured here; later swaps do not
	// affect this decision.
	snap := p.snapshots.Current()
	result, err := engine.Evaluate(enriched, sp, snap)
	if err != nil {
		p.metrics.RecordDecision(req.Domain, string(req.Stage), "evaluate_error", p.now().Sub(start))
		return nil, err
	}

	if !sp.PermitsVerdict(result.Verdict) {
		p.metrics.RecordDecision(req.Domain, string(req.Stage), "verdict_not_permitted", p.now().Sub(start))
		return nil, &VerdictNotPermittedError{SpecID: sp.ID, Verdict: result.Verdict}
	}

	// 6. Build and persist the verdict.
	verdict := p.newVerdict(enriched, sp, snap, result)
	if err := p.sink.AppendVerdict(ctx, verdict); err != nil {
		p.metrics.RecordDecision(req.Domain, string(req.Stage), "audit_error", p.now().Sub(start))
		return nil, err
	}
	if err := p.appendTimeline(ctx, enriched.ID, decision.StepVerdictIssued,
		decision.AuthorityFinal,
		fmt.Sprintf("verdict %s issued against snapshot %s", verdict.Verdict, verdict.SnapshotID)); err != nil {
		p.metrics.RecordDecision(req.Domain, string(req.Stage), "audit_error", p.now().Sub(start))
		return nil, err
	}

	p.logger.Info("decision evaluated",
		"decision_id", enriched.ID,
		"verdict", verdict.Verdict,
		"matched_policies", len(result.MatchedPolicyIDs),
		"spec", sp.ID+"@"+sp.Version,
		"snapshot", verdict.SnapshotID,
	)
	p.metrics.RecordDecision(req.Domain, string(req.Stage), "success", p.now().Sub(start))
	p.metrics.RecordVerdict(req.Domain, string(req.Stage), string(verdict.Verdict))

	return &Outcome{Decision: enriched, Verdict: verdict, Result: result}, nil
}

// newEvent builds the decision event for a validated request.
func (p *Pipeline) newEvent(req *Request) *decision.Event {
	ts := req.Timestamp
	if ts.IsZero() {
		ts = p.now().UTC()
	}
	context := make(map[string]any, len(req.Context))
	for k, v := range req.Context {
		context[k] = v
	}
	return &decision.Event{
		ID:           uuid.NewString(),
		Organization: req.Organization,
		Domain:       req.Domain,
		Intent:       req.Intent,
		Stage:        req.Stage,
		Actor:        req.Actor,
		Target:       req.Target,
		Scope:        req.Scope,
		Context:      context,
		Timestamp:    ts,
	}
}

// newVerdict builds the verdict event, resolving the governing scope from
// the catalog by exact selector match before persistence. When no catalog
// entry matches, the decision's own scope record is the fallback.
func (p *Pipeline) newVerdict(event *decision.Event, sp *spec.Spec, snap *policy.Snapshot, result *engine.Result) *decision.VerdictEvent {
	scopeID := event.Scope.ID
	owningTeam := event.Scope.OwningTeam
	if p.scopes != nil {
		if resolved, ok := p.scopes.Resolve(event.Scope); ok {
			scopeID = resolved.ID
			owningTeam = resolved.OwningTeam
		}
	}

	return &decision.VerdictEvent{
		ID:               uuid.NewString(),
		DecisionID:       event.ID,
		Verdict:          result.Verdict,
		MatchedPolicyIDs: append([]string(nil), result.MatchedPolicyIDs...),
		SnapshotID:       snap.ID,
		SpecID:           sp.ID,
		SpecVersion:      sp.Version,
		ScopeID:          scopeID,
		OwningTeam:       owningTeam,
		Domain:           event.Domain,
		IssuedAt:         p.now().UTC(),
	}
}

// appendTimeline appends one system timeline entry.
func (p *Pipeline) appendTimeline(ctx context.Context, decisionID, step string, authority decision.Authority, detail string) error {
	return p.sink.AppendTimeline(ctx, &decision.TimelineEntry{
		ID:         uuid.NewString(),
		DecisionID: decisionID,
		Step:       step,
		Source:     decision.SourceSystem,
		Authority:  authority,
		Detail:     detail,
		At:         p.now().UTC(),
	})
}

// validateRequest checks the structural integrity of a request, including
// domain agreement between the request and its scope record.
func validateRequest(req *Request) error {
	if req == nil {
		return &RequestError{Field: "request", Message: "request is nil"}
	}
	if req.Organization == "" {
		return &RequestError{Field: "organization", Message: "organization is required"}
	}
	if req.Domain == "" {
		return &RequestError{Field: "domain", Message: "domain is required"}
	}
	if req.Intent == "" {
		return &RequestError{Field: "intent", Message: "intent is required"}
	}
	if !req.Stage.Valid() {
		return &RequestError{Field: "stage", Message: fmt.Sprintf("unknown stage %q", req.Stage)}
	}
	if req.Actor == "" {
		return &RequestError{Field: "actor", Message: "actor is required"}
	}
	if req.Scope.Domain != req.Domain {
		return &RequestError{Field: "scope.domain",
			Message: fmt.Sprintf("scope domain %q does not match decision domain %q", req.Scope.Domain, req.Domain)}
	}
	if err := scope.ValidateID(req.Scope.ID, req.Scope.Domain); err != nil {
		return &RequestError{Field: "scope.id", Message: err.Error()}
	}
	return nil
}
