package audit

import (
	"context"
	"time"

	"clearline-hq/arbiter/pkg/decision"
)

// Sink is the append-only storage boundary for the audit trail.
//
// The interface deliberately has no update or delete operations; records
// appended here are immutable for the lifetime of the store.
type Sink interface {
	// AppendDecision persists a decision event. Appending an ID that
	// already exists is an error.
	AppendDecision(ctx context.Context, event *decision.Event) error

	// AppendVerdict persists a verdict event.
	AppendVerdict(ctx context.Context, verdict *decision.VerdictEvent) error

	// AppendTimeline persists a timeline entry.
	AppendTimeline(ctx context.Context, entry *decision.TimelineEntry) error

	// QueryDecisions retrieves decision events matching the query.
	QueryDecisions(ctx context.Context, query *Query) ([]*decision.Event, error)

	// QueryVerdicts retrieves verdict events matching the query.
	QueryVerdicts(ctx context.Context, query *Query) ([]*decision.VerdictEvent, error)

	// QueryTimeline retrieves the timeline of one decision in
	// chronological order.
	QueryTimeline(ctx context.Context, decisionID string) ([]*decision.TimelineEntry, error)

	// Close releases backend resources.
	Close() error
}

// TimelinePruner is the retention boundary. Only timeline entries are
// prunable; decision and verdict events are kept forever. The pipeline
// is handed a Sink and can never reach this.
type TimelinePruner interface {
	// PruneTimeline deletes timeline entries recorded before cutoff and
	// returns the number of deleted entries.
	PruneTimeline(ctx context.Context, cutoff time.Time) (int64, error)
}

// Query filters audit records. Zero-valued fields are ignored.
type Query struct {
	// Organization filters decision events by organization.
	Organization string

	// Domain filters by governance domain.
	Domain string

	// Intent filters decision events by intent.
	Intent string

	// DecisionID filters verdicts by the decision they answer.
	DecisionID string

	// Verdict filters verdict events by kind.
	Verdict decision.Verdict

	// Since and Until bound the record timestamp (inclusive since,
	// exclusive until).
	Since time.Time
	Until time.Time

	// Limit caps the result count. Defaults to 100.
	Limit int

	// Offset skips the first N results for pagination.
	Offset int
}

// effectiveLimit returns the limit with the default applied.
func (q *Query) effectiveLimit() int {
	if q == nil || q.Limit <= 0 {
		return 100
	}
	return q.Limit
}

// matchesTime reports whether ts falls inside the query window.
func (q *Query) matchesTime(ts time.Time) bool {
	if !q.Since.IsZero() && ts.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !ts.Before(q.Until) {
		return false
	}
	return true
}
