package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"clearline-hq/arbiter/pkg/decision"
)

// MemorySink implements Sink using in-memory maps. It is intended for
// tests and ephemeral runs; nothing survives process exit.
type MemorySink struct {
	mu        sync.RWMutex
	decisions map[string]*decision.Event
	verdicts  map[string]*decision.VerdictEvent
	timeline  []*decision.TimelineEntry
	entryIDs  map[string]struct{}
}

// NewMemorySink creates an empty in-memory audit sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		decisions: make(map[string]*decision.Event),
		verdicts:  make(map[string]*decision.VerdictEvent),
		entryIDs:  make(map[string]struct{}),
	}
}

// AppendDecision persists a decision event.
func (s *MemorySink) AppendDecision(ctx context.Context, event *decision.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.decisions[event.ID]; exists {
		return NewStorageError("memory", "append_decision", ErrDuplicateID)
	}
	s.decisions[event.ID] = event.Clone()
	return nil
}

// AppendVerdict persists a verdict event.
func (s *MemorySink) AppendVerdict(ctx context.Context, verdict *decision.VerdictEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.verdicts[verdict.ID]; exists {
		return NewStorageError("memory", "append_verdict", ErrDuplicateID)
	}
	copied := *verdict
	copied.MatchedPolicyIDs = append([]string(nil), verdict.MatchedPolicyIDs...)
	s.verdicts[verdict.ID] = &copied
	return nil
}

// AppendTimeline persists a timeline entry.
func (s *MemorySink) AppendTimeline(ctx context.Context, entry *decision.TimelineEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entryIDs[entry.ID]; exists {
		return NewStorageError("memory", "append_timeline", ErrDuplicateID)
	}
	copied := *entry
	s.timeline = append(s.timeline, &copied)
	s.entryIDs[entry.ID] = struct{}{}
	return nil
}

// QueryDecisions retrieves decision events matching the query.
func (s *MemorySink) QueryDecisions(ctx context.Context, query *Query) ([]*decision.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*decision.Event
	for _, event := range s.decisions {
		if matchesDecision(event, query) {
			results = append(results, event.Clone())
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	return paginate(results, query), nil
}

// QueryVerdicts retrieves verdict events matching the query.
func (s *MemorySink) QueryVerdicts(ctx context.Context, query *Query) ([]*decision.VerdictEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*decision.VerdictEvent
	for _, verdict := range s.verdicts {
		if matchesVerdict(verdict, query) {
			copied := *verdict
			copied.MatchedPolicyIDs = append([]string(nil), verdict.MatchedPolicyIDs...)
			results = append(results, &copied)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].IssuedAt.After(results[j].IssuedAt)
	})
	return paginate(results, query), nil
}

// QueryTimeline retrieves the timeline of one decision in chronological
// order.
func (s *MemorySink) QueryTimeline(ctx context.Context, decisionID string) ([]*decision.TimelineEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*decision.TimelineEntry
	for _, entry := range s.timeline {
		if entry.DecisionID == decisionID {
			copied := *entry
			results = append(results, &copied)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].At.Before(results[j].At)
	})
	return results, nil
}

// PruneTimeline deletes timeline entries recorded before cutoff.
func (s *MemorySink) PruneTimeline(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.timeline[:0]
	var deleted int64
	for _, entry := range s.timeline {
		if entry.At.Before(cutoff) {
			delete(s.entryIDs, entry.ID)
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	s.timeline = kept
	return deleted, nil
}

// Close is a no-op for the memory backend.
func (s *MemorySink) Close() error {
	return nil
}

func matchesDecision(event *decision.Event, query *Query) bool {
	if query == nil {
		return true
	}
	if query.Organization != "" && event.Organization != query.Organization {
		return false
	}
	if query.Domain != "" && event.Domain != query.Domain {
		return false
	}
	if query.Intent != "" && event.Intent != query.Intent {
		return false
	}
	return query.matchesTime(event.Timestamp)
}

func matchesVerdict(verdict *decision.VerdictEvent, query *Query) bool {
	if query == nil {
		return true
	}
	if query.Domain != "" && verdict.Domain != query.Domain {
		return false
	}
	if query.DecisionID != "" && verdict.DecisionID != query.DecisionID {
		return false
	}
	if query.Verdict != "" && verdict.Verdict != query.Verdict {
		return false
	}
	return query.matchesTime(verdict.IssuedAt)
}

func paginate[T any](results []T, query *Query) []T {
	offset := 0
	if query != nil && query.Offset > 0 {
		offset = query.Offset
	}
	if offset >= len(results) {
		return nil
	}
	results = results[offset:]

	limit := query.effectiveLimit()
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
