package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"clearline-hq/arbiter/pkg/decision"
)

// testSQLiteSink opens a sink on a temp file with the pure-Go driver so
// the tests need no C toolchain.
func testSQLiteSink(t *testing.T) *SQLiteSink {
	t.Helper()

	sink, err := NewSQLiteSink(&SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "audit.db"),
		Driver:       DriverPurego,
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		WALMode:      true,
		BusyTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteSink() error = %v", err)
	}
	t.Cleanup(func() { sink.Close() })
	return sink
}

func TestSQLiteSink_DecisionRoundTrip(t *testing.T) {
	sink := testSQLiteSink(t)
	ctx := context.Background()
	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	event := auditEvent("dec-1", ts)
	event.Scope.Service = "billing"
	event.Scope.OwningTeam = "team-payments"
	event.SpecID = "transfer-governance"
	event.SpecVersion = "1.0.0"

	if err := sink.AppendDecision(ctx, event); err != nil {
		t.Fatalf("AppendDecision() error = %v", err)
	}

	got, err := sink.QueryDecisions(ctx, &Query{Domain: "payments"})
	if err != nil {
		t.Fatalf("QueryDecisions() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d decisions, want 1", len(got))
	}

	stored := got[0]
	if stored.ID != "dec-1" || stored.Organization != "acme" || stored.Intent != "transfer_funds" {
		t.Errorf("stored event = %+v", stored)
	}
	if stored.Scope.Service != "billing" || stored.Scope.OwningTeam != "team-payments" {
		t.Errorf("scope = %+v", stored.Scope)
	}
	if stored.Context["amount"] != float64(5000) {
		t.Errorf("context = %v", stored.Context)
	}
	if stored.SpecID != "transfer-governance" || stored.SpecVersion != "1.0.0" {
		t.Errorf("spec binding = %s@%s", stored.SpecID, stored.SpecVersion)
	}
}

func TestSQLiteSink_DuplicateDecisionRejected(t *testing.T) {
	sink := testSQLiteSink(t)
	ctx := context.Background()
	ts := time.Now().UTC()

	if err := sink.AppendDecision(ctx, auditEvent("dec-1", ts)); err != nil {
		t.Fatalf("AppendDecision() error = %v", err)
	}
	err := sink.AppendDecision(ctx, auditEvent("dec-1", ts))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate append error = %v, want ErrDuplicateID", err)
	}
}

func TestSQLiteSink_VerdictRoundTrip(t *testing.T) {
	sink := testSQLiteSink(t)
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := sink.AppendVerdict(ctx, auditVerdict("v-1", "dec-1", decision.VerdictBlock, at)); err != nil {
		t.Fatalf("AppendVerdict() error = %v", err)
	}

	got, err := sink.QueryVerdicts(ctx, &Query{DecisionID: "dec-1"})
	if err != nil {
		t.Fatalf("QueryVerdicts() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d verdicts, want 1", len(got))
	}
	v := got[0]
	if v.Verdict != decision.VerdictBlock || v.SnapshotID != "snap-abc" {
		t.Errorf("verdict = %+v", v)
	}
	if len(v.MatchedPolicyIDs) != 2 || v.MatchedPolicyIDs[0] != "p-1" {
		t.Errorf("matched ids = %v", v.MatchedPolicyIDs)
	}
}

func TestSQLiteSink_TimelineAndPrune(t *testing.T) {
	sink := testSQLiteSink(t)
	ctx := context.Background()
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	entries := []*decision.TimelineEntry{
		{ID: "t-1", DecisionID: "dec-1", Step: decision.StepReceived,
			Source: decision.SourceSystem, Authority: decision.AuthorityStandard,
			Detail: "decision event received", At: old},
		{ID: "t-2", DecisionID: "dec-1", Step: decision.StepVerdictIssued,
			Source: decision.SourceSystem, Authority: decision.AuthorityFinal,
			Detail: "verdict BLOCK issued", At: recent},
	}
	for _, entry := range entries {
		if err := sink.AppendTimeline(ctx, entry); err != nil {
			t.Fatalf("AppendTimeline() error = %v", err)
		}
	}

	got, err := sink.QueryTimeline(ctx, "dec-1")
	if err != nil {
		t.Fatalf("QueryTimeline() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "t-1" || got[1].ID != "t-2" {
		t.Fatalf("timeline = %v", got)
	}

	deleted, err := sink.PruneTimeline(ctx, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PruneTimeline() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	remaining, _ := sink.QueryTimeline(ctx, "dec-1")
	if len(remaining) != 1 || remaining[0].ID != "t-2" {
		t.Errorf("timeline after prune = %v", remaining)
	}
}

func TestSQLiteSink_QueryWindow(t *testing.T) {
	sink := testSQLiteSink(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		event := auditEvent("dec-"+string(rune('a'+i)), base.AddDate(0, 0, i))
		if err := sink.AppendDecision(ctx, event); err != nil {
			t.Fatalf("AppendDecision() error = %v", err)
		}
	}

	got, err := sink.QueryDecisions(ctx, &Query{
		Since: base.AddDate(0, 0, 1),
		Until: base.AddDate(0, 0, 2),
	})
	if err != nil {
		t.Fatalf("QueryDecisions() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "dec-b" {
		t.Errorf("windowed query = %v", got)
	}
}
