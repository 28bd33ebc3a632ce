package policy

import (
	"sync"
	"testing"

	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/scope"
)

func storePolicy(id string) *Policy {
	return &Policy{
		ID:      id,
		SpecID:  "transfer-governance",
		ScopeID: "payments.billing",
		Scope:   scope.Selector{Domain: "payments"},
		Verdict: decision.VerdictAllow,
	}
}

func TestStore_CurrentAndReplace(t *testing.T) {
	first := NewSnapshot("v1", []*Policy{storePolicy("p-1")})
	store := NewStore(first)

	if store.Current() != first {
		t.Error("Current() should return the initial snapshot")
	}
	if store.LoadTime().IsZero() {
		t.Error("LoadTime() is zero")
	}

	second := NewSnapshot("v2", []*Policy{storePolicy("p-1"), storePolicy("p-2")})
	store.Replace(second)

	if store.Current() != second {
		t.Error("Current() should return the replaced snapshot")
	}
	if first.ID == second.ID {
		t.Error("snapshots with different content must have different fingerprints")
	}
}

func TestStore_HeldSnapshotSurvivesSwap(t *testing.T) {
	first := NewSnapshot("v1", []*Policy{storePolicy("p-1")})
	store := NewStore(first)

	held := store.Current()
	store.Replace(NewSnapshot("v2", nil))

	// The reader's snapshot is unchanged by the swap.
	if held.Count() != 1 {
		t.Errorf("held snapshot count = %d, want 1", held.Count())
	}
	if held.ID != first.ID {
		t.Errorf("held snapshot id changed to %s", held.ID)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore(NewSnapshot("v1", []*Policy{storePolicy("p-1")}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if snap := store.Current(); snap == nil {
					t.Error("Current() returned nil")
					return
				}
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				store.Replace(NewSnapshot("v2", []*Policy{storePolicy("p-2")}))
			}
		}()
	}
	wg.Wait()
}
