package scope

import "testing"

func TestCatalog_AddRejectsIsolationViolation(t *testing.T) {
	c := NewCatalog()

	err := c.Add(&Scope{
		ID:         "billing-scope",
		OwningTeam: "payments-core",
		Selector:   Selector{Domain: "payments", Service: "billing"},
	})
	if err == nil {
		t.Fatal("Add() should reject a scope id missing its domain prefix")
	}
	if c.Count() != 0 {
		t.Error("rejected scope must not be registered")
	}
}

func TestCatalog_AddAndGet(t *testing.T) {
	c := NewCatalog()

	s := &Scope{
		ID:         "payments.billing",
		OwningTeam: "payments-core",
		Selector:   Selector{Domain: "payments", Service: "billing"},
	}
	if err := c.Add(s); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, ok := c.Get("payments.billing")
	if !ok {
		t.Fatal("Get() did not find registered scope")
	}
	if got.OwningTeam != "payments-core" {
		t.Errorf("OwningTeam = %q", got.OwningTeam)
	}

	// Returned copies do not alias catalog state.
	got.OwningTeam = "someone-else"
	again, _ := c.Get("payments.billing")
	if again.OwningTeam != "payments-core" {
		t.Error("mutation of returned scope leaked into catalog")
	}
}

func TestCatalog_Resolve_ExactMatch(t *testing.T) {
	c := NewCatalog()

	wide := &Scope{
		ID:         "payments",
		OwningTeam: "payments-platform",
		Selector:   Selector{Domain: "payments"},
	}
	narrow := &Scope{
		ID:         "payments.billing.prod",
		OwningTeam: "payments-core",
		Selector:   Selector{Domain: "payments", Service: "billing", Environment: "production"},
	}
	for _, s := range []*Scope{wide, narrow} {
		if err := c.Add(s); err != nil {
			t.Fatalf("Add(%s) error = %v", s.ID, err)
		}
	}

	// Exact dimensions resolve to the narrow scope.
	got, ok := c.Resolve(Record{Domain: "payments", Service: "billing", Environment: "production"})
	if !ok || got.ID != "payments.billing.prod" {
		t.Errorf("Resolve() = %v, %v", got, ok)
	}

	// Domain-only record resolves to the wide scope, not the narrow one.
	got, ok = c.Resolve(Record{Domain: "payments"})
	if !ok || got.ID != "payments" {
		t.Errorf("Resolve() = %v, %v", got, ok)
	}

	// A record matching no selector exactly resolves to nothing.
	if _, ok := c.Resolve(Record{Domain: "payments", Service: "billing"}); ok {
		t.Error("Resolve() found a scope for a record with no exact selector match")
	}
}

func TestCatalog_Resolve_DuplicateSelectorsStable(t *testing.T) {
	c := NewCatalog()

	sel := Selector{Domain: "payments", Service: "billing"}
	for _, s := range []*Scope{
		{ID: "payments.billing-secondary", OwningTeam: "payments-ops", Selector: sel},
		{ID: "payments.billing", OwningTeam: "payments-core", Selector: sel},
	} {
		if err := c.Add(s); err != nil {
			t.Fatalf("Add(%s) error = %v", s.ID, err)
		}
	}

	// Two entries share one selector; resolution must pick the same one
	// on every call.
	for i := 0; i < 50; i++ {
		got, ok := c.Resolve(Record{Domain: "payments", Service: "billing"})
		if !ok {
			t.Fatal("Resolve() found nothing")
		}
		if got.ID != "payments.billing" {
			t.Fatalf("Resolve() = %s, want payments.billing (lowest id)", got.ID)
		}
	}
}
