package scope

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scopes.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadCatalog_Valid(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalogFile(t, `
scopes:
  - id: payments.billing
    owning_team: team-payments
    domain: payments
    service: billing
  - id: payments
    owning_team: team-payments
    domain: payments
`))
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	if catalog.Count() != 2 {
		t.Errorf("Count() = %d, want 2", catalog.Count())
	}
	s, ok := catalog.Get("payments.billing")
	if !ok {
		t.Fatal("payments.billing not loaded")
	}
	if s.OwningTeam != "team-payments" || s.Selector.Service != "billing" {
		t.Errorf("scope = %+v", s)
	}
}

func TestLoadCatalog_IsolationViolationFailsLoad(t *testing.T) {
	_, err := LoadCatalog(writeCatalogFile(t, `
scopes:
  - id: shipping.routes
    owning_team: team-logistics
    domain: payments
`))
	if err == nil {
		t.Fatal("expected error for scope id outside its domain")
	}
}

func TestLoadCatalog_DuplicateID(t *testing.T) {
	_, err := LoadCatalog(writeCatalogFile(t, `
scopes:
  - id: payments.billing
    owning_team: a
    domain: payments
  - id: payments.billing
    owning_team: b
    domain: payments
`))
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("error = %v, want duplicate id error", err)
	}
}

func TestLoadCatalog_EmptyAndMissing(t *testing.T) {
	if _, err := LoadCatalog(writeCatalogFile(t, "scopes: []")); err == nil {
		t.Error("expected error for empty catalog")
	}
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
