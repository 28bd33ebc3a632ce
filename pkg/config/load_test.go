package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arbiter.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `
server:
  listen_address: ":9000"
specs:
  directory: testdata/specs
scopes:
  file: testdata/scopes.yaml
snapshots:
  directory: testdata/policies
  watch: true
assisted:
  enabled: true
  confidence_threshold: 0.9
  timeout: 3s
audit:
  backend: sqlite
  sqlite:
    path: /tmp/audit.db
    driver: sqlite
telemetry:
  logging:
    level: debug
    format: text
  metrics:
    enabled: true
`

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, validConfig))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != ":9000" {
		t.Errorf("listen_address = %q", cfg.Server.ListenAddress)
	}
	if !cfg.Snapshots.Watch {
		t.Error("snapshots.watch should be true")
	}
	if cfg.Assisted.ConfidenceThreshold != 0.9 {
		t.Errorf("confidence_threshold = %v", cfg.Assisted.ConfidenceThreshold)
	}
	if cfg.Assisted.Timeout != 3*time.Second {
		t.Errorf("timeout = %v", cfg.Assisted.Timeout)
	}
	if cfg.Audit.SQLite.Driver != "sqlite" {
		t.Errorf("driver = %q", cfg.Audit.SQLite.Driver)
	}
	// Defaults fill what the file omits.
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("read_timeout = %v, want default", cfg.Server.ReadTimeout)
	}
	if cfg.Snapshots.DebounceDelay != DefaultDebounceDelay {
		t.Errorf("debounce_delay = %v, want default", cfg.Snapshots.DebounceDelay)
	}
}

func TestLoadConfig_EmptyFileGetsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, "{}"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("listen_address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Audit.Backend != DefaultAuditBackend {
		t.Errorf("audit.backend = %q", cfg.Audit.Backend)
	}
	if cfg.Assisted.ConfidenceThreshold != DefaultConfidenceThreshold {
		t.Errorf("confidence_threshold = %v", cfg.Assisted.ConfidenceThreshold)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Telemetry.Logging)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	if _, err := LoadConfig(writeConfigFile(t, "server: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "bad audit backend",
			content: "audit:\n  backend: postgres\n",
			wantMsg: "audit.backend",
		},
		{
			name:    "bad sqlite driver",
			content: "audit:\n  sqlite:\n    driver: mysql\n",
			wantMsg: "audit.sqlite.driver",
		},
		{
			name:    "threshold above one",
			content: "assisted:\n  confidence_threshold: 1.5\n",
			wantMsg: "confidence_threshold",
		},
		{
			name:    "bad log level",
			content: "telemetry:\n  logging:\n    level: verbose\n",
			wantMsg: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Setenv("ARBITER_SERVER_LISTEN_ADDRESS", ":7777")
	t.Setenv("ARBITER_ASSISTED_ENABLED", "true")
	t.Setenv("ARBITER_ASSISTED_TIMEOUT", "5s")
	t.Setenv("ARBITER_AUDIT_BACKEND", "memory")
	t.Setenv("ARBITER_LOG_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(writeConfigFile(t, validConfig))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Server.ListenAddress != ":7777" {
		t.Errorf("listen_address = %q, env must win", cfg.Server.ListenAddress)
	}
	if cfg.Assisted.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Assisted.Timeout)
	}
	if cfg.Audit.Backend != "memory" {
		t.Errorf("audit.backend = %q", cfg.Audit.Backend)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("log level = %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverrideFailsValidation(t *testing.T) {
	t.Setenv("ARBITER_AUDIT_BACKEND", "postgres")

	if _, err := LoadConfigWithEnvOverrides(writeConfigFile(t, validConfig)); err == nil {
		t.Error("expected validation error after override")
	}
}

func TestValidate_DefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}
