package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the convention
// ARBITER_SECTION_FIELD (e.g. ARBITER_SERVER_LISTEN_ADDRESS) and always
// take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies ARBITER_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ARBITER_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if d, ok := envDuration("ARBITER_SERVER_READ_TIMEOUT"); ok {
		cfg.Server.ReadTimeout = d
	}
	if d, ok := envDuration("ARBITER_SERVER_WRITE_TIMEOUT"); ok {
		cfg.Server.WriteTimeout = d
	}
	if d, ok := envDuration("ARBITER_SERVER_SHUTDOWN_TIMEOUT"); ok {
		cfg.Server.ShutdownTimeout = d
	}

	if val := os.Getenv("ARBITER_SPECS_DIRECTORY"); val != "" {
		cfg.Specs.Directory = val
	}
	if val := os.Getenv("ARBITER_SCOPES_FILE"); val != "" {
		cfg.Scopes.File = val
	}
	if val := os.Getenv("ARBITER_SNAPSHOTS_DIRECTORY"); val != "" {
		cfg.Snapshots.Directory = val
	}
	if b, ok := envBool("ARBITER_SNAPSHOTS_WATCH"); ok {
		cfg.Snapshots.Watch = b
	}
	if d, ok := envDuration("ARBITER_SNAPSHOTS_DEBOUNCE_DELAY"); ok {
		cfg.Snapshots.DebounceDelay = d
	}

	if b, ok := envBool("ARBITER_ASSISTED_ENABLED"); ok {
		cfg.Assisted.Enabled = b
	}
	if val := os.Getenv("ARBITER_ASSISTED_CONFIDENCE_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Assisted.ConfidenceThreshold = f
		}
	}
	if d, ok := envDuration("ARBITER_ASSISTED_TIMEOUT"); ok {
		cfg.Assisted.Timeout = d
	}

	if val := os.Getenv("ARBITER_AUDIT_BACKEND"); val != "" {
		cfg.Audit.Backend = val
	}
	if val := os.Getenv("ARBITER_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLite.Path = val
	}
	if val := os.Getenv("ARBITER_AUDIT_SQLITE_DRIVER"); val != "" {
		cfg.Audit.SQLite.Driver = val
	}
	if val := os.Getenv("ARBITER_AUDIT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Audit.Retention.TimelineRetentionDays = i
		}
	}
	if val := os.Getenv("ARBITER_AUDIT_PRUNE_SCHEDULE"); val != "" {
		cfg.Audit.Retention.PruneSchedule = val
	}

	if val := os.Getenv("ARBITER_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("ARBITER_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if b, ok := envBool("ARBITER_METRICS_ENABLED"); ok {
		cfg.Telemetry.Metrics.Enabled = b
	}
}

func envDuration(name string) (time.Duration, bool) {
	val := os.Getenv(name)
	if val == "" {
		return 0, false
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, false
	}
	return d, true
}

func envBool(name string) (bool, bool) {
	val := os.Getenv(name)
	if val == "" {
		return false, false
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, false
	}
	return b, true
}
