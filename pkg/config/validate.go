package config

import (
	"fmt"
	"strings"
)

// ValidationError collects configuration validation failures.
type ValidationError struct {
	Errors []string
}

// Add appends a validation failure message.
func (e *ValidationError) Add(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any failures were collected.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "config: " + e.Errors[0]
	}
	return fmt.Sprintf("config: %d errors: %s", len(e.Errors), strings.Join(e.Errors, "; "))
}

// Validate checks the configuration for consistency. It assumes defaults
// have already been applied.
func Validate(cfg *Config) error {
	verr := &ValidationError{}

	if cfg.Server.ListenAddress == "" {
		verr.Add("server.listen_address is required")
	}
	if cfg.Specs.Directory == "" {
		verr.Add("specs.directory is required")
	}
	if cfg.Snapshots.Directory == "" {
		verr.Add("snapshots.directory is required")
	}

	if t := cfg.Assisted.ConfidenceThreshold; t < 0 || t > 1 {
		verr.Add("assisted.confidence_threshold must be in [0, 1], got %v", t)
	}
	if cfg.Assisted.Enabled && cfg.Assisted.Timeout <= 0 {
		verr.Add("assisted.timeout must be positive when assisted extraction is enabled")
	}

	switch cfg.Audit.Backend {
	case "memory":
	case "sqlite":
		if cfg.Audit.SQLite.Path == "" {
			verr.Add("audit.sqlite.path is required for the sqlite backend")
		}
		switch cfg.Audit.SQLite.Driver {
		case "sqlite3", "sqlite":
		default:
			verr.Add("audit.sqlite.driver must be %q or %q, got %q",
				"sqlite3", "sqlite", cfg.Audit.SQLite.Driver)
		}
	default:
		verr.Add("audit.backend must be %q or %q, got %q",
			"memory", "sqlite", cfg.Audit.Backend)
	}

	if cfg.Audit.Retention.TimelineRetentionDays < 0 {
		verr.Add("audit.retention.timeline_retention_days must not be negative")
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		verr.Add("telemetry.logging.level %q is not a valid level", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		verr.Add("telemetry.logging.format %q is not a valid format", cfg.Telemetry.Logging.Format)
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
