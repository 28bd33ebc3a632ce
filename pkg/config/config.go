package config

import "time"

// Config is the root configuration for the Arbiter decision engine.
type Config struct {
	// Server configures the HTTP server run by the serve command.
	Server ServerConfig `yaml:"server"`

	// Specs configures loading of decision specs.
	Specs SpecsConfig `yaml:"specs"`

	// Scopes configures loading of the scope catalog.
	Scopes ScopesConfig `yaml:"scopes"`

	// Snapshots configures loading of policy snapshots.
	Snapshots SnapshotsConfig `yaml:"snapshots"`

	// Assisted configures the optional assisted signal extractor.
	Assisted AssistedConfig `yaml:"assisted"`

	// Audit configures the audit trail storage.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains HTTP server settings for the serve command.
type ServerConfig struct {
	// ListenAddress is the address to bind, e.g. ":8475".
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SpecsConfig contains decision spec loading settings.
type SpecsConfig struct {
	// Directory holds spec YAML files. All specs found are registered
	// and activated at startup.
	Directory string `yaml:"directory"`
}

// ScopesConfig contains scope catalog loading settings.
type ScopesConfig struct {
	// File is the YAML file declaring the scope catalog.
	File string `yaml:"file"`
}

// SnapshotsConfig contains policy snapshot loading settings.
type SnapshotsConfig struct {
	// Directory holds the policy files of the active snapshot.
	Directory string `yaml:"directory"`

	// Watch reloads the snapshot when files in Directory change. Each
	// reload builds a brand-new immutable snapshot; in-flight decisions
	// keep the one they started with.
	Watch bool `yaml:"watch"`

	// DebounceDelay coalesces rapid file change bursts into one reload.
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// AssistedConfig contains assisted extractor settings.
type AssistedConfig struct {
	// Enabled turns assisted extraction on. Deterministic extraction
	// always runs regardless.
	Enabled bool `yaml:"enabled"`

	// ConfidenceThreshold is the minimum confidence for an assisted
	// result to be accepted.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// Timeout bounds one assisted extractor invocation.
	Timeout time.Duration `yaml:"timeout"`
}

// AuditConfig contains audit trail storage settings.
type AuditConfig struct {
	// Backend selects the storage backend: "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention configures timeline retention.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains sqlite backend settings.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`

	// Driver selects the SQL driver: "sqlite3" (CGO) or "sqlite"
	// (pure Go).
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging.
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains timeline retention settings. Decision and
// verdict events are never subject to retention.
type RetentionConfig struct {
	// TimelineRetentionDays is the number of days to retain timeline
	// entries. 0 keeps them forever.
	TimelineRetentionDays int `yaml:"timeline_retention_days"`

	// PruneSchedule is a cron expression for scheduled pruning.
	// Empty disables the scheduler.
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains logging and metrics settings.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled turns metric recording on.
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus namespace.
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus subsystem.
	Subsystem string `yaml:"subsystem"`
}
