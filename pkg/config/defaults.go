package config

import "time"

// Default values applied to unset fields.
const (
	DefaultListenAddress   = ":8475"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultSpecsDirectory     = "config/specs"
	DefaultScopesFile         = "config/scopes.yaml"
	DefaultSnapshotsDirectory = "config/policies"
	DefaultDebounceDelay      = 500 * time.Millisecond

	DefaultConfidenceThreshold = 0.8
	DefaultAssistedTimeout     = 2 * time.Second

	DefaultAuditBackend  = "sqlite"
	DefaultSQLitePath    = "data/audit.db"
	DefaultSQLiteDriver  = "sqlite3"
	DefaultMaxOpenConns  = 10
	DefaultMaxIdleConns  = 5
	DefaultBusyTimeout   = 5 * time.Second
	DefaultRetentionDays = 90

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills unset fields with their default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Specs.Directory == "" {
		cfg.Specs.Directory = DefaultSpecsDirectory
	}
	if cfg.Scopes.File == "" {
		cfg.Scopes.File = DefaultScopesFile
	}
	if cfg.Snapshots.Directory == "" {
		cfg.Snapshots.Directory = DefaultSnapshotsDirectory
	}
	if cfg.Snapshots.DebounceDelay <= 0 {
		cfg.Snapshots.DebounceDelay = DefaultDebounceDelay
	}

	if cfg.Assisted.ConfidenceThreshold <= 0 {
		cfg.Assisted.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if cfg.Assisted.Timeout <= 0 {
		cfg.Assisted.Timeout = DefaultAssistedTimeout
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = DefaultAuditBackend
	}
	if cfg.Audit.SQLite.Path == "" {
		cfg.Audit.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Audit.SQLite.Driver == "" {
		cfg.Audit.SQLite.Driver = DefaultSQLiteDriver
	}
	if cfg.Audit.SQLite.MaxOpenConns <= 0 {
		cfg.Audit.SQLite.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.Audit.SQLite.MaxIdleConns <= 0 {
		cfg.Audit.SQLite.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Audit.SQLite.BusyTimeout <= 0 {
		cfg.Audit.SQLite.BusyTimeout = DefaultBusyTimeout
	}
	if cfg.Audit.Retention.TimelineRetentionDays < 0 {
		cfg.Audit.Retention.TimelineRetentionDays = DefaultRetentionDays
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
