package main

import (
	"fmt"
	"log/slog"

	"clearline-hq/arbiter/pkg/audit"
	"clearline-hq/arbiter/pkg/cli"
	"clearline-hq/arbiter/pkg/config"
	"clearline-hq/arbiter/pkg/pipeline"
	"clearline-hq/arbiter/pkg/policy"
	"clearline-hq/arbiter/pkg/scope"
	"clearline-hq/arbiter/pkg/signal"
	"clearline-hq/arbiter/pkg/spec"
	"clearline-hq/arbiter/pkg/telemetry/logging"
	"clearline-hq/arbiter/pkg/telemetry/metrics"
)

// engine bundles the wired components a command needs to run decisions.
type engine struct {
	config   *config.Config
	logger   *slog.Logger
	registry *spec.Registry
	scopes   *scope.Catalog
	store    *policy.Store
	sink     audit.Sink
	metrics  *metrics.Metrics
	pipeline *pipeline.Pipeline
}

// loadConfiguration loads the config file with env overrides and applies
// command line overrides on top.
func loadConfiguration() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
		if err := config.Validate(cfg); err != nil {
			return nil, cli.NewConfigError("telemetry.logging.level", err.Error())
		}
	}

	return cfg, nil
}

// newLogger builds the process logger from the telemetry configuration and
// installs it as the slog default.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// loadRegistry loads every spec file from the configured directory,
// registers it, and activates the versions the files declare active.
func loadRegistry(cfg *config.Config, logger *slog.Logger) (*spec.Registry, error) {
	loader := spec.NewLoader(nil)
	specs, err := loader.LoadFromDirectory(cfg.Specs.Directory)
	if err != nil {
		return nil, fmt.Errorf("loading specs: %w", err)
	}

	registry := spec.NewRegistry()
	activated := 0
	for _, sp := range specs {
		declared := sp.Status
		if err := registry.Register(sp); err != nil {
			return nil, fmt.Errorf("registering spec %s/%s: %w", sp.ID, sp.Version, err)
		}
		if declared == spec.StatusActive || declared == "" {
			if err := registry.Activate(sp.ID, sp.Version); err != nil {
				return nil, fmt.Errorf("activating spec %s/%s: %w", sp.ID, sp.Version, err)
			}
			activated++
		}
	}

	logger.Info("specs loaded",
		"directory", cfg.Specs.Directory,
		"registered", len(specs),
		"active", activated,
	)
	return registry, nil
}

// loadSnapshot loads and binds the policy snapshot from the configured
// snapshot directory. Binding failures are fatal: an unbindable snapshot
// must never serve decisions.
func loadSnapshot(cfg *config.Config, registry *spec.Registry, scopes *scope.Catalog) (*policy.Snapshot, error) {
	loader := policy.NewLoader(nil)
	snap, err := loader.LoadSnapshot(cfg.Snapshots.Directory)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if err := policy.Bind(snap, registry.ActiveSpecs(), scopes); err != nil {
		return nil, fmt.Errorf("binding snapshot: %w", err)
	}
	return snap, nil
}

// newSink creates the audit backend named in the configuration.
func newSink(cfg *config.Config) (audit.Sink, error) {
	switch cfg.Audit.Backend {
	case "memory":
		return audit.NewMemorySink(), nil
	case "sqlite":
		return audit.NewSQLiteSink(&audit.SQLiteConfig{
			Path:         cfg.Audit.SQLite.Path,
			Driver:       cfg.Audit.SQLite.Driver,
			MaxOpenConns: cfg.Audit.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Audit.SQLite.MaxIdleConns,
			WALMode:      cfg.Audit.SQLite.WALMode,
			BusyTimeout:  cfg.Audit.SQLite.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported audit backend: %s", cfg.Audit.Backend)
	}
}

// buildEngine wires registry, catalog, snapshot store, populator, audit
// sink, and metrics into a decision pipeline. The caller owns the sink and
// must close it.
func buildEngine(cfg *config.Config, logger *slog.Logger) (*engine, error) {
	registry, err := loadRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	scopes, err := scope.LoadCatalog(cfg.Scopes.File)
	if err != nil {
		return nil, fmt.Errorf("loading scopes: %w", err)
	}

	snap, err := loadSnapshot(cfg, registry, scopes)
	if err != nil {
		return nil, err
	}
	store := policy.NewStore(snap)

	sink, err := newSink(cfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New(metrics.Config{
		Enabled:   cfg.Telemetry.Metrics.Enabled,
		Namespace: cfg.Telemetry.Metrics.Namespace,
		Subsystem: cfg.Telemetry.Metrics.Subsystem,
	}, nil)

	// No assisted extractor is wired by default; deterministic population
	// still runs and assisted extraction is skipped.
	populator := signal.NewPopulator(nil, signal.Config{
		AssistedEnabled:     cfg.Assisted.Enabled,
		ConfidenceThreshold: cfg.Assisted.ConfidenceThreshold,
		Timeout:             cfg.Assisted.Timeout,
	}, logger, m)

	logger.Info("engine assembled",
		"snapshot_id", snap.ID,
		"policies", snap.Count(),
		"audit_backend", cfg.Audit.Backend,
	)

	return &engine{
		config:   cfg,
		logger:   logger,
		registry: registry,
		scopes:   scopes,
		store:    store,
		sink:     sink,
		metrics:  m,
		pipeline: pipeline.New(registry, store, scopes, populator, sink, logger, m),
	}, nil
}
