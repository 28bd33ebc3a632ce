package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"clearline-hq/arbiter/pkg/audit"
	"clearline-hq/arbiter/pkg/audit/retention"
	"clearline-hq/arbiter/pkg/cli"
	"clearline-hq/arbiter/pkg/policy"
	"clearline-hq/arbiter/pkg/server"
	"clearline-hq/arbiter/pkg/telemetry/health"
)

var runFlags struct {
	listenAddress string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the arbiter decision engine",
	Long: `Start the arbiter decision engine as a long-running server.

The server loads decision specs, the scope catalog, and the policy snapshot,
then serves decision requests over HTTP. Snapshot changes on disk are
hot-reloaded as new immutable snapshots, audit timeline retention runs on a
cron schedule, and Prometheus metrics are exposed on /metrics.

Examples:
  # Start with default config
  arbiter run

  # Start with custom config
  arbiter run --config /etc/arbiter/config.yaml

  # Override listen address
  arbiter run --listen 0.0.0.0:8475

  # Validate config and wiring without serving
  arbiter run --dry-run`,
	RunE: runEngine,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config and wiring without serving")
}

func runEngine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer eng.sink.Close()

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		fmt.Printf("✓ Snapshot %s (%d policies)\n", eng.store.Current().ID, eng.store.Current().Count())
		return nil
	}

	ctx := cli.SetupSignalHandler()

	// Hot-reload snapshots when the directory changes. Each reload builds
	// and binds a brand-new snapshot; a broken snapshot is rejected and the
	// previous one keeps serving.
	if cfg.Snapshots.Watch {
		watcherConfig := policy.DefaultWatcherConfig()
		watcherConfig.Path = cfg.Snapshots.Directory
		if cfg.Snapshots.DebounceDelay > 0 {
			watcherConfig.DebounceInterval = cfg.Snapshots.DebounceDelay
		}

		watcher, err := policy.NewWatcher(watcherConfig, logger)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("creating snapshot watcher: %w", err))
		}
		defer watcher.Stop()

		go func() {
			err := watcher.Watch(ctx, func() error {
				snap, err := loadSnapshot(cfg, eng.registry, eng.scopes)
				if err != nil {
					return err
				}
				eng.store.Replace(snap)
				logger.Info("snapshot reloaded", "snapshot_id", snap.ID, "policies", snap.Count())
				return nil
			})
			if err != nil {
				logger.Error("snapshot watcher stopped", "error", err)
			}
		}()
	}

	// Timeline retention runs on the cron schedule when the backend
	// supports pruning. Decisions and verdicts are never pruned.
	if pruner, ok := eng.sink.(audit.TimelinePruner); ok && cfg.Audit.Retention.PruneSchedule != "" {
		p := retention.NewPruner(pruner, &retention.Config{
			TimelineRetentionDays: cfg.Audit.Retention.TimelineRetentionDays,
			PruneSchedule:         cfg.Audit.Retention.PruneSchedule,
		})
		if err := p.Scheduler().Start(ctx); err != nil {
			logger.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer p.Scheduler().Stop()
		}
	}

	checker := health.New(0)
	checker.RegisterCheck("registry", func(ctx context.Context) error {
		if eng.registry.Count() == 0 {
			return fmt.Errorf("no specs registered")
		}
		return nil
	})
	checker.RegisterCheck("snapshot", func(ctx context.Context) error {
		if eng.store.Current() == nil {
			return fmt.Errorf("no policy snapshot loaded")
		}
		return nil
	})
	checker.RegisterCheck("audit", func(ctx context.Context) error {
		_, err := eng.sink.QueryDecisions(ctx, &audit.Query{Limit: 1})
		return err
	})

	opts := server.Options{
		Decider:   eng.pipeline,
		Sink:      eng.sink,
		Health:    checker,
		Logger:    logger,
		Version:   Version,
		Commit:    GitCommit,
		BuildDate: BuildDate,
	}
	if cfg.Telemetry.Metrics.Enabled {
		opts.Metrics = eng.metrics.Handler()
	}

	srv := server.New(cfg.Server, opts)

	fmt.Printf("Arbiter %s\n", Version)
	fmt.Printf("✓ Listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}
