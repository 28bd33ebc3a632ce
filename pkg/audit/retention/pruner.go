package retention

import (
	"context"
	"log/slog"
	"time"

	"clearline-hq/arbiter/pkg/audit"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// TimelineRetentionDays is the number of days to retain timeline
	// entries. 0 means keep them forever (no pruning).
	TimelineRetentionDays int

	// PruneSchedule is a cron expression for scheduled pruning.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables scheduling.
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		TimelineRetentionDays: 90,
		PruneSchedule:         "0 3 * * *",
	}
}

// Pruner enforces the timeline retention period. It holds the narrow
// TimelinePruner interface rather than the full sink, so pruning can
// never touch decision or verdict records.
type Pruner struct {
	store     audit.TimelinePruner
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
}

// NewPruner creates a retention pruner.
func NewPruner(store audit.TimelinePruner, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "audit.retention"),
		now:    time.Now,
	}
	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes timeline entries older than the retention period and
// returns the number of deleted entries.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.TimelineRetentionDays <= 0 {
		return 0, nil
	}

	cutoff := p.now().AddDate(0, 0, -p.config.TimelineRetentionDays)
	deleted, err := p.store.PruneTimeline(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		p.logger.Info("pruned timeline entries",
			"deleted", deleted,
			"cutoff", cutoff,
			"retention_days", p.config.TimelineRetentionDays,
		)
	}
	return deleted, nil
}

// Scheduler returns the cron scheduler bound to this pruner.
func (p *Pruner) Scheduler() *Scheduler {
	return p.scheduler
}
