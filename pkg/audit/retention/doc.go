// Package retention enforces the audit retention policy on a schedule.
//
// Only timeline entries are subject to retention; decision and verdict
// events are the permanent record and are never pruned. The pruner runs
// either on demand or on a cron schedule via the Scheduler.
package retention
