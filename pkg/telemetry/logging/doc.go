// Package logging provides structured logging for Arbiter built on log/slog.
//
// Loggers are created once at startup from a Config and handed to components,
// which attach their identity with logger.With("component", name). Level and
// format are configurable; JSON is the default for machine-readable audit
// trails in production.
package logging
