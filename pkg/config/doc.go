// Package config defines Arbiter's configuration model and loading.
//
// Configuration is read from a YAML file, filled with defaults, optionally
// overridden by ARBITER_* environment variables, and validated before use.
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config/arbiter.yaml")
//
// Environment variables follow ARBITER_SECTION_FIELD naming, e.g.
// ARBITER_SERVER_LISTEN_ADDRESS or ARBITER_ASSISTED_ENABLED, and always
// take precedence over file values.
package config
