// Package cli provides shared helpers for the arbiter command line:
// typed command errors, output formatting, and shutdown signal handling.
package cli
