package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "arbiter",
	Short: "Arbiter - governance decision engine for agent workflows",
	Long: `Arbiter is a governance decision engine that turns structured decision
requests into deterministic ALLOW, PAUSE, BLOCK, or OBSERVE verdicts.

Decision specs declare which signals and verdicts are legal for each flow,
policy snapshots supply the rules, and every decision leaves an immutable
audit trail of events, verdicts, and timeline steps.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}
