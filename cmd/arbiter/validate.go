package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clearline-hq/arbiter/pkg/cli"
	"clearline-hq/arbiter/pkg/scope"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate specs, scopes, and policy snapshot",
	Long: `Validate the configured decision specs, scope catalog, and policy
snapshot without starting the engine.

Validation loads every spec file, checks structural integrity (signal
declarations, allowed verdicts), loads the scope catalog with its isolation
rules, and binds the policy snapshot against the active specs. Binding
fails when a policy references an unknown spec, emits a verdict its spec
does not permit, conditions an undeclared signal, or names an unknown
scope.

Examples:
  # Validate everything named in the config
  arbiter validate

  # Validate with an alternate config
  arbiter validate --config staging.yaml`,
	RunE: validateAll,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateAll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	fmt.Println("✓ Configuration valid")

	registry, err := loadRegistry(cfg, logger)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	fmt.Printf("✓ Specs valid (%d registered, %d active)\n",
		registry.Count(), len(registry.ActiveSpecs()))

	scopes, err := scope.LoadCatalog(cfg.Scopes.File)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	fmt.Printf("✓ Scope catalog valid (%d scopes)\n", scopes.Count())

	snap, err := loadSnapshot(cfg, registry, scopes)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	fmt.Printf("✓ Snapshot valid (%d policies, fingerprint %s)\n", snap.Count(), snap.ID)

	return nil
}
