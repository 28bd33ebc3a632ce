package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"clearline-hq/arbiter/pkg/cli"
	"clearline-hq/arbiter/pkg/pipeline"
)

var decideFlags struct {
	requestFile string
	format      string
}

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Evaluate a single decision request",
	Long: `Evaluate one decision request from a file and print the verdict.

The request file may be JSON or YAML and must contain the decision request
fields (organization, domain, intent, stage, actor, scope, context). The
full pipeline runs: spec resolution, signal population, validation,
evaluation, and audit recording against the configured backend.

Examples:
  # Evaluate a request and print the verdict
  arbiter decide --request request.yaml

  # JSON output for scripting
  arbiter decide --request request.json --format json`,
	RunE: decideOnce,
}

func init() {
	rootCmd.AddCommand(decideCmd)

	decideCmd.Flags().StringVarP(&decideFlags.requestFile, "request", "r", "", "decision request file (JSON or YAML)")
	decideCmd.Flags().StringVarP(&decideFlags.format, "format", "f", "text", "output format: text, json, yaml")
	_ = decideCmd.MarkFlagRequired("request")
}

func decideOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	req, err := readRequest(decideFlags.requestFile)
	if err != nil {
		return cli.NewCommandError("decide", err)
	}

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return cli.NewCommandError("decide", err)
	}
	defer eng.sink.Close()

	outcome, err := eng.pipeline.Decide(cmd.Context(), req)
	if err != nil {
		return cli.NewCommandError("decide", err)
	}

	v := outcome.Verdict
	switch cli.OutputFormat(decideFlags.format) {
	case cli.FormatJSON, cli.FormatYAML:
		formatter := cli.NewFormatter(cli.OutputFormat(decideFlags.format))
		return formatter.FormatTo(os.Stdout, v)
	default:
		fmt.Printf("Verdict:    %s\n", v.Verdict)
		fmt.Printf("Decision:   %s\n", v.DecisionID)
		fmt.Printf("Spec:       %s@%s\n", v.SpecID, v.SpecVersion)
		fmt.Printf("Scope:      %s", v.ScopeID)
		if v.OwningTeam != "" {
			fmt.Printf(" (owned by %s)", v.OwningTeam)
		}
		fmt.Println()
		fmt.Printf("Snapshot:   %s\n", v.SnapshotID)
		if len(v.MatchedPolicyIDs) > 0 {
			fmt.Printf("Matched:    %s\n", strings.Join(v.MatchedPolicyIDs, ", "))
		} else {
			fmt.Println("Matched:    (none)")
		}
		return nil
	}
}

// readRequest parses a decision request from a JSON or YAML file.
func readRequest(path string) (*pipeline.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}

	var req pipeline.Request
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("parsing request JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("parsing request YAML: %w", err)
		}
	}

	return &req, nil
}
