// Arbiter is a governance decision engine for agent-driven workflows.
//
// It evaluates structured decision requests against declarative decision
// specs and policy snapshots, producing deterministic ALLOW, PAUSE, BLOCK,
// or OBSERVE verdicts with an immutable audit trail:
//   - Decision specs declare the signals and verdicts legal for each flow
//   - Policy snapshots are immutable and hot-reloaded from disk
//   - Signal population fills declared signals from scope, timestamp,
//     caller context, and deterministic text extraction
//   - Every decision, verdict, and timeline step is recorded append-only
//
// Usage:
//
//	# Start the engine with default configuration
//	arbiter run
//
//	# Start with a custom configuration file
//	arbiter run --config /etc/arbiter/config.yaml
//
//	# Evaluate a single decision request from a file
//	arbiter decide --request request.yaml
//
//	# Validate specs, scopes, and policies without starting
//	arbiter validate
//
//	# Inspect the current policy snapshot
//	arbiter snapshot
//
//	# Show version information
//	arbiter version
package main

func main() {
	Execute()
}
