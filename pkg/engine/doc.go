// Package engine implements the pure decision evaluator.
//
// Evaluate reduces a fully populated decision event, its governing spec,
// and an immutable policy snapshot to a single verdict plus the list of
// every policy that matched. It is synchronous and deterministic: no I/O,
// no clock or randomness, no mutation of any input, and no signal
// population; by the time the evaluator runs, all signals are final.
//
// Condition semantics are deliberately forgiving at evaluation time and
// strict at load time: unknown operators never reach the evaluator (the
// policy loader rejects them), a field absent from both context and scope
// simply fails to match, and a numeric operator over non-numeric operands
// evaluates false rather than erroring.
package engine
