// Package genloop implements the generation-validation-repair loop: it turns
// a rules prompt into a verified, runnable game program by repeatedly asking
// an LLM provider for code, validating the result, and feeding failures back
// into the next prompt until the artifact passes or the retry budget runs
// out.
//
// The loop is an explicit state machine:
//
//	INIT -> GENERATING -> VALIDATING -> {SUCCESS, REPAIRING, EXHAUSTED}
//	REPAIRING -> GENERATING
//
// Each iteration produces one GenerationAttempt and exactly one
// ValidationOutcome. Attempts are strictly ordered, the session never holds
// more attempts than the budget, and the final outcome is set exactly once.
//
// Validation is two-stage: a static parse of the artifact, then a sandboxed
// smoke run with an enforced wall-clock timeout. Faults inside the sandbox
// never escape to the caller; every failure becomes a typed outcome.
//
// A session is exclusively owned by the Run call that created it, so
// independent sessions can run concurrently with no shared mutable state
// beyond read-only configuration.
package genloop
