// Package limiter binds a strategy, a quota resolver, and a shared-state
// store into the admission-control engine's single entry point:
//
//	dec := lim.Evaluate(ctx, identity)
//
// Evaluate resolves the identity's quota, samples the clock once, and runs
// the configured strategy's atomic script against the shared store. State
// keys are namespaced "strategy:identity", so switching strategies starts an
// identity's counters fresh instead of misreading the old strategy's state.
//
// # Failure policy
//
// Store trouble never reaches the request path as an error. When the store
// is unavailable (connection failure, timeout, script error, or a caller
// context that expired mid-round-trip), Evaluate resolves the decision with
// the configured policy: FailOpen admits the request with a full budget,
// FailClosed rejects it with RetryAfter set to the quota window. At most one
// store round trip happens per call; there is no retry loop.
//
// # Concurrency
//
// A Limiter is safe for concurrent use from any number of goroutines and
// from multiple process instances sharing one store. It holds no cross-call
// mutable state; decisions for the same key are linearized by the store's
// atomic script execution.
//
// Construction validates everything: unknown strategy names, unknown failure
// policies, and invalid quotas are fatal before traffic is accepted.
package limiter
