// Package store provides the shared-state contract the rate limiter runs on,
// plus a Redis implementation for multi-instance deployments and an
// in-process implementation for tests and single-instance use.
//
// # Atomicity contract
//
// One Execute call performs every read and write a strategy decision needs as
// a single indivisible operation with respect to any concurrent Execute on
// the same key. No interleaving of a read-then-write sequence from two
// callers is ever observable. RedisStore delegates this to Redis's
// single-threaded Lua script execution; MemoryStore serializes script runs
// with a mutex, which models the same guarantee in-process. The engine never
// layers its own locking or compare-and-swap retries on top.
//
// # Script set
//
// Exactly two scripts exist, one per strategy, addressed by ScriptID. Both
// take arguments (limit, window seconds, now epoch seconds, entry nonce) and
// reply with [allowed, remaining, reset_after, retry_after]. Fractional
// seconds in the reply are encoded as strings because a Lua number returned
// to Redis is truncated to an integer.
//
// # Failure modes
//
// Connection failures, timeouts, and script errors all surface as a
// *StoreError matching errors.ErrStoreUnavailable. The store performs no
// retries; degraded-mode policy belongs to the orchestrator.
package store
