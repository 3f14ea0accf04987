// Package strategy implements the two admission algorithms behind one
// contract: Decide(key, quota, now) -> Decision.
//
// Token bucket keeps O(1) state per key and allows bursts up to the limit
// while enforcing the long-term rate limit/window. Sliding-window log keeps
// O(limit) state per key and enforces the limit exactly over any trailing
// window, which eliminates the burst-doubling possible at fixed-window
// boundaries. That storage cost is the explicit precision/space tradeoff
// between the two.
//
// A strategy performs its whole read-modify-write as one atomic script run
// on the shared store; it never reads the clock itself. The orchestrator
// samples now once per decision so one consistent timestamp flows
// end-to-end and tests can inject deterministic time.
package strategy
