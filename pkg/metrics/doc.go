// Package metrics provides Prometheus instrumentation for sentinel components.
//
// A Registry bundles every metric the engine can emit. Components take a
// *Registry (or wrap themselves with their package's metrics decorator)
// instead of writing to package-level state, so tests and embedders can use
// isolated Prometheus registries.
//
// Exposed series (namespace "sentinel"):
//
//	ratelimit_requests_total{strategy}   decisions requested
//	ratelimit_allowed_total{strategy}    decisions that admitted the request
//	ratelimit_denied_total{strategy}     decisions that rejected the request
//	ratelimit_degraded_total{strategy,policy}
//	                                     decisions resolved by the failure
//	                                     policy because the store was away
//	store_latency_seconds{strategy}      shared-store round-trip latency
//	store_up                             1 when the last store probe succeeded
package metrics
