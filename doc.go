/*
Package sentinel provides distributed admission control (rate limiting) for
services that share one request budget per client across many instances.

All mutable counter state lives in an external store (Redis) and every
check-and-decrement runs as a single atomic server-side script, so the engine
needs no in-process locks and stays correct when many replicas evaluate the
same client concurrently.

Components (pkg/...):
  - quota: maps a client identity to its tier's Quota{limit, window} with a
    configured default fallback
  - store: the shared-state contract plus Redis and in-memory implementations
  - strategy: the two admission algorithms, token bucket and sliding-window log
  - limiter: the orchestrator binding strategy + quotas + store, with a
    fail-open/fail-closed policy for store outages
  - metrics: Prometheus instrumentation

Example usage:

	import (
		"github.com/redis/go-redis/v9"

		"github.com/vnykmshr/sentinel/pkg/limiter"
		"github.com/vnykmshr/sentinel/pkg/quota"
		"github.com/vnykmshr/sentinel/pkg/store"
	)

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	st := store.NewRedisStore(rdb)

	quotas, _ := quota.NewResolver(quota.TierTable{
		Default: quota.Quota{Limit: 100, Window: time.Minute},
	})

	lim, _ := limiter.New(limiter.Config{
		Strategy:      limiter.StrategyTokenBucket,
		Store:         st,
		Quotas:        quotas,
		FailurePolicy: limiter.FailOpen,
	})

	dec := lim.Evaluate(ctx, clientKey)
	if !dec.Allowed {
		// reject with Retry-After: dec.RetryAfter
	}
*/
package sentinel
