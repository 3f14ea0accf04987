package limiter

import (
	"context"
	"fmt"
	"time"

	snerrors "github.com/vnykmshr/sentinel/pkg/common/errors"
	"github.com/vnykmshr/sentinel/pkg/common/validation"
	"github.com/vnykmshr/sentinel/pkg/metrics"
	"github.com/vnykmshr/sentinel/pkg/quota"
	"github.com/vnykmshr/sentinel/pkg/store"
	"github.com/vnykmshr/sentinel/pkg/strategy"
)

// Strategy names accepted by Config.Strategy.
const (
	StrategyTokenBucket   = "token_bucket"
	StrategySlidingWindow = "sliding_window"
)

// Failure policies accepted by Config.FailurePolicy.
const (
	// FailOpen admits traffic when the store is unavailable; availability
	// wins over strict enforcement.
	FailOpen = "open"

	// FailClosed rejects traffic when the store is unavailable; enforcement
	// wins over availability.
	FailClosed = "closed"
)

// Clock provides the current time. It can be mocked for testing.
type Clock interface {
	Now() time.Time
}

// SystemClock uses the real system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }

// Config holds construction-time configuration for a Limiter. It is read
// once by New; the Limiter keeps no ambient mutable settings.
type Config struct {
	// Strategy selects the admission algorithm: StrategyTokenBucket or
	// StrategySlidingWindow.
	Strategy string

	// Store is the shared-state client all counter state lives in.
	Store store.Store

	// Quotas resolves client identities to their budgets.
	Quotas *quota.Resolver

	// FailurePolicy selects degraded-mode behavior: FailOpen or FailClosed.
	FailurePolicy string

	// Clock supplies now; defaults to SystemClock.
	Clock Clock

	// Metrics receives decision and store instrumentation when non-nil.
	Metrics *metrics.Registry
}

// Limiter is the admission-control orchestrator.
type Limiter struct {
	strat    strategy.Strategy
	store    store.Store
	quotas   *quota.Resolver
	failOpen bool
	policy   string
	clock    Clock
	metrics  *metrics.Registry
}

// New validates the configuration and builds a Limiter. Any
// misconfiguration is fatal here so a broken deployment never degrades
// silently on the request path.
func New(cfg Config) (*Limiter, error) {
	if err := validation.ValidateNotNil("limiter", "store", cfg.Store); err != nil {
		return nil, err
	}
	// A nil *Resolver boxed in interface{} is non-nil, so the pointer must
	// be checked directly.
	if cfg.Quotas == nil {
		return nil, snerrors.NewValidationError("limiter", "quotas", nil, "cannot be nil").
			WithHint("provide a resolver built with quota.NewResolver")
	}

	var strat strategy.Strategy
	switch cfg.Strategy {
	case StrategyTokenBucket:
		strat = strategy.NewTokenBucket(cfg.Store)
	case StrategySlidingWindow:
		strat = strategy.NewSlidingWindow(cfg.Store)
	default:
		return nil, fmt.Errorf("%w: %q", snerrors.ErrUnknownStrategy, cfg.Strategy)
	}

	switch cfg.FailurePolicy {
	case FailOpen, FailClosed:
	default:
		return nil, fmt.Errorf("%w: %q", snerrors.ErrUnknownPolicy, cfg.FailurePolicy)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	return &Limiter{
		strat:    strat,
		store:    cfg.Store,
		quotas:   cfg.Quotas,
		failOpen: cfg.FailurePolicy == FailOpen,
		policy:   cfg.FailurePolicy,
		clock:    clock,
		metrics:  cfg.Metrics,
	}, nil
}

// Evaluate decides whether one request from identity may proceed. Exactly
// one store round trip happens; if it fails or the context expires, the
// decision is resolved by the failure policy instead of surfacing an error.
func (l *Limiter) Evaluate(ctx context.Context, identity string) strategy.Decision {
	q := l.quotas.Resolve(identity)
	now := l.clock.Now()
	key := l.strat.Name() + ":" + identity

	start := time.Now()
	dec, err := l.strat.Decide(ctx, key, q, now)
	if l.metrics != nil {
		l.metrics.StoreLatency.WithLabelValues(l.strat.Name()).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		dec = l.degrade(q)
		l.record(dec, true)
		return dec
	}

	l.record(dec, false)
	return dec
}

// Reset clears one identity's state under the configured strategy so its
// next decision starts from a fresh budget.
func (l *Limiter) Reset(ctx context.Context, identity string) error {
	return l.store.Delete(ctx, l.strat.Name()+":"+identity)
}

// Strategy returns the configured strategy name.
func (l *Limiter) Strategy() string { return l.strat.Name() }

// Policy returns the configured failure policy.
func (l *Limiter) Policy() string { return l.policy }

// degrade resolves a decision without the store, per the failure policy.
func (l *Limiter) degrade(q quota.Quota) strategy.Decision {
	if l.failOpen {
		return strategy.Decision{
			Allowed:    true,
			Limit:      q.Limit,
			Remaining:  q.Limit,
			ResetAfter: q.Window,
		}
	}
	return strategy.Decision{
		Allowed:    false,
		Limit:      q.Limit,
		Remaining:  0,
		ResetAfter: q.Window,
		RetryAfter: q.Window,
	}
}

func (l *Limiter) record(dec strategy.Decision, degraded bool) {
	if l.metrics == nil {
		return
	}
	name := l.strat.Name()
	l.metrics.Requests.WithLabelValues(name).Inc()
	if degraded {
		l.metrics.Degraded.WithLabelValues(name, l.policy).Inc()
	}
	if dec.Allowed {
		l.metrics.Allowed.WithLabelValues(name).Inc()
	} else {
		l.metrics.Denied.WithLabelValues(name).Inc()
	}
}
