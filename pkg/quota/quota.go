package quota

import (
	"fmt"
	"time"

	snerrors "github.com/vnykmshr/sentinel/pkg/common/errors"
	"github.com/vnykmshr/sentinel/pkg/common/validation"
)

// Quota is the budget applied to one client: at most Limit requests per
// Window. Immutable once resolved for a decision.
type Quota struct {
	Limit  int64
	Window time.Duration
}

// Rate returns the sustained refill rate in requests per second.
func (q Quota) Rate() float64 {
	return float64(q.Limit) / q.Window.Seconds()
}

// Validate reports whether the quota is usable. A non-positive limit or
// window is rejected with ErrInvalidQuota.
func (q Quota) Validate() error {
	if q.Limit <= 0 {
		return fmt.Errorf("%w: limit %d must be positive", snerrors.ErrInvalidQuota, q.Limit)
	}
	if q.Window <= 0 {
		return fmt.Errorf("%w: window %s must be positive", snerrors.ErrInvalidQuota, q.Window)
	}
	return nil
}

// TierTable maps tier names (or individual identities) to quotas. Default
// applies to every identity that matches no tier. The table is read-only at
// decision time; it is owned by configuration and injected at construction.
type TierTable struct {
	Tiers   map[string]Quota
	Default Quota
}

// TierFunc maps a client identity to a tier name. It is consulted when the
// identity itself has no entry in the table; returning "" means no tier.
type TierFunc func(identity string) string

// Option configures a Resolver.
type Option func(*Resolver)

// WithTierFunc installs a tier classifier, e.g. mapping API keys with a
// "vip_" prefix to the "vip" tier.
func WithTierFunc(fn TierFunc) Option {
	return func(r *Resolver) { r.tierOf = fn }
}

// Resolver maps a client identity to its Quota. It is a pure function of
// (identity, tier table): deterministic, no I/O, safe for concurrent use.
type Resolver struct {
	tiers  map[string]Quota
	def    Quota
	tierOf TierFunc
}

// NewResolver validates every quota in the table (including the default)
// and returns a Resolver. Validation failure is fatal to startup.
func NewResolver(table TierTable, opts ...Option) (*Resolver, error) {
	if err := table.Default.Validate(); err != nil {
		return nil, fmt.Errorf("default quota: %w", err)
	}
	for tier, q := range table.Tiers {
		if err := validation.ValidateNotEmpty("quota", "tier", tier); err != nil {
			return nil, err
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("tier %q: %w", tier, err)
		}
	}

	tiers := make(map[string]Quota, len(table.Tiers))
	for tier, q := range table.Tiers {
		tiers[tier] = q
	}

	r := &Resolver{tiers: tiers, def: table.Default}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve returns the quota for the given identity: an exact table match
// first, then the identity's tier (when a TierFunc is configured), then the
// default. Absence is policy, not failure.
func (r *Resolver) Resolve(identity string) Quota {
	if q, ok := r.tiers[identity]; ok {
		return q
	}
	if r.tierOf != nil {
		if tier := r.tierOf(identity); tier != "" {
			if q, ok := r.tiers[tier]; ok {
				return q
			}
		}
	}
	return r.def
}

// Default returns the fallback quota.
func (r *Resolver) Default() Quota {
	return r.def
}
