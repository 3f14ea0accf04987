package strategy

import (
	"context"
	"time"

	"github.com/vnykmshr/sentinel/pkg/quota"
)

// Decision is the outcome of one admission check. It is produced fresh per
// call, returned to the caller, and never persisted.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Limit echoes the quota limit the decision was made under, for
	// callers that emit rate-limit headers.
	Limit int64

	// Remaining is the number of whole requests left in the budget after
	// this decision.
	Remaining int64

	// ResetAfter is how long until the budget is fully restored.
	ResetAfter time.Duration

	// RetryAfter is zero when allowed; when denied it is the time until
	// one slot is expected to open.
	RetryAfter time.Duration
}

// Strategy decides whether one request under the given quota may proceed.
// Implementations delegate all state reads and writes to a single atomic
// script run on the shared store, keyed by key. The caller supplies now.
type Strategy interface {
	Name() string
	Decide(ctx context.Context, key string, q quota.Quota, now time.Time) (Decision, error)
}

// epoch converts a time to float64 seconds since the Unix epoch with
// microsecond precision, the representation the scripts work in.
func epoch(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

// seconds converts fractional script seconds back to a duration.
func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
