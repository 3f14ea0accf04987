package strategy

import (
	"context"
	"time"

	snerrors "github.com/vnykmshr/sentinel/pkg/common/errors"
	"github.com/vnykmshr/sentinel/pkg/quota"
	"github.com/vnykmshr/sentinel/pkg/store"
)

// TokenBucket admits requests from a capacity-bounded token pool that
// refills continuously at limit/window tokens per second. Each admitted
// request drains one token; a new key starts with a full bucket.
//
// The refill computation, threshold check, and write-back all happen inside
// one store script run. Splitting them would let two concurrent callers both
// observe tokens >= 1 and both be admitted on a single remaining token.
type TokenBucket struct {
	store store.Store
}

// NewTokenBucket creates a token bucket strategy on the given store.
func NewTokenBucket(st store.Store) *TokenBucket {
	return &TokenBucket{store: st}
}

// Name returns the strategy's configuration name.
func (tb *TokenBucket) Name() string {
	return "token_bucket"
}

// Decide runs one atomic refill-and-drain against the store.
func (tb *TokenBucket) Decide(ctx context.Context, key string, q quota.Quota, now time.Time) (Decision, error) {
	values, err := tb.store.Execute(ctx, store.ScriptTokenBucket, key,
		q.Limit,            // ARGV[1]
		q.Window.Seconds(), // ARGV[2]
		epoch(now),         // ARGV[3]
	)
	if err != nil {
		return Decision{}, err
	}

	reply, ok := store.ParseReply(values)
	if !ok {
		return Decision{}, &snerrors.StoreError{Op: "token_bucket", Err: errBadReply}
	}

	return Decision{
		Allowed:    reply.Allowed,
		Limit:      q.Limit,
		Remaining:  reply.Remaining,
		ResetAfter: seconds(reply.ResetAfter),
		RetryAfter: seconds(reply.RetryAfter),
	}, nil
}
