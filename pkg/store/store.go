package store

import (
	"context"
	"errors"
	"strconv"

	snerrors "github.com/vnykmshr/sentinel/pkg/common/errors"
)

var errInvalidReply = errors.New("invalid script reply")

func wrapUnavailable(op string, err error) error {
	return &snerrors.StoreError{Op: op, Err: err}
}

// ScriptID names one of the fixed set of atomic scripts a Store can execute.
type ScriptID string

const (
	// ScriptTokenBucket refills and drains a token bucket in one step.
	ScriptTokenBucket ScriptID = "token_bucket"

	// ScriptSlidingWindow prunes, counts, and appends to a request log in
	// one step.
	ScriptSlidingWindow ScriptID = "sliding_window"
)

// Valid reports whether the id belongs to the known script set.
func (id ScriptID) Valid() bool {
	return id == ScriptTokenBucket || id == ScriptSlidingWindow
}

// Store is the shared-state client the rate limiter runs on.
//
// Execute runs the named script against key as one indivisible operation
// (see the package documentation for the exact contract) and returns the
// script's raw reply values. Ping reports reachability. Delete removes one
// key's state. All failures match errors.ErrStoreUnavailable.
type Store interface {
	Execute(ctx context.Context, id ScriptID, key string, args ...interface{}) ([]interface{}, error)
	Ping(ctx context.Context) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Reply converts raw script reply values into typed fields. Redis returns
// Lua numbers as int64 and anything fractional as a string; MemoryStore
// produces the same shapes so strategies parse one format.
type Reply struct {
	Allowed    bool
	Remaining  int64
	ResetAfter float64
	RetryAfter float64
}

// ParseReply decodes the common [allowed, remaining, reset_after,
// retry_after] reply shape shared by both scripts.
func ParseReply(values []interface{}) (Reply, bool) {
	if len(values) != 4 {
		return Reply{}, false
	}

	allowed, ok := values[0].(int64)
	if !ok {
		return Reply{}, false
	}
	remaining, ok := values[1].(int64)
	if !ok {
		return Reply{}, false
	}

	return Reply{
		Allowed:    allowed == 1,
		Remaining:  remaining,
		ResetAfter: toFloat(values[2]),
		RetryAfter: toFloat(values[3]),
	}, true
}

func toFloat(val interface{}) float64 {
	switch v := val.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}
