package strategy

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	snerrors "github.com/vnykmshr/sentinel/pkg/common/errors"
	"github.com/vnykmshr/sentinel/pkg/quota"
	"github.com/vnykmshr/sentinel/pkg/store"
)

var errBadReply = errors.New("malformed script reply")

// SlidingWindow admits requests by counting the timestamps logged in the
// trailing window ending at now. The script prunes entries older than the
// window, counts what remains, and inserts now only when the count is under
// the limit, all in one atomic run. Because the window slides with now, a
// burst cannot double up by straddling two fixed windows.
//
// When denied, RetryAfter points at the instant the oldest logged entry
// falls out of the window, giving the caller a precise earliest-retry hint.
type SlidingWindow struct {
	store    store.Store
	instance string
	seq      atomic.Uint64
}

// NewSlidingWindow creates a sliding-window log strategy on the given store.
func NewSlidingWindow(st store.Store) *SlidingWindow {
	return &SlidingWindow{store: st, instance: instanceTag()}
}

// Name returns the strategy's configuration name.
func (sw *SlidingWindow) Name() string {
	return "sliding_window"
}

// Decide runs one atomic prune-count-insert against the store.
func (sw *SlidingWindow) Decide(ctx context.Context, key string, q quota.Quota, now time.Time) (Decision, error) {
	// Log members must be unique per decision: two callers sharing one
	// timestamp would otherwise collapse into a single entry and undercount.
	member := strconv.FormatFloat(epoch(now), 'f', 6, 64) +
		"-" + sw.instance +
		"-" + strconv.FormatUint(sw.seq.Add(1), 10)

	values, err := sw.store.Execute(ctx, store.ScriptSlidingWindow, key,
		q.Limit,            // ARGV[1]
		q.Window.Seconds(), // ARGV[2]
		epoch(now),         // ARGV[3]
		member,             // ARGV[4]
	)
	if err != nil {
		return Decision{}, err
	}

	reply, ok := store.ParseReply(values)
	if !ok {
		return Decision{}, &snerrors.StoreError{Op: "sliding_window", Err: errBadReply}
	}

	return Decision{
		Allowed:    reply.Allowed,
		Limit:      q.Limit,
		Remaining:  reply.Remaining,
		ResetAfter: seconds(reply.ResetAfter),
		RetryAfter: seconds(reply.RetryAfter),
	}, nil
}

// instanceTag builds a short identifier that keeps log members from this
// process distinct from other instances sharing the store.
func instanceTag() string {
	hostname, _ := os.Hostname()
	randomBytes := make([]byte, 4)
	rand.Read(randomBytes)
	return fmt.Sprintf("%s-%d-%x", hostname, os.Getpid(), randomBytes)
}
