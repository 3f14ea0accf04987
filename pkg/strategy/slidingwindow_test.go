package strategy

import (
	"testing"
	"time"

	"github.com/vnykmshr/sentinel/internal/testutil"
	"github.com/vnykmshr/sentinel/pkg/quota"
	"github.com/vnykmshr/sentinel/pkg/store"
)

func TestSlidingWindow_EnforcesLimitExactly(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	st := store.NewMemoryStore()
	sw := NewSlidingWindow(st)
	q := quota.Quota{Limit: 5, Window: time.Minute}
	now := time.Unix(1_700_000_000, 0)

	for i := 0; i < 5; i++ {
		dec, err := sw.Decide(ctx, "sliding_window:user1", q, now)
		testutil.AssertNoError(t, err)
		if !dec.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		testutil.AssertEqual(t, dec.Remaining, int64(4-i))
	}

	dec, err := sw.Decide(ctx, "sliding_window:user1", q, now)
	testutil.AssertNoError(t, err)
	if dec.Allowed {
		t.Fatal("6th request within the window should be denied")
	}
}

func TestSlidingWindow_BoundaryHoppingResistance(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	st := store.NewMemoryStore()
	sw := NewSlidingWindow(st)
	q := quota.Quota{Limit: 5, Window: time.Minute}
	t0 := time.Unix(1_700_000_000, 0)

	// 5 requests land at t=59.
	t59 := t0.Add(59 * time.Second)
	for i := 0; i < 5; i++ {
		dec, err := sw.Decide(ctx, "sliding_window:user1", q, t59)
		testutil.AssertNoError(t, err)
		if !dec.Allowed {
			t.Fatalf("request %d at t=59 should be allowed", i+1)
		}
	}

	// 5 more at t=61: the trailing window [1, 61] still holds the first
	// five, so none may pass. A fixed window aligned at t=60 would have
	// admitted all ten.
	t61 := t0.Add(61 * time.Second)
	for i := 0; i < 5; i++ {
		dec, err := sw.Decide(ctx, "sliding_window:user1", q, t61)
		testutil.AssertNoError(t, err)
		if dec.Allowed {
			t.Fatalf("request %d at t=61 should be denied", i+1)
		}
	}
}

func TestSlidingWindow_RetryAfterTracksOldestEntry(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	st := store.NewMemoryStore()
	sw := NewSlidingWindow(st)
	q := quota.Quota{Limit: 2, Window: time.Minute}
	t0 := time.Unix(1_700_000_000, 0)

	if dec, _ := sw.Decide(ctx, "sliding_window:u", q, t0); !dec.Allowed {
		t.Fatal("first request denied")
	}
	if dec, _ := sw.Decide(ctx, "sliding_window:u", q, t0.Add(10*time.Second)); !dec.Allowed {
		t.Fatal("second request denied")
	}

	// Denied at t=20: the oldest entry (t=0) leaves the window at t=60,
	// so the earliest retry is 40s away.
	dec, err := sw.Decide(ctx, "sliding_window:u", q, t0.Add(20*time.Second))
	testutil.AssertNoError(t, err)
	if dec.Allowed {
		t.Fatal("third request should be denied")
	}
	if dec.RetryAfter < 39*time.Second || dec.RetryAfter > 41*time.Second {
		t.Errorf("RetryAfter = %v, want ~40s", dec.RetryAfter)
	}
}

func TestSlidingWindow_WindowDrainsOverTime(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	st := store.NewMemoryStore()
	sw := NewSlidingWindow(st)
	q := quota.Quota{Limit: 2, Window: time.Minute}
	t0 := time.Unix(1_700_000_000, 0)

	sw.Decide(ctx, "sliding_window:u", q, t0)
	sw.Decide(ctx, "sliding_window:u", q, t0.Add(30*time.Second))

	// At t=89 the t=0 entry has aged out; one slot is open again.
	dec, err := sw.Decide(ctx, "sliding_window:u", q, t0.Add(89*time.Second))
	testutil.AssertNoError(t, err)
	if !dec.Allowed {
		t.Fatal("slot should reopen once the oldest entry ages out")
	}
	testutil.AssertEqual(t, dec.Remaining, int64(0))
}

func TestSlidingWindow_SameTimestampCountsSeparately(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	st := store.NewMemoryStore()
	sw := NewSlidingWindow(st)
	q := quota.Quota{Limit: 3, Window: time.Minute}
	now := time.Unix(1_700_000_000, 0)

	// Three decisions sharing one timestamp must occupy three log slots,
	// not collapse into one entry.
	for i := 0; i < 3; i++ {
		dec, err := sw.Decide(ctx, "sliding_window:u", q, now)
		testutil.AssertNoError(t, err)
		if !dec.Allowed {
			t.Fatalf("request %d denied", i+1)
		}
	}
	dec, err := sw.Decide(ctx, "sliding_window:u", q, now)
	testutil.AssertNoError(t, err)
	if dec.Allowed {
		t.Fatal("4th request sharing the timestamp should be denied")
	}
}
