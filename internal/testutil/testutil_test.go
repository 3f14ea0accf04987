package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	snerrors "github.com/vnykmshr/sentinel/pkg/common/errors"
	"github.com/vnykmshr/sentinel/pkg/store"
)

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(t)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("context should have a deadline")
	}
	if time.Until(deadline) > TestTimeout {
		t.Error("deadline is too far in the future")
	}
}

func TestAssertHelpers(t *testing.T) {
	AssertNoError(t, nil)
	AssertError(t, context.Canceled)
	AssertEqual(t, 42, 42)
	AssertEqual(t, "hello", "hello")
}

func TestMockClock(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	clock := NewMockClock(start)

	AssertEqual(t, clock.Now(), start)

	clock.Advance(30 * time.Second)
	AssertEqual(t, clock.Now(), start.Add(30*time.Second))

	clock.Set(start)
	AssertEqual(t, clock.Now(), start)
}

func TestUnavailableStore(t *testing.T) {
	ctx := context.Background()
	st := NewUnavailableStore()

	_, err := st.Execute(ctx, store.ScriptTokenBucket, "k", int64(1))
	if !errors.Is(err, snerrors.ErrStoreUnavailable) {
		t.Errorf("Execute error should match ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(st.Ping(ctx), snerrors.ErrStoreUnavailable) {
		t.Error("Ping error should match ErrStoreUnavailable")
	}
	AssertEqual(t, st.Calls(), 1)
}
