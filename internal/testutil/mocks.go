package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	snerrors "github.com/vnykmshr/sentinel/pkg/common/errors"
	"github.com/vnykmshr/sentinel/pkg/store"
)

// MockClock implements the limiter Clock interface with controllable time.
// This is used across rate limiter tests to avoid actual time delays.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a new MockClock starting at the given time.
// If zero time is provided, uses current time.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

// Now returns the current mock time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the mock clock forward by the given duration.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set sets the mock clock to a specific time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// UnavailableStore is a store.Store whose every operation fails as
// ErrStoreUnavailable, for exercising the limiter's failure policy.
type UnavailableStore struct {
	// Calls counts Execute invocations.
	mu    sync.Mutex
	calls int
}

// NewUnavailableStore creates a store that is always down.
func NewUnavailableStore() *UnavailableStore {
	return &UnavailableStore{}
}

// Execute always fails.
func (u *UnavailableStore) Execute(ctx context.Context, id store.ScriptID, key string, args ...interface{}) ([]interface{}, error) {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	return nil, &snerrors.StoreError{Op: "execute", Err: errors.New("connection refused")}
}

// Ping always fails.
func (u *UnavailableStore) Ping(ctx context.Context) error {
	return &snerrors.StoreError{Op: "ping", Err: errors.New("connection refused")}
}

// Delete always fails.
func (u *UnavailableStore) Delete(ctx context.Context, key string) error {
	return &snerrors.StoreError{Op: "delete", Err: errors.New("connection refused")}
}

// Close releases nothing.
func (u *UnavailableStore) Close() error { return nil }

// Calls returns how many Execute calls were attempted.
func (u *UnavailableStore) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}
