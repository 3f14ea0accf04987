package store

import (
	"context"
	"math"
	"strconv"
	"sync"
)

// MemoryStore is an in-process Store implementing the same script set as
// RedisStore. A single mutex serializes script runs, modeling Redis's
// single-threaded execution: each Execute is one indivisible
// read-modify-write per key.
//
// Use it for unit tests and single-instance deployments. State is local to
// the process, so it cannot enforce a global limit across replicas, and idle
// keys are not evicted.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState
	logs    map[string][]logEntry
}

type bucketState struct {
	tokens     float64
	lastRefill float64
}

type logEntry struct {
	score  float64
	member string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*bucketState),
		logs:    make(map[string][]logEntry),
	}
}

// Execute runs the named script against key under the store mutex.
func (m *MemoryStore) Execute(ctx context.Context, id ScriptID, key string, args ...interface{}) ([]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapUnavailable("execute", err)
	}

	limit, window, now, entry, err := scriptArgs(args)
	if err != nil {
		return nil, wrapUnavailable("execute", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch id {
	case ScriptTokenBucket:
		return m.runTokenBucket(key, limit, window, now), nil
	case ScriptSlidingWindow:
		return m.runSlidingWindow(key, limit, window, now, entry), nil
	default:
		return nil, wrapUnavailable("execute", errInvalidReply)
	}
}

func (m *MemoryStore) runTokenBucket(key string, limit int64, window, now float64) []interface{} {
	rate := float64(limit) / window

	st, ok := m.buckets[key]
	if !ok {
		st = &bucketState{tokens: float64(limit), lastRefill: now}
		m.buckets[key] = st
	}

	elapsed := math.Max(0, now-st.lastRefill)
	st.tokens = math.Min(float64(limit), st.tokens+elapsed*rate)
	st.lastRefill = now

	if st.tokens >= 1 {
		st.tokens--
		return reply(true, int64(math.Floor(st.tokens)), window, 0)
	}

	retryAfter := (1 - st.tokens) / rate
	return reply(false, 0, retryAfter, retryAfter)
}

func (m *MemoryStore) runSlidingWindow(key string, limit int64, window, now float64, entry string) []interface{} {
	kept := m.logs[key][:0]
	for _, e := range m.logs[key] {
		if e.score > now-window {
			kept = append(kept, e)
		}
	}
	m.logs[key] = kept

	count := int64(len(kept))
	if count < limit {
		m.logs[key] = append(kept, logEntry{score: now, member: entry})
		return reply(true, limit-count-1, window, 0)
	}

	retryAfter := window
	if len(kept) > 0 {
		oldest := kept[0].score
		for _, e := range kept[1:] {
			if e.score < oldest {
				oldest = e.score
			}
		}
		retryAfter = math.Max(0.1, oldest+window-now)
	}
	return reply(false, 0, retryAfter, retryAfter)
}

// Ping succeeds unless the context is done; the store lives in this process.
func (m *MemoryStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return wrapUnavailable("ping", err)
	}
	return nil
}

// Delete removes one key's state.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets, key)
	delete(m.logs, key)
	return nil
}

// Close releases nothing; it exists to satisfy Store.
func (m *MemoryStore) Close() error {
	return nil
}

// Len returns the number of keys holding state, for tests.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets) + len(m.logs)
}

// reply mirrors the Redis wire shapes: Lua integers arrive as int64 and
// fractional seconds as strings.
func reply(allowed bool, remaining int64, resetAfter, retryAfter float64) []interface{} {
	a := int64(0)
	if allowed {
		a = 1
	}
	return []interface{}{
		a,
		remaining,
		strconv.FormatFloat(resetAfter, 'f', -1, 64),
		strconv.FormatFloat(retryAfter, 'f', -1, 64),
	}
}

func scriptArgs(args []interface{}) (limit int64, window, now float64, entry string, err error) {
	if len(args) < 3 {
		return 0, 0, 0, "", errInvalidReply
	}
	limit, ok := args[0].(int64)
	if !ok {
		return 0, 0, 0, "", errInvalidReply
	}
	window = toFloat(args[1])
	now = toFloat(args[2])
	if len(args) > 3 {
		entry, _ = args[3].(string)
	}
	return limit, window, now, entry, nil
}
