package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	snerrors "github.com/vnykmshr/sentinel/pkg/common/errors"
)

const (
	defaultPrefix  = "sentinel:"
	defaultTimeout = 500 * time.Millisecond
)

// RedisStore executes the script set on a Redis server. Atomicity comes from
// Redis running each script single-threaded; two concurrent Execute calls on
// the same key can never observe a torn read-modify-write.
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
	scripts map[ScriptID]*redis.Script
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix (default "sentinel:").
func WithPrefix(prefix string) RedisOption {
	return func(r *RedisStore) { r.prefix = prefix }
}

// WithTimeout sets the per-operation deadline applied on top of the caller's
// context (default 500ms).
func WithTimeout(timeout time.Duration) RedisOption {
	return func(r *RedisStore) { r.timeout = timeout }
}

// NewRedisStore wraps a Redis client as a Store. The store takes ownership
// of the connection: Close closes the client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	r := &RedisStore{
		client:  client,
		prefix:  defaultPrefix,
		timeout: defaultTimeout,
		scripts: map[ScriptID]*redis.Script{
			ScriptTokenBucket:   redis.NewScript(luaTokenBucket),
			ScriptSlidingWindow: redis.NewScript(luaSlidingWindow),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs the named script against the prefixed key. Script.Run uses
// EVALSHA and falls back to EVAL when the script cache is cold, so a Redis
// restart never strands a decision.
func (r *RedisStore) Execute(ctx context.Context, id ScriptID, key string, args ...interface{}) ([]interface{}, error) {
	script, ok := r.scripts[id]
	if !ok {
		return nil, &snerrors.StoreError{Op: "execute", Err: snerrors.ErrUnknownStrategy}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := script.Run(ctx, r.client, []string{r.prefix + key}, args...).Result()
	if err != nil {
		return nil, &snerrors.StoreError{Op: "execute", Err: err}
	}

	values, ok := result.([]interface{})
	if !ok {
		return nil, &snerrors.StoreError{Op: "execute", Err: errInvalidReply}
	}
	return values, nil
}

// Ping reports whether the store is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return &snerrors.StoreError{Op: "ping", Err: err}
	}
	return nil
}

// Delete removes one key's state so its next decision starts fresh.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return &snerrors.StoreError{Op: "delete", Err: err}
	}
	return nil
}

// Close closes the underlying client connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Scripts for the two strategies. Both receive
//
//	KEYS[1] state key
//	ARGV[1] limit, ARGV[2] window seconds, ARGV[3] now epoch seconds,
//	ARGV[4] unique entry id (sliding window only)
//
// and reply {allowed, remaining, reset_after, retry_after} with fractional
// seconds as strings.

const luaTokenBucket = `
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local rate = limit / window

local state = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
    -- lazy creation: a new bucket starts full
    tokens = limit
    last_refill = now
end

local elapsed = math.max(0, now - last_refill)
tokens = math.min(limit, tokens + elapsed * rate)

local allowed = 0
local retry_after = 0
if tokens >= 1 then
    allowed = 1
    tokens = tokens - 1
else
    retry_after = (1 - tokens) / rate
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'last_refill', tostring(now))
redis.call('EXPIRE', KEYS[1], math.ceil(window * 2))

if allowed == 1 then
    return {1, math.floor(tokens), tostring(window), '0'}
end
return {0, 0, tostring(retry_after), tostring(retry_after)}
`

const luaSlidingWindow = `
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local entry = ARGV[4]

redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, now - window)
local count = redis.call('ZCARD', KEYS[1])

if count < limit then
    redis.call('ZADD', KEYS[1], now, entry)
    redis.call('EXPIRE', KEYS[1], math.ceil(window))
    return {1, limit - count - 1, tostring(window), '0'}
end

local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
local retry_after = window
if oldest[2] then
    retry_after = math.max(0.1, tonumber(oldest[2]) + window - now)
end
return {0, 0, tostring(retry_after), tostring(retry_after)}
`
