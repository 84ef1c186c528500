// Package cache provides a single-value read-through cache entry.
//
// Each Entry guards one expensive upstream fetch (one resource class, one
// entry). The cache lives for the process lifetime: there is no persistence,
// so a redeploy forces a refetch. Entries are created once during wiring and
// injected into the services that need them — never reached through package
// globals, so tests get isolated instances.
package cache

import (
	"context"
	"sync"
	"time"
)

// Entry is a read-through cache for a single value of type T.
//
// GetOrFetch returns the cached value while it is fresher than the TTL and
// otherwise invokes the fetch function. Failed fetches are never cached; the
// caller decides what to serve instead (e.g. static fallback data).
//
// Concurrent callers that find the entry stale will each invoke fetch — the
// fetch is deliberately not serialized because upstream reads are idempotent
// and cheap relative to request volume. Last write wins. The mutex protects
// only the value slot, not the fetch.
type Entry[T any] struct {
	mu        sync.RWMutex
	value     T
	fetchedAt time.Time
	ttl       time.Duration

	// now is replaceable in tests to exercise TTL expiry without sleeping.
	now func() time.Time
}

// New creates an empty cache entry with the given TTL.
func New[T any](ttl time.Duration) *Entry[T] {
	return &Entry[T]{ttl: ttl, now: time.Now}
}

// NewWithClock creates an entry whose notion of time comes from now.
// Used by tests to step across the TTL boundary deterministically.
func NewWithClock[T any](ttl time.Duration, now func() time.Time) *Entry[T] {
	return &Entry[T]{ttl: ttl, now: now}
}

// GetOrFetch returns the cached value if it is still fresh, otherwise calls
// fetch. On success the result is stored with the current timestamp and
// returned; on failure the entry is left untouched and the error returned.
func (e *Entry[T]) GetOrFetch(ctx context.Context, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := e.get(); ok {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	e.mu.Lock()
	e.value = v
	e.fetchedAt = e.now()
	e.mu.Unlock()

	return v, nil
}

// Peek returns the cached value regardless of freshness, with ok reporting
// whether the entry has ever been populated. Callers use this to serve stale
// data when the upstream is down.
func (e *Entry[T]) Peek() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.value, !e.fetchedAt.IsZero()
}

func (e *Entry[T]) get() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.fetchedAt.IsZero() || e.now().Sub(e.fetchedAt) >= e.ttl {
		var zero T
		return zero, false
	}
	return e.value, true
}
