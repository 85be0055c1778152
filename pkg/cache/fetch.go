package cache

import (
	"context"
	"time"
)

// Producer fetches a value from the remote source of truth on cache miss.
type Producer[T any] func(ctx context.Context) (T, error)

// GetOrFetch implements read-through caching over an arbitrary producer.
//
// On a hit the cached value is returned and the producer is not invoked. On a
// miss the producer runs exactly once, its result is stored under key with
// the given TTL and returned. A producer error propagates to the caller and
// nothing is cached, so the next call retries the fetch. When force is true
// the store read is skipped, the producer always runs and its result
// overwrites the entry.
//
// There is no request coalescing: concurrent misses on the same key each
// invoke the producer and the last write wins. The remote API stays
// authoritative and its reads are idempotent, so duplicates are acceptable.
func GetOrFetch[T any](ctx context.Context, store *Store, key string, ttl time.Duration, force bool, produce Producer[T]) (T, error) {
	if !force {
		if cached, ok := store.Get(key); ok {
			if v, ok := cached.(T); ok {
				return v, nil
			}
			// A value of another type under this key means two call
			// sites collided on a key; treat it as a miss.
		}
	}

	v, err := produce(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	store.Set(key, v, ttl)
	return v, nil
}

// Endpoint wraps a parameterized remote call with read-through caching. The
// cache key is the namespace prefix plus the canonical serialization of the
// call parameters.
type Endpoint[P any, R any] struct {
	store  *Store
	prefix string
	ttl    time.Duration
	call   func(ctx context.Context, params P) (R, error)
}

// NewEndpoint creates a cached endpoint wrapper under the given namespace.
func NewEndpoint[P any, R any](store *Store, prefix string, ttl time.Duration, call func(context.Context, P) (R, error)) *Endpoint[P, R] {
	return &Endpoint[P, R]{
		store:  store,
		prefix: prefix,
		ttl:    ttl,
		call:   call,
	}
}

// Call performs the remote call through the cache.
func (e *Endpoint[P, R]) Call(ctx context.Context, params P) (R, error) {
	return e.CallRefresh(ctx, params, false)
}

// CallRefresh is Call with an explicit force-refresh flag.
func (e *Endpoint[P, R]) CallRefresh(ctx context.Context, params P, force bool) (R, error) {
	key := Key(e.prefix, params)
	return GetOrFetch(ctx, e.store, key, e.ttl, force, func(ctx context.Context) (R, error) {
		return e.call(ctx, params)
	})
}

// Singleton wraps an unparameterized remote call; the cache key is the
// namespace string itself (e.g. "categories", "currencies").
type Singleton[R any] struct {
	store *Store
	key   string
	ttl   time.Duration
	call  func(ctx context.Context) (R, error)
}

// NewSingleton creates a cached wrapper for a single-resource endpoint.
func NewSingleton[R any](store *Store, key string, ttl time.Duration, call func(context.Context) (R, error)) *Singleton[R] {
	return &Singleton[R]{
		store: store,
		key:   key,
		ttl:   ttl,
		call:  call,
	}
}

// Call performs the remote call through the cache.
func (s *Singleton[R]) Call(ctx context.Context) (R, error) {
	return s.CallRefresh(ctx, false)
}

// CallRefresh is Call with an explicit force-refresh flag.
func (s *Singleton[R]) CallRefresh(ctx context.Context, force bool) (R, error) {
	return GetOrFetch(ctx, s.store, s.key, s.ttl, force, s.call)
}
