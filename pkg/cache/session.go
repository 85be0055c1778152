package cache

import (
	"net/http"
	"time"
)

const (
	// SessionCookieName is the cookie carrying the checkout session
	// identifier on inbound requests.
	SessionCookieName = "checkout_session_id"

	// DefaultCheckoutTTL is short because checkout state changes quickly.
	DefaultCheckoutTTL = 30 * time.Second

	sessionKeyPrefix = "checkout:"
)

// SessionCache caches exactly one checkout object per session identifier
// under keys of the shape "checkout:<sessionId>". Every checkout-mutating
// operation must invalidate its session entry after the remote mutation
// succeeds, so the next read reflects the mutation.
type SessionCache[T any] struct {
	store *Store
	ttl   time.Duration
}

// NewSessionCache creates a session-scoped sub-cache over the given store.
// A non-positive ttl falls back to DefaultCheckoutTTL.
func NewSessionCache[T any](store *Store, ttl time.Duration) *SessionCache[T] {
	if ttl <= 0 {
		ttl = DefaultCheckoutTTL
	}
	return &SessionCache[T]{
		store: store,
		ttl:   ttl,
	}
}

// SessionKey returns the cache key for a session identifier.
func SessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Set stores the checkout object for a session.
func (c *SessionCache[T]) Set(sessionID string, checkout T) {
	c.store.Set(SessionKey(sessionID), checkout, c.ttl)
}

// Get returns the cached checkout for a session, if fresh.
func (c *SessionCache[T]) Get(sessionID string) (T, bool) {
	cached, ok := c.store.Get(SessionKey(sessionID))
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := cached.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return v, true
}

// Invalidate drops the cached checkout for a single session.
func (c *SessionCache[T]) Invalidate(sessionID string) {
	c.store.Invalidate(SessionKey(sessionID))
}

// InvalidateAll drops every session's checkout entry.
func (c *SessionCache[T]) InvalidateAll() {
	// The prefix is a fixed literal, so the pattern cannot be invalid.
	_, _ = c.store.InvalidatePattern("^" + sessionKeyPrefix)
}

// SessionIDFromRequest extracts the checkout session identifier from the
// request cookie. It returns the empty string when no cookie is present;
// callers must then bypass the session cache and read straight from the
// remote API.
func SessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
