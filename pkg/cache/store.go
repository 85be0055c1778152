package cache

import (
	"context"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// entry is a single cached value with its freshness window.
type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// expired reports whether the entry is stale at the given instant.
func (e entry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

// Stats is an operational snapshot of the store. Hit and miss counters are
// cumulative since the last ResetStats call.
type Stats struct {
	Entries int      `json:"entries"`
	Hits    uint64   `json:"hits"`
	Misses  uint64   `json:"misses"`
	Keys    []string `json:"keys"`
}

// Store is a process-wide in-memory TTL cache. Expired entries are treated as
// absent on read and physically removed either lazily on that read or by the
// background sweeper. The store is the accelerator in front of the remote
// commerce API, never the source of truth, so losing it on restart is fine.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewStore creates an empty cache store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
	}
}

// Set stores value under key with the given TTL, overwriting any existing
// entry. The freshness window starts now.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = entry{
		value:    value,
		storedAt: time.Now(),
		ttl:      ttl,
	}
	entriesGauge.Set(float64(len(s.entries)))
	s.mu.Unlock()
}

// Get returns the value stored under key if it exists and has not expired.
// An expired entry is evicted as a side effect and reported as absent.
func (s *Store) Get(key string) (any, bool) {
	now := time.Now()

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.misses.Add(1)
		cacheMisses.Inc()
		return nil, false
	}

	if e.expired(now) {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// refreshed the entry between the two lock acquisitions.
		if cur, ok := s.entries[key]; ok && cur.expired(now) {
			delete(s.entries, key)
			entriesGauge.Set(float64(len(s.entries)))
		}
		s.mu.Unlock()

		s.misses.Add(1)
		cacheMisses.Inc()
		return nil, false
	}

	s.hits.Add(1)
	cacheHits.Inc()
	return e.value, true
}

// Invalidate removes the entry for key. Removing an absent key is a no-op,
// not an error.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	entriesGauge.Set(float64(len(s.entries)))
	s.mu.Unlock()

	invalidations.WithLabelValues("key").Inc()
}

// InvalidatePattern removes every currently-stored key matching the regular
// expression and returns how many were removed. The pattern is evaluated
// against the key set at call time only. An invalid pattern is a usage error
// and is returned to the caller with nothing removed.
func (s *Store) InvalidatePattern(pattern string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	removed := 0
	for key := range s.entries {
		if re.MatchString(key) {
			delete(s.entries, key)
			removed++
		}
	}
	entriesGauge.Set(float64(len(s.entries)))
	s.mu.Unlock()

	invalidations.WithLabelValues("pattern").Inc()
	return removed, nil
}

// Clear removes all entries unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	entriesGauge.Set(0)
	s.mu.Unlock()

	invalidations.WithLabelValues("clear").Inc()
}

// Len returns the number of physically stored entries, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns an operational snapshot for the admin dashboard.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	s.mu.RUnlock()

	return Stats{
		Entries: len(keys),
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Keys:    keys,
	}
}

// ResetStats zeroes the hit and miss counters.
func (s *Store) ResetStats() {
	s.hits.Store(0)
	s.misses.Store(0)
}

// Sweep removes every expired entry and returns how many were removed. It
// bounds memory growth from entries that are never re-read after expiry.
func (s *Store) Sweep() int {
	now := time.Now()

	s.mu.Lock()
	removed := 0
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	entriesGauge.Set(float64(len(s.entries)))
	s.mu.Unlock()

	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
// Production deployments run this; dev mode skips it and relies on lazy
// eviction alone.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Debug().Msg("Cache sweeper stopped")
				return
			case <-ticker.C:
				if removed := s.Sweep(); removed > 0 {
					log.Debug().
						Int("removed", removed).
						Int("remaining", s.Len()).
						Msg("Cache sweep completed")
				}
			}
		}
	}()
}
