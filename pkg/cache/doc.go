// Package cache provides the in-process TTL cache that fronts the remote
// commerce API, plus the canonical key helpers, read-through fetch wrappers,
// the session-scoped checkout sub-cache and the optional Redis shared tier.
//
// The store is a best-effort accelerator, never the source of truth: entries
// are lost on restart, concurrent misses may fetch twice, and a read that
// raced an invalidation may return the just-dropped value once. All of that
// is acceptable for an admin UI over an authoritative remote API.
//
// # Basic Usage
//
//	store := cache.NewStore()
//	store.StartSweeper(ctx, 5*time.Minute)
//
//	// Read-through fetch
//	product, err := cache.GetOrFetch(ctx, store, "product:7", 5*time.Minute, false,
//		func(ctx context.Context) (*Product, error) {
//			return client.GetProduct(ctx, 7)
//		})
//
// # Endpoint Wrappers
//
//	search := cache.NewEndpoint(store, "products:search", 10*time.Minute, client.SearchProducts)
//	result, err := search.Call(ctx, params) // key: products:search:<canonical params>
//
//	currencies := cache.NewSingleton(store, "currencies", time.Hour, client.ListCurrencies)
//
// # Invalidation
//
//	store.Invalidate("product:7")
//	store.InvalidatePattern("^products:") // all search/list caches
//	store.Clear()
//
// # Keys
//
// Keys are namespace prefixes plus a canonical serialization of the call
// parameters. Canonicalization (sorted object keys, omitted fields dropped)
// guarantees that logically identical requests share a key regardless of how
// the parameter object was built.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - commercify_cache_hits_total - Cache hits
//   - commercify_cache_misses_total - Cache misses (absent or expired)
//   - commercify_cache_entries - Current entry count
//   - commercify_cache_invalidations_total{scope} - Invalidations by scope
//   - commercify_cache_shared_tier_errors_total{operation} - Redis tier errors
package cache
