package invalidation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/commercify/storefront-cache/pkg/cache"
)

// Namespace patterns from the mutation table. Regex form for the in-process
// store, plain prefix form for the Redis shared tier.
const (
	patternProductLists = "^products:"
	prefixProductLists  = "products:"

	patternCategoryLists = "^categories"
	prefixCategoryLists  = "categories"

	// Matches both "category:<id>" and "categories". A product's active
	// flag feeds category product counts, so flipping it widens the purge
	// to every category namespace.
	patternCategoryAll = "^categor"
	prefixCategoryAll  = "categor"

	patternOrderLists = "^orders:"
	prefixOrderLists  = "orders:"
)

// Coordinator maps domain mutations onto the precise set of cache keys and
// patterns that are now stale and purges them: always in the local store,
// and when configured also in the client-facing Redis tier and in a peer
// deployment. Local purges are synchronous; the shared tier is best-effort;
// the peer notify is fire-and-forget on its own goroutine.
type Coordinator struct {
	store  *cache.Store
	shared *cache.RedisStore // optional client-facing tier
	peer   *PeerClient       // optional sibling deployment
	logger zerolog.Logger
}

// NewCoordinator creates a coordinator over the local store. shared and peer
// may be nil when the deployment runs alone.
func NewCoordinator(store *cache.Store, shared *cache.RedisStore, peer *PeerClient, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:  store,
		shared: shared,
		peer:   peer,
		logger: logger.With().Str("component", "cache-invalidator").Logger(),
	}
}

// Product purges the exact product entry.
func (c *Coordinator) Product(ctx context.Context, id string) {
	c.exact(ctx, "product:"+id)
}

// ProductLists purges every product search and list cache, then notifies the
// peer.
func (c *Coordinator) ProductLists(ctx context.Context) {
	c.pattern(ctx, patternProductLists, prefixProductLists)
	c.notifyPeer(TypeProduct, "")
}

// AllProductCaches purges the individual product entry (when the id is
// known) plus every product list cache, then notifies the peer. This is the
// row for product create, update and delete.
func (c *Coordinator) AllProductCaches(ctx context.Context, id string) {
	if id != "" {
		c.exact(ctx, "product:"+id)
	}
	c.pattern(ctx, patternProductLists, prefixProductLists)
	c.notifyPeer(TypeProduct, id)
}

// ProductActiveChanged is AllProductCaches plus the category namespaces:
// activating or deactivating a product changes category product counts.
func (c *Coordinator) ProductActiveChanged(ctx context.Context, id string) {
	if id != "" {
		c.exact(ctx, "product:"+id)
	}
	c.pattern(ctx, patternProductLists, prefixProductLists)
	c.pattern(ctx, patternCategoryAll, prefixCategoryAll)
	c.notifyPeer(TypeProduct, id)
}

// Category purges the exact category entry.
func (c *Coordinator) Category(ctx context.Context, id string) {
	c.exact(ctx, "category:"+id)
}

// CategoryLists purges the category list cache, then notifies the peer.
func (c *Coordinator) CategoryLists(ctx context.Context) {
	c.pattern(ctx, patternCategoryLists, prefixCategoryLists)
	c.notifyPeer(TypeCategory, "")
}

// AllCategoryCaches purges the individual category entry (when the id is
// known) plus the category lists, then notifies the peer. This is the row
// for category create, update and delete.
func (c *Coordinator) AllCategoryCaches(ctx context.Context, id string) {
	if id != "" {
		c.exact(ctx, "category:"+id)
	}
	c.pattern(ctx, patternCategoryLists, prefixCategoryLists)
	c.notifyPeer(TypeCategory, id)
}

// Order purges the individual order entry plus every order list cache. This
// is the row for order status updates and payment capture, refund and
// cancel.
func (c *Coordinator) Order(ctx context.Context, id string) {
	if id != "" {
		c.exact(ctx, "order:"+id)
	}
	c.pattern(ctx, patternOrderLists, prefixOrderLists)
}

// OrderLists purges the order list caches alone, for mutations where the
// order id is not known (payments are addressed by payment id).
func (c *Coordinator) OrderLists(ctx context.Context) {
	c.pattern(ctx, patternOrderLists, prefixOrderLists)
}

// CheckoutSession purges the session-scoped checkout entry.
func (c *Coordinator) CheckoutSession(sessionID string) {
	if sessionID == "" {
		return
	}
	c.store.Invalidate(cache.SessionKey(sessionID))
}

// All clears every cache unconditionally: local store, client-facing tier,
// and the peer. This is the admin "clear all" action.
func (c *Coordinator) All(ctx context.Context) {
	c.clear(ctx)
	c.notifyPeer(TypeAll, "")
}

// Apply performs the local invalidation for a request received from a peer.
// It dispatches to the same table as the local mutation paths but never
// notifies the peer back, which would loop. Repeating a request is safe and
// produces the same end state.
func (c *Coordinator) Apply(ctx context.Context, typ Type, id string) error {
	switch typ {
	case TypeProduct:
		if id != "" {
			c.exact(ctx, "product:"+id)
		}
		c.pattern(ctx, patternProductLists, prefixProductLists)
	case TypeCategory:
		if id != "" {
			c.exact(ctx, "category:"+id)
		}
		c.pattern(ctx, patternCategoryLists, prefixCategoryLists)
	case TypeAll:
		c.clear(ctx)
	default:
		return ErrUnknownType
	}
	return nil
}

// exact removes one key locally and, when configured, from the shared tier.
func (c *Coordinator) exact(ctx context.Context, key string) {
	c.store.Invalidate(key)

	if c.shared != nil {
		if err := c.shared.Invalidate(ctx, key); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Shared tier invalidation failed")
		}
	}
}

// pattern removes a namespace locally (regex) and from the shared tier
// (prefix glob).
func (c *Coordinator) pattern(ctx context.Context, regex, prefix string) {
	if _, err := c.store.InvalidatePattern(regex); err != nil {
		// The patterns above are fixed literals; failing to compile one
		// is a programming error, not an operational condition.
		c.logger.Error().Err(err).Str("pattern", regex).Msg("Invalid invalidation pattern")
	}

	if c.shared != nil {
		if _, err := c.shared.InvalidatePrefix(ctx, prefix); err != nil {
			c.logger.Warn().Err(err).Str("prefix", prefix).Msg("Shared tier pattern purge failed")
		}
	}
}

func (c *Coordinator) clear(ctx context.Context) {
	c.store.Clear()

	if c.shared != nil {
		if err := c.shared.Clear(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("Shared tier clear failed")
		}
	}
}

// notifyPeer fires the advisory cross-process call without awaiting it. The
// admin mutation's own outcome is decided solely by the local remote-API
// call, so the notify runs on a fresh background context bounded by the peer
// client's timeout.
func (c *Coordinator) notifyPeer(typ Type, id string) {
	if c.peer == nil {
		return
	}
	go c.peer.Notify(context.Background(), typ, id)
}
