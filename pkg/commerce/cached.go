package commerce

import (
	"context"
	"strconv"
	"time"

	"github.com/commercify/storefront-cache/pkg/cache"
	"github.com/commercify/storefront-cache/pkg/invalidation"
)

// TTLConfig holds the freshness window per cache namespace.
type TTLConfig struct {
	Products        time.Duration // search and list caches
	Product         time.Duration
	Categories      time.Duration
	Category        time.Duration
	Checkout        time.Duration
	ShippingOptions time.Duration
	Order           time.Duration
	Orders          time.Duration
	Discounts       time.Duration
	Currencies      time.Duration
	UserProfile     time.Duration
}

// DefaultTTLs returns the production TTL configuration. Checkout is the
// shortest window because its state changes on every cart interaction;
// currencies and discounts barely change and get an hour.
func DefaultTTLs() TTLConfig {
	return TTLConfig{
		Products:        10 * time.Minute,
		Product:         5 * time.Minute,
		Categories:      10 * time.Minute,
		Category:        5 * time.Minute,
		Checkout:        30 * time.Second,
		ShippingOptions: 5 * time.Minute,
		Order:           5 * time.Minute,
		Orders:          5 * time.Minute,
		Discounts:       time.Hour,
		Currencies:      time.Hour,
		UserProfile:     time.Hour,
	}
}

// CachedClient wraps the plain Client with read-through caching and the
// mutation invalidation table. It is constructed per inbound request: the
// session identifier comes from that request's cookie, everything else
// (store, coordinator) is process-wide and shared.
//
// When sessionID is empty the checkout session cache is bypassed entirely
// and every checkout read goes straight to the remote API.
type CachedClient struct {
	client      *Client
	store       *cache.Store
	sessions    *cache.SessionCache[*Checkout]
	invalidator *invalidation.Coordinator
	sessionID   string
	ttl         TTLConfig

	searchProducts   *cache.Endpoint[ProductSearchParams, *ProductList]
	listProducts     *cache.Endpoint[ProductListParams, *ProductList]
	listOrders       *cache.Endpoint[OrderListParams, *OrderList]
	shippingOptions  *cache.Endpoint[ShippingOptionsParams, []ShippingOption]
	validateDiscount *cache.Endpoint[ValidateDiscountParams, *Discount]
	listCategories   *cache.Singleton[[]Category]
	listCurrencies   *cache.Singleton[[]Currency]
	userProfile      *cache.Singleton[*User]
}

// NewCachedClient wraps client with caching. store and invalidator are the
// process-wide instances; sessionID is the checkout session extracted from
// the inbound request cookie, or empty.
func NewCachedClient(client *Client, store *cache.Store, invalidator *invalidation.Coordinator, sessionID string, ttl TTLConfig) *CachedClient {
	c := &CachedClient{
		client:      client,
		store:       store,
		sessions:    cache.NewSessionCache[*Checkout](store, ttl.Checkout),
		invalidator: invalidator,
		sessionID:   sessionID,
		ttl:         ttl,
	}

	c.searchProducts = cache.NewEndpoint(store, "products:search", ttl.Products, client.SearchProducts)
	c.listProducts = cache.NewEndpoint(store, "products:list", ttl.Products, client.ListProducts)
	c.listOrders = cache.NewEndpoint(store, "orders:list", ttl.Orders, client.ListOrders)
	c.shippingOptions = cache.NewEndpoint(store, "shipping:options", ttl.ShippingOptions, client.CalculateShippingOptions)
	c.validateDiscount = cache.NewEndpoint(store, "discount:validate", ttl.Discounts, client.ValidateDiscount)
	c.listCategories = cache.NewSingleton(store, "categories", ttl.Categories, client.ListCategories)
	c.listCurrencies = cache.NewSingleton(store, "currencies", ttl.Currencies, client.ListCurrencies)
	c.userProfile = cache.NewSingleton(store, "user:profile", ttl.UserProfile, client.GetUserProfile)

	return c
}

// SessionID returns the checkout session bound to this client, if any.
func (c *CachedClient) SessionID() string {
	return c.sessionID
}

// --- Products ---

func (c *CachedClient) SearchProducts(ctx context.Context, params ProductSearchParams) (*ProductList, error) {
	return c.searchProducts.Call(ctx, params)
}

func (c *CachedClient) ListProducts(ctx context.Context, params ProductListParams) (*ProductList, error) {
	return c.listProducts.Call(ctx, params)
}

// GetProduct reads through the cache. forceRefresh skips the cache read,
// always fetches and overwrites the entry.
func (c *CachedClient) GetProduct(ctx context.Context, id int64, forceRefresh bool) (*Product, error) {
	key := "product:" + strconv.FormatInt(id, 10)
	return cache.GetOrFetch(ctx, c.store, key, c.ttl.Product, forceRefresh, func(ctx context.Context) (*Product, error) {
		return c.client.GetProduct(ctx, id)
	})
}

func (c *CachedClient) CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error) {
	p, err := c.client.CreateProduct(ctx, params)
	if err != nil {
		return nil, err
	}
	c.invalidator.AllProductCaches(ctx, strconv.FormatInt(p.ID, 10))
	return p, nil
}

// UpdateProduct invalidates the product's entry and every list cache. When
// the update touches the active flag the purge widens to the category
// namespaces, since category product counts may have changed.
func (c *CachedClient) UpdateProduct(ctx context.Context, id int64, params UpdateProductParams) (*Product, error) {
	p, err := c.client.UpdateProduct(ctx, id, params)
	if err != nil {
		return nil, err
	}

	idStr := strconv.FormatInt(id, 10)
	if params.Active != nil {
		c.invalidator.ProductActiveChanged(ctx, idStr)
	} else {
		c.invalidator.AllProductCaches(ctx, idStr)
	}
	return p, nil
}

func (c *CachedClient) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.client.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.invalidator.AllProductCaches(ctx, strconv.FormatInt(id, 10))
	return nil
}

// --- Categories ---

func (c *CachedClient) ListCategories(ctx context.Context) ([]Category, error) {
	return c.listCategories.Call(ctx)
}

func (c *CachedClient) GetCategory(ctx context.Context, id int64) (*Category, error) {
	key := "category:" + strconv.FormatInt(id, 10)
	return cache.GetOrFetch(ctx, c.store, key, c.ttl.Category, false, func(ctx context.Context) (*Category, error) {
		return c.client.GetCategory(ctx, id)
	})
}

func (c *CachedClient) CreateCategory(ctx context.Context, params UpsertCategoryParams) (*Category, error) {
	cat, err := c.client.CreateCategory(ctx, params)
	if err != nil {
		return nil, err
	}
	c.invalidator.AllCategoryCaches(ctx, strconv.FormatInt(cat.ID, 10))
	return cat, nil
}

func (c *CachedClient) UpdateCategory(ctx context.Context, id int64, params UpsertCategoryParams) (*Category, error) {
	cat, err := c.client.UpdateCategory(ctx, id, params)
	if err != nil {
		return nil, err
	}
	c.invalidator.AllCategoryCaches(ctx, strconv.FormatInt(id, 10))
	return cat, nil
}

func (c *CachedClient) DeleteCategory(ctx context.Context, id int64) error {
	if err := c.client.DeleteCategory(ctx, id); err != nil {
		return err
	}
	c.invalidator.AllCategoryCaches(ctx, strconv.FormatInt(id, 10))
	return nil
}

// --- Orders and payments ---

func (c *CachedClient) GetOrder(ctx context.Context, id string) (*Order, error) {
	return cache.GetOrFetch(ctx, c.store, "order:"+id, c.ttl.Order, false, func(ctx context.Context) (*Order, error) {
		return c.client.GetOrder(ctx, id)
	})
}

func (c *CachedClient) ListOrders(ctx context.Context, params OrderListParams) (*OrderList, error) {
	return c.listOrders.Call(ctx, params)
}

func (c *CachedClient) UpdateOrderStatus(ctx context.Context, id, status string) (*Order, error) {
	o, err := c.client.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	c.invalidator.Order(ctx, id)
	return o, nil
}

// Payments are addressed by payment id, so only the order list caches can be
// purged; the individual order entry self-corrects on TTL expiry.

func (c *CachedClient) CapturePayment(ctx context.Context, paymentID string, params CapturePaymentParams) error {
	if err := c.client.CapturePayment(ctx, paymentID, params); err != nil {
		return err
	}
	c.invalidator.OrderLists(ctx)
	return nil
}

func (c *CachedClient) CancelPayment(ctx context.Context, paymentID string) error {
	if err := c.client.CancelPayment(ctx, paymentID); err != nil {
		return err
	}
	c.invalidator.OrderLists(ctx)
	return nil
}

func (c *CachedClient) RefundPayment(ctx context.Context, paymentID string, params RefundPaymentParams) error {
	if err := c.client.RefundPayment(ctx, paymentID, params); err != nil {
		return err
	}
	c.invalidator.OrderLists(ctx)
	return nil
}

// --- Checkout ---

// GetCheckout reads the session-scoped cache when a session is bound;
// without one it goes straight upstream.
func (c *CachedClient) GetCheckout(ctx context.Context) (*Checkout, error) {
	if c.sessionID == "" {
		return c.client.GetCheckout(ctx)
	}

	if cached, ok := c.sessions.Get(c.sessionID); ok {
		return cached, nil
	}

	co, err := c.client.GetCheckout(ctx)
	if err != nil {
		return nil, err
	}
	c.sessions.Set(c.sessionID, co)
	return co, nil
}

// checkoutMutation runs a checkout-mutating remote call and, on success,
// invalidates the session's cached checkout before returning, so the next
// read reflects the mutation.
func (c *CachedClient) checkoutMutation(ctx context.Context, op func(context.Context) (*Checkout, error)) (*Checkout, error) {
	co, err := op(ctx)
	if err != nil {
		return nil, err
	}
	c.invalidator.CheckoutSession(c.sessionID)
	return co, nil
}

func (c *CachedClient) AddCheckoutItem(ctx context.Context, sku string, quantity int) (*Checkout, error) {
	return c.checkoutMutation(ctx, func(ctx context.Context) (*Checkout, error) {
		return c.client.AddCheckoutItem(ctx, sku, quantity)
	})
}

func (c *CachedClient) UpdateCheckoutItem(ctx context.Context, sku string, quantity int) (*Checkout, error) {
	return c.checkoutMutation(ctx, func(ctx context.Context) (*Checkout, error) {
		return c.client.UpdateCheckoutItem(ctx, sku, quantity)
	})
}

func (c *CachedClient) RemoveCheckoutItem(ctx context.Context, sku string) (*Checkout, error) {
	return c.checkoutMutation(ctx, func(ctx context.Context) (*Checkout, error) {
		return c.client.RemoveCheckoutItem(ctx, sku)
	})
}

func (c *CachedClient) SetCustomerDetails(ctx context.Context, details CustomerDetails) (*Checkout, error) {
	return c.checkoutMutation(ctx, func(ctx context.Context) (*Checkout, error) {
		return c.client.SetCustomerDetails(ctx, details)
	})
}

func (c *CachedClient) SetShippingAddress(ctx context.Context, address Address) (*Checkout, error) {
	return c.checkoutMutation(ctx, func(ctx context.Context) (*Checkout, error) {
		return c.client.SetShippingAddress(ctx, address)
	})
}

func (c *CachedClient) SetBillingAddress(ctx context.Context, address Address) (*Checkout, error) {
	return c.checkoutMutation(ctx, func(ctx context.Context) (*Checkout, error) {
		return c.client.SetBillingAddress(ctx, address)
	})
}

func (c *CachedClient) SetShippingMethod(ctx context.Context, methodID int64) (*Checkout, error) {
	return c.checkoutMutation(ctx, func(ctx context.Context) (*Checkout, error) {
		return c.client.SetShippingMethod(ctx, methodID)
	})
}

func (c *CachedClient) ApplyDiscount(ctx context.Context, code string) (*Checkout, error) {
	return c.checkoutMutation(ctx, func(ctx context.Context) (*Checkout, error) {
		return c.client.ApplyDiscount(ctx, code)
	})
}

func (c *CachedClient) RemoveDiscount(ctx context.Context) (*Checkout, error) {
	return c.checkoutMutation(ctx, func(ctx context.Context) (*Checkout, error) {
		return c.client.RemoveDiscount(ctx)
	})
}

func (c *CachedClient) ClearCheckout(ctx context.Context) (*Checkout, error) {
	return c.checkoutMutation(ctx, func(ctx context.Context) (*Checkout, error) {
		return c.client.ClearCheckout(ctx)
	})
}

func (c *CachedClient) CompleteCheckout(ctx context.Context, params CompleteCheckoutParams) (*CheckoutComplete, error) {
	result, err := c.client.CompleteCheckout(ctx, params)
	if err != nil {
		return nil, err
	}
	c.invalidator.CheckoutSession(c.sessionID)
	return result, nil
}

// --- Shipping, discounts, currencies, users ---

func (c *CachedClient) CalculateShippingOptions(ctx context.Context, params ShippingOptionsParams) ([]ShippingOption, error) {
	return c.shippingOptions.Call(ctx, params)
}

func (c *CachedClient) ValidateDiscount(ctx context.Context, params ValidateDiscountParams) (*Discount, error) {
	return c.validateDiscount.Call(ctx, params)
}

func (c *CachedClient) ListCurrencies(ctx context.Context) ([]Currency, error) {
	return c.listCurrencies.Call(ctx)
}

func (c *CachedClient) GetUserProfile(ctx context.Context) (*User, error) {
	return c.userProfile.Call(ctx)
}

// --- Admin cache controls ---

// ClearAllCaches is the admin "clear all" action: local store, shared tier
// and peer.
func (c *CachedClient) ClearAllCaches(ctx context.Context) {
	c.invalidator.All(ctx)
}

// CacheStats exposes the store snapshot for the operational dashboard.
func (c *CachedClient) CacheStats() cache.Stats {
	return c.store.Stats()
}
