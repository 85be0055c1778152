package commerce

import "time"

// Product is an already-mapped domain object as cached and served to route
// handlers, not the raw upstream wire shape.
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Currency    string           `json:"currency"`
	CategoryID  int64            `json:"category_id"`
	Images      []string         `json:"images,omitempty"`
	Active      bool             `json:"active"`
	Variants    []ProductVariant `json:"variants,omitempty"`
}

type ProductVariant struct {
	SKU        string            `json:"sku"`
	Price      float64           `json:"price"`
	Stock      int               `json:"stock"`
	Weight     float64           `json:"weight,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Images     []string          `json:"images,omitempty"`
	IsDefault  bool              `json:"is_default"`
}

// ProductList is a page of products with pagination metadata.
type ProductList struct {
	Items    []Product `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// ProductSearchParams parameterizes the storefront product search. The
// zero value lists everything.
type ProductSearchParams struct {
	Query      string `json:"query,omitempty"`
	CategoryID int64  `json:"category_id,omitempty"`
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"page_size,omitempty"`
}

// ProductListParams parameterizes the admin product listing, which includes
// inactive products.
type ProductListParams struct {
	Page     int  `json:"page,omitempty"`
	PageSize int  `json:"page_size,omitempty"`
	Inactive bool `json:"inactive,omitempty"`
}

// CreateProductParams is the payload for creating a product.
type CreateProductParams struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Currency    string           `json:"currency"`
	CategoryID  int64            `json:"category_id"`
	Images      []string         `json:"images,omitempty"`
	Active      bool             `json:"active"`
	Variants    []ProductVariant `json:"variants,omitempty"`
}

// UpdateProductParams is a partial update; nil fields are left unchanged
// upstream. Active is a pointer so "not touched" and "set to false" stay
// distinguishable - the invalidation row differs between the two.
type UpdateProductParams struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Active      *bool            `json:"active,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
}

type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ParentID     *int64 `json:"parent_id,omitempty"`
	ProductCount int    `json:"product_count"`
}

// UpsertCategoryParams covers category create and update.
type UpsertCategoryParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

type Order struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Currency  string      `json:"currency"`
	Total     float64     `json:"total"`
	Items     []OrderItem `json:"items,omitempty"`
	PaymentID string      `json:"payment_id,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type OrderItem struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderSummary is the compact shape used by admin order listings.
type OrderSummary struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderList struct {
	Items    []OrderSummary `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type OrderListParams struct {
	Status   string `json:"status,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

// Checkout is the session-scoped cart state. It changes on every mutation,
// which is why its cache TTL is the shortest in the system.
type Checkout struct {
	SessionID        string          `json:"session_id"`
	Items            []CheckoutItem  `json:"items,omitempty"`
	Customer         CustomerDetails `json:"customer,omitempty"`
	ShippingAddress  *Address        `json:"shipping_address,omitempty"`
	BillingAddress   *Address        `json:"billing_address,omitempty"`
	ShippingMethodID int64           `json:"shipping_method_id,omitempty"`
	DiscountCode     string          `json:"discount_code,omitempty"`
	Currency         string          `json:"currency"`
	Subtotal         float64         `json:"subtotal"`
	ShippingCost     float64         `json:"shipping_cost"`
	Discount         float64         `json:"discount"`
	Total            float64         `json:"total"`
}

type CheckoutItem struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type CustomerDetails struct {
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CheckoutComplete is the outcome of completing a checkout. ActionURL is set
// when the payment provider requires a redirect.
type CheckoutComplete struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	ActionURL string `json:"action_url,omitempty"`
}

// CompleteCheckoutParams carries the payment data for checkout completion.
type CompleteCheckoutParams struct {
	PaymentMethod string `json:"payment_method"`
	PaymentToken  string `json:"payment_token,omitempty"`
}

type ShippingOption struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	EstimatedDays int     `json:"estimated_days,omitempty"`
}

// ShippingOptionsParams asks for the options available for a destination.
type ShippingOptionsParams struct {
	Address     Address `json:"address"`
	OrderAmount float64 `json:"order_amount,omitempty"`
	Currency    string  `json:"currency,omitempty"`
}

type Discount struct {
	Code   string  `json:"code"`
	Valid  bool    `json:"valid"`
	Type   string  `json:"type,omitempty"` // "percentage" or "fixed"
	Amount float64 `json:"amount,omitempty"`
}

type ValidateDiscountParams struct {
	Code        string  `json:"code"`
	OrderAmount float64 `json:"order_amount,omitempty"`
	Currency    string  `json:"currency,omitempty"`
}

type Currency struct {
	Code         string  `json:"code"`
	Symbol       string  `json:"symbol"`
	ExchangeRate float64 `json:"exchange_rate"`
	IsDefault    bool    `json:"is_default"`
}

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// CapturePaymentParams captures a previously authorized payment, fully or
// partially.
type CapturePaymentParams struct {
	Amount float64 `json:"amount,omitempty"`
	IsFull bool    `json:"is_full"`
}

type RefundPaymentParams struct {
	Amount float64 `json:"amount,omitempty"`
	Reason string  `json:"reason,omitempty"`
}
