// Package commerce provides the client for the remote Commercify API and the
// cached wrapper route handlers consume. The plain Client knows nothing about
// caching; CachedClient composes it with the cache store, the session-scoped
// checkout cache and the invalidation coordinator.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client is the plain HTTP client for the remote commerce API. A fresh
// instance is created per inbound request so the auth token and checkout
// session cookie of that request can be forwarded upstream.
type Client struct {
	baseURL      string
	http         *http.Client
	authToken    string
	cookieHeader string
	logger       zerolog.Logger
}

// New creates a commerce API client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.With().Str("component", "commerce-client").Logger(),
	}
}

// SetAuthToken sets the bearer token forwarded on every request.
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

// SetCookieHeader forwards the inbound request's cookies upstream. The
// commerce API uses the checkout_session_id cookie to resolve the session.
func (c *Client) SetCookieHeader(header string) {
	c.cookieHeader = header
}

// SetHTTPClient replaces the underlying HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.http = client
}

// do performs a request against the commerce API and decodes the JSON
// response into out (when non-nil). Non-2xx responses become an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if c.cookieHeader != "" {
		req.Header.Set("Cookie", c.cookieHeader)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("commerce api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorFromResponse builds an *APIError from an error response, preferring
// the upstream "error" field when the body parses.
func (c *Client) errorFromResponse(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(data) > 0 {
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil {
			switch {
			case body.Error != "":
				apiErr.Message = body.Error
			case body.Message != "":
				apiErr.Message = body.Message
			}
		}
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("message", apiErr.Message).
		Msg("Commerce API error response")
	return apiErr
}

// --- Products ---

// SearchProducts performs the storefront product search (active products).
func (c *Client) SearchProducts(ctx context.Context, params ProductSearchParams) (*ProductList, error) {
	query := url.Values{}
	if params.Query != "" {
		query.Set("query", params.Query)
	}
	if params.CategoryID != 0 {
		query.Set("category_id", strconv.FormatInt(params.CategoryID, 10))
	}
	addPagination(query, params.Page, params.PageSize)

	var list ProductList
	if err := c.do(ctx, http.MethodGet, "/api/products/search", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListProducts performs the admin product listing, inactive ones included.
func (c *Client) ListProducts(ctx context.Context, params ProductListParams) (*ProductList, error) {
	query := url.Values{}
	if params.Inactive {
		query.Set("inactive", "true")
	}
	addPagination(query, params.Page, params.PageSize)

	var list ProductList
	if err := c.do(ctx, http.MethodGet, "/api/admin/products", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+strconv.FormatInt(id, 10), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodPost, "/api/admin/products", nil, params, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, params UpdateProductParams) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodPut, "/api/admin/products/"+strconv.FormatInt(id, 10), nil, params, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/products/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// --- Categories ---

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id int64) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodGet, "/api/categories/"+strconv.FormatInt(id, 10), nil, nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) CreateCategory(ctx context.Context, params UpsertCategoryParams) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPost, "/api/admin/categories", nil, params, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, params UpsertCategoryParams) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPut, "/api/admin/categories/"+strconv.FormatInt(id, 10), nil, params, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/categories/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// --- Orders and payments ---

func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	if err := c.do(ctx, http.MethodGet, "/api/admin/orders/"+id, nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) ListOrders(ctx context.Context, params OrderListParams) (*OrderList, error) {
	query := url.Values{}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	addPagination(query, params.Page, params.PageSize)

	var list OrderList
	if err := c.do(ctx, http.MethodGet, "/api/admin/orders", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) (*Order, error) {
	body := map[string]string{"status": status}
	var o Order
	if err := c.do(ctx, http.MethodPut, "/api/admin/orders/"+id+"/status", nil, body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) CapturePayment(ctx context.Context, paymentID string, params CapturePaymentParams) error {
	return c.do(ctx, http.MethodPost, "/api/admin/payments/"+paymentID+"/capture", nil, params, nil)
}

func (c *Client) CancelPayment(ctx context.Context, paymentID string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/payments/"+paymentID+"/cancel", nil, nil, nil)
}

func (c *Client) RefundPayment(ctx context.Context, paymentID string, params RefundPaymentParams) error {
	return c.do(ctx, http.MethodPost, "/api/admin/payments/"+paymentID+"/refund", nil, params, nil)
}

// --- Shipping, discounts, currencies, users ---

func (c *Client) CalculateShippingOptions(ctx context.Context, params ShippingOptionsParams) ([]ShippingOption, error) {
	var options []ShippingOption
	if err := c.do(ctx, http.MethodPost, "/api/shipping/options", nil, params, &options); err != nil {
		return nil, err
	}
	return options, nil
}

func (c *Client) ValidateDiscount(ctx context.Context, params ValidateDiscountParams) (*Discount, error) {
	var d Discount
	if err := c.do(ctx, http.MethodPost, "/api/discounts/validate", nil, params, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) ListCurrencies(ctx context.Context) ([]Currency, error) {
	var currencies []Currency
	if err := c.do(ctx, http.MethodGet, "/api/currencies", nil, nil, &currencies); err != nil {
		return nil, err
	}
	return currencies, nil
}

func (c *Client) GetUserProfile(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func addPagination(query url.Values, page, pageSize int) {
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
}
