package commerce

import (
	"context"
	"net/http"
	"strconv"
)

// Checkout operations. The upstream resolves the session from the forwarded
// checkout_session_id cookie, so none of these take a session argument.

func (c *Client) GetCheckout(ctx context.Context) (*Checkout, error) {
	var co Checkout
	if err := c.do(ctx, http.MethodGet, "/api/checkout", nil, nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) AddCheckoutItem(ctx context.Context, sku string, quantity int) (*Checkout, error) {
	body := map[string]any{"sku": sku, "quantity": quantity}
	var co Checkout
	if err := c.do(ctx, http.MethodPost, "/api/checkout/items", nil, body, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) UpdateCheckoutItem(ctx context.Context, sku string, quantity int) (*Checkout, error) {
	body := map[string]any{"quantity": quantity}
	var co Checkout
	if err := c.do(ctx, http.MethodPut, "/api/checkout/items/"+sku, nil, body, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) RemoveCheckoutItem(ctx context.Context, sku string) (*Checkout, error) {
	var co Checkout
	if err := c.do(ctx, http.MethodDelete, "/api/checkout/items/"+sku, nil, nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) SetCustomerDetails(ctx context.Context, details CustomerDetails) (*Checkout, error) {
	var co Checkout
	if err := c.do(ctx, http.MethodPut, "/api/checkout/customer", nil, details, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) SetShippingAddress(ctx context.Context, address Address) (*Checkout, error) {
	var co Checkout
	if err := c.do(ctx, http.MethodPut, "/api/checkout/shipping-address", nil, address, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) SetBillingAddress(ctx context.Context, address Address) (*Checkout, error) {
	var co Checkout
	if err := c.do(ctx, http.MethodPut, "/api/checkout/billing-address", nil, address, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) SetShippingMethod(ctx context.Context, methodID int64) (*Checkout, error) {
	body := map[string]string{"shipping_method_id": strconv.FormatInt(methodID, 10)}
	var co Checkout
	if err := c.do(ctx, http.MethodPut, "/api/checkout/shipping-method", nil, body, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) ApplyDiscount(ctx context.Context, code string) (*Checkout, error) {
	body := map[string]string{"code": code}
	var co Checkout
	if err := c.do(ctx, http.MethodPost, "/api/checkout/discount", nil, body, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) RemoveDiscount(ctx context.Context) (*Checkout, error) {
	var co Checkout
	if err := c.do(ctx, http.MethodDelete, "/api/checkout/discount", nil, nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) ClearCheckout(ctx context.Context) (*Checkout, error) {
	var co Checkout
	if err := c.do(ctx, http.MethodDelete, "/api/checkout", nil, nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) CompleteCheckout(ctx context.Context, params CompleteCheckoutParams) (*CheckoutComplete, error) {
	var result CheckoutComplete
	if err := c.do(ctx, http.MethodPost, "/api/checkout/complete", nil, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
