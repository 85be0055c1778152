package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/commercify/storefront-cache/internal/testutil"
)

func TestClientGetProduct(t *testing.T) {
	mock := testutil.NewMockCommerce()
	defer mock.Close()
	mock.SetJSON("/api/products/7", `{"id":7,"name":"Widget","currency":"EUR","active":true}`)

	client := New(mock.URL())
	p, err := client.GetProduct(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if p.ID != 7 || p.Name != "Widget" || !p.Active {
		t.Errorf("GetProduct = %+v", p)
	}
}

func TestClientSearchProductsQuery(t *testing.T) {
	mock := testutil.NewMockCommerce()
	defer mock.Close()

	mock.SetHandler("/api/products/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("query") != "hat" || q.Get("category_id") != "3" || q.Get("page") != "2" || q.Get("page_size") != "20" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"items":[{"id":1,"name":"Hat"}],"total":1,"page":2,"page_size":20}`))
	})

	client := New(mock.URL())
	list, err := client.SearchProducts(context.Background(), ProductSearchParams{
		Query:      "hat",
		CategoryID: 3,
		Page:       2,
		PageSize:   20,
	})
	if err != nil {
		t.Fatalf("SearchProducts failed: %v", err)
	}
	if list.Total != 1 || len(list.Items) != 1 {
		t.Errorf("SearchProducts = %+v", list)
	}
}

func TestClientForwardsAuthAndCookies(t *testing.T) {
	mock := testutil.NewMockCommerce()
	defer mock.Close()

	mock.SetHandler("/api/checkout", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Cookie"); got != "checkout_session_id=sess-1" {
			t.Errorf("Cookie = %q", got)
		}
		w.Write([]byte(`{"session_id":"sess-1","currency":"EUR"}`))
	})

	client := New(mock.URL())
	client.SetAuthToken("tok-123")
	client.SetCookieHeader("checkout_session_id=sess-1")

	if _, err := client.GetCheckout(context.Background()); err != nil {
		t.Fatalf("GetCheckout failed: %v", err)
	}
}

func TestClientErrorResponse(t *testing.T) {
	mock := testutil.NewMockCommerce()
	defer mock.Close()
	mock.SetResponse("/api/products/404", testutil.MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error":"product not found"}`,
	})

	client := New(mock.URL())
	_, err := client.GetProduct(context.Background(), 404)
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Message != "product not found" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should be true for a 404")
	}
}

func TestClientUpdateProductBody(t *testing.T) {
	mock := testutil.NewMockCommerce()
	defer mock.Close()

	mock.SetHandler("/api/admin/products/7", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if body["active"] != false {
			t.Errorf("body = %v, want active:false", body)
		}
		if _, present := body["name"]; present {
			t.Error("untouched fields must be omitted from the payload")
		}
		w.Write([]byte(`{"id":7,"active":false}`))
	})

	client := New(mock.URL())
	active := false
	p, err := client.UpdateProduct(context.Background(), 7, UpdateProductParams{Active: &active})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if p.Active {
		t.Error("returned product should be inactive")
	}
}

func TestClientDeleteProduct(t *testing.T) {
	mock := testutil.NewMockCommerce()
	defer mock.Close()

	mock.SetHandler("/api/admin/products/7", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	})

	client := New(mock.URL())
	if err := client.DeleteProduct(context.Background(), 7); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if mock.PathCount("/api/admin/products/7") != 1 {
		t.Error("delete should hit the admin product path once")
	}
}

func TestClientCompleteCheckout(t *testing.T) {
	mock := testutil.NewMockCommerce()
	defer mock.Close()
	mock.SetJSON("/api/checkout/complete", `{"order_id":"ord-9","status":"pending"}`)

	client := New(mock.URL())
	result, err := client.CompleteCheckout(context.Background(), CompleteCheckoutParams{PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("CompleteCheckout failed: %v", err)
	}
	if result.OrderID != "ord-9" || result.Status != "pending" {
		t.Errorf("CompleteCheckout = %+v", result)
	}
}

func TestClientListCategories(t *testing.T) {
	mock := testutil.NewMockCommerce()
	defer mock.Close()
	mock.SetJSON("/api/categories", `[{"id":1,"name":"Hats","product_count":4},{"id":2,"name":"Shoes","product_count":9}]`)

	client := New(mock.URL())
	categories, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 2 || categories[1].ProductCount != 9 {
		t.Errorf("ListCategories = %+v", categories)
	}
}
