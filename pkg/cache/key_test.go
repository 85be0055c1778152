package cache

import (
	"testing"
)

func TestKeyNilParams(t *testing.T) {
	if got := Key("categories", nil); got != "categories" {
		t.Errorf("Key = %q, want bare prefix", got)
	}
}

func TestKeyDeterministicMapOrder(t *testing.T) {
	a := map[string]any{"query": "shoes", "page": 2, "pageSize": 20}
	b := map[string]any{"pageSize": 20, "page": 2, "query": "shoes"}

	ka := Key("products:search", a)
	kb := Key("products:search", b)
	if ka != kb {
		t.Errorf("keys differ for identical params:\n  %s\n  %s", ka, kb)
	}
}

func TestKeyStructAndMapAgree(t *testing.T) {
	type params struct {
		Page  int    `json:"page"`
		Query string `json:"query"`
	}

	ks := Key("products:search", params{Page: 1, Query: "hat"})
	km := Key("products:search", map[string]any{"query": "hat", "page": 1})
	if ks != km {
		t.Errorf("struct and map forms diverge:\n  %s\n  %s", ks, km)
	}
}

func TestKeyDistinguishesParams(t *testing.T) {
	tests := []struct {
		name string
		a, b any
	}{
		{"different query", map[string]any{"query": "a"}, map[string]any{"query": "b"}},
		{"different page", map[string]any{"page": 1}, map[string]any{"page": 2}},
		{"extra field", map[string]any{"page": 1}, map[string]any{"page": 1, "query": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Key("p", tt.a) == Key("p", tt.b) {
				t.Errorf("distinct params %v and %v collide", tt.a, tt.b)
			}
		})
	}
}

func TestKeyPrefixSeparation(t *testing.T) {
	p := map[string]any{"id": 7}
	if Key("products", p) == Key("orders", p) {
		t.Error("different prefixes must not collide")
	}
}

func TestKeyUnmarshalableParams(t *testing.T) {
	// A channel cannot be marshaled; the key must still be produced.
	got := Key("p", make(chan int))
	if got == "" || got == "p" {
		t.Errorf("Key = %q, want a non-empty fallback key", got)
	}
}
