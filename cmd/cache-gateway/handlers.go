package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/commercify/storefront-cache/pkg/cache"
	"github.com/commercify/storefront-cache/pkg/commerce"
	"github.com/commercify/storefront-cache/pkg/config"
	"github.com/commercify/storefront-cache/pkg/invalidation"
)

// gateway holds the process-wide pieces shared by all request handlers.
type gateway struct {
	store       *cache.Store
	coordinator *invalidation.Coordinator
	cfg         config.Config
	ttl         commerce.TTLConfig
	logger      zerolog.Logger
}

// clientFor builds the per-request cached client, forwarding the request's
// auth token and cookies upstream and binding its checkout session.
func (g *gateway) clientFor(r *http.Request) *commerce.CachedClient {
	client := commerce.New(g.cfg.CommerceAPIURL)

	if cookies := r.Header.Get("Cookie"); cookies != "" {
		client.SetCookieHeader(cookies)
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		client.SetAuthToken(strings.TrimPrefix(auth, "Bearer "))
	}

	return commerce.NewCachedClient(client, g.store, g.coordinator, cache.SessionIDFromRequest(r), g.ttl)
}

func (g *gateway) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := commerce.ProductSearchParams{
		Query: q.Get("query"),
	}
	params.CategoryID, _ = strconv.ParseInt(q.Get("category_id"), 10, 64)
	params.Page, _ = strconv.Atoi(q.Get("page"))
	params.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	list, err := g.clientFor(r).SearchProducts(r.Context(), params)
	if err != nil {
		g.writeError(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, list)
}

func (g *gateway) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		g.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	refresh := r.URL.Query().Get("refresh")
	force := refresh == "1" || refresh == "true"

	product, err := g.clientFor(r).GetProduct(r.Context(), id, force)
	if err != nil {
		g.writeError(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, product)
}

func (g *gateway) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := g.clientFor(r).ListCategories(r.Context())
	if err != nil {
		g.writeError(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, categories)
}

func (g *gateway) handleListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := g.clientFor(r).ListCurrencies(r.Context())
	if err != nil {
		g.writeError(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, currencies)
}

func (g *gateway) handleGetCheckout(w http.ResponseWriter, r *http.Request) {
	checkout, err := g.clientFor(r).GetCheckout(r.Context())
	if err != nil {
		g.writeError(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, checkout)
}

func (g *gateway) handleStats(w http.ResponseWriter, r *http.Request) {
	g.writeJSON(w, http.StatusOK, g.store.Stats())
}

// handleClear is the admin "clear all" action. It shares the invalidation
// secret rather than the admin session: the gateway has no session store.
func (g *gateway) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Api-Key") != g.cfg.InvalidationAPIKey {
		g.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	g.coordinator.All(r.Context())
	g.logger.Info().Msg("All caches cleared by admin action")
	g.writeJSON(w, http.StatusOK, map[string]string{"message": "All caches cleared"})
}

func (g *gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (g *gateway) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.logger.Error().Err(err).Msg("Failed to write response")
	}
}

// writeError maps an upstream failure onto the gateway response: commerce
// API errors keep their status, anything else is a bad gateway.
func (g *gateway) writeError(w http.ResponseWriter, err error) {
	var apiErr *commerce.APIError
	if errors.As(err, &apiErr) {
		g.writeJSON(w, apiErr.StatusCode, map[string]string{"error": apiErr.Message})
		return
	}

	g.logger.Warn().Err(err).Msg("Upstream request failed")
	g.writeJSON(w, http.StatusBadGateway, map[string]string{"error": "commerce API unavailable"})
}
