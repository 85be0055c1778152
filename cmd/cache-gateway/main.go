package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/commercify/storefront-cache/pkg/cache"
	"github.com/commercify/storefront-cache/pkg/commerce"
	"github.com/commercify/storefront-cache/pkg/config"
	"github.com/commercify/storefront-cache/pkg/invalidation"
	"github.com/commercify/storefront-cache/pkg/logging"
	"github.com/commercify/storefront-cache/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger := logging.Setup(logging.Config{})
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.Dev,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := cache.NewStore()
	if !cfg.Dev {
		store.StartSweeper(ctx, cfg.SweepInterval)
	}

	var shared *cache.RedisStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).
				Msg("Shared cache tier unavailable, continuing without it")
		} else {
			shared = cache.NewRedisStore(redisClient, cfg.RedisPrefix)
			logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to shared cache tier")
		}
	}

	var peer *invalidation.PeerClient
	if cfg.PeerURL != "" {
		peer = invalidation.NewPeerClient(cfg.PeerURL, cfg.InvalidationAPIKey, cfg.PeerTimeout, logger)
		logger.Info().Str("peer", cfg.PeerURL).Msg("Peer cache coordination enabled")
	}

	coordinator := invalidation.NewCoordinator(store, shared, peer, logger)

	gw := &gateway{
		store:       store,
		coordinator: coordinator,
		cfg:         cfg,
		ttl:         commerce.DefaultTTLs(),
		logger:      logging.Component("gateway"),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Method(http.MethodPost, invalidation.EndpointPath,
		invalidation.NewHandler(coordinator, cfg.InvalidationAPIKey, logger))
	router.Get("/api/cache/stats", gw.handleStats)
	router.Post("/api/cache/clear", gw.handleClear)

	router.Get("/api/products", gw.handleSearchProducts)
	router.Get("/api/products/{id}", gw.handleGetProduct)
	router.Get("/api/categories", gw.handleListCategories)
	router.Get("/api/currencies", gw.handleListCurrencies)
	router.Get("/api/checkout", gw.handleGetCheckout)

	router.Get("/health", gw.handleHealth)
	router.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("addr", cfg.ListenAddr).
			Str("commerce_api", cfg.CommerceAPIURL).
			Bool("dev", cfg.Dev).
			Msg("Starting cache gateway")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("Cache gateway failed")
	}
	logger.Info().Msg("Cache gateway stopped")
}
