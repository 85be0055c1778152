package integration

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/commercify/storefront-cache/pkg/cache"
	"github.com/commercify/storefront-cache/pkg/invalidation"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	t.Cleanup(func() {
		redisClient.Close()
		container.Terminate(context.Background())
	})

	return redisClient
}

func TestRedisStoreSetGetInvalidate(t *testing.T) {
	redisClient := setupRedis(t)
	store := cache.NewRedisStore(redisClient, "test")
	ctx := context.Background()

	if err := store.Set(ctx, "product:7", map[string]any{"id": 7, "name": "Widget"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, ok, err := store.Get(ctx, "product:7")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit for product:7")
	}
	if len(data) == 0 {
		t.Error("expected a JSON payload")
	}

	if err := store.Invalidate(ctx, "product:7"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "product:7"); ok {
		t.Error("product:7 should be gone")
	}
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	redisClient := setupRedis(t)
	store := cache.NewRedisStore(redisClient, "test")
	ctx := context.Background()

	if err := store.Set(ctx, "short", "v", 500*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "short"); !ok {
		t.Fatal("entry should exist before its TTL elapses")
	}

	time.Sleep(time.Second)

	if _, ok, _ := store.Get(ctx, "short"); ok {
		t.Error("entry should be expired")
	}
}

func TestRedisStorePrefixPurge(t *testing.T) {
	redisClient := setupRedis(t)
	store := cache.NewRedisStore(redisClient, "test")
	ctx := context.Background()

	for _, key := range []string{"products:search:hat", "products:list:1", "product:7", "categories"} {
		if err := store.Set(ctx, key, "v", time.Minute); err != nil {
			t.Fatalf("Set(%s) failed: %v", key, err)
		}
	}

	removed, err := store.InvalidatePrefix(ctx, "products:")
	if err != nil {
		t.Fatalf("InvalidatePrefix failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed %d keys, want 2", removed)
	}

	if _, ok, _ := store.Get(ctx, "product:7"); !ok {
		t.Error("product:7 should survive a products: prefix purge")
	}
	if _, ok, _ := store.Get(ctx, "categories"); !ok {
		t.Error("categories should survive a products: prefix purge")
	}
}

func TestRedisStoreClearScopedToNamespace(t *testing.T) {
	redisClient := setupRedis(t)
	ctx := context.Background()

	ours := cache.NewRedisStore(redisClient, "test")
	theirs := cache.NewRedisStore(redisClient, "other")

	if err := ours.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := theirs.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatal(err)
	}

	if err := ours.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, ok, _ := ours.Get(ctx, "k"); ok {
		t.Error("our namespace should be empty after Clear")
	}
	if _, ok, _ := theirs.Get(ctx, "k"); !ok {
		t.Error("other namespaces must survive our Clear")
	}
}

// TestCoordinatorPurgesSharedTier drives the invalidation table end to end
// against a real Redis: a product mutation must purge both the local store
// and the shared tier.
func TestCoordinatorPurgesSharedTier(t *testing.T) {
	redisClient := setupRedis(t)
	ctx := context.Background()

	local := cache.NewStore()
	shared := cache.NewRedisStore(redisClient, "test")
	coord := invalidation.NewCoordinator(local, shared, nil, zerolog.Nop())

	local.Set("product:7", "v", time.Minute)
	local.Set("products:list:1", "v", time.Minute)
	shared.Set(ctx, "product:7", "v", time.Minute)
	shared.Set(ctx, "products:list:1", "v", time.Minute)
	shared.Set(ctx, "categories", "v", time.Minute)

	coord.AllProductCaches(ctx, "7")

	if _, ok := local.Get("product:7"); ok {
		t.Error("local product:7 should be gone")
	}
	if _, ok, _ := shared.Get(ctx, "product:7"); ok {
		t.Error("shared product:7 should be gone")
	}
	if _, ok, _ := shared.Get(ctx, "products:list:1"); ok {
		t.Error("shared product lists should be gone")
	}
	if _, ok, _ := shared.Get(ctx, "categories"); !ok {
		t.Error("shared categories should survive a product mutation")
	}
}
