package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("SweepInterval = %v", cfg.SweepInterval)
	}
	if cfg.PeerTimeout != 5*time.Second {
		t.Errorf("PeerTimeout = %v", cfg.PeerTimeout)
	}
}

func TestLoadNoFile(t *testing.T) {
	t.Setenv("HOST", "")
	t.Setenv("STORE_URL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CommerceAPIURL != "http://localhost:8000" {
		t.Errorf("CommerceAPIURL = %q", cfg.CommerceAPIURL)
	}
	// Outside a container the peer defaults to the local storefront.
	if cfg.PeerURL != "http://localhost:3000" {
		t.Errorf("PeerURL = %q", cfg.PeerURL)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen_addr: ":9090"
commerce_api_url: "https://api.example.com"
invalidation_api_key: "from-file"
redis_addr: "localhost:6380"
sweep_interval: 1m
dev: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.CommerceAPIURL != "https://api.example.com" {
		t.Errorf("CommerceAPIURL = %q", cfg.CommerceAPIURL)
	}
	if cfg.InvalidationAPIKey != "from-file" {
		t.Errorf("InvalidationAPIKey = %q", cfg.InvalidationAPIKey)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("SweepInterval = %v", cfg.SweepInterval)
	}
	if !cfg.Dev {
		t.Error("Dev should be true")
	}
	// Unset fields keep their defaults.
	if cfg.RedisPrefix != "commercify" {
		t.Errorf("RedisPrefix = %q", cfg.RedisPrefix)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(`invalidation_api_key: "from-file"`), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CACHE_INVALIDATION_API_KEY", "from-env")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("DEV_MODE", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.InvalidationAPIKey != "from-env" {
		t.Errorf("InvalidationAPIKey = %q, environment must win", cfg.InvalidationAPIKey)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Errorf("SweepInterval = %v", cfg.SweepInterval)
	}
	if !cfg.Dev {
		t.Error("DEV_MODE=1 should enable dev mode")
	}
}

func TestPeerURLDisabled(t *testing.T) {
	t.Setenv("STORE_URL", "-")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PeerURL != "" {
		t.Errorf("PeerURL = %q, want empty when disabled", cfg.PeerURL)
	}
}

func TestPeerURLContainerDetection(t *testing.T) {
	t.Setenv("HOST", "0.0.0.0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PeerURL != "http://storefront-app:3000" {
		t.Errorf("PeerURL = %q", cfg.PeerURL)
	}
}

func TestInvalidDurationIgnored(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "not-a-duration")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("SweepInterval = %v, want the default", cfg.SweepInterval)
	}
}
