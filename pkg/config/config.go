// Package config loads gateway configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete gateway configuration.
type Config struct {
	// ListenAddr is the address the gateway serves on.
	ListenAddr string `yaml:"listen_addr"`

	// CommerceAPIURL is the base URL of the remote commerce API.
	CommerceAPIURL string `yaml:"commerce_api_url"`

	// PeerURL is the base URL of the sibling deployment to notify on
	// product/category/all invalidations. Auto-detected when unset; set
	// it to "-" to disable peer coordination entirely.
	PeerURL string `yaml:"peer_url"`

	// InvalidationAPIKey is the pre-shared secret for the cross-process
	// invalidation endpoint, both inbound and outbound.
	InvalidationAPIKey string `yaml:"invalidation_api_key"`

	// RedisAddr enables the client-facing shared cache tier when set.
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`

	// SweepInterval is how often expired entries are swept. The sweeper
	// does not run in dev mode.
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// PeerTimeout bounds a single outbound peer invalidation call.
	PeerTimeout time.Duration `yaml:"peer_timeout"`

	Dev      bool   `yaml:"dev"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the baseline configuration before file and environment
// overrides.
func Default() Config {
	return Config{
		ListenAddr:         ":8080",
		CommerceAPIURL:     "http://localhost:8000",
		InvalidationAPIKey: "your-secret-key",
		RedisPrefix:        "commercify",
		SweepInterval:      5 * time.Minute,
		PeerTimeout:        5 * time.Second,
		LogLevel:           "info",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (when
// non-empty), then environment variables. The peer URL is auto-detected last
// when still unset.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.PeerURL == "" {
		cfg.PeerURL = detectPeerURL()
	}
	if cfg.PeerURL == "-" {
		cfg.PeerURL = ""
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.CommerceAPIURL, "COMMERCE_API_URL")
	setString(&cfg.PeerURL, "STORE_URL")
	setString(&cfg.InvalidationAPIKey, "CACHE_INVALIDATION_API_KEY")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisPrefix, "REDIS_PREFIX")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setDuration(&cfg.SweepInterval, "SWEEP_INTERVAL")
	setDuration(&cfg.PeerTimeout, "PEER_TIMEOUT")

	if v := os.Getenv("DEV_MODE"); v != "" {
		cfg.Dev = v == "true" || v == "1"
	}
}

// detectPeerURL guesses where the storefront deployment lives when nothing
// configured it: the docker-compose service name inside a container, else
// localhost.
func detectPeerURL() string {
	if os.Getenv("HOST") == "0.0.0.0" {
		return "http://storefront-app:3000"
	}
	return "http://localhost:3000"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
	}
}
