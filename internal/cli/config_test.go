package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Cache.Backend != "file" {
		t.Errorf("default backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL() != 24*time.Hour {
		t.Errorf("default TTL = %v, want 24h", cfg.Cache.TTL())
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("default serve addr = %q, want :8080", cfg.Serve.Addr)
	}
	if cfg.FeedURL != "" {
		t.Errorf("default feed URL should be empty (canonical), got %q", cfg.FeedURL)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("missing file should yield defaults, got backend %q", cfg.Cache.Backend)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
feed_url = "https://mirror.example.com/versions"

[cache]
backend = "redis"
ttl_hours = 6

[redis]
addr = "redis.internal:6379"
db = 2

[serve]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.FeedURL != "https://mirror.example.com/versions" {
		t.Errorf("feed URL = %q", cfg.FeedURL)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL() != 6*time.Hour {
		t.Errorf("TTL = %v, want 6h", cfg.Cache.TTL())
	}
	if cfg.Redis.Addr != "redis.internal:6379" || cfg.Redis.DB != 2 {
		t.Errorf("redis config = %+v", cfg.Redis)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("serve addr = %q, want :9090", cfg.Serve.Addr)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[serve]\naddr = \":3000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	// Unset sections keep their defaults
	if cfg.Cache.Backend != "file" {
		t.Errorf("backend = %q, want default file", cfg.Cache.Backend)
	}
	if cfg.Serve.Addr != ":3000" {
		t.Errorf("serve addr = %q, want :3000", cfg.Serve.Addr)
	}
}

func TestLoadConfigUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("unknown cache backend should error")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("feed_url = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed config should error")
	}
}
