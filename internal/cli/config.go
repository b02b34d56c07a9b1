package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the user-configurable settings, loaded from a TOML file.
//
// Example (~/.config/gemdex/config.toml):
//
//	feed_url = "https://rubygems.org/versions"
//
//	[cache]
//	backend = "file"   # file, redis, or none
//	ttl_hours = 24
//
//	[redis]
//	addr = "localhost:6379"
//
//	[serve]
//	addr = ":8080"
type Config struct {
	FeedURL string      `toml:"feed_url"`
	Cache   CacheConfig `toml:"cache"`
	Redis   RedisConfig `toml:"redis"`
	Serve   ServeConfig `toml:"serve"`
}

// CacheConfig selects and tunes the response-cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	TTLHours int    `toml:"ttl_hours"`
}

// TTL returns the configured cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// RedisConfig holds connection settings for the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServeConfig holds settings for the HTTP API server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the built-in defaults: canonical feed, file cache
// with a 24h TTL, serving on :8080.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{Backend: "file", TTLHours: 24},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults; a malformed file or an
// unknown cache backend is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	switch cfg.Cache.Backend {
	case "file", "redis", "none":
	default:
		return cfg, fmt.Errorf("%s: unknown cache backend %q", path, cfg.Cache.Backend)
	}

	return cfg, nil
}

// defaultConfigPath returns ~/.config/gemdex/config.toml (per os.UserConfigDir).
func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}
