// Package cli implements the gemdex command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gemdex/pkg/buildinfo"
	"github.com/matzehuels/gemdex/pkg/cache"
	"github.com/matzehuels/gemdex/pkg/integrations/rubygems"
	"github.com/matzehuels/gemdex/pkg/versions"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gemdex"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	config Config
}

// New creates a new CLI instance with a default logger and configuration
// loaded from the default config path (missing file is fine).
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}

	cfg, err := LoadConfig("")
	if err != nil {
		c.Logger.Warnf("Config ignored: %v", err)
		cfg = DefaultConfig()
	}
	c.config = cfg

	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "gemdex",
		Short:        "Gemdex mirrors the RubyGems version feed locally",
		Long:         `Gemdex keeps a local mirror of the RubyGems versions feed and answers gem version lookups from it, falling back to the per-gem API for other registries.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.syncCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Mirror Factory
// =============================================================================

// newMirror wires a Mirror from the loaded configuration.
// The returned cache backend must be closed by the caller.
func (c *CLI) newMirror(ctx context.Context, noCache bool) (*versions.Mirror, cache.Cache, error) {
	backend, err := c.newCacheBackend(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}

	feed := versions.NewFeedClient(c.config.FeedURL)
	fallback := rubygems.NewClient(backend, c.config.Cache.TTL())

	return versions.NewMirror(feed, fallback, c.Logger), backend, nil
}

// newCacheBackend selects the response-cache backend from config.
// Backend failures degrade to a null cache rather than aborting the command.
func (c *CLI) newCacheBackend(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.config.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}

	if c.config.Cache.Backend == "redis" {
		backend, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.config.Redis.Addr,
			Password: c.config.Redis.Password,
			DB:       c.config.Redis.DB,
		})
		if err != nil {
			c.Logger.Warnf("Redis cache unavailable, continuing without cache: %v", err)
			return cache.NewNullCache(), nil
		}
		return backend, nil
	}

	dir := c.config.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gemdex/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
