package rubygems

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/gemdex/pkg/cache"
	"github.com/matzehuels/gemdex/pkg/integrations"
)

// DefaultBaseURL is the canonical RubyGems API host.
const DefaultBaseURL = "https://rubygems.org"

// GemInfo holds metadata for a Ruby gem from a RubyGems-compatible registry.
//
// Name is the registry's echoed gem name, returned exactly as the registry
// reports it so callers can verify it against the requested name.
//
// Zero values: all string fields are empty. This struct is safe for
// concurrent reads after construction.
type GemInfo struct {
	Name          string // Gem name as echoed by the registry (never empty in valid info)
	Version       string // Current version (e.g., "7.1.2", never empty in valid info)
	Platform      string // Platform of the current version (may be empty)
	SourceCodeURI string // Source code repository URL (may be empty)
	HomepageURI   string // Homepage URL (may be empty)
	ChangelogURI  string // Changelog URL (may be empty)
	Description   string // Gem description/info (may be empty)
	License       string // License(s), comma-separated if multiple (may be empty)
}

// GemVersion is one published release of a gem.
type GemVersion struct {
	Number          string     // Version string (e.g., "7.1.2")
	Platform        string     // Target platform (e.g., "ruby", "java")
	BuiltAt         *time.Time // Publish timestamp (nil if the registry omits it)
	RubygemsVersion string     // Required rubygems constraint (may be empty)
	RubyVersion     string     // Required ruby constraint (may be empty)
}

// Client provides access to the RubyGems HTTP API, both on rubygems.org and
// on self-hosted registries exposing the same endpoints.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a RubyGems client with the given cache backend.
//
// Parameters:
//   - backend: cache backend for HTTP response caching (nil disables caching)
//   - cacheTTL: how long responses are cached (typical: 1-24 hours)
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "rubygems:", cacheTTL, nil),
		baseURL: DefaultBaseURL,
	}
}

// FetchGem retrieves metadata for a gem.
//
// base selects the registry host; an empty base uses rubygems.org. The gem
// name is normalized to lowercase with whitespace trimmed before the request.
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - GemInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the gem doesn't exist
//   - [integrations.ErrBadStatus] for other 4xx responses
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - Other errors for JSON decoding failures
//
// The returned GemInfo pointer is never nil if err is nil.
// This method is safe for concurrent use.
func (c *Client) FetchGem(ctx context.Context, base, gem string, refresh bool) (*GemInfo, error) {
	gem = integrations.NormalizeGemName(gem)
	base = c.base(base)

	var info GemInfo
	err := c.Cached(ctx, base+":gem:"+gem, refresh, &info, func() error {
		return c.fetchGem(ctx, base, gem, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// FetchVersions retrieves every published release of a gem, newest first
// (the registry's own ordering is preserved).
//
// Error classes mirror [Client.FetchGem]. Callers that can tolerate a
// missing versions endpoint should check for [integrations.ErrNotFound]
// and [integrations.ErrBadStatus] and fall back to the info endpoint.
func (c *Client) FetchVersions(ctx context.Context, base, gem string, refresh bool) ([]GemVersion, error) {
	gem = integrations.NormalizeGemName(gem)
	base = c.base(base)

	var versions []GemVersion
	err := c.Cached(ctx, base+":versions:"+gem, refresh, &versions, func() error {
		return c.fetchVersions(ctx, base, gem, &versions)
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (c *Client) base(base string) string {
	if base == "" {
		return c.baseURL
	}
	return strings.TrimSuffix(base, "/")
}

func (c *Client) fetchGem(ctx context.Context, base, gem string, info *GemInfo) error {
	var data gemResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/api/v1/gems/%s.json", base, gem), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: gem %s", err, gem)
		}
		return err
	}

	*info = GemInfo{
		Name:          data.Name,
		Version:       data.Version,
		Platform:      data.Platform,
		Description:   data.Info,
		License:       strings.Join(data.Licenses, ", "),
		SourceCodeURI: data.SourceCodeURI,
		HomepageURI:   data.HomepageURI,
		ChangelogURI:  data.ChangelogURI,
	}
	return nil
}

func (c *Client) fetchVersions(ctx context.Context, base, gem string, versions *[]GemVersion) error {
	var data []versionResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/api/v1/versions/%s.json", base, gem), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: gem %s", err, gem)
		}
		return err
	}

	out := make([]GemVersion, 0, len(data))
	for _, v := range data {
		out = append(out, GemVersion{
			Number:          v.Number,
			Platform:        v.Platform,
			BuiltAt:         v.BuiltAt,
			RubygemsVersion: v.RubygemsVersion,
			RubyVersion:     v.RubyVersion,
		})
	}
	*versions = out
	return nil
}

type gemResponse struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Platform      string   `json:"platform"`
	Info          string   `json:"info"`
	Licenses      []string `json:"licenses"`
	SourceCodeURI string   `json:"source_code_uri"`
	HomepageURI   string   `json:"homepage_uri"`
	ChangelogURI  string   `json:"changelog_uri"`
}

type versionResponse struct {
	Number          string     `json:"number"`
	Platform        string     `json:"platform"`
	BuiltAt         *time.Time `json:"built_at"`
	RubygemsVersion string     `json:"rubygems_version"`
	RubyVersion     string     `json:"ruby_version"`
}
