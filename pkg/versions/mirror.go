package versions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/gemdex/pkg/integrations"
	"github.com/matzehuels/gemdex/pkg/integrations/rubygems"
	"github.com/matzehuels/gemdex/pkg/observability"
)

// CanonicalHost is the registry host mirrored through the versions feed.
// Lookups against any other host use per-gem API calls instead.
const CanonicalHost = "rubygems.org"

// stalenessWindow is how long a completed sync keeps the mirror fresh.
const stalenessWindow = 5 * time.Minute

// ErrFeedUnavailable wraps feed fetch failures. When it is returned the
// mirror has already been invalidated and the next access performs a full
// resync from byte zero.
var ErrFeedUnavailable = errors.New("versions feed unavailable")

// Release is one published version of a gem.
type Release struct {
	Version         string     `json:"version"`
	Platform        string     `json:"platform,omitempty"`
	BuiltAt         *time.Time `json:"built_at,omitempty"`
	RubygemsVersion string     `json:"rubygems_version,omitempty"`
	RubyVersion     string     `json:"ruby_version,omitempty"`
}

// Result is the answer to a version lookup. Lookups served from the mirror
// carry version strings only; fallback lookups may include release metadata
// and gem URLs.
type Result struct {
	Releases   []Release `json:"releases"`
	Homepage   string    `json:"homepage,omitempty"`
	SourceCode string    `json:"source_code,omitempty"`
	Changelog  string    `json:"changelog,omitempty"`
}

// Mirror owns the version index and keeps it current against the feed.
//
// A Mirror is constructed once per process (or per test) and is safe for
// concurrent use. Index mutation happens only inside the single in-flight
// refresh; lookups read concurrently.
type Mirror struct {
	feed     *FeedClient
	fallback *rubygems.Client
	idx      *Index
	logger   *log.Logger

	group singleflight.Group
	now   func() time.Time

	mu       sync.Mutex
	offset   int64
	lastSync time.Time
}

// NewMirror creates a mirror over the given feed. fallback serves lookups
// against non-canonical registry hosts; it may be nil if only the canonical
// registry is ever queried. A nil logger falls back to log.Default.
func NewMirror(feed *FeedClient, fallback *rubygems.Client, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.Default()
	}
	return &Mirror{
		feed:     feed,
		fallback: fallback,
		idx:      NewIndex(),
		logger:   logger,
		now:      time.Now,
	}
}

// Lookup answers "what versions exist for gem" against the given registry.
// An empty registryURL selects the canonical registry.
//
// Canonical lookups are served from the mirror after ensuring freshness.
// Other hosts are queried directly through the per-gem API; a response whose
// echoed gem name differs from the requested one is treated as not found
// rather than trusted.
func (m *Mirror) Lookup(ctx context.Context, gem, registryURL string) (*Result, error) {
	gem = strings.TrimSpace(gem)
	if gem == "" {
		return nil, fmt.Errorf("%w: empty gem name", integrations.ErrNotFound)
	}

	if isCanonical(registryURL) {
		if err := m.EnsureFresh(ctx); err != nil {
			return nil, err
		}
		list, ok := m.idx.Versions(gem)
		if !ok {
			return nil, fmt.Errorf("%w: gem %s", integrations.ErrNotFound, gem)
		}
		releases := make([]Release, len(list))
		for i, v := range list {
			releases[i] = Release{Version: v}
		}
		return &Result{Releases: releases}, nil
	}

	return m.lookupFallback(ctx, gem, registryURL)
}

// EnsureFresh syncs the index if the staleness window has elapsed.
//
// Concurrent callers that find the mirror stale are coalesced onto one
// shared refresh: exactly one feed fetch happens and every caller observes
// the same outcome. A caller whose context is cancelled stops waiting, but
// the shared refresh runs to completion for the remaining waiters.
func (m *Mirror) EnsureFresh(ctx context.Context) error {
	m.mu.Lock()
	fresh := m.now().Sub(m.lastSync) < stalenessWindow
	m.mu.Unlock()
	if fresh {
		return nil
	}

	ch := m.group.DoChan("refresh", func() (any, error) {
		return nil, m.refresh(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sync forces one refresh cycle regardless of staleness. A concurrent
// in-flight refresh is joined rather than duplicated.
func (m *Mirror) Sync(ctx context.Context) error {
	_, err, _ := m.group.Do("refresh", func() (any, error) {
		return nil, m.refresh(ctx)
	})
	return err
}

// Offset returns the cumulative byte offset consumed from the feed.
func (m *Mirror) Offset() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offset
}

// Tracked returns the number of gems currently in the index.
func (m *Mirror) Tracked() int { return m.idx.Len() }

// Reset clears the index and all sync state, forcing the next access to
// perform a full resync from byte zero. It exists for tests and operational
// resets; the query path never calls it.
func (m *Mirror) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idx.Reset()
	m.offset = 0
	m.lastSync = time.Time{}
}

func (m *Mirror) refresh(ctx context.Context) error {
	m.mu.Lock()
	offset := m.offset
	m.mu.Unlock()

	observability.Sync().OnSyncStart(ctx, offset)
	start := m.now()

	delta, err := m.feed.Fetch(ctx, offset)
	switch {
	case errors.Is(err, ErrNoNewData):
		m.mu.Lock()
		m.lastSync = m.now()
		m.mu.Unlock()
		observability.Sync().OnSyncComplete(ctx, 0, 0, m.now().Sub(start), nil)
		return nil
	case err != nil:
		// The feed is offset-addressed: after a failed fetch we can no
		// longer prove which bytes were consumed, so the only safe restart
		// point is a full resync from byte zero. Index and offset reset
		// together; one without the other would be meaningless.
		m.mu.Lock()
		m.idx.Reset()
		m.offset = 0
		m.mu.Unlock()
		observability.Sync().OnFeedReset(ctx)
		wrapped := fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
		observability.Sync().OnSyncComplete(ctx, 0, 0, m.now().Sub(start), wrapped)
		return wrapped
	}

	lines := strings.Split(delta, "\n")
	for _, line := range lines {
		applyLine(m.idx, line, m.logger)
	}

	m.mu.Lock()
	m.offset = offset + int64(len(delta))
	m.lastSync = m.now()
	newOffset := m.offset
	m.mu.Unlock()

	observability.Sync().OnSyncComplete(ctx, len(delta), len(lines), m.now().Sub(start), nil)
	m.logger.Debug("applied feed delta", "bytes", len(delta), "lines", len(lines), "offset", newOffset)
	return nil
}

func (m *Mirror) lookupFallback(ctx context.Context, gem, registryURL string) (*Result, error) {
	info, err := m.fallback.FetchGem(ctx, registryURL, gem, false)
	if err != nil {
		return nil, err
	}
	// Don't trust the registry's echoed name: a response for a different
	// (or differently cased) gem is treated as not found.
	if info.Name != integrations.NormalizeGemName(gem) {
		return nil, fmt.Errorf("%w: gem %s", integrations.ErrNotFound, gem)
	}

	releases, err := m.fallback.FetchVersions(ctx, registryURL, gem, false)
	switch {
	case errors.Is(err, integrations.ErrNotFound), errors.Is(err, integrations.ErrBadStatus):
		// Registries without a versions endpoint still report the current
		// version through the info endpoint.
		releases = nil
	case err != nil:
		return nil, err
	}

	res := &Result{
		Homepage:   info.HomepageURI,
		SourceCode: info.SourceCodeURI,
		Changelog:  info.ChangelogURI,
	}
	for _, v := range releases {
		res.Releases = append(res.Releases, Release{
			Version:         v.Number,
			Platform:        v.Platform,
			BuiltAt:         v.BuiltAt,
			RubygemsVersion: v.RubygemsVersion,
			RubyVersion:     v.RubyVersion,
		})
	}
	if len(res.Releases) == 0 && info.Version != "" {
		res.Releases = []Release{{Version: info.Version, Platform: info.Platform}}
	}
	return res, nil
}

func isCanonical(registryURL string) bool {
	if registryURL == "" {
		return true
	}
	u, err := url.Parse(registryURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), CanonicalHost)
}
