package versions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/matzehuels/gemdex/pkg/integrations"
)

// DefaultFeedURL is the canonical registry's incremental versions feed.
const DefaultFeedURL = "https://rubygems.org/versions"

// ErrNoNewData reports that the feed holds nothing beyond the requested
// offset. This is the expected steady state between upstream publishes,
// not a failure.
var ErrNoNewData = errors.New("no new feed data")

// FeedClient fetches the append-only versions feed incrementally.
//
// Each fetch requests a byte range starting at the caller's consumed offset
// and disables response compression, so the returned byte length maps
// exactly onto feed offsets. All methods are safe for concurrent use.
type FeedClient struct {
	http *http.Client
	url  string
}

// NewFeedClient creates a feed client for the given feed URL.
// An empty url selects [DefaultFeedURL].
func NewFeedClient(url string) *FeedClient {
	if url == "" {
		url = DefaultFeedURL
	}
	return &FeedClient{http: integrations.NewHTTPClient(), url: url}
}

// URL returns the feed URL this client fetches.
func (c *FeedClient) URL() string { return c.url }

// Fetch returns the feed bytes from offset to the current end of the feed.
//
// [ErrNoNewData] means the offset is already at the end of the feed. Any
// other error means the fetch failed in a way that leaves the caller's
// offset untrustworthy.
func (c *FeedClient) Fetch(ctx context.Context, offset int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	// A compressed body would decouple response length from feed offsets.
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", integrations.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
	case http.StatusRequestedRangeNotSatisfiable:
		return "", ErrNoNewData
	default:
		return "", fmt.Errorf("%w: status %d", integrations.ErrNetwork, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", integrations.ErrNetwork, err)
	}
	return string(data), nil
}
