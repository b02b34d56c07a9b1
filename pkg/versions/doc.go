// Package versions maintains a process-local mirror of a gem registry's
// version index, kept current through the registry's incremental versions
// feed.
//
// # Overview
//
// The canonical registry publishes an append-only plain-text feed in which
// each line records version additions (and yanks, marked with a leading "-")
// for one gem. Instead of querying the registry per gem, [Mirror] downloads
// only the bytes appended since its last sync, applies them to an in-memory
// [Index], and answers lookups locally.
//
// # Components
//
//   - [Index]: gem name → ordered version strings; pure in-memory state
//   - [FeedClient]: resumable byte-range fetches against the feed
//   - [Mirror]: staleness tracking, single-flight refresh coalescing, and
//     the public Lookup surface
//
// # Usage
//
//	feed := versions.NewFeedClient("")
//	fallback := rubygems.NewClient(cache.NewNullCache(), time.Hour)
//	m := versions.NewMirror(feed, fallback, logger)
//
//	res, err := m.Lookup(ctx, "rails", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range res.Releases {
//	    fmt.Println(r.Version)
//	}
//
// # Consistency
//
// The mirror is eventually consistent: a lookup racing a refresh may observe
// a partially applied delta. Only one refresh runs at a time; concurrent
// callers that find the mirror stale share a single fetch and all observe
// the same outcome.
//
// # Failure Model
//
// The feed is offset-addressed, so any fetch failure other than "nothing
// new" invalidates the mirror wholesale: index and offset reset to zero and
// the next access resyncs from the start of the feed. Lookups against
// non-canonical registry hosts skip the mirror entirely and use the per-gem
// RubyGems API.
package versions
