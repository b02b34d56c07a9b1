// Package rubygems provides an HTTP client for the RubyGems.org API and
// compatible self-hosted registries.
//
// # Overview
//
// This package fetches per-gem metadata and release lists from any registry
// exposing the RubyGems JSON API (https://guides.rubygems.org/rubygems-org-api/).
// It is the per-gem fallback path used for registries that are not mirrored
// through the incremental versions feed.
//
// # Usage
//
//	client := rubygems.NewClient(cache.NewNullCache(), 24*time.Hour)
//
//	info, err := client.FetchGem(ctx, "", "rails", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(info.Name, info.Version)
//
//	releases, err := client.FetchVersions(ctx, "", "rails", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range releases {
//	    fmt.Println(r.Number, r.Platform)
//	}
//
// # Registry Hosts
//
// Both fetch methods take a base URL so the same client can query private
// registries (e.g. "https://gems.internal.example"). An empty base selects
// rubygems.org.
//
// # Caching
//
// Responses are cached through the backend passed to [NewClient], keyed by
// registry host and gem name. Pass refresh=true to bypass the cache.
//
// # Errors
//
// Lookups report [integrations.ErrNotFound] for missing gems,
// [integrations.ErrBadStatus] for other client errors, and
// [integrations.ErrNetwork] for transport failures. All are inspectable
// with errors.Is.
package rubygems
