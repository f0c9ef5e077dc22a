// Package provider abstracts the external search/download tool behind the [Provider] interface.
//
// The provider is modeled as two read capabilities plus one download
// capability, so the matching pipeline never depends on a specific binary:
//
//  1. [Provider.Search] : shallow flat search returning up to N candidates
//     without a per-item network fetch
//  2. [Provider.Fetch] : full metadata for a single item (one network
//     round-trip), surfacing age gates as [shared.ErrAgeRestricted]
//  3. [Provider.Download] : the actual download invocation with archive-file
//     deduplication, output templating and post-processing flags
//
// # yt-dlp Implementation
//
// [YTDLP] shells out to the yt-dlp binary. Malformed or non-JSON output from
// the tool degrades to an empty result set rather than an error, matching
// the tool's habit of printing warnings on stdout. All invocations share a
// rate limiter and bounded per-call timeouts.
package provider
