package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/trackdown/internal/shared"
)

// PlaylistEntry is one row of a playlist export. Created once per row at
// pipeline start and read-only afterward.
type PlaylistEntry struct {
	Number   int     // 1-based track number, stable across the run
	Title    string  // Raw track title
	Artist   string  // Primary artist only (first segment before a separator)
	Album    string  // Album name, playlist name when the row has none
	Duration float64 // Seconds; 0 means unknown
}

// HasDuration reports whether the source row carried a usable duration.
func (e PlaylistEntry) HasDuration() bool {
	return e.Duration > 0
}

// BaseName returns the output file stem for this entry:
// "{number:03d} - {sanitized title}" plus " - {variant}" when a variant is active.
func (e PlaylistEntry) BaseName(variant string) string {
	base := fmt.Sprintf("%03d - %s", e.Number, strings.TrimSpace(shared.SanitizeTerm(e.Title)))
	if variant != "" {
		base += " - " + variant
	}
	return base
}

// Playlist is a parsed export plus the naming derived from its source file.
type Playlist struct {
	Name    string // Source file name without extension
	Entries []PlaylistEntry
}

// CandidateTrack is a provider search result, scoped to one evaluation.
type CandidateTrack struct {
	ID       string
	Title    string
	Uploader string
	Duration float64 // Seconds
	URL      string
}

// WatchURL returns the canonical watch URL, falling back to one derived from
// the candidate's ID when the provider omitted it.
func (c CandidateTrack) WatchURL() string {
	if c.URL != "" {
		return c.URL
	}
	return "https://www.youtube.com/watch?v=" + c.ID
}

// DecisionKind discriminates evaluator verdicts.
type DecisionKind int

const (
	// DecisionAccepted means a concrete candidate passed the checks.
	DecisionAccepted DecisionKind = iota
	// DecisionFallback means no candidate survived and the download target
	// is a bare search spec the provider resolves at download time.
	DecisionFallback
)

// Decision is the evaluator's verdict for one (entry, variant) pair.
// Target is a watch URL for DecisionAccepted, a search spec for DecisionFallback.
type Decision struct {
	Kind   DecisionKind
	Target string
	Tier   int // 1 or 2; 0 for fallback
}

// NotFoundReason enumerates why an entry produced no file.
type NotFoundReason int

const (
	ReasonNoValidDownload NotFoundReason = iota
	ReasonAgeRestricted
)

func (r NotFoundReason) String() string {
	switch r {
	case ReasonAgeRestricted:
		return "Age-restricted video"
	default:
		return "No valid download"
	}
}

// NotFoundRecord captures an entry that yielded no download, with the reason
// rendered into the not-found report.
type NotFoundRecord struct {
	Number int
	Title  string
	Artist string
	Album  string
	Reason NotFoundReason
}

// DownloadedFile is a successfully downloaded and tagged audio file.
type DownloadedFile struct {
	Entry   PlaylistEntry
	Path    string // Absolute or output-relative path to the audio file
	Variant string // Variant that produced the accepted download, "" for the plain query
}
