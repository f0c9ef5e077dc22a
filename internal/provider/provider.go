package provider

import (
	"context"

	"github.com/desertthunder/trackdown/internal/models"
)

// Provider defines the search/metadata/download capabilities the pipeline
// needs from an external audio source.
type Provider interface {
	// Search performs a shallow flat search and returns up to limit
	// candidates. Malformed provider output yields an empty slice, not an
	// error.
	Search(ctx context.Context, query string, limit int) ([]models.CandidateTrack, error)

	// Fetch retrieves full metadata for a single item URL.
	// Returns shared.ErrAgeRestricted when the provider denies access due
	// to an age gate and shared.ErrProviderParse when the response cannot
	// be decoded.
	Fetch(ctx context.Context, url string) (*models.CandidateTrack, error)

	// Download invokes the external download against req.Target, which is
	// either a direct URL or a search spec the provider resolves itself.
	Download(ctx context.Context, req DownloadRequest) error
}

// SearchSpec builds the provider search spec for a query, resolved by the
// provider to its own top hit at download time.
func SearchSpec(query string) string {
	return "ytsearch1:" + query
}

// DownloadRequest carries everything one download invocation needs.
type DownloadRequest struct {
	Target               string // Watch URL or search spec
	ArchivePath          string // Persistent dedup archive consulted and updated by the tool
	OutputTemplate       string // Full output path template including %(ext)s
	EmbedThumbnails      bool
	TranscodeMP3         bool
	ExcludeInstrumentals bool
}
