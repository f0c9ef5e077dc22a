package match

import (
	"strings"

	"github.com/desertthunder/trackdown/internal/models"
	"github.com/desertthunder/trackdown/internal/shared"
)

// QueryBuilder turns playlist entries into ordered search queries. The
// configured variant list is never mutated; per-entry adjustments produce a
// derived copy.
type QueryBuilder struct {
	variants []string
}

// NewQueryBuilder returns a builder over the configured variant list.
func NewQueryBuilder(variants []string) *QueryBuilder {
	return &QueryBuilder{variants: variants}
}

// Variants returns the variant list to try for an entry, in order. An empty
// configured list yields a single plain (empty-string) variant. When the raw
// title itself mentions "instrumental", a synthetic "instrumental" variant is
// prepended for this entry only.
func (b *QueryBuilder) Variants(entry models.PlaylistEntry) []string {
	variants := b.variants
	if len(variants) == 0 {
		variants = []string{""}
	}

	if strings.Contains(strings.ToLower(entry.Title), "instrumental") {
		derived := make([]string, 0, len(variants)+1)
		derived = append(derived, "instrumental")
		return append(derived, variants...)
	}

	out := make([]string, len(variants))
	copy(out, variants)
	return out
}

// Query builds the search query for one (entry, variant) pair:
// sanitized title, then the sanitized artist unless empty or "unknown",
// then the variant.
func (b *QueryBuilder) Query(entry models.PlaylistEntry, variant string) string {
	parts := []string{shared.SanitizeTerm(entry.Title)}
	if artist := ExpectedArtist(entry); artist != "" {
		parts = append(parts, shared.SanitizeTerm(artist))
	}
	if variant != "" {
		parts = append(parts, variant)
	}
	return shared.CollapseSpaces(strings.Join(parts, " "))
}

// ExpectedArtist returns the artist to match against, or "" when the entry
// has no usable artist. The literal "unknown" is a placeholder, not a name.
func ExpectedArtist(entry models.PlaylistEntry) string {
	artist := strings.TrimSpace(entry.Artist)
	if strings.EqualFold(artist, "unknown") {
		return ""
	}
	return artist
}
