package match

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/trackdown/internal/models"
	"github.com/desertthunder/trackdown/internal/provider"
	"github.com/desertthunder/trackdown/internal/shared"
)

const (
	// maxDurationDelta is the tier-1 tolerance between the source duration
	// and a candidate's, in seconds.
	maxDurationDelta = 10.0
	deepResultCount  = 3
)

// Evaluator resolves one query into a download decision using the two-tier
// algorithm: a quick single-result check, then a deep top-3 metadata
// comparison, then a bare search-spec fallback.
type Evaluator struct {
	provider    provider.Provider
	logger      *log.Logger
	durationMin float64
	durationMax float64
	deep        bool
}

// NewEvaluator builds an evaluator over a provider with the configured
// duration band. When deep is false both tiers are skipped and every query
// resolves straight to the search-spec fallback, without any provider calls.
func NewEvaluator(p provider.Provider, cfg shared.SearchConfig, logger *log.Logger, deep bool) *Evaluator {
	return &Evaluator{
		provider:    p,
		logger:      logger,
		durationMin: float64(cfg.DurationMin),
		durationMax: float64(cfg.DurationMax),
		deep:        deep,
	}
}

// Evaluate decides the download target for one (entry, variant) query. It
// never fails: provider errors degrade tier by tier until the fallback
// search spec is returned.
func (e *Evaluator) Evaluate(ctx context.Context, entry models.PlaylistEntry, variant, query string) models.Decision {
	if e.deep {
		if target, ok := e.quickCheck(ctx, entry, query); ok {
			return models.Decision{Kind: models.DecisionAccepted, Target: target, Tier: 1}
		}
		if target, ok := e.deepCheck(ctx, entry, variant, query); ok {
			return models.Decision{Kind: models.DecisionAccepted, Target: target, Tier: 2}
		}
	}

	return models.Decision{Kind: models.DecisionFallback, Target: provider.SearchSpec(query)}
}

// quickCheck fetches the single top result and accepts it only when title,
// artist, duration delta and duration band all agree.
func (e *Evaluator) quickCheck(ctx context.Context, entry models.PlaylistEntry, query string) (string, bool) {
	results, err := e.provider.Search(ctx, query, 1)
	if err != nil || len(results) == 0 {
		return "", false
	}
	top := results[0]

	if !strings.Contains(shared.Normalize(top.Title), shared.Normalize(entry.Title)) {
		return "", false
	}
	if artist := ExpectedArtist(entry); artist != "" {
		if !strings.Contains(shared.Normalize(top.Uploader), shared.Normalize(artist)) {
			return "", false
		}
	}
	if entry.HasDuration() && math.Abs(top.Duration-entry.Duration) > maxDurationDelta {
		return "", false
	}
	if top.Duration < e.durationMin || top.Duration > e.durationMax {
		return "", false
	}

	return top.WatchURL(), true
}

// deepCheck fetches full metadata for the top results, discards candidates
// that fail the skip rules, and picks the best scorer among the survivors.
func (e *Evaluator) deepCheck(ctx context.Context, entry models.PlaylistEntry, variant, query string) (string, bool) {
	results, err := e.provider.Search(ctx, query, deepResultCount)
	if err != nil || len(results) == 0 {
		return "", false
	}

	keywords := shared.TitleKeywords(entry.Title)
	bestScore := math.Inf(-1)
	bestTarget := ""

	for _, result := range results {
		candidate, err := e.provider.Fetch(ctx, result.WatchURL())
		if err != nil {
			if errors.Is(err, shared.ErrAgeRestricted) {
				e.logger.Debug("skipping age-restricted candidate", "id", result.ID)
			}
			continue
		}
		if e.skip(entry, variant, keywords, candidate) {
			continue
		}

		score := Score(
			candidate.Title, entry.Title,
			candidate.Duration-entry.Duration, entry.HasDuration(),
		)
		if score > bestScore {
			bestScore = score
			bestTarget = candidate.WatchURL()
		}
	}

	return bestTarget, bestTarget != ""
}

// skip applies the deep tier's per-candidate discard rules.
func (e *Evaluator) skip(entry models.PlaylistEntry, variant string, keywords []string, c *models.CandidateTrack) bool {
	title := shared.Normalize(c.Title)

	if strings.Contains(c.URL, "shorts/") || strings.Contains(strings.ToLower(c.Title), "#shorts") {
		return true
	}
	if c.Duration < e.durationMin || c.Duration > e.durationMax {
		return true
	}
	if artist := ExpectedArtist(entry); artist != "" {
		if !strings.Contains(shared.Normalize(c.Uploader), shared.Normalize(artist)) {
			return true
		}
	}
	if variant != "" && !strings.Contains(title, shared.Normalize(variant)) {
		return true
	}
	return !shared.ContainsKeywordsInOrder(c.Title, keywords)
}
