package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/trackdown/internal/match"
	"github.com/desertthunder/trackdown/internal/models"
	"github.com/desertthunder/trackdown/internal/shared"
)

// Search resolves a single track through the matching pipeline and prints
// the decision per variant, without downloading anything.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: track title", shared.ErrMissingArgument)
	}
	r.loadConfig(cmd)

	entry := models.PlaylistEntry{
		Number:   1,
		Title:    title,
		Artist:   cmd.String("artist"),
		Duration: cmd.Float("duration"),
	}

	builder := match.NewQueryBuilder(r.config.Search.Variants)
	eval := match.NewEvaluator(r.provider, r.config.Search, r.logger, !cmd.Bool("no-deep"))

	r.writePlainHeader(fmt.Sprintf("Matching: %s", title))
	if entry.HasDuration() {
		r.writePlain("Expected duration: %s\n", shared.FormatDuration(int(entry.Duration)))
	}
	for _, variant := range builder.Variants(entry) {
		query := builder.Query(entry, variant)
		r.writePlain("Searching: %s\n", query)

		decision := eval.Evaluate(ctx, entry, variant, query)
		switch decision.Kind {
		case models.DecisionAccepted:
			r.writePlain("  ✓ tier %d: %s\n", decision.Tier, decision.Target)
		default:
			r.writePlain("  ~ fallback: %s\n", decision.Target)
		}
	}

	return nil
}
