package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/trackdown/internal/shared"
)

// CacheStats prints the search cache's query and row counts.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: enable it in config.toml", shared.ErrCacheDisabled)
	}

	queries, rows, err := r.cache.Stats()
	if err != nil {
		return err
	}

	r.writePlain("Cached queries: %d\n", queries)
	r.writePlain("Cached rows: %d\n", rows)
	return nil
}

// CacheClear removes every cached search result.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: enable it in config.toml", shared.ErrCacheDisabled)
	}

	if err := r.cache.Clear(); err != nil {
		return err
	}

	r.writePlain("✓ Search cache cleared\n")
	return nil
}

// ConfigInit writes the annotated default configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("wrote configuration", "path", path)
	r.writePlain("✓ Created %s\n", path)
	return nil
}
