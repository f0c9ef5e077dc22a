package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/trackdown/internal/cache"
	"github.com/desertthunder/trackdown/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var searchCache *cache.SearchCache
	if config.Cache.Enabled {
		path := config.Cache.Path
		if path == "" {
			path = "trackdown_cache.db"
		}
		if c, err := cache.Open(path, time.Duration(config.Cache.TTLHours)*time.Hour); err == nil {
			searchCache = c
		} else {
			logger.Warn("search cache unavailable", "err", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Cache:  searchCache,
		Logger: logger,
	})

	app := &cli.Command{
		Name:    "trackdown",
		Usage:   "Convert playlist exports into a local audio collection",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
