package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/trackdown/internal/match"
	"github.com/desertthunder/trackdown/internal/playlist"
	"github.com/desertthunder/trackdown/internal/report"
	"github.com/desertthunder/trackdown/internal/shared"
	"github.com/desertthunder/trackdown/internal/tagging"
	"github.com/desertthunder/trackdown/internal/tasks"
	"github.com/desertthunder/trackdown/internal/ui"
)

// Convert runs the full pipeline for one playlist export: parse, match,
// download, tag, then write the end-of-run reports.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("playlist")
	if path == "" {
		return fmt.Errorf("%w: playlist file", shared.ErrMissingArgument)
	}
	r.loadConfig(cmd)

	pl, err := playlist.Load(path)
	if err != nil {
		return err
	}

	// every run gets its own per-playlist folder under the output base
	outDir := filepath.Join(cmd.String("output"), pl.Name)

	output := r.config.Output
	if cmd.Bool("mp3") {
		output.TranscodeMP3 = true
	}
	if cmd.Bool("exclude-instrumentals") {
		output.ExcludeInstrumentals = true
	}
	if cmd.Bool("embed-thumbnails") {
		output.EmbedThumbnails = true
	}
	if cmd.Bool("spotify-art") {
		output.SpotifyArt = true
	}

	p := r.provider
	if cmd.Bool("no-cache") {
		p = r.direct
	}

	r.logger.Info("starting conversion", "playlist", pl.Name, "tracks", len(pl.Entries), "output", outDir)
	r.writePlain("Converting %s (%d tracks)\n", pl.Name, len(pl.Entries))

	engine := tasks.NewConvertEngine(
		p,
		match.NewQueryBuilder(r.config.Search.Variants),
		match.NewEvaluator(p, r.config.Search, r.logger, !cmd.Bool("no-deep")),
		tagging.NewWriter(r.logger),
		output,
		r.logger,
	)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ui.RenderProgress(progressCh, ui.NewBar(len(pl.Entries), r.output))
	}()

	result, err := engine.Convert(ctx, progressCh, pl, outDir)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if output.SpotifyArt {
		stage := tagging.NewArtworkStage(r.config.Provider.FFmpegPath, r.logger)
		if err := stage.Apply(ctx, outDir, notFoundNumbers(result)); err != nil {
			r.logger.Error("artwork stage failed", "err", err)
		}
	}

	if err := report.WriteNotFound(report.NotFoundPath(outDir, pl.Name), result.NotFound); err != nil {
		return err
	}
	if output.GenerateM3U && !cmd.Bool("no-m3u") {
		if err := report.WriteM3U(report.M3UPath(outDir, pl.Name), outDir); err != nil {
			return err
		}
	}

	r.writePlainln("%s", ui.RenderSummary(result))
	if len(result.NotFound) > 0 {
		r.writePlain("Not-found report: %s\n", report.NotFoundPath(outDir, pl.Name))
	}
	return nil
}

func notFoundNumbers(result *tasks.ConvertResult) map[int]bool {
	numbers := make(map[int]bool, len(result.NotFound))
	for _, record := range result.NotFound {
		numbers[record.Number] = true
	}
	return numbers
}
