package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/trackdown/internal/playlist"
	"github.com/desertthunder/trackdown/internal/scan"
	"github.com/desertthunder/trackdown/internal/ui"
)

// Scan lists the audio files an output folder contains, from their tags.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.StringArg("dir")
	if dir == "" {
		dir = "."
	}

	files, err := scan.NewScanner(r.logger).Scan(dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(files, cmd.Bool("pretty"))
	}

	r.writePlainln("%s", ui.RenderScan(files))

	if path := cmd.String("playlist"); path != "" {
		pl, err := playlist.Load(path)
		if err != nil {
			return err
		}
		missing := scan.Missing(pl.Entries, files)
		if len(missing) == 0 {
			r.writePlain("Every track of %s is present\n", pl.Name)
			return nil
		}
		r.writePlain("Missing %d of %d tracks:\n", len(missing), len(pl.Entries))
		for _, entry := range missing {
			r.writePlain("  %03d - %s\n", entry.Number, entry.Title)
		}
	}
	return nil
}
