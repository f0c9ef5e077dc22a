// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// convertCommand handles the full playlist → audio collection run
func convertCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "convert",
		Aliases: []string{"run"},
		Usage:   "Download and tag every track of a playlist export",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Base folder for the per-playlist output folder",
			},
			&cli.BoolFlag{
				Name:  "mp3",
				Usage: "Transcode downloads to mp3",
			},
			&cli.BoolFlag{
				Name:  "no-deep",
				Usage: "Skip candidate checks and download the top search hit directly",
			},
			&cli.BoolFlag{
				Name:  "no-m3u",
				Usage: "Skip writing the M3U playlist",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Bypass the search result cache for this run",
			},
			&cli.BoolFlag{
				Name:  "exclude-instrumentals",
				Usage: "Reject search results with instrumental in the title",
			},
			&cli.BoolFlag{
				Name:  "embed-thumbnails",
				Usage: "Embed video thumbnails into downloads",
			},
			&cli.BoolFlag{
				Name:  "spotify-art",
				Usage: "Embed loose album art images from the output folder",
			},
		},
		Action: r.Convert,
	}
}

// searchCommand resolves a single track without downloading
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Show the download decision for one track",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "title",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Primary artist name",
			},
			&cli.FloatFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "Expected duration in seconds",
			},
			&cli.BoolFlag{
				Name:  "no-deep",
				Usage: "Skip the deep candidate check",
			},
		},
		Action: r.Search,
	}
}

// scanCommand reads metadata back from an output folder
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "List the tracks an output folder contains",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "dir",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Playlist export to diff the folder against",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Scan,
	}
}

// cacheCommand inspects and clears the search cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the search result cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cached query counts",
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached search result",
				Action: r.CacheClear,
			},
		},
	}
}

// configCommand writes the annotated default configuration
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration helpers",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a default config.toml",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.ConfigInit,
			},
		},
	}
}
