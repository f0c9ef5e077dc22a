// Package ui renders conversion output for the terminal: a lipgloss palette
// for result lines and a track-count progress bar fed by the engine's
// progress channel.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"

	"github.com/desertthunder/trackdown/internal/scan"
	"github.com/desertthunder/trackdown/internal/tasks"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// NewBar creates the per-track progress bar for a conversion run.
func NewBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Converting..."),
	)
}

// RenderProgress drains the engine's progress channel, advancing the bar once
// per completed entry and describing the current phase. Blocks until the
// channel closes.
func RenderProgress(updates <-chan tasks.ProgressUpdate, bar *progressbar.ProgressBar) {
	for update := range updates {
		switch update.Phase {
		case tasks.Downloading:
			bar.Describe(update.Message)
			bar.Set(update.Step)
		default:
			bar.Describe(update.Message)
		}
	}
	bar.Finish()
}

// RenderSummary renders the end-of-run counts for a conversion.
func RenderSummary(result *tasks.ConvertResult) string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Conversion complete"))
	b.WriteString("\n")
	b.WriteString(styles.ok.Render(fmt.Sprintf("✓ %d downloaded", len(result.Downloaded))))
	if len(result.NotFound) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(fmt.Sprintf("✗ %d not found", len(result.NotFound))))
		for _, record := range result.NotFound {
			b.WriteString("\n")
			b.WriteString(styles.warn.Render(fmt.Sprintf("  %03d %s - %s (%s)", record.Number, record.Artist, record.Title, record.Reason)))
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.help.Render(fmt.Sprintf("Finished in %s", result.Elapsed.Truncate(time.Second))))
	return b.String()
}

// RenderScan renders a scanned folder as an aligned track listing.
func RenderScan(files []scan.ScannedFile) string {
	if len(files) == 0 {
		return styles.warn.Render("No audio files found")
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%d tracks", len(files))))
	for _, f := range files {
		b.WriteString("\n")
		source := "tags"
		if !f.FromTags {
			source = "name"
		}
		b.WriteString(fmt.Sprintf("%3d  %-40s %-25s %s", f.Track, trim(f.Title, 40), trim(f.Artist, 25), styles.help.Render(source)))
	}
	return b.String()
}

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
