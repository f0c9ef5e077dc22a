// package tasks implements the playlist conversion pipeline.
//
// The core abstraction is ConvertEngine, which drives query construction, candidate
// evaluation, downloads with variant fallback, and per-file tagging for each entry.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/trackdown/internal/match"
	"github.com/desertthunder/trackdown/internal/models"
	"github.com/desertthunder/trackdown/internal/provider"
	"github.com/desertthunder/trackdown/internal/shared"
)

// ArchiveFileName is the download archive file kept inside each output
// folder. The provider consults it so re-runs skip completed ids.
const ArchiveFileName = "downloaded.txt"

// outputExtensions are the audio extensions a finished download may carry,
// checked in preference order.
var outputExtensions = []string{".mp3", ".m4a", ".opus", ".ogg", ".webm"}

// ConvertResult contains all data from a full playlist conversion.
type ConvertResult struct {
	Downloaded []models.DownloadedFile // Files downloaded and tagged, in track order
	NotFound   []models.NotFoundRecord // Entries that produced no file, in track order
	OutputDir  string                  // Folder the files were written to
	Elapsed    time.Duration           // Wall-clock duration of the run
}

// Tagger writes metadata to one downloaded audio file.
type Tagger interface {
	Tag(path string, entry models.PlaylistEntry) error
}

// Engine defines the playlist conversion operation.
type Engine interface {
	// Convert processes every playlist entry in order and returns the files it
	// produced plus the entries it could not resolve. Per-entry failures are
	// absorbed into the not-found list; only report-level I/O errors propagate.
	Convert(ctx context.Context, progress chan<- ProgressUpdate, pl *models.Playlist, outDir string) (*ConvertResult, error)
}

// ConvertEngine implements Engine. Entries and their variants are processed
// strictly sequentially so the shared archive file and the output folder's
// file-creation order stay consistent.
type ConvertEngine struct {
	provider provider.Provider
	builder  *match.QueryBuilder
	eval     *match.Evaluator
	tagger   Tagger
	logger   *log.Logger
	output   shared.OutputConfig
}

// NewConvertEngine creates a ConvertEngine with the provided collaborators.
// A nil tagger skips the tagging step.
func NewConvertEngine(
	p provider.Provider,
	builder *match.QueryBuilder,
	eval *match.Evaluator,
	tagger Tagger,
	output shared.OutputConfig,
	logger *log.Logger,
) *ConvertEngine {
	return &ConvertEngine{
		provider: p,
		builder:  builder,
		eval:     eval,
		tagger:   tagger,
		logger:   shared.WithLogger(logger, "engine", "convert"),
		output:   output,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ConvertEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Convert runs the full pipeline over a playlist. Every entry yields exactly
// one of a DownloadedFile or a NotFoundRecord, never both, never neither.
func (e *ConvertEngine) Convert(ctx context.Context, progress chan<- ProgressUpdate, pl *models.Playlist, outDir string) (*ConvertResult, error) {
	if len(pl.Entries) == 0 {
		return nil, shared.ErrPlaylistEmpty
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output folder: %w", err)
	}

	archive := filepath.Join(outDir, ArchiveFileName)
	total := len(pl.Entries)
	start := time.Now()

	result := &ConvertResult{OutputDir: outDir}
	for i, entry := range pl.Entries {
		step := i + 1

		file, record := e.processEntry(ctx, progress, entry, outDir, archive, step, total)
		if record != nil {
			result.NotFound = append(result.NotFound, *record)
			e.sendProgress(progress, notFoundUpdate(step, total, entry.Title, record.Reason.String()))
		} else {
			result.Downloaded = append(result.Downloaded, *file)
		}

		elapsed := time.Since(start)
		eta := time.Duration(float64(elapsed) / float64(step) * float64(total-step))
		e.sendProgress(progress, downloadedUpdate(step, total, eta))
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

// processEntry tries every variant for one entry and returns either the
// downloaded file or a not-found record. Age-restriction aborts the
// remaining variants; any other download failure moves on to the next one.
func (e *ConvertEngine) processEntry(ctx context.Context, progress chan<- ProgressUpdate, entry models.PlaylistEntry, outDir, archive string, step, total int) (*models.DownloadedFile, *models.NotFoundRecord) {
	for _, variant := range e.builder.Variants(entry) {
		query := e.builder.Query(entry, variant)
		e.sendProgress(progress, searchingUpdate(step, total, query))

		decision := e.eval.Evaluate(ctx, entry, variant, query)
		base := entry.BaseName(variant)

		err := e.provider.Download(ctx, provider.DownloadRequest{
			Target:               decision.Target,
			ArchivePath:          archive,
			OutputTemplate:       filepath.Join(outDir, base+".%(ext)s"),
			EmbedThumbnails:      e.output.EmbedThumbnails,
			TranscodeMP3:         e.output.TranscodeMP3,
			ExcludeInstrumentals: e.output.ExcludeInstrumentals,
		})
		if errors.Is(err, shared.ErrAgeRestricted) {
			e.logger.Warn("age restricted, skipping remaining variants", "track", entry.Title)
			return nil, e.notFoundRecord(entry, models.ReasonAgeRestricted)
		}
		if err != nil {
			e.logger.Debug("download failed, trying next variant", "query", query, "err", err)
			continue
		}

		// Exit success alone is not enough: the file must exist at the
		// expected path before the entry counts as downloaded.
		path, ok := findOutput(outDir, base)
		if !ok {
			continue
		}

		if e.tagger != nil {
			e.sendProgress(progress, taggingUpdate(step, total, path))
			if err := e.tagger.Tag(path, entry); err != nil {
				e.logger.Error("failed to write tags", "path", path, "err", err)
			}
		}
		return &models.DownloadedFile{Entry: entry, Path: path, Variant: variant}, nil
	}

	return nil, e.notFoundRecord(entry, models.ReasonNoValidDownload)
}

func (e *ConvertEngine) notFoundRecord(entry models.PlaylistEntry, reason models.NotFoundReason) *models.NotFoundRecord {
	return &models.NotFoundRecord{
		Number: entry.Number,
		Title:  entry.Title,
		Artist: entry.Artist,
		Album:  entry.Album,
		Reason: reason,
	}
}

// findOutput locates the audio file a download produced for a base name.
func findOutput(outDir, base string) (string, bool) {
	for _, ext := range outputExtensions {
		path := filepath.Join(outDir, base+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
