package tasks

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/trackdown/internal/match"
	"github.com/desertthunder/trackdown/internal/models"
	"github.com/desertthunder/trackdown/internal/provider"
	"github.com/desertthunder/trackdown/internal/shared"
)

// stubProvider returns no search results, so every evaluation falls back to a
// search spec, and scripts per-call download outcomes. A nil script entry
// writes the output file; a non-nil one is returned as the download error.
type stubProvider struct {
	script    []error
	skipFiles bool
	downloads []provider.DownloadRequest
}

func (s *stubProvider) Search(_ context.Context, _ string, _ int) ([]models.CandidateTrack, error) {
	return nil, nil
}

func (s *stubProvider) Fetch(_ context.Context, _ string) (*models.CandidateTrack, error) {
	return nil, shared.ErrProviderParse
}

func (s *stubProvider) Download(_ context.Context, req provider.DownloadRequest) error {
	call := len(s.downloads)
	s.downloads = append(s.downloads, req)

	if call < len(s.script) && s.script[call] != nil {
		return s.script[call]
	}
	if s.skipFiles {
		return nil
	}
	path := strings.Replace(req.OutputTemplate, "%(ext)s", "m4a", 1)
	return os.WriteFile(path, []byte("audio"), 0644)
}

type stubTagger struct {
	paths []string
	err   error
}

func (s *stubTagger) Tag(path string, _ models.PlaylistEntry) error {
	s.paths = append(s.paths, path)
	return s.err
}

func newTestEngine(p provider.Provider, tagger Tagger, variants []string) *ConvertEngine {
	logger := shared.NewLogger(io.Discard)
	cfg := shared.SearchConfig{Variants: variants, DurationMin: 30, DurationMax: 600}
	return NewConvertEngine(
		p,
		match.NewQueryBuilder(cfg.Variants),
		match.NewEvaluator(p, cfg, logger, true),
		tagger,
		shared.OutputConfig{},
		logger,
	)
}

func testPlaylist(titles ...string) *models.Playlist {
	pl := &models.Playlist{Name: "mix"}
	for i, title := range titles {
		pl.Entries = append(pl.Entries, models.PlaylistEntry{
			Number: i + 1,
			Title:  title,
			Artist: "The Band",
			Album:  "mix",
		})
	}
	return pl
}

func TestConvertDownloadsAndTags(t *testing.T) {
	p := &stubProvider{}
	tagger := &stubTagger{}
	e := newTestEngine(p, tagger, nil)
	outDir := t.TempDir()

	result, err := e.Convert(context.Background(), nil, testPlaylist("First Song", "Second Song"), outDir)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	if len(result.Downloaded) != 2 || len(result.NotFound) != 0 {
		t.Fatalf("expected 2 downloads, got %d downloads and %d not found", len(result.Downloaded), len(result.NotFound))
	}
	if got := result.Downloaded[0].Path; filepath.Base(got) != "001 - First Song.m4a" {
		t.Fatalf("unexpected first path %q", got)
	}
	if len(tagger.paths) != 2 {
		t.Fatalf("expected both files tagged, got %v", tagger.paths)
	}
	if got := p.downloads[0].ArchivePath; got != filepath.Join(outDir, ArchiveFileName) {
		t.Fatalf("unexpected archive path %q", got)
	}
}

func TestConvertVariantFallback(t *testing.T) {
	p := &stubProvider{script: []error{errors.New("no match")}}
	e := newTestEngine(p, nil, []string{"", "lyrics"})
	outDir := t.TempDir()

	result, err := e.Convert(context.Background(), nil, testPlaylist("My Song"), outDir)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	if len(result.Downloaded) != 1 {
		t.Fatalf("expected the second variant to succeed, got %+v", result)
	}
	if result.Downloaded[0].Variant != "lyrics" {
		t.Fatalf("unexpected variant %q", result.Downloaded[0].Variant)
	}
	if got := filepath.Base(result.Downloaded[0].Path); got != "001 - My Song - lyrics.m4a" {
		t.Fatalf("unexpected path %q", got)
	}
	if len(p.downloads) != 2 {
		t.Fatalf("expected 2 download attempts, got %d", len(p.downloads))
	}
}

func TestConvertAgeRestrictionAbortsVariants(t *testing.T) {
	p := &stubProvider{script: []error{shared.ErrAgeRestricted}}
	e := newTestEngine(p, nil, []string{"", "lyrics", "audio"})

	result, err := e.Convert(context.Background(), nil, testPlaylist("Gated Song"), t.TempDir())
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	if len(p.downloads) != 1 {
		t.Fatalf("expected remaining variants to be skipped, got %d attempts", len(p.downloads))
	}
	if len(result.NotFound) != 1 || result.NotFound[0].Reason != models.ReasonAgeRestricted {
		t.Fatalf("expected an age-restricted record, got %+v", result.NotFound)
	}
}

func TestConvertExhaustedVariants(t *testing.T) {
	p := &stubProvider{script: []error{errors.New("fail"), errors.New("fail")}}
	e := newTestEngine(p, nil, []string{"", "lyrics"})

	result, err := e.Convert(context.Background(), nil, testPlaylist("Missing Song"), t.TempDir())
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	if len(result.Downloaded) != 0 || len(result.NotFound) != 1 {
		t.Fatalf("expected a single not-found record, got %+v", result)
	}
	record := result.NotFound[0]
	if record.Reason != models.ReasonNoValidDownload || record.Number != 1 {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestConvertMissingOutputFileTriesNextVariant(t *testing.T) {
	p := &stubProvider{skipFiles: true}
	e := newTestEngine(p, nil, []string{"", "lyrics"})

	result, err := e.Convert(context.Background(), nil, testPlaylist("Phantom Song"), t.TempDir())
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	if len(p.downloads) != 2 {
		t.Fatalf("expected both variants attempted, got %d", len(p.downloads))
	}
	if len(result.NotFound) != 1 || result.NotFound[0].Reason != models.ReasonNoValidDownload {
		t.Fatalf("expected a not-found record, got %+v", result)
	}
}

func TestConvertCoverageInvariant(t *testing.T) {
	// Second entry fails both variants, first and third succeed on the first.
	p := &stubProvider{script: []error{nil, errors.New("fail"), errors.New("fail"), nil}}
	e := newTestEngine(p, nil, []string{"", "lyrics"})
	pl := testPlaylist("One", "Two", "Three")

	result, err := e.Convert(context.Background(), nil, pl, t.TempDir())
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	if len(result.Downloaded)+len(result.NotFound) != len(pl.Entries) {
		t.Fatalf("expected every entry accounted for, got %d + %d", len(result.Downloaded), len(result.NotFound))
	}
	if len(result.NotFound) != 1 || result.NotFound[0].Number != 2 {
		t.Fatalf("expected entry 2 in the not-found list, got %+v", result.NotFound)
	}
}

func TestConvertProgressMessages(t *testing.T) {
	p := &stubProvider{}
	e := newTestEngine(p, nil, nil)
	progress := make(chan ProgressUpdate, 16)

	if _, err := e.Convert(context.Background(), progress, testPlaylist("My Song"), t.TempDir()); err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	close(progress)

	var messages []string
	for update := range progress {
		messages = append(messages, update.Message)
	}

	if len(messages) < 2 {
		t.Fatalf("expected search and download updates, got %v", messages)
	}
	if messages[0] != "Searching: My Song The Band" {
		t.Fatalf("unexpected search message %q", messages[0])
	}
	last := messages[len(messages)-1]
	if !strings.HasPrefix(last, "Downloaded 1/1, ETA: ") {
		t.Fatalf("unexpected final message %q", last)
	}
}

func TestConvertEmptyPlaylist(t *testing.T) {
	e := newTestEngine(&stubProvider{}, nil, nil)

	_, err := e.Convert(context.Background(), nil, &models.Playlist{Name: "empty"}, t.TempDir())
	if !errors.Is(err, shared.ErrPlaylistEmpty) {
		t.Fatalf("expected empty playlist error, got %v", err)
	}
}
