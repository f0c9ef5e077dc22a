package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/trackdown/internal/models"
	"github.com/desertthunder/trackdown/internal/shared"
	"golang.org/x/time/rate"
)

// Timeout defaults, overridable via [shared.ProviderConfig].
const (
	DefaultSearchTimeout   = 60 * time.Second
	DefaultDownloadTimeout = 10 * time.Minute
	DefaultRateLimit       = 2.0
)

// ageRestrictionMarker is the stderr substring yt-dlp emits for age gates.
const ageRestrictionMarker = "Sign in to confirm your age"

// audioFormatSelector keeps downloads to bounded-quality audio streams.
const audioFormatSelector = "bestaudio[ext=m4a]/bestaudio"

// Runner executes an external command and returns its stdout and stderr.
// Abstracted so provider behaviour can be tested without binaries.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// YTDLP implements [Provider] by shelling out to the yt-dlp binary.
type YTDLP struct {
	binPath         string
	ffmpegPath      string
	searchTimeout   time.Duration
	downloadTimeout time.Duration
	limiter         *rate.Limiter
	runner          Runner
}

// NewYTDLP creates a yt-dlp provider from configuration. Zero-value config
// fields fall back to package defaults.
func NewYTDLP(cfg shared.ProviderConfig) *YTDLP {
	y := &YTDLP{
		binPath:         cfg.YTDLPPath,
		ffmpegPath:      cfg.FFmpegPath,
		searchTimeout:   time.Duration(cfg.SearchTimeoutSecs) * time.Second,
		downloadTimeout: time.Duration(cfg.DownloadTimeoutSecs) * time.Second,
		runner:          execRunner{},
	}
	if y.binPath == "" {
		y.binPath = "yt-dlp"
	}
	if y.searchTimeout <= 0 {
		y.searchTimeout = DefaultSearchTimeout
	}
	if y.downloadTimeout <= 0 {
		y.downloadTimeout = DefaultDownloadTimeout
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	y.limiter = rate.NewLimiter(rate.Limit(limit), 1)
	return y
}

// SetRunner replaces the command runner (used by tests).
func (y *YTDLP) SetRunner(r Runner) {
	y.runner = r
}

// baseArgs returns the flags every invocation shares.
func (y *YTDLP) baseArgs() []string {
	args := []string{"--no-config"}
	if y.ffmpegPath != "" && strings.ContainsRune(y.ffmpegPath, filepath.Separator) {
		args = append(args, "--ffmpeg-location="+filepath.Dir(y.ffmpegPath))
	}
	return args
}

func (y *YTDLP) run(ctx context.Context, timeout time.Duration, args ...string) (string, string, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return "", "", err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return y.runner.Run(ctx, y.binPath, args...)
}

// searchResponse mirrors the --dump-single-json flat playlist shape.
type searchResponse struct {
	Entries []searchEntry `json:"entries"`
}

type searchEntry struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Duration   float64 `json:"duration"`
	WebpageURL string  `json:"webpage_url"`
}

func (e searchEntry) track() models.CandidateTrack {
	return models.CandidateTrack{
		ID:       e.ID,
		Title:    e.Title,
		Uploader: e.Uploader,
		Duration: e.Duration,
		URL:      e.WebpageURL,
	}
}

// Search performs a shallow flat search via ytsearchN. Non-JSON output from
// the binary is treated as an empty result set.
func (y *YTDLP) Search(ctx context.Context, query string, limit int) ([]models.CandidateTrack, error) {
	if limit <= 0 {
		limit = 1
	}
	args := append(y.baseArgs(),
		"--flat-playlist", "--dump-single-json", "--no-playlist",
		fmt.Sprintf("ytsearch%d:%s", limit, query),
	)

	stdout, _, err := y.run(ctx, y.searchTimeout, args...)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil && stdout == "" {
		return nil, fmt.Errorf("%w: %v", shared.ErrProviderFailed, err)
	}

	var resp searchResponse
	if jsonErr := json.Unmarshal([]byte(stdout), &resp); jsonErr != nil {
		return []models.CandidateTrack{}, nil
	}

	tracks := make([]models.CandidateTrack, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		if e.ID == "" {
			continue
		}
		tracks = append(tracks, e.track())
		if len(tracks) == limit {
			break
		}
	}
	return tracks, nil
}

// Fetch retrieves full metadata for one item.
func (y *YTDLP) Fetch(ctx context.Context, url string) (*models.CandidateTrack, error) {
	args := append(y.baseArgs(), "--dump-single-json", "--no-playlist", url)

	stdout, stderr, err := y.run(ctx, y.searchTimeout, args...)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if strings.Contains(stderr, ageRestrictionMarker) {
		return nil, fmt.Errorf("%w: %s", shared.ErrAgeRestricted, url)
	}
	if err != nil && stdout == "" {
		return nil, fmt.Errorf("%w: %v", shared.ErrProviderFailed, err)
	}

	var e searchEntry
	if jsonErr := json.Unmarshal([]byte(stdout), &e); jsonErr != nil || e.ID == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrProviderParse, url)
	}

	track := e.track()
	return &track, nil
}

// Download runs the external download with archive-based deduplication.
// Age-gate failures surface as shared.ErrAgeRestricted; any other non-zero
// exit is wrapped with the tool's diagnostic text.
func (y *YTDLP) Download(ctx context.Context, req DownloadRequest) error {
	args := append(y.baseArgs(),
		"--download-archive", req.ArchivePath,
		"-f", audioFormatSelector,
		"--output", req.OutputTemplate,
		"--no-playlist",
	)
	if req.EmbedThumbnails {
		args = append(args, "--embed-thumbnail", "--add-metadata")
	}
	if req.TranscodeMP3 {
		args = append(args, "--extract-audio", "--audio-format", "mp3", "--audio-quality", "0")
	} else {
		args = append(args, "--remux-video", "m4a")
	}
	if req.ExcludeInstrumentals {
		args = append(args, "--reject-title", "instrumental")
	}
	args = append(args, req.Target)

	_, stderr, err := y.run(ctx, y.downloadTimeout, args...)
	if err != nil {
		if strings.Contains(stderr, ageRestrictionMarker) {
			return fmt.Errorf("%w: %s", shared.ErrAgeRestricted, req.Target)
		}
		return fmt.Errorf("%w: %s", shared.ErrProviderFailed, strings.TrimSpace(stderr))
	}
	return nil
}
