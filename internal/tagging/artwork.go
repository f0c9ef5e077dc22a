package tagging

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/trackdown/internal/shared"
)

var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	audioExtensions = map[string]bool{".mp3": true, ".m4a": true, ".opus": true, ".ogg": true, ".webm": true}
)

// Muxer embeds an image into an audio file, writing the result to dst.
type Muxer interface {
	Mux(ctx context.Context, audio, image, dst string) error
}

// ffmpegMuxer shells out to ffmpeg for an attached-picture stream-copy mux.
type ffmpegMuxer struct {
	path string
}

func (m *ffmpegMuxer) Mux(ctx context.Context, audio, image, dst string) error {
	out, err := exec.CommandContext(ctx, m.path, muxArgs(audio, image, dst)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", shared.ErrArtworkMux, strings.TrimSpace(string(out)))
	}
	return nil
}

// muxArgs maps only the audio streams of the source and the single image
// stream of the cover, so a re-run never duplicates an already attached
// picture. The image is re-encoded to mjpeg.
func muxArgs(audio, image, dst string) []string {
	return []string{
		"-y",
		"-i", audio,
		"-i", image,
		"-map", "0:a", "-map", "1:v",
		"-c:a", "copy",
		"-c:v", "mjpeg",
		"-disposition:v:0", "attached_pic",
		dst,
	}
}

// ArtworkStage pairs loose artwork images with the audio files in an output
// folder and embeds each image into its file.
type ArtworkStage struct {
	muxer  Muxer
	logger *log.Logger
}

// NewArtworkStage creates the stage with an ffmpeg-backed muxer. An empty
// path resolves ffmpeg from PATH.
func NewArtworkStage(ffmpegPath string, logger *log.Logger) *ArtworkStage {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &ArtworkStage{muxer: &ffmpegMuxer{path: ffmpegPath}, logger: logger}
}

// SetMuxer replaces the mux implementation. Used by tests.
func (s *ArtworkStage) SetMuxer(m Muxer) {
	s.muxer = m
}

// Apply renames loose images into one-to-one correspondence with the folder's
// audio files, then embeds each matched image. Audio files are ordered by
// modification time, images by their leading numeric prefix with unprefixed
// images last; images whose prefix is a not-found track number have no audio
// counterpart and are skipped. Mux failures are logged and the partial
// output removed; they do not abort the stage for other files.
func (s *ArtworkStage) Apply(ctx context.Context, dir string, notFound map[int]bool) error {
	audio, err := audioByModTime(dir)
	if err != nil {
		return err
	}
	images, err := imagesByPrefix(dir)
	if err != nil {
		return err
	}

	next := 0
	for _, img := range images {
		if notFound[img.prefix] {
			continue
		}
		if next >= len(audio) {
			break
		}

		base := strings.TrimSuffix(audio[next], filepath.Ext(audio[next]))
		renamed := base + strings.ToLower(filepath.Ext(img.name))
		if err := os.Rename(filepath.Join(dir, img.name), filepath.Join(dir, renamed)); err != nil {
			s.logger.Error("failed to rename artwork", "image", img.name, "err", err)
		}
		next++
	}

	for _, name := range audio {
		image, ok := imageFor(dir, name)
		if !ok {
			continue
		}
		s.embed(ctx, dir, name, image)
	}
	return nil
}

// embed muxes one image into one audio file through a temp file, swapping it
// in atomically and restoring the audio file's original modification time.
func (s *ArtworkStage) embed(ctx context.Context, dir, audioName, imageName string) {
	audioPath := filepath.Join(dir, audioName)
	info, err := os.Stat(audioPath)
	if err != nil {
		s.logger.Error("failed to stat audio file", "path", audioPath, "err", err)
		return
	}

	tmp := filepath.Join(dir, shared.GenerateID()+filepath.Ext(audioName))
	if err := s.muxer.Mux(ctx, audioPath, filepath.Join(dir, imageName), tmp); err != nil {
		s.logger.Error("artwork mux failed", "path", audioPath, "err", err)
		os.Remove(tmp)
		return
	}
	if err := os.Rename(tmp, audioPath); err != nil {
		s.logger.Error("failed to replace audio file", "path", audioPath, "err", err)
		os.Remove(tmp)
		return
	}
	if err := os.Chtimes(audioPath, info.ModTime(), info.ModTime()); err != nil {
		s.logger.Warn("failed to restore modification time", "path", audioPath, "err", err)
	}
}

type imageFile struct {
	name   string
	prefix int
}

// imagesByPrefix lists image files sorted by their leading numeric prefix.
// Images without one sort after every prefixed image, in name order.
func imagesByPrefix(dir string) ([]imageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output folder: %w", err)
	}

	var images []imageFile
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		prefix, ok := leadingNumber(entry.Name())
		if !ok {
			prefix = math.MaxInt
		}
		images = append(images, imageFile{name: entry.Name(), prefix: prefix})
	}

	sort.Slice(images, func(i, j int) bool {
		if images[i].prefix != images[j].prefix {
			return images[i].prefix < images[j].prefix
		}
		return images[i].name < images[j].name
	})
	return images, nil
}

// audioByModTime lists the folder's audio file names ordered by modification
// time. Downloads are strictly sequential, so this is creation order.
func audioByModTime(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output folder: %w", err)
	}

	type stamped struct {
		name string
		mod  int64
	}
	var files []stamped
	for _, entry := range entries {
		if entry.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		files = append(files, stamped{name: entry.Name(), mod: info.ModTime().UnixNano()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mod < files[j].mod })
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	return names, nil
}

// imageFor finds a same-base-name image alongside an audio file.
func imageFor(dir, audioName string) (string, bool) {
	base := strings.TrimSuffix(audioName, filepath.Ext(audioName))
	for ext := range imageExtensions {
		candidate := base + ext
		if _, err := os.Stat(filepath.Join(dir, candidate)); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// leadingNumber parses the digits a file name starts with.
func leadingNumber(name string) (int, bool) {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
