// Package scan reads metadata back out of a conversion output folder. It is
// the verification half of the pipeline: after a run, scanning shows what a
// folder actually contains from its embedded tags, falling back to the
// "NNN - Title" file-name convention when a file carries none.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dhowden/tag"

	"github.com/desertthunder/trackdown/internal/models"
)

var audioExtensions = map[string]bool{".mp3": true, ".m4a": true, ".opus": true, ".ogg": true, ".webm": true}

// ScannedFile is one audio file's metadata, from tags or the file name.
type ScannedFile struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Track    int
	FromTags bool // false when every field came from the file name
}

// Scanner walks output folders and reads their audio metadata.
type Scanner struct {
	logger *log.Logger
}

// NewScanner creates a folder scanner.
func NewScanner(logger *log.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// Scan reads every audio file in dir, sorted by name, and returns its
// metadata. Unreadable tags degrade to file-name parsing, never to an error.
func (s *Scanner) Scan(dir string) ([]ScannedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	var files []ScannedFile
	for _, entry := range entries {
		if entry.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		files = append(files, s.scanFile(filepath.Join(dir, entry.Name())))
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (s *Scanner) scanFile(path string) ScannedFile {
	scanned := fromFileName(path)

	f, err := os.Open(path)
	if err != nil {
		s.logger.Warn("could not open audio file", "path", path, "err", err)
		return scanned
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		s.logger.Debug("no readable tags, using file name", "path", path)
		return scanned
	}

	scanned.FromTags = true
	if title := meta.Title(); title != "" {
		scanned.Title = title
	}
	if artist := meta.Artist(); artist != "" {
		scanned.Artist = artist
	}
	if album := meta.Album(); album != "" {
		scanned.Album = album
	}
	if track, _ := meta.Track(); track > 0 {
		scanned.Track = track
	}
	return scanned
}

// fromFileName derives metadata from a "NNN - Title[ - variant]" stem.
func fromFileName(path string) ScannedFile {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	scanned := ScannedFile{Path: path, Title: stem}

	number, rest, found := strings.Cut(stem, " - ")
	if !found {
		return scanned
	}
	n, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil {
		return scanned
	}

	scanned.Track = n
	scanned.Title = rest
	return scanned
}

// Missing reports the playlist entries with no matching track number among
// the scanned files.
func Missing(entries []models.PlaylistEntry, files []ScannedFile) []models.PlaylistEntry {
	present := make(map[int]bool, len(files))
	for _, f := range files {
		present[f.Track] = true
	}

	var missing []models.PlaylistEntry
	for _, entry := range entries {
		if !present[entry.Number] {
			missing = append(missing, entry)
		}
	}
	return missing
}
