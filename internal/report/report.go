// Package report writes the end-of-run artifacts for a conversion: the
// not-found CSV and the M3U playlist over the output folder's audio files.
// Unlike per-track failures, report write errors surface to the caller.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/trackdown/internal/models"
	"github.com/desertthunder/trackdown/internal/shared"
)

var notFoundHeader = []string{"Track Name", "Artist Name(s)", "Album Name", "Track Number", "Error"}

var audioExtensions = map[string]bool{".mp3": true, ".m4a": true, ".opus": true, ".ogg": true, ".webm": true}

// NotFoundPath returns the not-found CSV path for a playlist's output folder.
func NotFoundPath(outDir, playlistName string) string {
	return filepath.Join(outDir, playlistName+"_not_found.csv")
}

// M3UPath returns the M3U path for a playlist's output folder. Underscores in
// the playlist name become spaces.
func M3UPath(outDir, playlistName string) string {
	return filepath.Join(outDir, strings.ReplaceAll(playlistName, "_", " ")+".m3u")
}

// WriteNotFound writes records to a CSV at path. Nothing is written when the
// list is empty.
func WriteNotFound(path string, records []models.NotFoundRecord) error {
	if len(records) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrReportWrite, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(notFoundHeader); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrReportWrite, err)
	}
	for _, r := range records {
		row := []string{r.Title, r.Artist, r.Album, strconv.Itoa(r.Number), r.Reason.String()}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrReportWrite, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrReportWrite, err)
	}
	return nil
}

// WriteM3U writes an M3U playlist at path over the audio files in outDir,
// ordered by modification time. Sequential downloads make that creation
// order, which is playlist order.
func WriteM3U(path, outDir string) error {
	files, err := audioByModTime(outDir)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrReportWrite, err)
	}

	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, name := range files {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		fmt.Fprintf(&b, "#EXTINF:-1,%s\n%s\n", stem, name)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrReportWrite, err)
	}
	return nil
}

// audioByModTime lists audio file names in a folder ordered by modification
// time. Extension matching is case-insensitive; names keep their case.
func audioByModTime(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
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
			return nil, err
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
