// package playlist parses row-oriented playlist exports into [models.Playlist] values.
//
// Exports from different tools disagree on header naming ("Track Name" vs
// "Track name"); both variants of every column are accepted.
package playlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/trackdown/internal/models"
	"github.com/desertthunder/trackdown/internal/shared"
)

// Column header variants, checked in order.
var (
	titleHeaders  = []string{"Track Name", "Track name"}
	artistHeaders = []string{"Artist Name(s)", "Artist name"}
	albumHeaders  = []string{"Album Name", "Album"}
	msHeaders     = []string{"Duration (ms)"}
)

// Load reads a playlist export file. The playlist name is the file's base
// name without extension and doubles as the output folder name.
func Load(path string) (*models.Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(f, name)
}

// Parse reads playlist rows from r. Rows with no recognizable title become
// "Unknown" entries rather than being dropped so that track numbering stays
// aligned with the source export.
func Parse(r io.Reader, name string) (*models.Playlist, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}

	pl := &models.Playlist{Name: name}
	for number := 1; ; number++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read playlist row %d: %w", number, err)
		}

		title := field(row, columns, titleHeaders)
		if title == "" {
			title = "Unknown"
		}
		rawArtist := field(row, columns, artistHeaders)
		if rawArtist == "" {
			rawArtist = "Unknown"
		}
		album := field(row, columns, albumHeaders)
		if album == "" {
			album = name
		}

		pl.Entries = append(pl.Entries, models.PlaylistEntry{
			Number:   number,
			Title:    title,
			Artist:   shared.PrimaryArtist(rawArtist),
			Album:    album,
			Duration: durationSeconds(field(row, columns, msHeaders)),
		})
	}

	if len(pl.Entries) == 0 {
		return nil, shared.ErrPlaylistEmpty
	}

	return pl, nil
}

func field(row []string, columns map[string]int, headers []string) string {
	for _, h := range headers {
		if i, ok := columns[h]; ok && i < len(row) {
			if v := strings.TrimSpace(row[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

// durationSeconds converts a millisecond column value to seconds. Anything
// other than a plain digit string means the duration is unknown.
func durationSeconds(ms string) float64 {
	if ms == "" {
		return 0
	}
	for _, r := range ms {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return 0
	}
	return float64(n) / 1000
}
