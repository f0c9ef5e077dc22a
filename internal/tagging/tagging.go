package tagging

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/charmbracelet/log"
	"github.com/zhaarey/go-mp4tag"

	"github.com/desertthunder/trackdown/internal/models"
	"github.com/desertthunder/trackdown/internal/shared"
)

// Writer writes title, artist, album and track-number tags to an audio file,
// choosing the tag format from the file extension.
type Writer struct {
	logger *log.Logger
}

// NewWriter creates a tag writer.
func NewWriter(logger *log.Logger) *Writer {
	return &Writer{logger: logger}
}

// Tag writes the entry's metadata to the file at path.
func (w *Writer) Tag(path string, entry models.PlaylistEntry) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return w.tagMP3(path, entry)
	case ".m4a", ".mp4":
		return w.tagM4A(path, entry)
	default:
		return fmt.Errorf("%w: %q", shared.ErrUnsupportedExt, ext)
	}
}

func (w *Writer) tagMP3(path string, entry models.PlaylistEntry) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTagWrite, err)
	}
	defer tag.Close()

	tag.SetTitle(entry.Title)
	tag.SetArtist(entry.Artist)
	tag.SetAlbum(entry.Album)
	tag.AddTextFrame(tag.CommonID("Track number/Position in set"), tag.DefaultEncoding(), strconv.Itoa(entry.Number))

	if err := tag.Save(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTagWrite, err)
	}
	return nil
}

func (w *Writer) tagM4A(path string, entry models.PlaylistEntry) error {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTagWrite, err)
	}
	defer mp4.Close()

	tags := &mp4tag.MP4Tags{
		Title:       entry.Title,
		Artist:      entry.Artist,
		Album:       entry.Album,
		TrackNumber: int16(entry.Number),
	}
	if err := mp4.Write(tags, []string{}); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTagWrite, err)
	}
	return nil
}
