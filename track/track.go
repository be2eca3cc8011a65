// Package track defines the immutable playlist item and its derived display metadata.
package track

import (
	"fmt"
	"net/url"
	"time"

	"github.com/soi-cli/soi/constant"
	"github.com/soi-cli/soi/util"
)

// Fallback values substituted for absent tags.
const (
	UnknownAlbum  = "Unknown album"
	UnknownArtist = "Unknown artist"
)

// Metadata carries the raw tag values read from one audio file.
// Zero values mean the corresponding tag was absent.
type Metadata struct {
	Album       string
	Artist      string
	AlbumArtist string
	Title       string
	Number      int
	Year        int
	Duration    time.Duration
}

// Track is a single audio item on the playlist.
//
// A Track is created once by the metadata extractor and never mutated
// afterwards; the playlist owns it for the rest of the run.
type Track struct {
	// Path is the canonical filesystem location of the audio file.
	Path string

	AlbumArtist string
	AlbumTitle  string
	// AlbumInfo is the album identity string, "Artist: Title (Year)".
	// It doubles as the display grouping key and the secondary sort key,
	// so it must be deterministic for a given tag set.
	AlbumInfo string

	Artist string
	Title  string
	Number int
	year   int

	Duration time.Duration
}

// New builds a Track from a file path and its raw metadata, applying the
// documented tag fallbacks: album and artist get placeholder strings, the
// album artist falls back to the track artist and the title falls back to
// the file's base name without extension.
func New(path string, meta Metadata) Track {
	t := Track{
		Path:        path,
		AlbumTitle:  meta.Album,
		Artist:      meta.Artist,
		AlbumArtist: meta.AlbumArtist,
		Title:       meta.Title,
		Number:      meta.Number,
		year:        meta.Year,
		Duration:    meta.Duration,
	}

	if t.AlbumTitle == "" {
		t.AlbumTitle = UnknownAlbum
	}
	if t.Artist == "" {
		t.Artist = UnknownArtist
	}
	if t.AlbumArtist == "" {
		t.AlbumArtist = t.Artist
	}
	if t.Title == "" {
		t.Title = util.FileStem(path)
	}

	if t.year != 0 {
		t.AlbumInfo = fmt.Sprintf("%s: %s (%d)", t.AlbumArtist, t.AlbumTitle, t.year)
	} else {
		t.AlbumInfo = fmt.Sprintf("%s: %s", t.AlbumArtist, t.AlbumTitle)
	}

	return t
}

// Compilation reports whether the album is not released by a single artist.
func (t Track) Compilation() bool {
	return t.AlbumArtist == constant.CompilationArtist
}

// URI returns the track location as a file URI suitable for the audio engine.
func (t Track) URI() string {
	u := url.URL{Scheme: "file", Path: t.Path}
	return u.String()
}

// String returns the human-readable title line for the track.
// Tracks on compilations also carry the artist, everything else just the title.
func (t Track) String() string {
	if t.Compilation() {
		return fmt.Sprintf("%s: %s", t.Artist, t.Title)
	}
	return t.Title
}
