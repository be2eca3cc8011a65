package engine

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/samber/mo"
	"github.com/soi-cli/soi/filesystem"
	"github.com/soi-cli/soi/log"
	"github.com/soi-cli/soi/track"
)

// Probe opens the audio file at path far enough to learn its duration and
// tag set, and builds a Track from them. Files that cannot be decoded are
// not an error for the batch: the result is simply None and the file is
// skipped. The probe pipeline is torn down before returning on every path.
func Probe(path string) mo.Option[track.Track] {
	f, err := filesystem.API().Open(path)
	if err != nil {
		log.Debugf("probe %s: %v", path, err)
		return mo.None[track.Track]()
	}
	defer f.Close()

	var meta track.Metadata

	// Tag read failures are fine, the fallbacks cover untagged files.
	if m, err := tag.ReadFrom(f); err == nil {
		meta.Album = m.Album()
		meta.Artist = m.Artist()
		meta.AlbumArtist = m.AlbumArtist()
		meta.Title = m.Title()
		meta.Number, _ = m.Track()
		meta.Year = m.Year()
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		log.Debugf("probe %s: rewind: %v", path, err)
		return mo.None[track.Track]()
	}

	// No duration means not an audio stream we can play.
	duration, err := decodeDuration(path, f)
	if err != nil {
		log.Debugf("probe %s: %v", path, err)
		return mo.None[track.Track]()
	}
	meta.Duration = duration

	return mo.Some(track.New(path, meta))
}

// decodeDuration decodes just enough of the stream to learn its length.
// The returned duration is derived from the decoder's sample count.
func decodeDuration(path string, f io.ReadSeekCloser) (time.Duration, error) {
	streamer, format, err := decode(path, f)
	if err != nil {
		return 0, err
	}

	// The deferred file close in Probe releases the underlying handle;
	// closing the streamer here as well would close it twice.
	return format.SampleRate.D(streamer.Len()), nil
}

// decode selects a beep decoder by file extension.
func decode(path string, f io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, errUnsupported(path)
	}
}

type errUnsupported string

func (e errUnsupported) Error() string {
	return "unsupported audio format: " + filepath.Ext(string(e))
}
