// Package playlist builds the ordered track sequence from the command line
// arguments and tracks the position of the currently playing item.
package playlist

import (
	"errors"
	"os"
	"sort"

	"github.com/samber/mo"
	"github.com/soi-cli/soi/filesystem"
	"github.com/soi-cli/soi/log"
	"github.com/soi-cli/soi/track"
)

// ErrNoPlayableFiles is returned when construction yields an empty playlist.
var ErrNoPlayableFiles = errors.New("no playable files provided")

// Playlist is an ordered track sequence plus the index of the currently
// playing item. After construction it is mutated only through the cursor
// operations, and only by the coordinator goroutine.
type Playlist struct {
	store   []track.Track
	current int
}

// Item pairs a track with its playing flag for display iteration.
type Item struct {
	Track   track.Track
	Playing bool
}

// Current returns the currently playing track.
func (p *Playlist) Current() mo.Option[track.Track] {
	return p.at(p.current)
}

// Next advances the cursor and returns the track it lands on. At the end
// of the playlist it returns None and leaves the cursor unchanged.
func (p *Playlist) Next() mo.Option[track.Track] {
	t := p.at(p.current + 1)
	if t.IsPresent() {
		p.current++
	}
	return t
}

// Prev retreats the cursor and returns the track it lands on. At the start
// of the playlist it returns None and leaves the cursor unchanged.
func (p *Playlist) Prev() mo.Option[track.Track] {
	t := p.at(p.current - 1)
	if t.IsPresent() {
		p.current--
	}
	return t
}

// Peek returns the track after the current one without moving the cursor.
func (p *Playlist) Peek() mo.Option[track.Track] {
	return p.at(p.current + 1)
}

// Len returns the number of tracks on the playlist.
func (p *Playlist) Len() int {
	return len(p.store)
}

// Items returns the playlist contents in order, flagging the current item.
func (p *Playlist) Items() []Item {
	items := make([]Item, len(p.store))
	for i, t := range p.store {
		items[i] = Item{Track: t, Playing: i == p.current}
	}
	return items
}

func (p *Playlist) at(i int) mo.Option[track.Track] {
	if i < 0 || i >= len(p.store) {
		return mo.None[track.Track]()
	}
	return mo.Some(p.store[i])
}

// expand flattens one command line argument into the audio file candidates
// beneath it, descending into subdirectories. A plain file is returned as
// is; unreadable paths contribute nothing.
func expand(path string) []string {
	var files []string

	err := filesystem.API().Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warnf("scan %s: %v", p, err)
			return nil
		}
		if !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		log.Warnf("scan %s: %v", path, err)
	}

	return files
}

// sortEntries orders extraction results by original argument index first,
// album identity second and track number third. The sort is stable, so
// entries sharing all three keys keep their submission order.
func sortEntries(entries []entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.arg != b.arg {
			return a.arg < b.arg
		}
		if a.track.AlbumInfo != b.track.AlbumInfo {
			return a.track.AlbumInfo < b.track.AlbumInfo
		}
		return a.track.Number < b.track.Number
	})
}

type entry struct {
	arg   int
	track track.Track
}
