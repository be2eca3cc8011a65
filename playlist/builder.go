package playlist

import (
	"sync"

	"github.com/samber/mo"
	"github.com/soi-cli/soi/engine"
	"github.com/soi-cli/soi/key"
	"github.com/soi-cli/soi/track"
	"github.com/soi-cli/soi/util"
	"github.com/spf13/viper"
)

// Extractor converts one file path into a track, or None for files that
// cannot be opened as an audio stream.
type Extractor func(path string) mo.Option[track.Track]

// Build converts the command line arguments into a Playlist using the
// audio engine's metadata probe. It blocks until every file has been
// probed and returns ErrNoPlayableFiles if nothing survived.
func Build(paths []string) (*Playlist, error) {
	return BuildWith(paths, viper.GetInt(key.PlaylistWorkers), engine.Probe)
}

// BuildWith is Build with an explicit worker count and extractor.
//
// Every file is probed on a bounded worker pool, results are collected
// over a completion channel keyed by the index of the originating command
// line argument, and the final ordering is a pure sort over
// (argument index, album identity, track number). The resulting sequence
// is therefore independent of worker completion order.
func BuildWith(paths []string, workers int, extract Extractor) (*Playlist, error) {
	workers = util.Clamp(workers, 1, 64)

	type job struct {
		arg  int
		path string
	}
	type completion struct {
		arg   int
		track mo.Option[track.Track]
	}

	jobs := make(chan job)
	results := make(chan completion)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- completion{arg: j.arg, track: extract(j.path)}
			}
		}()
	}

	// The pool closes for submissions once every argument has been
	// expanded and dispatched.
	go func() {
		for i, path := range paths {
			for _, file := range expand(path) {
				jobs <- job{arg: i, path: file}
			}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var entries []entry
	for c := range results {
		if t, ok := c.track.Get(); ok {
			entries = append(entries, entry{arg: c.arg, track: t})
		}
	}

	if len(entries) == 0 {
		return nil, ErrNoPlayableFiles
	}

	sortEntries(entries)

	p := &Playlist{store: make([]track.Track, len(entries))}
	for i, e := range entries {
		p.store[i] = e.track
	}
	return p, nil
}
