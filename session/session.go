// Package session holds the playback state machine layered on top of an
// audio engine: status and mute bookkeeping, seeking, and the pending next
// track cell that makes transitions gapless.
package session

import (
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/soi-cli/soi/engine"
	"github.com/soi-cli/soi/key"
	"github.com/soi-cli/soi/log"
	"github.com/soi-cli/soi/track"
	"github.com/spf13/viper"
)

// Event is a session occurrence the coordinator reacts to.
type Event uint8

const (
	// ReachedEndOfSong fires when the pending track has been handed to
	// the engine and the previous one is about to drain.
	ReachedEndOfSong Event = iota

	// ReachedEndOfPlaylist fires when playback stops for good, either
	// because the stream drained with nothing pending or because the
	// session was stopped.
	ReachedEndOfPlaylist

	// RequestNextSong asks the coordinator to enqueue a fresh pending
	// track now that the previous one was consumed.
	RequestNextSong
)

// Status is the coarse playback state.
type Status uint8

const (
	Stopped Status = iota
	Playing
	Paused
)

// Snapshot is a point-in-time view of the session for rendering.
type Snapshot struct {
	Position time.Duration
	Playing  bool
	Muted    bool
}

// Session drives one engine. Apart from Enqueue and Dequeue, which meet at
// the pending cell, every method is called from the coordinator goroutine
// only, so status and muted need no locking of their own.
type Session struct {
	engine   engine.Engine
	events   chan Event
	seekStep time.Duration

	status Status
	muted  bool

	// pending is the only state shared with the engine watcher. It is
	// guarded by its own mutex so arming a track never contends with
	// anything else the session does.
	pendingMu sync.Mutex
	pending   mo.Option[string]

	stopOnce sync.Once
}

// New wraps e and starts consuming its event stream.
func New(e engine.Engine) *Session {
	s := &Session{
		engine:   e,
		events:   make(chan Event, 8),
		seekStep: time.Duration(viper.GetInt(key.PlayerSeekStep)) * time.Second,
	}
	go s.watch()
	return s
}

// Events delivers the session's occurrences to the coordinator.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Play starts t from the top, discarding whatever was loaded, and asks
// the coordinator for a fresh pending track. Playing nothing is a no-op;
// the playlist end is signaled by the engine's end of stream instead.
func (s *Session) Play(t mo.Option[track.Track]) error {
	next, ok := t.Get()
	if !ok {
		return nil
	}

	s.pendingMu.Lock()
	s.pending = mo.None[string]()
	s.pendingMu.Unlock()

	if err := s.engine.Play(next.URI()); err != nil {
		return err
	}
	s.status = Playing
	s.emit(RequestNextSong)
	return nil
}

// Enqueue arms t as the track to cross into when the current one drains.
// Arming None clears the cell, so the current track is the last one.
func (s *Session) Enqueue(t mo.Option[track.Track]) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	s.pending = mo.None[string]()
	if next, ok := t.Get(); ok {
		s.pending = mo.Some(next.URI())
	}
}

// Dequeue consumes the pending cell and hands its track to the engine for
// the gapless transition. With nothing pending it does nothing; the
// engine's end of stream will end the playlist instead.
func (s *Session) Dequeue() {
	s.pendingMu.Lock()
	uri, ok := s.pending.Get()
	s.pending = mo.None[string]()
	s.pendingMu.Unlock()

	if !ok {
		return
	}

	if err := s.engine.Switch(uri); err != nil {
		log.Errorf("switch to %s: %v", uri, err)
		return
	}
	s.emit(ReachedEndOfSong)
	s.emit(RequestNextSong)
}

// TogglePause flips between Playing and Paused. Any other state resumes.
func (s *Session) TogglePause() error {
	if s.status == Playing {
		if err := s.engine.SetPaused(true); err != nil {
			return err
		}
		s.status = Paused
		return nil
	}

	if err := s.engine.SetPaused(false); err != nil {
		return err
	}
	s.status = Playing
	return nil
}

// ToggleMute flips output muting without touching the stream clock.
func (s *Session) ToggleMute() error {
	if err := s.engine.SetMuted(!s.muted); err != nil {
		return err
	}
	s.muted = !s.muted
	return nil
}

// SeekForward jumps ahead by the configured step.
func (s *Session) SeekForward() error {
	return s.engine.Seek(s.engine.Position() + s.seekStep)
}

// SeekBackward jumps back by the configured step, never past the start.
func (s *Session) SeekBackward() error {
	pos := s.engine.Position() - s.seekStep
	if pos < 0 {
		pos = 0
	}
	return s.engine.Seek(pos)
}

// Snapshot reads the state the display needs for one frame.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Position: s.engine.Position(),
		Playing:  s.status == Playing,
		Muted:    s.muted,
	}
}

// Stop tears the engine down and ends the playlist. Safe to call more
// than once; a session cannot be restarted afterwards.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.status = Stopped
		lo.Must0(s.engine.Close())
		s.emit(ReachedEndOfPlaylist)
	})
}

// watch translates engine events into session events. It exits when the
// engine closes its stream.
func (s *Session) watch() {
	for ev := range s.engine.Events() {
		switch ev.Kind {
		case engine.AboutToFinish:
			s.Dequeue()
		case engine.EndOfStream:
			s.emit(ReachedEndOfPlaylist)
		case engine.Failure:
			log.Errorf("engine failure: %v", ev.Err)
		}
	}
}

func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		log.Warnf("dropping session event %d: consumer not keeping up", ev)
	}
}
