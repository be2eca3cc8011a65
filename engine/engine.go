// Package engine defines the boundary to the audio playback backend.
//
// The orchestration core never decodes audio itself. It points an Engine at
// file URIs, issues transport commands and reacts to the asynchronous
// signals the backend emits. Two backends are provided: an external mpv
// process driven over its JSON-IPC socket, and an in-process backend built
// on the beep speaker.
package engine

import (
	"fmt"
	"time"
)

// EventKind enumerates the asynchronous signals an Engine emits.
type EventKind int

const (
	// AboutToFinish fires once per track, shortly before the current item
	// ends. It is the window in which a queued next URI must be handed
	// over for a gapless transition.
	AboutToFinish EventKind = iota

	// EndOfStream fires when the pipeline has drained completely and no
	// next item was queued.
	EndOfStream

	// Failure reports a non-fatal backend error for the current item.
	Failure
)

// Event is one asynchronous signal from the playback backend.
type Event struct {
	Kind EventKind
	Err  error
}

// Engine is the contract every playback backend satisfies.
//
// Command methods may be called from the coordinator goroutine at any time.
// Switch is additionally safe to call from the consumer of Events, since
// the gapless handoff happens inside the AboutToFinish window.
type Engine interface {
	// Play tears down whatever is currently loaded, points the pipeline
	// at uri and starts playback.
	Play(uri string) error

	// Switch hands over the next URI while the current item is still
	// playing, so the backend can transition without an audible gap.
	Switch(uri string) error

	// SetPaused suspends or resumes the pipeline clock.
	SetPaused(paused bool) error

	// SetMuted silences or restores audio output without touching the
	// transport state.
	SetMuted(muted bool) error

	// Seek jumps to an absolute position in the current item.
	Seek(pos time.Duration) error

	// Position reports the current playback position. Backends return
	// zero when nothing is loaded.
	Position() time.Duration

	// Events delivers the backend's asynchronous signals. The channel is
	// closed when the engine shuts down.
	Events() <-chan Event

	// Close releases the pipeline. It is idempotent; a failure here
	// leaves the backend in an unknown state and is treated as fatal by
	// the caller.
	Close() error
}

// gaplessLead is how far before the end of the current item the
// AboutToFinish signal fires.
const gaplessLead = 2 * time.Second

// Backend identifiers accepted by New.
const (
	BackendMPV  = "mpv"
	BackendBeep = "beep"
)

// AvailableBackends returns the identifiers accepted by New.
func AvailableBackends() []string {
	return []string{BackendMPV, BackendBeep}
}

// New constructs the playback backend selected by name.
func New(name string) (Engine, error) {
	switch name {
	case BackendMPV:
		return NewMPV()
	case BackendBeep:
		return NewBeep()
	default:
		return nil, fmt.Errorf("unknown audio engine %q", name)
	}
}
