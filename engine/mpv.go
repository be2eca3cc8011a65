package engine

import (
	"crypto/rand"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/soi-cli/soi/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements Engine on top of an mpv child process driven through its
// JSON-IPC protocol. mpv performs all decoding and output; this side only
// issues property commands and relays the bus events it observes.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the mpv process exits
	events     chan Event
	listener   *eventListener
	closeOnce  sync.Once
	closeErr   error

	mu            sync.Mutex // protects socket writes and the fields below
	duration      time.Duration
	nearEndFired  bool
	itemsRemained int // queue depth as mpv sees it, for EndOfStream detection
}

// NewMPV spawns an idle mpv process and connects the event listener.
func NewMPV() (*MPV, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("generate socket name: %w", err)
	}

	m := &MPV{
		socketPath: filepath.Join(os.TempDir(), fmt.Sprintf("soi-%x.sock", randomBytes)),
		events:     make(chan Event, 8),
	}

	// Audio only. Everything else respects the user's mpv.conf.
	m.cmd = exec.Command("mpv",
		"--no-terminal",
		"--really-quiet",
		"--no-video",
		"--idle=yes",
		"--gapless-audio=yes",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
	)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	// Reap the process to prevent zombies.
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return nil, fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = newEventListener(m.socketPath, m.handleEvent)
	if err := m.listener.Start(); err != nil {
		_ = m.Close()
		return nil, err
	}

	return m, nil
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Play replaces the current item with uri and unpauses.
func (m *MPV) Play(uri string) error {
	m.mu.Lock()
	m.duration = 0
	m.nearEndFired = false
	m.itemsRemained = 1
	m.mu.Unlock()

	if _, err := m.sendCommand([]interface{}{"loadfile", uri, "replace"}); err != nil {
		return fmt.Errorf("load %s: %w", uri, err)
	}
	if _, err := m.sendCommand([]interface{}{"set_property", "pause", false}); err != nil {
		return fmt.Errorf("unpause: %w", err)
	}
	return nil
}

// Switch appends uri after the current item. With gapless audio enabled
// mpv crosses into it without draining the output device.
func (m *MPV) Switch(uri string) error {
	m.mu.Lock()
	m.itemsRemained++
	m.mu.Unlock()

	_, err := m.sendCommand([]interface{}{"loadfile", uri, "append-play"})
	if err != nil {
		return fmt.Errorf("queue %s: %w", uri, err)
	}
	return nil
}

// SetPaused suspends or resumes playback.
func (m *MPV) SetPaused(paused bool) error {
	_, err := m.sendCommand([]interface{}{"set_property", "pause", paused})
	return err
}

// SetMuted silences or restores the audio output.
func (m *MPV) SetMuted(muted bool) error {
	_, err := m.sendCommand([]interface{}{"set_property", "mute", muted})
	return err
}

// Seek jumps to an absolute position in the current item.
func (m *MPV) Seek(pos time.Duration) error {
	_, err := m.sendCommand([]interface{}{"seek", pos.Seconds(), "absolute"})
	return err
}

// Position reports the current playback position, or zero when nothing is
// loaded or the query fails.
func (m *MPV) Position() time.Duration {
	data, err := m.sendCommand([]interface{}{"get_property", "time-pos"})
	if err != nil {
		return 0
	}
	secs, ok := data.(float64)
	if !ok {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// Events delivers mpv's asynchronous signals translated to engine events.
func (m *MPV) Events() <-chan Event {
	return m.events
}

// handleEvent translates observed mpv properties and bus events into the
// engine event vocabulary. It runs on the listener goroutine.
func (m *MPV) handleEvent(name string, data interface{}) {
	switch name {
	case "duration":
		if secs, ok := data.(float64); ok {
			m.mu.Lock()
			m.duration = time.Duration(secs * float64(time.Second))
			m.mu.Unlock()
		}

	case "time-pos":
		secs, ok := data.(float64)
		if !ok {
			return
		}
		pos := time.Duration(secs * float64(time.Second))

		m.mu.Lock()
		remaining := m.duration - pos
		fire := m.duration > 0 && remaining <= gaplessLead && !m.nearEndFired
		if fire {
			m.nearEndFired = true
		}
		m.mu.Unlock()

		if fire {
			m.emit(Event{Kind: AboutToFinish})
		}

	case "start-file":
		m.mu.Lock()
		m.duration = 0
		m.nearEndFired = false
		m.mu.Unlock()

	case "end-file":
		var reason string
		if ev, ok := data.(map[string]interface{}); ok {
			reason, _ = ev["reason"].(string)
		}

		switch reason {
		case "error":
			m.emit(Event{Kind: Failure, Err: fmt.Errorf("mpv: playback error")})

		case "eof":
			// Only a naturally finished item drains the queue. A
			// loadfile replace also raises end-file for the displaced
			// item, with reason "stop", and that one must not count.
			m.mu.Lock()
			if m.itemsRemained > 0 {
				m.itemsRemained--
			}
			drained := m.itemsRemained == 0
			m.mu.Unlock()

			if drained {
				m.emit(Event{Kind: EndOfStream})
			}
		}
	}
}

// emit forwards an event without ever blocking the listener goroutine.
func (m *MPV) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
		log.Warnf("dropping engine event %d: consumer not keeping up", ev.Kind)
	}
}

// Close shuts the mpv process down and removes the IPC socket.
func (m *MPV) Close() error {
	m.closeOnce.Do(func() {
		if m.listener != nil {
			m.listener.Stop()
		}

		// Try graceful quit via IPC first.
		_, _ = m.sendCommand([]interface{}{"quit"})

		select {
		case <-m.exited:
		case <-time.After(3 * time.Second):
			m.closeErr = killProcess(m.cmd)
		}

		_ = os.Remove(m.socketPath)
		close(m.events)
	})
	return m.closeErr
}
