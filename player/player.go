// Package player runs the coordinator loop that ties the playlist, the
// playback session, user input and the display together. All playlist and
// session state is touched from this single goroutine; the other
// goroutines only feed the channels it selects over.
package player

import (
	"os"
	"time"

	"github.com/soi-cli/soi/input"
	"github.com/soi-cli/soi/key"
	"github.com/soi-cli/soi/log"
	"github.com/soi-cli/soi/playlist"
	"github.com/soi-cli/soi/session"
	"github.com/spf13/viper"
)

// Renderer is the display surface the coordinator refreshes every tick.
type Renderer interface {
	Refresh(session.Snapshot, []playlist.Item) error
	ToggleHelp()
	Cleanup()
}

// Run plays the playlist to completion. It returns when the session
// reaches the end of the playlist, whether by draining it, by the quit
// key, by the input stream closing or by a signal arriving on sigs.
// Session state is only ever touched from this goroutine; a nil sigs
// channel simply never fires.
func Run(pl *playlist.Playlist, sess *session.Session, out Renderer, commands <-chan input.Command, sigs <-chan os.Signal) error {
	if err := sess.Play(pl.Current()); err != nil {
		return err
	}

	interval := time.Duration(viper.GetInt(key.PlayerTickIntervalMs)) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case cmd, ok := <-commands:
			if !ok {
				// Stdin is gone, treat it as quitting.
				commands = nil
				sess.Stop()
				continue
			}
			handle(cmd, pl, sess, out)

		case <-sigs:
			sess.Stop()

		case ev := <-sess.Events():
			switch ev {
			case session.ReachedEndOfSong:
				pl.Next()
			case session.RequestNextSong:
				sess.Enqueue(pl.Peek())
			case session.ReachedEndOfPlaylist:
				out.Cleanup()
				return nil
			}

		case <-ticker.C:
			if err := out.Refresh(sess.Snapshot(), pl.Items()); err != nil {
				log.Warnf("refresh display: %v", err)
			}
		}
	}
}

// handle applies one user command. Failures here are recoverable; they
// are logged and playback carries on.
func handle(cmd input.Command, pl *playlist.Playlist, sess *session.Session, out Renderer) {
	var err error

	switch cmd {
	case input.Mute:
		err = sess.ToggleMute()
	case input.Pause:
		err = sess.TogglePause()
	case input.Stop:
		sess.Stop()
	case input.Next:
		// At the last track this plays None and nothing changes.
		err = sess.Play(pl.Next())
	case input.Prev:
		err = sess.Play(pl.Prev())
	case input.SeekForward:
		err = sess.SeekForward()
	case input.SeekBackward:
		err = sess.SeekBackward()
	case input.Help:
		out.ToggleHelp()
	}

	if err != nil {
		log.Errorf("command %d: %v", cmd, err)
	}
}
