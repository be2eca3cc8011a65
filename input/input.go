// Package input reads single keystrokes from the terminal and translates
// them into player commands.
package input

import (
	"os"

	"github.com/soi-cli/soi/log"
	"golang.org/x/term"
)

// Command is one user instruction to the player.
type Command uint8

const (
	Mute Command = iota
	Pause
	Stop
	Next
	Prev
	SeekBackward
	SeekForward
	Help
)

// Listen switches the terminal into raw mode and streams commands parsed
// from stdin. The returned restore function puts the terminal back; call
// it before printing anything after playback ends.
func Listen() (<-chan Command, func(), error) {
	fd := int(os.Stdin.Fd())

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, err
	}

	commands := make(chan Command)
	go func() {
		defer close(commands)

		buf := make([]byte, 8)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				log.Debugf("stdin closed: %v", err)
				return
			}
			if cmd, ok := translate(buf[:n]); ok {
				commands <- cmd
				if cmd == Stop {
					return
				}
			}
		}
	}()

	restore := func() {
		if err := term.Restore(fd, state); err != nil {
			log.Warnf("restore terminal: %v", err)
		}
	}
	return commands, restore, nil
}

// translate maps one raw keystroke to a command. Arrow keys arrive as the
// three byte escape sequences ESC [ A..D and alias the vi movement keys.
func translate(buf []byte) (Command, bool) {
	if len(buf) == 0 {
		return 0, false
	}

	if buf[0] == 0x1b {
		if len(buf) == 3 && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				return Prev, true
			case 'B':
				return Next, true
			case 'C':
				return SeekForward, true
			case 'D':
				return SeekBackward, true
			}
		}
		return 0, false
	}

	switch buf[0] {
	case 'm':
		return Mute, true
	case ' ':
		return Pause, true
	case 'q', 0x03, 0x04: // ctrl-c and ctrl-d quit as well
		return Stop, true
	case 'j':
		return Next, true
	case 'k':
		return Prev, true
	case 'l':
		return SeekForward, true
	case 'h':
		return SeekBackward, true
	case '?':
		return Help, true
	}
	return 0, false
}
