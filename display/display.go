// Package display renders the playlist to the terminal: tracks grouped
// under album headers, a window centered on the playing track, and a
// status line on the playing row. The frame is redrawn in place.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/soi-cli/soi/icon"
	"github.com/soi-cli/soi/key"
	"github.com/soi-cli/soi/playlist"
	"github.com/soi-cli/soi/session"
	"github.com/soi-cli/soi/style"
	"github.com/soi-cli/soi/util"
	"github.com/spf13/viper"
)

// Fallback frame dimensions when the terminal size cannot be read.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Display owns the playlist view. It remembers how many lines the last
// frame took so the next one can be drawn over it.
type Display struct {
	out          io.Writer
	albumHeaders bool
	showHelp     bool
	lastLines    int
}

// New builds a Display writing to stdout.
func New() *Display {
	return &Display{
		out:          os.Stdout,
		albumHeaders: viper.GetBool(key.DisplayAlbumHeaders),
	}
}

// ToggleHelp switches between the playlist view and the key reference.
func (d *Display) ToggleHelp() {
	d.showHelp = !d.showHelp
}

// Refresh draws one frame over the previous one.
//
// The terminal is in raw mode while playback runs, so every line break
// must be an explicit carriage return plus line feed, and each line is
// erased to the end before being rewritten.
func (d *Display) Refresh(snap session.Snapshot, items []playlist.Item) error {
	width, height, err := util.TerminalSize()
	if err != nil {
		width, height = defaultWidth, defaultHeight
	}

	var lines []string
	if d.showHelp {
		lines = helpLines()
	} else {
		lines = d.frame(snap, items, width, height-1)
	}

	var b strings.Builder
	if d.lastLines > 0 {
		fmt.Fprintf(&b, "\x1b[%dA\r", d.lastLines)
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\x1b[K\r\n")
	}
	// Frames can shrink, e.g. when leaving the help view.
	for i := len(lines); i < d.lastLines; i++ {
		b.WriteString("\x1b[K\r\n")
	}
	if extra := d.lastLines - len(lines); extra > 0 {
		fmt.Fprintf(&b, "\x1b[%dA\r", extra)
	}

	if _, err := io.WriteString(d.out, b.String()); err != nil {
		return err
	}
	d.lastLines = len(lines)
	return nil
}

// Cleanup erases the frame so the shell prompt returns to a blank area.
func (d *Display) Cleanup() {
	if d.lastLines == 0 {
		return
	}
	fmt.Fprintf(d.out, "\x1b[%dA\r\x1b[J", d.lastLines)
	d.lastLines = 0
}

// frame lays out the visible window of the playlist as styled lines.
func (d *Display) frame(snap session.Snapshot, items []playlist.Item, width, height int) []string {
	rows := d.rows(snap, items, width)

	focus := 0
	for i, r := range rows {
		if r.playing {
			focus = i
		}
	}

	start, end := window(len(rows), focus, height)

	lines := make([]string, 0, end-start)
	for _, r := range rows[start:end] {
		lines = append(lines, r.text)
	}
	return lines
}

type row struct {
	text    string
	playing bool
}

// rows flattens the playlist into display rows, inserting an album header
// line whenever the album changes.
func (d *Display) rows(snap session.Snapshot, items []playlist.Item, width int) []row {
	var rows []row
	album := ""

	for _, item := range items {
		if d.albumHeaders && item.Track.AlbumInfo != album {
			album = item.Track.AlbumInfo
			rows = append(rows, row{text: style.Underline(clip(album, width))})
		}
		rows = append(rows, row{
			text:    d.trackLine(snap, item, width),
			playing: item.Playing,
		})
	}
	return rows
}

// trackLine renders one playlist entry. The playing entry carries the
// status icon and the position against the total length; every other
// entry is faint.
func (d *Display) trackLine(snap session.Snapshot, item playlist.Item, width int) string {
	line := fmt.Sprintf("%3d. %s", item.Track.Number, item.Track)

	if !item.Playing {
		return style.Faint(clip(line, width))
	}

	status := icon.Get(statusIcon(snap))
	clock := fmt.Sprintf(" %s/%s",
		util.FormatDuration(snap.Position),
		util.FormatDuration(item.Track.Duration),
	)

	head := width - ansi.PrintableRuneWidth(status) - 1 - len(clock)
	if head < 0 {
		head = 0
	}
	return status + " " + style.Bold(clip(line, head)) + style.Faint(clock)
}

func statusIcon(snap session.Snapshot) icon.Icon {
	switch {
	case snap.Muted:
		return icon.Muted
	case !snap.Playing:
		return icon.Paused
	default:
		return icon.Playing
	}
}

// window picks the slice of rows to show: at most max rows, centered on
// focus, never running past either end.
func window(total, focus, max int) (start, end int) {
	if max <= 0 || total <= max {
		return 0, total
	}
	start = util.Clamp(focus-max/2, 0, total-max)
	return start, start + max
}

// clip truncates a line to the terminal width, marking the cut.
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

func helpLines() []string {
	keys := [][2]string{
		{"space", "pause / resume"},
		{"m", "mute / unmute"},
		{"j, down", "next track"},
		{"k, up", "previous track"},
		{"l, right", "seek forward"},
		{"h, left", "seek backward"},
		{"?", "close this help"},
		{"q", "quit"},
	}

	lines := []string{style.Underline("Keys"), ""}
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s %s", style.Bold(fmt.Sprintf("%-10s", k[0])), style.Faint(k[1])))
	}
	return lines
}
