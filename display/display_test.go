package display

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/soi-cli/soi/key"
	"github.com/soi-cli/soi/playlist"
	"github.com/soi-cli/soi/session"
	"github.com/soi-cli/soi/track"
	"github.com/spf13/viper"
)

func items() []playlist.Item {
	a1 := track.New("/m/a1.mp3", track.Metadata{Album: "First", AlbumArtist: "A", Title: "One", Number: 1, Duration: 3 * time.Minute})
	a2 := track.New("/m/a2.mp3", track.Metadata{Album: "First", AlbumArtist: "A", Title: "Two", Number: 2, Duration: 3 * time.Minute})
	b1 := track.New("/m/b1.mp3", track.Metadata{Album: "Second", AlbumArtist: "B", Title: "Three", Number: 1, Duration: 3 * time.Minute})

	return []playlist.Item{
		{Track: a1},
		{Track: a2, Playing: true},
		{Track: b1},
	}
}

func TestRows(t *testing.T) {
	viper.Set(key.IconsVariant, "plain")

	Convey("Given a display with album headers", t, func() {
		d := &Display{albumHeaders: true}
		snap := session.Snapshot{Playing: true, Position: 72 * time.Second}

		rows := d.rows(snap, items(), 80)

		Convey("Each album contributes one header line", func() {
			So(rows, ShouldHaveLength, 5)
			So(rows[0].text, ShouldContainSubstring, "A: First")
			So(rows[3].text, ShouldContainSubstring, "B: Second")
		})

		Convey("Only the playing row is flagged", func() {
			for i, r := range rows {
				So(r.playing, ShouldEqual, i == 2)
			}
		})

		Convey("The playing row carries icon, position and duration", func() {
			So(rows[2].text, ShouldStartWith, "> ")
			So(rows[2].text, ShouldContainSubstring, "Two")
			So(rows[2].text, ShouldContainSubstring, "1:12/3:00")
		})

		Convey("Idle rows carry number and title only", func() {
			So(rows[1].text, ShouldContainSubstring, "1. One")
			So(rows[1].text, ShouldNotContainSubstring, "3:00")
		})
	})

	Convey("Headers can be disabled", t, func() {
		d := &Display{}
		rows := d.rows(session.Snapshot{}, items(), 80)
		So(rows, ShouldHaveLength, 3)
	})

	Convey("A muted session shows the muted icon", t, func() {
		d := &Display{}
		rows := d.rows(session.Snapshot{Playing: true, Muted: true}, items(), 80)
		So(rows[1].text, ShouldStartWith, "x ")
	})

	Convey("A paused session shows the paused icon", t, func() {
		d := &Display{}
		rows := d.rows(session.Snapshot{Playing: false}, items(), 80)
		So(rows[1].text, ShouldStartWith, "| ")
	})
}

func TestWindow(t *testing.T) {
	Convey("The window clamps to the playlist bounds", t, func() {
		cases := []struct {
			total, focus, max  int
			wantStart, wantEnd int
		}{
			{total: 5, focus: 2, max: 10, wantStart: 0, wantEnd: 5},
			{total: 20, focus: 0, max: 6, wantStart: 0, wantEnd: 6},
			{total: 20, focus: 10, max: 6, wantStart: 7, wantEnd: 13},
			{total: 20, focus: 19, max: 6, wantStart: 14, wantEnd: 20},
			{total: 20, focus: 10, max: 0, wantStart: 0, wantEnd: 20},
		}

		for _, c := range cases {
			start, end := window(c.total, c.focus, c.max)
			So(start, ShouldEqual, c.wantStart)
			So(end, ShouldEqual, c.wantEnd)
		}
	})
}

func TestClip(t *testing.T) {
	Convey("Long lines are cut with an ellipsis", t, func() {
		So(clip("abcdefgh", 5), ShouldEqual, "abcd…")
		So(clip("abc", 5), ShouldEqual, "abc")
		So(clip("abc", 0), ShouldEqual, "")
	})
}

func TestRefresh(t *testing.T) {
	viper.Set(key.IconsVariant, "plain")

	Convey("Given a display over a buffer", t, func() {
		var buf strings.Builder
		d := &Display{out: &buf, albumHeaders: true}

		Convey("The first frame has no repositioning prefix", func() {
			So(d.Refresh(session.Snapshot{}, items()), ShouldBeNil)
			So(buf.String(), ShouldNotStartWith, "\x1b[")
			So(d.lastLines, ShouldBeGreaterThan, 0)
		})

		Convey("The next frame moves the cursor back up first", func() {
			So(d.Refresh(session.Snapshot{}, items()), ShouldBeNil)
			prev := d.lastLines
			buf.Reset()

			So(d.Refresh(session.Snapshot{}, items()), ShouldBeNil)
			So(buf.String(), ShouldStartWith, "\x1b[")
			So(d.lastLines, ShouldEqual, prev)
		})

		Convey("Cleanup erases the frame and forgets it", func() {
			So(d.Refresh(session.Snapshot{}, items()), ShouldBeNil)
			buf.Reset()

			d.Cleanup()
			So(buf.String(), ShouldContainSubstring, "\x1b[J")
			So(d.lastLines, ShouldEqual, 0)

			buf.Reset()
			d.Cleanup()
			So(buf.String(), ShouldBeEmpty)
		})

		Convey("The key reference pairs movement keys with their actions", func() {
			lines := helpLines()
			find := func(k string) string {
				for _, l := range lines {
					if strings.Contains(l, k) {
						return l
					}
				}
				return ""
			}

			So(find("j, down"), ShouldContainSubstring, "next track")
			So(find("k, up"), ShouldContainSubstring, "previous track")
			So(find("l, right"), ShouldContainSubstring, "seek forward")
			So(find("h, left"), ShouldContainSubstring, "seek backward")
		})

		Convey("The help view replaces the playlist", func() {
			d.ToggleHelp()
			So(d.Refresh(session.Snapshot{}, items()), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Keys")

			d.ToggleHelp()
			buf.Reset()
			So(d.Refresh(session.Snapshot{}, items()), ShouldBeNil)
			So(buf.String(), ShouldNotContainSubstring, "Keys")
		})
	})
}
