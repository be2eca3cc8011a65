package input

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTranslate(t *testing.T) {
	Convey("Letter keys map to their commands", t, func() {
		cases := map[byte]Command{
			'm': Mute,
			' ': Pause,
			'q': Stop,
			'j': Next,
			'k': Prev,
			'l': SeekForward,
			'h': SeekBackward,
			'?': Help,
		}

		for b, want := range cases {
			cmd, ok := translate([]byte{b})
			So(ok, ShouldBeTrue)
			So(cmd, ShouldEqual, want)
		}
	})

	Convey("Control characters quit", t, func() {
		for _, b := range []byte{0x03, 0x04} {
			cmd, ok := translate([]byte{b})
			So(ok, ShouldBeTrue)
			So(cmd, ShouldEqual, Stop)
		}
	})

	Convey("Arrow keys alias the vi movement keys", t, func() {
		cases := map[byte]Command{
			'A': Prev,
			'B': Next,
			'C': SeekForward,
			'D': SeekBackward,
		}

		for b, want := range cases {
			cmd, ok := translate([]byte{0x1b, '[', b})
			So(ok, ShouldBeTrue)
			So(cmd, ShouldEqual, want)
		}
	})

	Convey("Unknown keys produce nothing", t, func() {
		for _, buf := range [][]byte{nil, {'x'}, {0x1b}, {0x1b, '[', 'Z'}} {
			_, ok := translate(buf)
			So(ok, ShouldBeFalse)
		}
	})
}
