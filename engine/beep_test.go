package engine

import (
	"testing"

	"github.com/gopxl/beep/v2"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeStream produces a fixed number of full-scale samples and then drains.
type fakeStream struct {
	len, pos int
	closed   bool
}

func (f *fakeStream) Stream(samples [][2]float64) (int, bool) {
	if f.pos >= f.len {
		return 0, false
	}
	n := len(samples)
	if rest := f.len - f.pos; n > rest {
		n = rest
	}
	for i := 0; i < n; i++ {
		samples[i] = [2]float64{1, 1}
	}
	f.pos += n
	return n, true
}

func (f *fakeStream) Err() error       { return nil }
func (f *fakeStream) Len() int         { return f.len }
func (f *fakeStream) Position() int    { return f.pos }
func (f *fakeStream) Seek(p int) error { f.pos = p; return nil }
func (f *fakeStream) Close() error     { f.closed = true; return nil }

func fakeItem(samples int) (*streamItem, *fakeStream) {
	s := &fakeStream{len: samples}
	item := &streamItem{
		stream:    s,
		format:    beep.Format{SampleRate: beepSampleRate, NumChannels: 2, Precision: 2},
		resampled: s,
	}
	return item, s
}

func TestGaplessQueue(t *testing.T) {
	Convey("Given a queue with a current and an armed stream", t, func() {
		var got []Event
		q := &gaplessQueue{emit: func(ev Event) { got = append(got, ev) }}

		current, currentStream := fakeItem(100)
		next, _ := fakeItem(100)
		q.replace(current)
		q.arm(next)

		Convey("Draining the current stream crosses into the next one silently", func() {
			buf := make([][2]float64, 150)
			n, ok := q.Stream(buf)

			So(n, ShouldEqual, 150)
			So(ok, ShouldBeTrue)
			So(got, ShouldBeEmpty)
			So(currentStream.closed, ShouldBeTrue)
			So(q.current, ShouldEqual, next)
			So(q.next, ShouldBeNil)
		})

		Convey("Draining the last stream ends it and fills silence", func() {
			buf := make([][2]float64, 250)
			n, ok := q.Stream(buf)

			So(n, ShouldEqual, 250)
			So(ok, ShouldBeTrue)
			So(got, ShouldResemble, []Event{{Kind: EndOfStream}})
			So(q.current, ShouldBeNil)
			So(buf[249], ShouldResemble, [2]float64{})
		})

		Convey("Replacing closes both slots", func() {
			fresh, _ := fakeItem(10)
			q.replace(fresh)

			So(currentStream.closed, ShouldBeTrue)
			So(q.current, ShouldEqual, fresh)
			So(q.next, ShouldBeNil)
		})
	})
}

func TestBeepClose(t *testing.T) {
	Convey("Given a running near-end watcher", t, func() {
		b := &Beep{
			events:      make(chan Event, 8),
			watcherStop: make(chan struct{}),
			watcherDone: make(chan struct{}),
		}
		b.queue = &gaplessQueue{emit: b.emit}
		go b.watchNearEnd()

		Convey("Close joins the watcher before closing the event channel", func() {
			So(b.Close(), ShouldBeNil)

			joined := false
			select {
			case <-b.watcherDone:
				joined = true
			default:
			}
			So(joined, ShouldBeTrue)

			_, open := <-b.events
			So(open, ShouldBeFalse)

			Convey("And closing again is harmless", func() {
				So(b.Close(), ShouldBeNil)
			})
		})
	})
}
