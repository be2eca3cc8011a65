package engine

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/soi-cli/soi/filesystem"
	"github.com/soi-cli/soi/log"
)

// beepSampleRate is the fixed output rate; decoded streams are resampled to it.
const beepSampleRate = beep.SampleRate(44100)

// Beep implements Engine with in-process decoding and output through the
// beep speaker. A single persistent chain (gapless queue -> pause control
// -> volume) stays attached to the speaker for the whole run; Play and
// Switch only swap streams inside the queue, so pause and mute state
// survive track transitions.
type Beep struct {
	events chan Event

	queue *gaplessQueue
	ctrl  *beep.Ctrl
	vol   *effects.Volume

	watcherStop chan struct{}
	watcherDone chan struct{}
	closeOnce   sync.Once
}

// NewBeep initializes the speaker and installs the persistent stream chain.
func NewBeep() (*Beep, error) {
	if err := speaker.Init(beepSampleRate, beepSampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	b := &Beep{
		events:      make(chan Event, 8),
		watcherStop: make(chan struct{}),
		watcherDone: make(chan struct{}),
	}
	b.queue = &gaplessQueue{emit: b.emit}
	b.ctrl = &beep.Ctrl{Streamer: b.queue}
	b.vol = &effects.Volume{Streamer: b.ctrl, Base: 2}

	speaker.Play(b.vol)
	go b.watchNearEnd()

	return b, nil
}

// Play drops whatever is loaded and starts streaming uri from the top.
func (b *Beep) Play(uri string) error {
	item, err := openStream(uri)
	if err != nil {
		return err
	}

	speaker.Lock()
	b.queue.replace(item)
	b.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Switch arms uri as the follow-up stream. The queue crosses into it the
// moment the current stream drains, inside the same speaker callback, so
// no silent gap is produced.
func (b *Beep) Switch(uri string) error {
	item, err := openStream(uri)
	if err != nil {
		return err
	}

	speaker.Lock()
	b.queue.arm(item)
	speaker.Unlock()
	return nil
}

// SetPaused suspends or resumes the stream clock.
func (b *Beep) SetPaused(paused bool) error {
	speaker.Lock()
	b.ctrl.Paused = paused
	speaker.Unlock()
	return nil
}

// SetMuted silences the output without stopping the stream.
func (b *Beep) SetMuted(muted bool) error {
	speaker.Lock()
	b.vol.Silent = muted
	speaker.Unlock()
	return nil
}

// Seek jumps to an absolute position in the current stream.
func (b *Beep) Seek(pos time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()
	return b.queue.seek(pos)
}

// Position reports the playback position within the current stream.
func (b *Beep) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return b.queue.position()
}

// Events delivers the queue's drain and handoff signals.
func (b *Beep) Events() <-chan Event {
	return b.events
}

// watchNearEnd samples the remaining time of the current stream and fires
// AboutToFinish once per item when it drops under the gapless lead.
func (b *Beep) watchNearEnd() {
	defer close(b.watcherDone)

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-b.watcherStop:
			return
		case <-ticker.C:
			speaker.Lock()
			remaining, ok := b.queue.remaining()
			fire := ok && remaining <= gaplessLead && !b.queue.nearEndFired
			if fire {
				b.queue.nearEndFired = true
			}
			speaker.Unlock()

			if fire {
				b.emit(Event{Kind: AboutToFinish})
			}
		}
	}
}

// emit forwards an event without blocking the speaker or watcher goroutine.
func (b *Beep) emit(ev Event) {
	select {
	case b.events <- ev:
	default:
		log.Warnf("dropping engine event %d: consumer not keeping up", ev.Kind)
	}
}

// Close detaches the chain from the speaker and releases open streams.
// Both event producers are gone before the channel closes: the watcher is
// joined, and Clear removes the chain from the speaker under its lock, so
// no Stream call is in flight afterwards.
func (b *Beep) Close() error {
	b.closeOnce.Do(func() {
		close(b.watcherStop)
		<-b.watcherDone
		speaker.Clear()

		speaker.Lock()
		b.queue.replace(nil)
		speaker.Unlock()

		close(b.events)
	})
	return nil
}

// streamItem bundles one decoded audio stream with its native format.
type streamItem struct {
	stream    beep.StreamSeekCloser
	format    beep.Format
	resampled beep.Streamer
}

// openStream decodes the file behind a file URI into a playable item.
func openStream(uri string) (*streamItem, error) {
	path := uri
	if u, err := url.Parse(uri); err == nil && u.Scheme == "file" {
		path = u.Path
	}

	f, err := filesystem.API().Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	stream, format, err := decode(path, f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	item := &streamItem{stream: stream, format: format}
	if format.SampleRate == beepSampleRate {
		item.resampled = stream
	} else {
		item.resampled = beep.Resample(4, format.SampleRate, beepSampleRate, stream)
	}
	return item, nil
}

// gaplessQueue is the persistent streamer attached to the speaker. It
// plays the current item, swaps to an armed next item inside the same
// Stream call when the current one drains, and fills silence otherwise so
// the chain never terminates.
//
// All fields are accessed either from the speaker goroutine (Stream) or
// under speaker.Lock by the engine methods, which is the same mutex.
type gaplessQueue struct {
	current      *streamItem
	next         *streamItem
	nearEndFired bool
	emit         func(Event)
}

func (q *gaplessQueue) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		if q.current == nil {
			for i := filled; i < len(samples); i++ {
				samples[i] = [2]float64{}
			}
			return len(samples), true
		}

		n, ok := q.current.resampled.Stream(samples[filled:])
		filled += n
		if !ok {
			q.current.close()
			if q.next != nil {
				q.current, q.next = q.next, nil
				q.nearEndFired = false
			} else {
				q.current = nil
				q.emit(Event{Kind: EndOfStream})
			}
		}
	}
	return len(samples), true
}

func (q *gaplessQueue) Err() error {
	return nil
}

// replace discards both slots and installs item as the current stream.
func (q *gaplessQueue) replace(item *streamItem) {
	q.current.close()
	q.next.close()
	q.current, q.next = item, nil
	q.nearEndFired = false
}

// arm stores the follow-up stream for the gapless handoff.
func (q *gaplessQueue) arm(item *streamItem) {
	q.next.close()
	q.next = item
}

func (q *gaplessQueue) seek(pos time.Duration) error {
	if q.current == nil {
		return nil
	}
	n := q.current.format.SampleRate.N(pos)
	if n < 0 {
		n = 0
	}
	if last := q.current.stream.Len() - 1; n > last {
		n = last
	}
	return q.current.stream.Seek(n)
}

func (q *gaplessQueue) position() time.Duration {
	if q.current == nil {
		return 0
	}
	return q.current.format.SampleRate.D(q.current.stream.Position())
}

// remaining reports how much of the current stream is left, and whether a
// stream is loaded at all.
func (q *gaplessQueue) remaining() (time.Duration, bool) {
	if q.current == nil {
		return 0, false
	}
	left := q.current.stream.Len() - q.current.stream.Position()
	return q.current.format.SampleRate.D(left), true
}

func (s *streamItem) close() {
	if s == nil {
		return
	}
	_ = s.stream.Close()
}
