// Package playbacks drives a cursor over the frames of a run: stepping, timed
// playback, speed changes. It renders nothing.
package playbacks

import (
	"errors"
	"sync"
	"time"

	"github.com/reusee/tutor/traces"
)

var ErrBadSpeed = errors.New("speed must be positive")

// Status is what observers see after every change.
type Status struct {
	State  State
	Cursor int
	Len    int
	Speed  float64
	Line   int
}

type Player struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration

	session *traces.Session
	speed   float64
	playing bool

	// generation identifies the scheduled advance, bumping it cancels
	generation uint64
	timer      Timer
	due        time.Time

	observers []func(Status)
}

// NewPlayerWithClock returns an empty player advancing every interval/speed while
// playing. A non-positive interval falls back to one second.
func NewPlayerWithClock(clock Clock, interval time.Duration) *Player {
	if interval <= 0 {
		interval = time.Second
	}
	return &Player{
		clock:    clock,
		interval: interval,
		session:  traces.NewSession(nil),
		speed:    1,
	}
}

// OnChange registers an observer, called outside the player lock after every
// change. Observers may call back into the player.
func (p *Player) OnChange(fn func(Status)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// update runs fn under the lock and notifies observers if fn reports a change.
func (p *Player) update(fn func() bool) {
	p.mu.Lock()
	changed := fn()
	var status Status
	var observers []func(Status)
	if changed {
		status = p.status()
		observers = p.observers
	}
	p.mu.Unlock()
	for _, observer := range observers {
		observer(status)
	}
}

// Load replaces the frames, always returning to Ready (or Empty without frames).
func (p *Player) Load(frames []traces.Frame) {
	p.update(func() bool {
		p.cancel()
		p.playing = false
		p.session = traces.NewSession(frames)
		return true
	})
}

func (p *Player) Next() {
	p.update(func() bool {
		wasPlaying := p.stop()
		return p.session.Next() || wasPlaying
	})
}

func (p *Player) Prev() {
	p.update(func() bool {
		wasPlaying := p.stop()
		return p.session.Prev() || wasPlaying
	})
}

// Seek pauses and moves the cursor to i, clamped into [-1, len-1].
func (p *Player) Seek(i int) {
	p.update(func() bool {
		wasPlaying := p.stop()
		before := p.session.Cursor
		p.session.Seek(i)
		return p.session.Cursor != before || wasPlaying
	})
}

// Play starts timed advancing. It does nothing without frames or while playing.
// From the last frame it restarts from the beginning.
func (p *Player) Play() {
	p.update(func() bool {
		if p.session.Len() == 0 || p.playing {
			return false
		}
		if p.session.AtEnd() {
			p.session.Reset()
		}
		p.playing = true
		p.schedule(p.step())
		return true
	})
}

func (p *Player) Pause() {
	p.update(func() bool {
		return p.stop()
	})
}

// Reset stops playback and moves the cursor before the first frame.
func (p *Player) Reset() {
	p.update(func() bool {
		wasPlaying := p.stop()
		before := p.session.Cursor
		p.session.Reset()
		return p.session.Cursor != before || wasPlaying
	})
}

// SetSpeed changes the playback speed. The remaining wait of an advance in flight
// is rescaled.
func (p *Player) SetSpeed(speed float64) error {
	if speed <= 0 {
		return ErrBadSpeed
	}
	p.update(func() bool {
		if speed == p.speed {
			return false
		}
		old := p.speed
		p.speed = speed
		if p.playing && p.timer != nil {
			remaining := max(p.due.Sub(p.clock.Now()), 0)
			p.cancel()
			p.schedule(time.Duration(float64(remaining) * old / speed))
		}
		return true
	})
	return nil
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state()
}

func (p *Player) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Cursor
}

func (p *Player) Speed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Len()
}

func (p *Player) Frames() []traces.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Frames
}

// Current returns the frame under the cursor.
func (p *Player) Current() (traces.Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Current()
}

// Line is the source line to highlight, 0 for none.
func (p *Player) Line() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	frame, ok := p.session.Current()
	if !ok {
		return 0
	}
	return frame.Line
}

func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status()
}

func (p *Player) status() Status {
	line := 0
	if frame, ok := p.session.Current(); ok {
		line = frame.Line
	}
	return Status{
		State:  p.state(),
		Cursor: p.session.Cursor,
		Len:    p.session.Len(),
		Speed:  p.speed,
		Line:   line,
	}
}

func (p *Player) state() State {
	switch {
	case p.session.Len() == 0:
		return Empty
	case p.playing:
		return Playing
	case p.session.Cursor < 0:
		return Ready
	case p.session.AtEnd():
		return Finished
	}
	return Scrubbing
}

func (p *Player) step() time.Duration {
	return time.Duration(float64(p.interval) / p.speed)
}

func (p *Player) schedule(d time.Duration) {
	p.generation++
	generation := p.generation
	p.due = p.clock.Now().Add(d)
	p.timer = p.clock.AfterFunc(d, func() {
		p.fire(generation)
	})
}

func (p *Player) fire(generation uint64) {
	p.update(func() bool {
		if generation != p.generation || !p.playing {
			// cancelled
			return false
		}
		p.timer = nil
		p.session.Next()
		if p.session.AtEnd() {
			p.playing = false
			return true
		}
		p.schedule(p.step())
		return true
	})
}

// cancel invalidates the advance in flight. A timer callback already running
// sees a stale generation and does nothing.
func (p *Player) cancel() {
	p.generation++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// stop pauses playback, reporting whether it was playing.
func (p *Player) stop() bool {
	p.cancel()
	wasPlaying := p.playing
	p.playing = false
	return wasPlaying
}
