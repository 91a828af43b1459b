// Package indicator drives the three-dot "thinking" animation shown while a
// request is outstanding. It only knows start and stop; it never sees the
// outcome of the request it decorates.
package indicator

import (
	"math"
	"sync"
	"time"
)

// Phases is the number of dots in the indicator
const Phases = 3

// Params describes the oscillation of each phase
type Params struct {
	Leg       time.Duration // time to travel between rest and peak
	Stagger   time.Duration // delay between consecutive phases
	Amplitude float64       // peak offset; negative moves up
	Interval  time.Duration // time between frames
}

// DefaultParams returns the timing of the original animation:
// 400ms per leg, 200ms stagger, 5 units of travel, 80ms frames.
func DefaultParams() Params {
	return Params{
		Leg:       400 * time.Millisecond,
		Stagger:   200 * time.Millisecond,
		Amplitude: -5,
		Interval:  80 * time.Millisecond,
	}
}

// Frame is one sample of the animation
type Frame struct {
	Seq     int
	Elapsed time.Duration
	Offsets [Phases]float64
}

// Levels quantises each offset into 0..steps-1, where 0 is rest and steps-1 is the peak
func (f Frame) Levels(amplitude float64, steps int) [Phases]int {
	var levels [Phases]int
	if steps < 2 || amplitude == 0 {
		return levels
	}
	for i, off := range f.Offsets {
		frac := off / amplitude
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		levels[i] = int(math.Round(frac * float64(steps-1)))
	}
	return levels
}

// Offsets computes the position of every phase after elapsed time.
// Each phase is a triangle wave delayed by i*Stagger and at rest before its delay.
func Offsets(elapsed time.Duration, p Params) [Phases]float64 {
	var out [Phases]float64
	if p.Leg <= 0 {
		return out
	}
	period := 2 * p.Leg
	for i := 0; i < Phases; i++ {
		local := elapsed - time.Duration(i)*p.Stagger
		if local <= 0 {
			continue
		}
		x := local % period
		if x < p.Leg {
			out[i] = p.Amplitude * float64(x) / float64(p.Leg)
		} else {
			out[i] = p.Amplitude * (1 - float64(x-p.Leg)/float64(p.Leg))
		}
	}
	return out
}

// Option configures a Clock
type Option func(*Clock)

// WithParams overrides the animation timing
func WithParams(p Params) Option {
	return func(c *Clock) {
		c.params = p
	}
}

// WithSink sets the function receiving frames.
// The sink runs on the clock goroutine; it must not block and must not call Stop.
func WithSink(sink func(Frame)) Option {
	return func(c *Clock) {
		c.sink = sink
	}
}

// Clock is a looping animation driver
type Clock struct {
	params Params
	sink   func(Frame)

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a stopped clock
func New(opts ...Option) *Clock {
	c := &Clock{
		params: DefaultParams(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.params.Interval <= 0 {
		c.params.Interval = DefaultParams().Interval
	}
	return c
}

// Params returns the clock's timing
func (c *Clock) Params() Params {
	return c.params
}

// Start begins the animation. Calling Start on a running clock does nothing.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	c.done = make(chan struct{})

	go c.loop(c.stop, c.done)
}

// Stop cancels every phase and waits for the loop to exit.
// No frame is delivered after Stop returns. Safe to call when not running.
func (c *Clock) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stop)
	done := c.done
	c.mu.Unlock()

	<-done
}

// Running reports whether the animation loop is active
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Clock) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.params.Interval)
	defer ticker.Stop()

	started := time.Now()
	seq := 0
	c.emit(seq, 0)

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			// a tick and a stop can be ready together; stop wins
			select {
			case <-stop:
				return
			default:
			}
			seq++
			c.emit(seq, now.Sub(started))
		}
	}
}

func (c *Clock) emit(seq int, elapsed time.Duration) {
	if c.sink == nil {
		return
	}
	c.sink(Frame{
		Seq:     seq,
		Elapsed: elapsed,
		Offsets: Offsets(elapsed, c.params),
	})
}
