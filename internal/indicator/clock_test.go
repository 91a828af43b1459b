package indicator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameRecorder collects frames delivered by a clock
type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *frameRecorder) sink(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
}

func (r *frameRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *frameRecorder) seqs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.frames))
	for i, f := range r.frames {
		out[i] = f.Seq
	}
	return out
}

func fastParams() Params {
	p := DefaultParams()
	p.Interval = 5 * time.Millisecond
	return p
}

func TestOffsets(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name    string
		elapsed time.Duration
		want    [Phases]float64
	}{
		{"at rest", 0, [Phases]float64{0, 0, 0}},
		{"first phase halfway up", 200 * time.Millisecond, [Phases]float64{-2.5, 0, 0}},
		{"first phase at peak", 400 * time.Millisecond, [Phases]float64{-5, -2.5, 0}},
		{"first phase descending", 600 * time.Millisecond, [Phases]float64{-2.5, -5, -2.5}},
		{"first phase back at rest", 800 * time.Millisecond, [Phases]float64{0, -2.5, -5}},
		{"second cycle", 1000 * time.Millisecond, [Phases]float64{-2.5, 0, -2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Offsets(tt.elapsed, p)
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-9, "phase %d", i)
			}
		})
	}
}

func TestOffsetsStayInRange(t *testing.T) {
	p := DefaultParams()
	for ms := 0; ms < 5000; ms += 7 {
		for i, off := range Offsets(time.Duration(ms)*time.Millisecond, p) {
			assert.LessOrEqual(t, off, 0.0, "phase %d at %dms", i, ms)
			assert.GreaterOrEqual(t, off, p.Amplitude, "phase %d at %dms", i, ms)
		}
	}
}

func TestOffsetsZeroLeg(t *testing.T) {
	assert.Equal(t, [Phases]float64{}, Offsets(time.Second, Params{}))
}

func TestFrameLevels(t *testing.T) {
	f := Frame{Offsets: [Phases]float64{0, -2.5, -5}}

	assert.Equal(t, [Phases]int{0, 2, 4}, f.Levels(-5, 5))
	assert.Equal(t, [Phases]int{0, 0, 0}, f.Levels(-5, 1))
	assert.Equal(t, [Phases]int{0, 0, 0}, f.Levels(0, 4))
}

func TestClockLifecycle(t *testing.T) {
	rec := &frameRecorder{}
	c := New(WithParams(fastParams()), WithSink(rec.sink))

	assert.False(t, c.Running())
	c.Start()
	assert.True(t, c.Running())

	require.Eventually(t, func() bool { return rec.count() >= 3 }, time.Second, time.Millisecond)

	c.Stop()
	assert.False(t, c.Running())

	stoppedAt := rec.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stoppedAt, rec.count(), "no frames may be delivered after Stop returns")
}

func TestClockStartIsIdempotent(t *testing.T) {
	rec := &frameRecorder{}
	c := New(WithParams(fastParams()), WithSink(rec.sink))

	c.Start()
	c.Start()
	c.Start()
	require.Eventually(t, func() bool { return rec.count() >= 5 }, time.Second, time.Millisecond)
	c.Stop()

	seqs := rec.seqs()
	for i, seq := range seqs {
		assert.Equal(t, i, seq, "a single loop produces consecutive sequence numbers")
	}
}

func TestClockStopWhenNotRunning(t *testing.T) {
	c := New()
	c.Stop()
	c.Stop()
	assert.False(t, c.Running())
}

func TestClockRestart(t *testing.T) {
	rec := &frameRecorder{}
	c := New(WithParams(fastParams()), WithSink(rec.sink))

	c.Start()
	require.Eventually(t, func() bool { return rec.count() >= 1 }, time.Second, time.Millisecond)
	c.Stop()
	first := rec.count()

	c.Start()
	require.Eventually(t, func() bool { return rec.count() > first }, time.Second, time.Millisecond)
	c.Stop()

	seqs := rec.seqs()
	assert.Equal(t, 0, seqs[first], "a restarted clock begins a fresh cycle")
}

func TestClockWithoutSink(t *testing.T) {
	c := New(WithParams(fastParams()))
	c.Start()
	time.Sleep(10 * time.Millisecond)
	c.Stop()
	assert.False(t, c.Running())
}

func TestNewDefaultsInterval(t *testing.T) {
	c := New(WithParams(Params{Leg: time.Second}))
	assert.Equal(t, DefaultParams().Interval, c.Params().Interval)
}
