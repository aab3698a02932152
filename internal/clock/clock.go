// Package clock provides the fixed-tick simulation clock for the cartridge
// runtime. It decouples simulation rate from display refresh using the
// accumulator pattern and carries the deterministic RNG that action scripts
// draw from. The package has no external dependencies so the simulation
// core stays pure and testable.
package clock

import "time"

// DefaultTickRate is the simulation rate in ticks per second.
const DefaultTickRate = 60

// maxCatchUpTicks bounds how many ticks a single frame may drain after a
// stall. Time beyond the bound is discarded and counted as dropped.
const maxCatchUpTicks = 5

// driftEpsilon absorbs float error in the millisecond accumulator so a
// frame worth of exactly N tick intervals drains exactly N ticks.
const driftEpsilon = 1e-9

// TickFunc is invoked once per simulation tick with the tick interval in
// milliseconds.
type TickFunc func(dtMs float64)

// RenderFunc is invoked once per frame with the interpolation factor in
// [0, 1): the fraction between the last completed tick and the next.
type RenderFunc func(alpha float64)

// Metrics is a snapshot of the clock's runtime counters.
type Metrics struct {
	FPS           float64 // Smoothed frames per second
	AvgFrameTime  float64 // Smoothed frame time in milliseconds
	TickRate      int     // Configured ticks per second
	DroppedFrames uint64  // Ticks worth of time discarded after stalls
	TotalTicks    uint64  // Ticks executed since Start
	TotalFrames   uint64  // Frames observed since Start
}

// Clock advances simulation at a fixed rate regardless of how often the
// host delivers frames. Each frame the elapsed wall time is added to an
// accumulator which is drained in tickInterval steps; whatever fraction
// remains becomes the interpolation factor for rendering.
type Clock struct {
	tickRate     int
	tickInterval float64 // milliseconds

	onTick   TickFunc
	onRender RenderFunc

	running bool
	paused  bool

	accumulator   float64
	interpolation float64
	lastFrame     time.Time
	haveLastFrame bool

	avgFrameTime  float64
	droppedFrames uint64
	totalTicks    uint64
	totalFrames   uint64

	rng *RNG
}

// New creates a clock running at the given tick rate (ticks per second).
// A rate <= 0 falls back to DefaultTickRate. The RNG starts from seed.
func New(tickRate int, seed int64) *Clock {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Clock{
		tickRate:     tickRate,
		tickInterval: 1000.0 / float64(tickRate),
		rng:          NewRNG(seed),
	}
}

// OnTick sets the callback fired once per simulation tick.
func (c *Clock) OnTick(f TickFunc) {
	c.onTick = f
}

// OnRender sets the callback fired once per frame after ticks have drained.
func (c *Clock) OnRender(f RenderFunc) {
	c.onRender = f
}

// Start begins (or restarts) the clock, fully resetting the accumulator
// and all counters. The RNG is not reseeded; use Seed for that.
func (c *Clock) Start() {
	c.running = true
	c.paused = false
	c.accumulator = 0
	c.interpolation = 0
	c.haveLastFrame = false
	c.avgFrameTime = 0
	c.droppedFrames = 0
	c.totalTicks = 0
	c.totalFrames = 0
}

// Stop halts the clock. A subsequent Start performs a full reset.
func (c *Clock) Stop() {
	c.running = false
}

// Pause suspends tick execution. Render callbacks keep firing with an
// interpolation factor of exactly 0.
func (c *Clock) Pause() {
	if c.running {
		c.paused = true
		c.interpolation = 0
	}
}

// Resume continues tick execution. The accumulator is reset so the pause
// does not produce an artificial catch-up burst.
func (c *Clock) Resume() {
	if c.running && c.paused {
		c.paused = false
		c.accumulator = 0
		c.haveLastFrame = false
	}
}

// Running reports whether the clock has been started and not stopped.
func (c *Clock) Running() bool {
	return c.running
}

// Paused reports whether tick execution is suspended.
func (c *Clock) Paused() bool {
	return c.paused
}

// Frame processes one animation frame at the given wall time. The elapsed
// time since the previous frame is fed to Advance. The first frame after
// Start or Resume establishes the baseline and advances nothing.
func (c *Clock) Frame(now time.Time) {
	if !c.running {
		return
	}

	var frameMs float64
	if c.haveLastFrame {
		frameMs = float64(now.Sub(c.lastFrame)) / float64(time.Millisecond)
		if frameMs < 0 {
			frameMs = 0
		}
	}
	c.lastFrame = now
	c.haveLastFrame = true

	c.Advance(frameMs)
}

// Advance processes one frame worth of elapsed time, given directly in
// milliseconds. Zero or more tick callbacks fire, then exactly one render
// callback carrying the interpolation factor.
func (c *Clock) Advance(frameMs float64) {
	if !c.running {
		return
	}

	c.totalFrames++
	c.trackFrameTime(frameMs)

	if c.paused {
		c.interpolation = 0
		if c.onRender != nil {
			c.onRender(0)
		}
		return
	}

	c.accumulator += frameMs

	// Clamp before draining so a long stall recovers in bounded time
	// instead of spiraling. The discarded time is surfaced in metrics.
	limit := float64(maxCatchUpTicks) * c.tickInterval
	if c.accumulator > limit {
		dropped := c.accumulator - limit
		c.droppedFrames += uint64((dropped + driftEpsilon) / c.tickInterval)
		c.accumulator = limit
	}

	for c.accumulator+driftEpsilon >= c.tickInterval {
		c.accumulator -= c.tickInterval
		c.totalTicks++
		if c.onTick != nil {
			c.onTick(c.tickInterval)
		}
	}
	if c.accumulator < 0 {
		c.accumulator = 0
	}

	c.interpolation = c.accumulator / c.tickInterval
	if c.onRender != nil {
		c.onRender(c.interpolation)
	}
}

// trackFrameTime maintains the smoothed frame-time estimate behind Metrics.
func (c *Clock) trackFrameTime(frameMs float64) {
	if frameMs <= 0 {
		return
	}
	if c.avgFrameTime == 0 {
		c.avgFrameTime = frameMs
		return
	}
	// Exponential moving average, weighted toward recent frames.
	c.avgFrameTime = c.avgFrameTime*0.9 + frameMs*0.1
}

// Interpolation returns the current interpolation factor: the fraction of
// a tick interval accumulated since the last completed tick. It is always
// in [0, 1) while running and exactly 0 while paused.
func (c *Clock) Interpolation() float64 {
	return c.interpolation
}

// TickInterval returns the length of one simulation tick in milliseconds.
func (c *Clock) TickInterval() float64 {
	return c.tickInterval
}

// Metrics returns a snapshot of the clock's counters.
func (c *Clock) Metrics() Metrics {
	fps := 0.0
	if c.avgFrameTime > 0 {
		fps = 1000.0 / c.avgFrameTime
	}
	return Metrics{
		FPS:           fps,
		AvgFrameTime:  c.avgFrameTime,
		TickRate:      c.tickRate,
		DroppedFrames: c.droppedFrames,
		TotalTicks:    c.totalTicks,
		TotalFrames:   c.totalFrames,
	}
}

// Seed reseeds the deterministic RNG.
func (c *Clock) Seed(seed int64) {
	c.rng.Seed(seed)
}

// RNG returns the clock's deterministic random number generator.
func (c *Clock) RNG() *RNG {
	return c.rng
}
