// Package runtime assembles the simulation clock, action interpreter,
// trigger router, and input bridge into a running cartridge session. The
// engine owns scene lifecycle: it instantiates scenes from the read-only
// cartridge document, registers their nodes, observes scene-change
// requests after each tick, and keeps router registrations in step with
// spawns and despawns.
package runtime

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/clock"
	"github.com/pixelcart/pixelcart/internal/input"
	"github.com/pixelcart/pixelcart/internal/router"
	"github.com/pixelcart/pixelcart/internal/script"
)

// Node params consulted at registration time. A node carrying timerDelay
// gets a router timer scheduled for it, so authored nodes can receive
// on.timer without a script having started one.
const (
	paramTimerDelay = "timerDelay"
	paramTimerID    = "timerId"
	defaultTimerID  = "timer"
)

// Options configures a new engine. Zero values fall back to defaults:
// the standard tick rate, seed 0, no audio, no input source.
type Options struct {
	TickRate int
	Seed     int64
	Audio    script.AudioManager
	Input    input.Manager
	Logger   *log.Logger
}

// Engine runs one cartridge session.
type Engine struct {
	logger *log.Logger

	cartridge *cart.Cartridge
	clock     *clock.Clock
	interp    *script.Interp
	router    *router.Router
	bridge    *input.Bridge

	ctx   script.Context
	scene *cart.Scene

	onRender clock.RenderFunc
}

// New wires up an engine for the cartridge. The cartridge must name an
// existing start scene; everything past that is fail-soft at run time.
func New(c *cart.Cartridge, opts Options) (*Engine, error) {
	if c == nil {
		return nil, errors.New("runtime: nil cartridge")
	}
	if c.SceneByID(c.StartScene) == nil {
		return nil, fmt.Errorf("runtime: cartridge %q: start scene %q not found", c.ID, c.StartScene)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "runtime"})
	}

	clk := clock.New(opts.TickRate, opts.Seed)
	interp := script.New(logger.WithPrefix("script"))
	rt := router.New(interp, logger.WithPrefix("router"))

	e := &Engine{
		logger:    logger,
		cartridge: c,
		clock:     clk,
		interp:    interp,
		router:    rt,
		ctx: script.Context{
			Cartridge: c,
			Clock:     clk,
			Audio:     opts.Audio,
			Vars:      c.InitialVariables(),
		},
	}
	if opts.Input != nil {
		e.bridge = input.New(opts.Input, rt)
	}

	clk.OnTick(e.tick)
	clk.OnRender(func(alpha float64) {
		if e.onRender != nil {
			e.onRender(alpha)
		}
	})
	return e, nil
}

// OnRender sets the per-frame render callback. It fires once per frame
// with the interpolation factor, after all ticks for that frame.
func (e *Engine) OnRender(f clock.RenderFunc) {
	e.onRender = f
}

// Start begins the session: the clock starts and the start scene loads,
// firing its on.start triggers.
func (e *Engine) Start() {
	e.clock.Start()
	e.loadScene(e.cartridge.StartScene)
}

// StartAt begins the session at a saved position: the variables are
// merged over the cartridge's initial set, then the named scene loads.
// An unknown scene id falls back to the start scene, so a save from an
// older revision of a cartridge still boots.
func (e *Engine) StartAt(sceneID string, vars map[string]any) {
	for k, v := range vars {
		e.ctx.Vars[k] = v
	}
	if e.cartridge.SceneByID(sceneID) == nil {
		e.logger.Warn("saved scene not found, using start scene", "scene", sceneID)
		sceneID = e.cartridge.StartScene
	}
	e.clock.Start()
	e.loadScene(sceneID)
}

// Stop halts the session.
func (e *Engine) Stop() {
	e.clock.Stop()
}

// Pause suspends simulation; rendering continues with interpolation 0.
func (e *Engine) Pause() { e.clock.Pause() }

// Resume continues simulation without a catch-up burst.
func (e *Engine) Resume() { e.clock.Resume() }

// Frame processes one animation frame at the given wall time: input is
// polled once, then elapsed time drains through the clock.
func (e *Engine) Frame(now time.Time) {
	e.pollInput()
	e.clock.Frame(now)
}

// Advance processes one frame worth of elapsed milliseconds directly,
// bypassing wall time. Deterministic drivers and tests use this.
func (e *Engine) Advance(frameMs float64) {
	e.pollInput()
	e.clock.Advance(frameMs)
}

func (e *Engine) pollInput() {
	if e.bridge != nil && e.clock.Running() && !e.clock.Paused() {
		e.bridge.Poll(&e.ctx)
	}
}

// tick is the fixed-rate simulation step: node on.tick triggers, router
// timers, then the interpreter's tweens and timers. Registrations are
// synced afterward so spawns become routable next tick, and a pending
// scene change is applied last.
func (e *Engine) tick(dt float64) {
	e.router.ProcessTick(&e.ctx)
	e.router.ProcessTimers(&e.ctx, dt)
	e.interp.Update(dt)
	e.syncRegistrations()
	e.applySceneChange()
}

// syncRegistrations registers spawned nodes in depth-first scene order
// and deregisters nodes no longer present in the live table.
func (e *Engine) syncRegistrations() {
	if e.scene == nil {
		return
	}
	e.scene.Walk(func(n *cart.Node) {
		if _, live := e.ctx.Nodes[n.ID]; live && !e.router.Registered(n.ID) {
			e.registerNode(n)
		}
	})
	for _, id := range e.router.RegisteredIDs() {
		if _, live := e.ctx.Nodes[id]; !live {
			e.router.DeregisterNode(id)
		}
	}
}

// registerNode binds a node's triggers, firing on.start, and schedules
// its authored router timer if the node carries a timerDelay param.
func (e *Engine) registerNode(n *cart.Node) {
	e.router.RegisterNode(n, &e.ctx)
	if delay, ok := cart.Number(n.Params[paramTimerDelay]); ok && delay > 0 {
		id := defaultTimerID
		if s, ok := n.Params[paramTimerID].(string); ok && s != "" {
			id = s
		}
		e.router.StartTimer(n.ID, id, delay)
	}
}

// applySceneChange consumes the reserved next-scene variable written by
// gotoScene. An unknown scene id logs and clears the request; the current
// scene keeps running.
func (e *Engine) applySceneChange() {
	next, ok := e.ctx.Vars[script.NextSceneVar].(string)
	if !ok {
		return
	}
	delete(e.ctx.Vars, script.NextSceneVar)
	e.loadScene(next)
}

// loadScene tears down the current scene and instantiates the named one.
// Effects, bindings, edge state, and timers are all scene-scoped; the
// variables map survives transitions.
func (e *Engine) loadScene(id string) {
	src := e.cartridge.SceneByID(id)
	if src == nil {
		e.logger.Warn("gotoScene target not found", "scene", id)
		return
	}

	e.interp.Reset()
	e.router.Reset()
	if e.bridge != nil {
		e.bridge.Reset()
	}

	scene := src.Clone()
	e.scene = scene
	e.ctx.SceneID = scene.ID
	e.ctx.Nodes = scene.Index()
	e.ctx.Node = nil

	scene.Walk(func(n *cart.Node) {
		e.registerNode(n)
	})
	// on.start actions may already have spawned nodes.
	e.syncRegistrations()
}

// Cartridge returns the loaded document.
func (e *Engine) Cartridge() *cart.Cartridge {
	return e.cartridge
}

// SceneID returns the id of the live scene, or "" before Start.
func (e *Engine) SceneID() string {
	return e.ctx.SceneID
}

// Scene returns the live scene instance, or nil before Start.
func (e *Engine) Scene() *cart.Scene {
	return e.scene
}

// Nodes returns the live id-indexed node table.
func (e *Engine) Nodes() map[string]*cart.Node {
	return e.ctx.Nodes
}

// Vars returns the session's variables map.
func (e *Engine) Vars() map[string]any {
	return e.ctx.Vars
}

// Clock returns the simulation clock.
func (e *Engine) Clock() *clock.Clock {
	return e.clock
}

// Metrics returns a snapshot of the clock's counters.
func (e *Engine) Metrics() clock.Metrics {
	return e.clock.Metrics()
}
