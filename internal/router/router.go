// Package router maps scene-lifecycle and input events onto each node's
// registered trigger lists and decides firing order and edge gating. It
// is stateless apart from per-(node,key) edge-detection sets and a
// router-local timer table.
package router

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/script"
)

// Event names the router dispatches on.
const (
	EventStart   = "on.start"
	EventTick    = "on.tick"
	EventKey     = "on.key"
	EventPointer = "on.pointer"
	EventTimer   = "on.timer"
)

// DefaultHitExtent is the half-extent, in world units, of the pointer
// hit box for nodes that do not supply a size.
const DefaultHitExtent = 25.0

// Device distinguishes input event sources.
type Device int

// Devices.
const (
	DeviceKey Device = iota
	DevicePointer
)

// InputEvent is one discrete input transition, as produced by the input
// bridge: a key or button going down or up, never a held state.
type InputEvent struct {
	Device  Device
	Key     string // Logical action name for key events
	Button  int    // Mouse button for pointer events
	Pressed bool
	X, Y    float64 // Pointer world position
}

type nodeKey struct {
	node string
	key  string
}

type nodeButton struct {
	node   string
	button int
}

// timer is a router-local pending notification. On elapse it redispatches
// the node's on.timer trigger through the normal event channel; it does
// not replay a captured action list, that is the interpreter's facility.
type timer struct {
	node     string
	id       string
	duration float64
	elapsed  float64
	stopped  bool
}

// Router owns trigger bindings and event dispatch. Nodes fire in
// registration order; actions within a trigger fire in declared order.
// The router does not serialize across event categories: the host calls
// tick, then input, then timers, each frame.
type Router struct {
	logger *log.Logger
	interp *script.Interp

	order []string
	nodes map[string]*cart.Node

	keysHeld    map[nodeKey]bool
	buttonsHeld map[nodeButton]bool

	timers []*timer
}

// New creates a router dispatching into the given interpreter. A nil
// logger gets a default stderr logger.
func New(interp *script.Interp, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "router"})
	}
	return &Router{
		logger:      logger,
		interp:      interp,
		nodes:       make(map[string]*cart.Node),
		keysHeld:    make(map[nodeKey]bool),
		buttonsHeld: make(map[nodeButton]bool),
	}
}

// RegisterNode binds a node's triggers and fires its on.start trigger
// immediately, once. Re-registering a live id is a no-op.
func (r *Router) RegisterNode(n *cart.Node, ctx *script.Context) {
	if n == nil || n.ID == "" {
		return
	}
	if _, exists := r.nodes[n.ID]; exists {
		return
	}
	r.nodes[n.ID] = n
	r.order = append(r.order, n.ID)

	r.dispatch(n, EventStart, ctx)
}

// DeregisterNode removes a node's bindings, edge-detection state, and
// pending router timers. Despawning a node does not call this; the
// engine pairs destruction with explicit deregistration.
func (r *Router) DeregisterNode(id string) {
	if _, exists := r.nodes[id]; !exists {
		return
	}
	delete(r.nodes, id)
	for i, ordered := range r.order {
		if ordered == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	for k := range r.keysHeld {
		if k.node == id {
			delete(r.keysHeld, k)
		}
	}
	for b := range r.buttonsHeld {
		if b.node == id {
			delete(r.buttonsHeld, b)
		}
	}
	for _, t := range r.timers {
		if t.node == id {
			t.stopped = true
		}
	}
}

// Registered reports whether a node id currently has live bindings.
func (r *Router) Registered(id string) bool {
	_, ok := r.nodes[id]
	return ok
}

// RegisteredIDs returns a snapshot of the live node ids in registration
// order.
func (r *Router) RegisteredIDs() []string {
	return r.snapshotOrder()
}

// ProcessTick fires every node's on.tick trigger in registration order,
// rebinding the context's firing node for each.
func (r *Router) ProcessTick(ctx *script.Context) {
	for _, id := range r.snapshotOrder() {
		n := r.nodes[id]
		if n == nil {
			continue
		}
		r.dispatch(n, EventTick, ctx)
	}
}

// HandleInput routes one discrete input event. Key events fire a node's
// on.key trigger only on the rising edge per (node, key); the key must be
// released before it can fire that node again. Pointer events require a
// hit test before the same edge gating applies per (node, button).
func (r *Router) HandleInput(ev InputEvent, ctx *script.Context) {
	switch ev.Device {
	case DeviceKey:
		r.handleKey(ev, ctx)
	case DevicePointer:
		r.handlePointer(ev, ctx)
	default:
		r.logger.Debug("unknown input device", "device", ev.Device)
	}
}

func (r *Router) handleKey(ev InputEvent, ctx *script.Context) {
	for _, id := range r.snapshotOrder() {
		n := r.nodes[id]
		if n == nil || !hasTrigger(n, EventKey) {
			continue
		}
		edge := nodeKey{node: id, key: ev.Key}
		if ev.Pressed {
			if r.keysHeld[edge] {
				continue // Still held; no re-fire until release
			}
			r.keysHeld[edge] = true
			r.dispatch(n, EventKey, ctx)
		} else {
			delete(r.keysHeld, edge)
		}
	}
}

func (r *Router) handlePointer(ev InputEvent, ctx *script.Context) {
	for _, id := range r.snapshotOrder() {
		n := r.nodes[id]
		if n == nil || !hasTrigger(n, EventPointer) {
			continue
		}
		edge := nodeButton{node: id, button: ev.Button}
		if !ev.Pressed {
			// Releases re-arm the edge regardless of position: the
			// pointer may have moved off the node since the press.
			delete(r.buttonsHeld, edge)
			continue
		}
		if !hitTest(n, ev.X, ev.Y) {
			continue
		}
		if r.buttonsHeld[edge] {
			continue
		}
		r.buttonsHeld[edge] = true
		r.dispatch(n, EventPointer, ctx)
	}
}

// hitTest checks the pointer position against the node's axis-aligned
// bounding box, centered on its world position.
func hitTest(n *cart.Node, x, y float64) bool {
	halfW, halfH := DefaultHitExtent, DefaultHitExtent
	if w, h, ok := n.Size(); ok {
		halfW, halfH = w/2, h/2
	}
	dx := x - n.Transform.X
	dy := y - n.Transform.Y
	return dx >= -halfW && dx <= halfW && dy >= -halfH && dy <= halfH
}

// StartTimer schedules a router-local timer for a node. On elapse the
// node's on.timer trigger fires through the normal event channel. A
// colliding (node, id) pair replaces the pending timer.
func (r *Router) StartTimer(nodeID, timerID string, duration float64) {
	for _, t := range r.timers {
		if t.node == nodeID && t.id == timerID && !t.stopped {
			t.stopped = true
		}
	}
	r.timers = append(r.timers, &timer{node: nodeID, id: timerID, duration: duration})
}

// StopTimer cancels a pending router timer.
func (r *Router) StopTimer(nodeID, timerID string) {
	for _, t := range r.timers {
		if t.node == nodeID && t.id == timerID {
			t.stopped = true
		}
	}
}

// ProcessTimers advances router timers in insertion order, firing each
// elapsed node's on.timer trigger. Timers of deregistered nodes are
// dropped silently.
func (r *Router) ProcessTimers(ctx *script.Context, dt float64) {
	n := len(r.timers)
	for i := 0; i < n; i++ {
		t := r.timers[i]
		if t.stopped {
			continue
		}
		t.elapsed += dt
		if t.elapsed < t.duration {
			continue
		}
		t.stopped = true
		node := r.nodes[t.node]
		if node == nil {
			continue
		}
		r.dispatch(node, EventTimer, ctx)
	}

	live := r.timers[:0]
	for _, t := range r.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	r.timers = live
}

// Reset drops every binding, edge set, and pending timer. Called on
// scene transitions; router timers are scene-scoped.
func (r *Router) Reset() {
	r.order = nil
	r.nodes = make(map[string]*cart.Node)
	r.keysHeld = make(map[nodeKey]bool)
	r.buttonsHeld = make(map[nodeButton]bool)
	r.timers = nil
}

// dispatch runs every trigger on the node matching the event, in declared
// order, with the context's firing node rebound.
func (r *Router) dispatch(n *cart.Node, event string, ctx *script.Context) {
	bound := ctx.WithNode(n)
	for i := range n.Triggers {
		if n.Triggers[i].Event != event {
			continue
		}
		r.interp.ExecuteAll(n.Triggers[i].Actions, &bound)
	}
}

// snapshotOrder copies the registration order so dispatch survives
// actions that register or deregister nodes mid-event.
func (r *Router) snapshotOrder() []string {
	snapshot := make([]string, len(r.order))
	copy(snapshot, r.order)
	return snapshot
}

func hasTrigger(n *cart.Node, event string) bool {
	for i := range n.Triggers {
		if n.Triggers[i].Event == event {
			return true
		}
	}
	return false
}
