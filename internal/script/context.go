// Package script executes cartridge actions against a shared context and
// owns the time-extended effects they create: tweens and timers. The
// interpreter is fail-soft throughout: malformed actions are logged and
// skipped, unresolvable references are silently inert, and nothing here
// is ever fatal. Scripts may be machine-generated, so a bad action must
// never take its siblings down with it.
package script

import (
	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/clock"
)

// NextSceneVar is the reserved variable a gotoScene action writes. The
// engine observes it after each tick and performs the transition; the
// interpreter itself never switches scenes.
const NextSceneVar = "__nextScene"

// AudioManager is the audio collaborator. playSfx/playMusic/stopMusic
// actions are forwarded to it verbatim.
type AudioManager interface {
	PlaySfx(id string, volume float64)
	PlayMusic(id string, loop bool, volume float64)
	StopMusic()
}

// Context is everything an action executes against: the firing node, the
// read-only cartridge, the clock (for RNG and timing), the audio
// collaborator, the shared mutable variables map, the current scene id,
// and the id-indexed table of live scene nodes.
//
// Vars and Nodes are shared across the whole run; there is a single
// logical writer at a time, so no locking is involved, but execution
// order is semantically significant: a value written by one action is
// visible to every later action in the same trigger.
type Context struct {
	Node      *cart.Node
	Cartridge *cart.Cartridge
	Clock     *clock.Clock
	Audio     AudioManager
	Vars      map[string]any
	SceneID   string
	Nodes     map[string]*cart.Node
}

// WithNode returns a copy of the context rebound to a different firing
// node. The shared maps are the same underlying maps.
func (ctx *Context) WithNode(n *cart.Node) Context {
	c := *ctx
	c.Node = n
	return c
}
