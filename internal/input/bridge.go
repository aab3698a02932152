// Package input converts a polled input-state API into discrete edge
// events for the trigger router. The bridge runs once per frame, diffs
// the previous and current pressed state for a fixed monitored set, and
// emits exactly one event per observed transition.
package input

import (
	"github.com/pixelcart/pixelcart/internal/router"
	"github.com/pixelcart/pixelcart/internal/script"
)

// Logical action names monitored by the bridge. Cartridge triggers see
// these names, never physical key codes.
const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionLeft    = "left"
	ActionRight   = "right"
	ActionPrimary = "action" // Space
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
	ActionMenu    = "menu"
)

// MouseButtons is the number of monitored pointer buttons (0-2).
const MouseButtons = 3

// keyActions is the fixed monitored set of logical key actions.
var keyActions = []string{
	ActionUp, ActionDown, ActionLeft, ActionRight,
	ActionPrimary, ActionConfirm, ActionCancel, ActionMenu,
}

// DefaultBindings maps each logical action to the physical keys a host
// input manager should install: arrows and WASD for movement, space,
// enter, escape, and tab for the rest.
var DefaultBindings = map[string][]string{
	ActionUp:      {"up", "w"},
	ActionDown:    {"down", "s"},
	ActionLeft:    {"left", "a"},
	ActionRight:   {"right", "d"},
	ActionPrimary: {" "},
	ActionConfirm: {"enter"},
	ActionCancel:  {"esc"},
	ActionMenu:    {"tab"},
}

// Manager is the polled input collaborator. The bridge polls it once per
// frame; it never receives callbacks.
type Manager interface {
	IsActionPressed(action string) bool
	IsActionJustPressed(action string) bool
	IsActionJustReleased(action string) bool
	IsMousePressed(button int) bool
	PointerPosition() (x, y float64)
}

// Bridge diffs polled input state into discrete events for the router.
type Bridge struct {
	mgr    Manager
	router *router.Router

	prevKeys    map[string]bool
	prevButtons [MouseButtons]bool
}

// New creates a bridge feeding the given router from the given manager.
func New(mgr Manager, r *router.Router) *Bridge {
	return &Bridge{
		mgr:      mgr,
		router:   r,
		prevKeys: make(map[string]bool),
	}
}

// Poll runs the once-per-frame diff. Each pressed-state transition emits
// exactly one InputEvent; held keys emit nothing.
func (b *Bridge) Poll(ctx *script.Context) {
	for _, action := range keyActions {
		cur := b.mgr.IsActionPressed(action)
		if cur == b.prevKeys[action] {
			continue
		}
		b.prevKeys[action] = cur
		b.router.HandleInput(router.InputEvent{
			Device:  router.DeviceKey,
			Key:     action,
			Pressed: cur,
		}, ctx)
	}

	x, y := b.mgr.PointerPosition()
	for button := 0; button < MouseButtons; button++ {
		cur := b.mgr.IsMousePressed(button)
		if cur == b.prevButtons[button] {
			continue
		}
		b.prevButtons[button] = cur
		b.router.HandleInput(router.InputEvent{
			Device:  router.DevicePointer,
			Button:  button,
			Pressed: cur,
			X:       x,
			Y:       y,
		}, ctx)
	}
}

// Reset forgets all previous pressed state, so the next Poll treats any
// held input as a fresh press. Called on scene transitions.
func (b *Bridge) Reset() {
	b.prevKeys = make(map[string]bool)
	b.prevButtons = [MouseButtons]bool{}
}
