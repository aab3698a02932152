package tui

import (
	"github.com/pixelcart/pixelcart/internal/input"
)

// TermInput adapts terminal events to the polled input manager the
// engine's bridge expects. Terminals report key presses but never key
// releases, so keys use tap semantics: a KeyMsg marks its action
// pressed for exactly one frame, and EndFrame clears it afterward. The
// bridge then observes a press on one poll and a release on the next.
// Mouse buttons do get real press/release events, so their state
// persists between frames.
type TermInput struct {
	tapped   map[string]bool
	buttons  [input.MouseButtons]bool
	pointerX float64
	pointerY float64
}

// NewTermInput creates an empty terminal input manager.
func NewTermInput() *TermInput {
	return &TermInput{tapped: make(map[string]bool)}
}

// Tap marks a logical action pressed until the end of the frame.
func (t *TermInput) Tap(action string) {
	t.tapped[action] = true
}

// SetButton updates a mouse button's pressed state.
func (t *TermInput) SetButton(button int, pressed bool) {
	if button < 0 || button >= input.MouseButtons {
		return
	}
	t.buttons[button] = pressed
}

// SetPointer updates the pointer position in world coordinates.
func (t *TermInput) SetPointer(x, y float64) {
	t.pointerX = x
	t.pointerY = y
}

// EndFrame clears key taps after the engine has polled them. Mouse
// button state is left alone; releases arrive as their own events.
func (t *TermInput) EndFrame() {
	for k := range t.tapped {
		delete(t.tapped, k)
	}
}

// IsActionPressed reports whether the action was tapped this frame.
func (t *TermInput) IsActionPressed(action string) bool {
	return t.tapped[action]
}

// IsActionJustPressed is identical to IsActionPressed under tap
// semantics: every press lasts one frame.
func (t *TermInput) IsActionJustPressed(action string) bool {
	return t.tapped[action]
}

// IsActionJustReleased always reports false; terminals never deliver
// key-up events, so releases are synthesized by the frame boundary.
func (t *TermInput) IsActionJustReleased(string) bool {
	return false
}

// IsMousePressed reports whether the button is currently held.
func (t *TermInput) IsMousePressed(button int) bool {
	if button < 0 || button >= input.MouseButtons {
		return false
	}
	return t.buttons[button]
}

// PointerPosition returns the last pointer position in world units.
func (t *TermInput) PointerPosition() (float64, float64) {
	return t.pointerX, t.pointerY
}
