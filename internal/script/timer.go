package script

import "github.com/pixelcart/pixelcart/internal/cart"

// Timer replays a literal action list after a delay. The action list and
// the execution context are captured at creation, so the actions run
// against the node and scene that scheduled them even if the router has
// since rebound its context elsewhere.
//
// This is deliberately a different facility from the router's timers:
// interpreter timers say "run this literal list later", router timers say
// "notify via on.timer later". The two firing contracts stay separate.
type Timer struct {
	id       string
	duration float64 // Milliseconds
	elapsed  float64
	actions  []cart.Action
	ctx      Context // Captured by value; shared maps stay shared
	stopped  bool
}
