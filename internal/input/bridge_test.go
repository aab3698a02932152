package input

import (
	"testing"

	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/clock"
	"github.com/pixelcart/pixelcart/internal/router"
	"github.com/pixelcart/pixelcart/internal/script"
)

// fakeManager is a scriptable polled input source.
type fakeManager struct {
	pressed map[string]bool
	mouse   [MouseButtons]bool
	x, y    float64
}

func (m *fakeManager) IsActionPressed(action string) bool      { return m.pressed[action] }
func (m *fakeManager) IsActionJustPressed(action string) bool  { return m.pressed[action] }
func (m *fakeManager) IsActionJustReleased(action string) bool { return false }
func (m *fakeManager) IsMousePressed(button int) bool          { return m.mouse[button] }
func (m *fakeManager) PointerPosition() (float64, float64)     { return m.x, m.y }

// countingNode fires a counter on every matching event.
func countingNode(id, event string) *cart.Node {
	return &cart.Node{
		ID:        id,
		Transform: cart.DefaultTransform(),
		Visible:   true,
		Triggers: []cart.Trigger{
			{
				Event: event,
				Actions: []cart.Action{
					{Kind: cart.KindIncVar, IncVar: &cart.IncVarParams{Variable: id, Amount: 1}},
				},
			},
		},
	}
}

func newTestBridge(event string) (*Bridge, *fakeManager, *router.Router, *script.Context) {
	interp := script.New(nil)
	r := router.New(interp, nil)
	mgr := &fakeManager{pressed: map[string]bool{}}
	b := New(mgr, r)

	ctx := &script.Context{
		Clock: clock.New(60, 1),
		Vars:  map[string]any{"n": 0.0},
		Nodes: map[string]*cart.Node{},
	}
	n := countingNode("n", event)
	ctx.Nodes["n"] = n
	r.RegisterNode(n, ctx)
	return b, mgr, r, ctx
}

func count(ctx *script.Context) float64 {
	v, _ := cart.Number(ctx.Vars["n"])
	return v
}

func TestHeldKeyEmitsSingleEvent(t *testing.T) {
	b, mgr, _, ctx := newTestBridge(router.EventKey)

	mgr.pressed[ActionPrimary] = true
	for i := 0; i < 5; i++ {
		b.Poll(ctx) // Held across five frames
	}
	if count(ctx) != 1 {
		t.Errorf("held key fired %v times, want 1", count(ctx))
	}

	mgr.pressed[ActionPrimary] = false
	b.Poll(ctx)
	mgr.pressed[ActionPrimary] = true
	b.Poll(ctx)
	if count(ctx) != 2 {
		t.Errorf("press after release fired %v times, want 2", count(ctx))
	}
}

func TestDistinctActionsAreIndependent(t *testing.T) {
	b, mgr, _, ctx := newTestBridge(router.EventKey)

	mgr.pressed[ActionLeft] = true
	b.Poll(ctx)
	mgr.pressed[ActionRight] = true
	b.Poll(ctx)
	if count(ctx) != 2 {
		t.Errorf("two distinct presses fired %v times, want 2", count(ctx))
	}
}

func TestSameFrameTransitionsAllEmit(t *testing.T) {
	b, mgr, _, ctx := newTestBridge(router.EventKey)

	mgr.pressed[ActionUp] = true
	mgr.pressed[ActionDown] = true
	mgr.pressed[ActionConfirm] = true
	b.Poll(ctx)
	if count(ctx) != 3 {
		t.Errorf("three same-frame presses fired %v times, want 3", count(ctx))
	}
}

func TestPointerEventCarriesPosition(t *testing.T) {
	b, mgr, _, ctx := newTestBridge(router.EventPointer)
	// Node sits at the origin with the default hit extent.

	mgr.x, mgr.y = 500, 500
	mgr.mouse[0] = true
	b.Poll(ctx)
	if count(ctx) != 0 {
		t.Error("press far from the node fired its pointer trigger")
	}

	mgr.mouse[0] = false
	b.Poll(ctx)
	mgr.x, mgr.y = 10, -10
	mgr.mouse[0] = true
	b.Poll(ctx)
	if count(ctx) != 1 {
		t.Errorf("press on the node fired %v times, want 1", count(ctx))
	}
}

func TestResetReArmsHeldInput(t *testing.T) {
	b, mgr, r, ctx := newTestBridge(router.EventKey)

	mgr.pressed[ActionPrimary] = true
	b.Poll(ctx)
	if count(ctx) != 1 {
		t.Fatalf("first press fired %v times, want 1", count(ctx))
	}

	// Scene transition: bridge and router both reset, input still held.
	b.Reset()
	r.Reset()
	r.RegisterNode(ctx.Nodes["n"], ctx)
	ctx.Vars["n"] = 0.0
	b.Poll(ctx)
	if count(ctx) != 1 {
		t.Errorf("held key after reset fired %v times, want 1", count(ctx))
	}
}

func TestReleaseAloneEmitsNoTrigger(t *testing.T) {
	b, mgr, _, ctx := newTestBridge(router.EventKey)

	mgr.pressed[ActionCancel] = true
	b.Poll(ctx)
	mgr.pressed[ActionCancel] = false
	b.Poll(ctx)
	if count(ctx) != 1 {
		t.Errorf("release re-fired the trigger: %v", count(ctx))
	}
}
