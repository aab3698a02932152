package script

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/pixelcart/pixelcart/internal/cart"
)

// Interp executes actions and advances the time-extended effects they
// register. Tweens and timers are visited in insertion order on every
// Update call, which keeps replays reproducible.
type Interp struct {
	logger *log.Logger

	tweens  []*Tween
	timers  []*Timer
	tweenID uint64
}

// New creates an interpreter. A nil logger gets a default stderr logger.
func New(logger *log.Logger) *Interp {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "script"})
	}
	return &Interp{logger: logger}
}

// ExecuteAll runs an action list in declared order. A failing action
// never prevents its siblings from running.
func (in *Interp) ExecuteAll(actions []cart.Action, ctx *Context) {
	for i := range actions {
		in.Execute(actions[i], ctx)
	}
}

// Execute runs one action against the context. Actions with conditions
// run only when every condition holds. Unknown or malformed actions are
// logged and skipped.
func (in *Interp) Execute(a cart.Action, ctx *Context) {
	if !EvalConditions(a.Conditions, ctx.Vars) {
		return
	}

	switch a.Kind {
	case cart.KindSetVar:
		in.execSetVar(a.SetVar, ctx)
	case cart.KindIncVar:
		in.execIncVar(a.IncVar, ctx)
	case cart.KindRandomInt:
		in.execRandomInt(a.RandomInt, ctx)
	case cart.KindGotoScene:
		in.execGotoScene(a.GotoScene, ctx)
	case cart.KindSpawn:
		in.execSpawn(a.Spawn, ctx)
	case cart.KindDespawn:
		in.execDespawn(a.Despawn, ctx)
	case cart.KindTween:
		in.execTween(a.Tween, ctx)
	case cart.KindStartTimer:
		in.execStartTimer(a.StartTimer, ctx)
	case cart.KindStopTimer:
		in.execStopTimer(a.StopTimer)
	case cart.KindPlaySfx:
		in.execPlaySfx(a.PlaySfx, ctx)
	case cart.KindPlayMusic:
		in.execPlayMusic(a.PlayMusic, ctx)
	case cart.KindStopMusic:
		if ctx.Audio != nil {
			ctx.Audio.StopMusic()
		}
	case cart.KindIf:
		in.execIf(a.If, ctx)
	default:
		in.logger.Warn("unknown action type, skipping", "type", a.Kind)
	}
}

func (in *Interp) execSetVar(p *cart.SetVarParams, ctx *Context) {
	if p == nil || p.Variable == "" {
		in.logger.Warn("setVar without a variable name")
		return
	}
	ctx.Vars[p.Variable] = p.Value
}

func (in *Interp) execIncVar(p *cart.IncVarParams, ctx *Context) {
	if p == nil || p.Variable == "" {
		in.logger.Warn("incVar without a variable name")
		return
	}
	// Type mismatch is a no-op: the value stays untouched.
	current, ok := cart.Number(ctx.Vars[p.Variable])
	if !ok {
		return
	}
	ctx.Vars[p.Variable] = current + p.Amount
}

func (in *Interp) execRandomInt(p *cart.RandomIntParams, ctx *Context) {
	if p == nil || p.Variable == "" {
		in.logger.Warn("randomInt without a variable name")
		return
	}
	if ctx.Clock == nil {
		return
	}
	// Drawing from the clock's RNG keeps random scripts replayable.
	ctx.Vars[p.Variable] = float64(ctx.Clock.RNG().IntN(p.Min, p.Max))
}

func (in *Interp) execGotoScene(p *cart.GotoSceneParams, ctx *Context) {
	if p == nil || p.Scene == "" {
		in.logger.Warn("gotoScene without a target scene")
		return
	}
	// The interpreter never transitions; the engine observes the
	// reserved variable after the tick and performs the swap.
	ctx.Vars[NextSceneVar] = p.Scene
}

func (in *Interp) execSpawn(p *cart.SpawnParams, ctx *Context) {
	if p == nil || p.Node == nil {
		in.logger.Warn("spawn without a node definition")
		return
	}

	node, err := cart.BuildNode(p.Node)
	if err != nil || node.ID == "" {
		in.logger.Warn("spawn node definition does not decode", "error", err)
		return
	}
	if _, exists := ctx.Nodes[node.ID]; exists {
		in.logger.Warn("spawn id collides with a live node", "id", node.ID)
		return
	}

	parent := ctx.Node
	if p.Parent != "" {
		parent = ctx.Nodes[p.Parent]
	}
	if parent == nil {
		return
	}

	node.ParentID = parent.ID
	parent.Children = append(parent.Children, node)
	node.Walk(func(n *cart.Node) {
		ctx.Nodes[n.ID] = n
	})
}

func (in *Interp) execDespawn(p *cart.DespawnParams, ctx *Context) {
	target := ctx.Node
	if p != nil && p.Target != "" {
		target = ctx.Nodes[p.Target]
	}
	if target == nil {
		return
	}

	// Drop the whole owned subtree from the lookup table, then detach
	// from the parent's children. Triggers stay registered until the
	// caller deregisters them; destruction never cascades upward.
	target.Walk(func(n *cart.Node) {
		delete(ctx.Nodes, n.ID)
	})

	parent := ctx.Nodes[target.ParentID]
	if parent == nil {
		return
	}
	for i, child := range parent.Children {
		if child == target {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
}

func (in *Interp) execTween(p *cart.TweenParams, ctx *Context) {
	if p == nil || p.Property == "" {
		in.logger.Warn("tween without a property path")
		return
	}

	target := any(ctx.Node)
	if p.Target != "" {
		n := ctx.Nodes[p.Target]
		if n == nil {
			return
		}
		target = n
	}
	if target == nil {
		return
	}

	// The start value is resolved now; application happens on later
	// Update calls. An unresolvable path is silently inert.
	start, ok := ResolveNumber(target, p.Property)
	if !ok {
		return
	}

	in.tweenID++
	in.tweens = append(in.tweens, &Tween{
		id:       in.tweenID,
		target:   target,
		property: p.Property,
		start:    start,
		end:      p.To,
		duration: p.Duration,
		easing:   EasingByName(p.Easing),
	})
}

func (in *Interp) execStartTimer(p *cart.StartTimerParams, ctx *Context) {
	if p == nil || p.ID == "" {
		in.logger.Warn("startTimer without an id")
		return
	}
	// A colliding id replaces the existing timer.
	for _, t := range in.timers {
		if t.id == p.ID && !t.stopped {
			t.stopped = true
		}
	}
	in.timers = append(in.timers, &Timer{
		id:       p.ID,
		duration: p.Duration,
		actions:  p.Actions,
		ctx:      *ctx,
	})
}

func (in *Interp) execStopTimer(p *cart.StopTimerParams) {
	if p == nil || p.ID == "" {
		return
	}
	in.StopTimer(p.ID)
}

// StopTimer cancels a pending timer by id. Cancellation is immediate
// removal from the live set before its next visit.
func (in *Interp) StopTimer(id string) {
	for _, t := range in.timers {
		if t.id == id {
			t.stopped = true
		}
	}
}

func (in *Interp) execPlaySfx(p *cart.PlaySfxParams, ctx *Context) {
	if p == nil || ctx.Audio == nil {
		return
	}
	ctx.Audio.PlaySfx(p.Sound, p.Volume)
}

func (in *Interp) execPlayMusic(p *cart.PlayMusicParams, ctx *Context) {
	if p == nil || ctx.Audio == nil {
		return
	}
	ctx.Audio.PlayMusic(p.Track, p.Loop, p.Volume)
}

func (in *Interp) execIf(p *cart.IfParams, ctx *Context) {
	if p == nil {
		return
	}
	// Branches recurse against the same context with no depth limit.
	if EvalConditions(p.Conditions, ctx.Vars) {
		in.ExecuteAll(p.Then, ctx)
	} else {
		in.ExecuteAll(p.Else, ctx)
	}
}

// Update advances every live tween, then every live timer, in insertion
// order. Tweens write their eased value through the property path and
// are removed at full progress. Timers that elapse synchronously replay
// their captured action list with their captured context, then are
// removed. Effects created during this call are not advanced until the
// next one.
func (in *Interp) Update(dt float64) {
	// Tweens first. Nothing a tween does can register new effects, so a
	// plain filter pass suffices.
	live := in.tweens[:0]
	for _, t := range in.tweens {
		if t.done {
			continue
		}
		if t.advance(dt) {
			t.done = true
			continue
		}
		live = append(live, t)
	}
	in.tweens = live

	// Timers may fire actions that register new timers (appended past n,
	// untouched this pass) or cancel pending ones (stopped flag checked
	// before each visit).
	n := len(in.timers)
	for i := 0; i < n; i++ {
		t := in.timers[i]
		if t.stopped {
			continue
		}
		t.elapsed += dt
		if t.elapsed >= t.duration {
			t.stopped = true
			in.ExecuteAll(t.actions, &t.ctx)
		}
	}

	liveTimers := in.timers[:0]
	for _, t := range in.timers {
		if !t.stopped {
			liveTimers = append(liveTimers, t)
		}
	}
	in.timers = liveTimers
}

// Reset drops every live tween and timer. The engine calls this on scene
// transitions: captured contexts reference nodes of the outgoing scene.
func (in *Interp) Reset() {
	in.tweens = nil
	in.timers = nil
}

// LiveTweens returns the number of live tweens, for tests and metrics.
func (in *Interp) LiveTweens() int {
	return len(in.tweens)
}

// LiveTimers returns the number of pending timers.
func (in *Interp) LiveTimers() int {
	count := 0
	for _, t := range in.timers {
		if !t.stopped {
			count++
		}
	}
	return count
}
