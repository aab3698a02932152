package script

import (
	"testing"

	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/clock"
)

// recordingAudio captures forwarded audio calls.
type recordingAudio struct {
	sfx    []string
	music  []string
	stops  int
	volume float64
}

func (a *recordingAudio) PlaySfx(id string, volume float64) {
	a.sfx = append(a.sfx, id)
	a.volume = volume
}

func (a *recordingAudio) PlayMusic(id string, loop bool, volume float64) {
	a.music = append(a.music, id)
}

func (a *recordingAudio) StopMusic() { a.stops++ }

func newTestContext() (*Context, *cart.Node) {
	node := &cart.Node{
		ID:        "hero",
		Type:      "sprite",
		Transform: cart.DefaultTransform(),
		Visible:   true,
		Params:    map[string]any{"hp": 10.0},
	}
	return &Context{
		Node:    node,
		Clock:   clock.New(60, 42),
		Vars:    map[string]any{},
		SceneID: "main",
		Nodes:   map[string]*cart.Node{"hero": node},
	}, node
}

func action(t *testing.T, doc string) cart.Action {
	t.Helper()
	full := `{"id":"x","startScene":"s","scenes":[{"id":"s","nodes":[{"id":"n","triggers":[{"event":"e","actions":[` + doc + `]}]}]}]}`
	c, err := cart.Parse([]byte(full), ".json")
	if err != nil {
		t.Fatalf("parse action %s: %v", doc, err)
	}
	return c.Scenes[0].Nodes[0].Triggers[0].Actions[0]
}

func TestSetVarAndIncVar(t *testing.T) {
	in := New(nil)
	ctx, _ := newTestContext()

	in.Execute(action(t, `{"type":"setVar","params":{"variable":"score","value":50}}`), ctx)
	if v := ctx.Vars["score"]; v != 50.0 {
		t.Errorf("score = %#v, want 50", v)
	}

	in.Execute(action(t, `{"type":"incVar","params":{"variable":"score","amount":10}}`), ctx)
	if v := ctx.Vars["score"]; v != 60.0 {
		t.Errorf("score = %#v, want 60", v)
	}
}

func TestIncVarNonNumericIsNoOp(t *testing.T) {
	in := New(nil)
	ctx, _ := newTestContext()
	ctx.Vars["name"] = "player"

	in.Execute(action(t, `{"type":"incVar","params":{"variable":"name","amount":1}}`), ctx)
	if v := ctx.Vars["name"]; v != "player" {
		t.Errorf("value changed on type mismatch: %#v", v)
	}
}

func TestConditionalBranch(t *testing.T) {
	// if(score<100){incVar score+10}else{setVar flag="maxScore"}
	branch := `{"type":"if","params":{
		"conditions":[{"kind":"less","variable":"score","value":100}],
		"then":[{"type":"incVar","params":{"variable":"score","amount":10}}],
		"else":[{"type":"setVar","params":{"variable":"flag","value":"maxScore"}}]}}`

	in := New(nil)
	ctx, _ := newTestContext()
	ctx.Vars["score"] = 50.0
	in.Execute(action(t, branch), ctx)
	if v := ctx.Vars["score"]; v != 60.0 {
		t.Errorf("score = %#v, want 60", v)
	}
	if _, set := ctx.Vars["flag"]; set {
		t.Error("flag should be unset on the then branch")
	}

	ctx2, _ := newTestContext()
	ctx2.Vars["score"] = 150.0
	in2 := New(nil)
	in2.Execute(action(t, branch), ctx2)
	if v := ctx2.Vars["score"]; v != 150.0 {
		t.Errorf("score = %#v, want unchanged 150", v)
	}
	if v := ctx2.Vars["flag"]; v != "maxScore" {
		t.Errorf("flag = %#v, want maxScore", v)
	}
}

func TestActionLevelConditionsGate(t *testing.T) {
	in := New(nil)
	ctx, _ := newTestContext()
	ctx.Vars["ready"] = false

	gated := action(t, `{"type":"setVar","params":{"variable":"x","value":1},
		"conditions":[{"kind":"equals","variable":"ready","value":true}]}`)
	in.Execute(gated, ctx)
	if _, set := ctx.Vars["x"]; set {
		t.Error("gated action ran with a false condition")
	}

	ctx.Vars["ready"] = true
	in.Execute(gated, ctx)
	if ctx.Vars["x"] != 1.0 {
		t.Error("gated action did not run with a true condition")
	}
}

func TestRandomIntDeterminism(t *testing.T) {
	run := func() []any {
		in := New(nil)
		ctx, _ := newTestContext() // Seed 42 inside
		var out []any
		for i := 0; i < 20; i++ {
			in.Execute(action(t, `{"type":"randomInt","params":{"variable":"roll","min":1,"max":100}}`), ctx)
			out = append(out, ctx.Vars["roll"])
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("call %d: %v != %v", i, a[i], b[i])
		}
		v := a[i].(float64)
		if v < 1 || v > 100 {
			t.Fatalf("roll %v out of [1,100]", v)
		}
	}
}

func TestGotoSceneWritesReservedVariable(t *testing.T) {
	in := New(nil)
	ctx, _ := newTestContext()

	in.Execute(action(t, `{"type":"gotoScene","params":{"scene":"next"}}`), ctx)
	if v := ctx.Vars[NextSceneVar]; v != "next" {
		t.Errorf("%s = %#v, want next", NextSceneVar, v)
	}
	// The interpreter itself must not touch the scene id.
	if ctx.SceneID != "main" {
		t.Errorf("scene id changed to %q", ctx.SceneID)
	}
}

func TestSpawnAndDespawn(t *testing.T) {
	in := New(nil)
	ctx, hero := newTestContext()

	in.Execute(action(t, `{"type":"spawn","params":{"node":{"id":"pet","type":"star","params":{"glyph":"*"}}}}`), ctx)

	pet := ctx.Nodes["pet"]
	if pet == nil {
		t.Fatal("spawned node not in scene table")
	}
	if pet.ParentID != "hero" {
		t.Errorf("parent id = %q, want hero", pet.ParentID)
	}
	if len(hero.Children) != 1 || hero.Children[0] != pet {
		t.Error("spawned node not wired into parent children")
	}

	in.Execute(action(t, `{"type":"despawn","params":{"target":"pet"}}`), ctx)
	if ctx.Nodes["pet"] != nil {
		t.Error("despawned node still in scene table")
	}
	if len(hero.Children) != 0 {
		t.Error("despawned node still in parent children")
	}
}

func TestDespawnRemovesSubtree(t *testing.T) {
	in := New(nil)
	ctx, _ := newTestContext()

	in.Execute(action(t, `{"type":"spawn","params":{"node":
		{"id":"parent","children":[{"id":"child"}]}}}`), ctx)
	if ctx.Nodes["child"] == nil {
		t.Fatal("spawned child not indexed")
	}

	in.Execute(action(t, `{"type":"despawn","params":{"target":"parent"}}`), ctx)
	if ctx.Nodes["child"] != nil {
		t.Error("descendant survived subtree despawn")
	}
}

func TestUnknownActionSkippedSiblingsRun(t *testing.T) {
	in := New(nil)
	ctx, _ := newTestContext()

	actions := []cart.Action{
		action(t, `{"type":"warp","params":{}}`),
		action(t, `{"type":"setVar","params":{"variable":"after","value":true}}`),
	}
	in.ExecuteAll(actions, ctx)
	if ctx.Vars["after"] != true {
		t.Error("sibling after unknown action did not run")
	}
}

func TestAudioForwarding(t *testing.T) {
	in := New(nil)
	ctx, _ := newTestContext()
	audio := &recordingAudio{}
	ctx.Audio = audio

	in.Execute(action(t, `{"type":"playSfx","params":{"sound":"blip","volume":0.5}}`), ctx)
	in.Execute(action(t, `{"type":"playMusic","params":{"track":"theme","loop":true}}`), ctx)
	in.Execute(action(t, `{"type":"stopMusic"}`), ctx)

	if len(audio.sfx) != 1 || audio.sfx[0] != "blip" || audio.volume != 0.5 {
		t.Errorf("sfx not forwarded verbatim: %v vol=%v", audio.sfx, audio.volume)
	}
	if len(audio.music) != 1 || audio.music[0] != "theme" {
		t.Errorf("music not forwarded: %v", audio.music)
	}
	if audio.stops != 1 {
		t.Errorf("stops = %d, want 1", audio.stops)
	}
}

func TestTimerCorrectness(t *testing.T) {
	in := New(nil)
	ctx, _ := newTestContext()

	in.Execute(action(t, `{"type":"startTimer","params":{"id":"t1","duration":1000,
		"actions":[{"type":"setVar","params":{"variable":"x","value":true}}]}}`), ctx)

	in.Update(999)
	if _, set := ctx.Vars["x"]; set {
		t.Error("timer fired before its duration elapsed")
	}

	in.Update(1)
	if ctx.Vars["x"] != true {
		t.Error("timer did not fire at its duration")
	}
	if in.LiveTimers() != 0 {
		t.Error("fired timer not removed")
	}
}

func TestStopTimerCancels(t *testing.T) {
	in := New(nil)
	ctx, _ := newTestContext()

	in.Execute(action(t, `{"type":"startTimer","params":{"id":"t1","duration":100,
		"actions":[{"type":"setVar","params":{"variable":"x","value":true}}]}}`), ctx)
	in.Execute(action(t, `{"type":"stopTimer","params":{"id":"t1"}}`), ctx)

	in.Update(200)
	if _, set := ctx.Vars["x"]; set {
		t.Error("cancelled timer fired")
	}
}

func TestStartTimerCollidingIDReplaces(t *testing.T) {
	in := New(nil)
	ctx, _ := newTestContext()

	in.Execute(action(t, `{"type":"startTimer","params":{"id":"t1","duration":100,
		"actions":[{"type":"setVar","params":{"variable":"first","value":true}}]}}`), ctx)
	in.Update(60) // Partway through the first timer

	in.Execute(action(t, `{"type":"startTimer","params":{"id":"t1","duration":100,
		"actions":[{"type":"setVar","params":{"variable":"second","value":true}}]}}`), ctx)

	in.Update(60) // Would have fired the first timer; replacement starts fresh
	if _, set := ctx.Vars["first"]; set {
		t.Error("replaced timer fired")
	}
	if _, set := ctx.Vars["second"]; set {
		t.Error("replacement fired early")
	}

	in.Update(40)
	if ctx.Vars["second"] != true {
		t.Error("replacement did not fire at its own duration")
	}
}

func TestTimerCapturedContext(t *testing.T) {
	in := New(nil)
	ctx, hero := newTestContext()

	in.Execute(action(t, `{"type":"startTimer","params":{"id":"t1","duration":50,
		"actions":[{"type":"tween","params":{"property":"transform.x","to":5,"duration":10}}]}}`), ctx)

	// Rebind the live context to a different node; the timer must still
	// target the node captured at schedule time.
	other := &cart.Node{ID: "other", Transform: cart.DefaultTransform()}
	ctx.Nodes["other"] = other
	ctx.Node = other

	in.Update(50) // Fires, registers tween against hero
	in.Update(10) // Completes the tween

	if hero.Transform.X != 5 {
		t.Errorf("hero.x = %v, want 5 (captured context lost)", hero.Transform.X)
	}
	if other.Transform.X != 0 {
		t.Errorf("other.x = %v, want 0", other.Transform.X)
	}
}

func TestTimerChaining(t *testing.T) {
	// A timer that schedules another timer: the new one must not advance
	// during the Update that fired its parent.
	in := New(nil)
	ctx, _ := newTestContext()

	in.Execute(action(t, `{"type":"startTimer","params":{"id":"outer","duration":100,
		"actions":[{"type":"startTimer","params":{"id":"inner","duration":100,
			"actions":[{"type":"setVar","params":{"variable":"done","value":true}}]}}]}}`), ctx)

	in.Update(100)
	if _, set := ctx.Vars["done"]; set {
		t.Error("chained timer fired in the same Update")
	}
	in.Update(99)
	if _, set := ctx.Vars["done"]; set {
		t.Error("chained timer fired early")
	}
	in.Update(1)
	if ctx.Vars["done"] != true {
		t.Error("chained timer did not fire")
	}
}
