package cart

import "fmt"

// Severity classifies a validation finding. Errors mean the cartridge will
// not behave as authored; warnings mean execution degrades fail-soft (the
// runtime logs and no-ops the offending piece).
type Severity string

// Severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding.
type Issue struct {
	Severity Severity
	Scene    string
	Node     string
	Message  string
}

// String formats the issue for CLI output.
func (i Issue) String() string {
	where := i.Scene
	if i.Node != "" {
		where += "/" + i.Node
	}
	if where != "" {
		return fmt.Sprintf("%s: %s: %s", i.Severity, where, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Severity, i.Message)
}

// knownEasings mirrors the interpreter's easing table. Unknown names fall
// back to linear at runtime, so they are warnings here.
var knownEasings = map[string]bool{
	"": true, "linear": true, "easeIn": true, "easeOut": true, "easeInOut": true,
}

// Validate checks a loaded cartridge for structural problems: duplicate
// ids, unknown action kinds, empty references, dangling scene targets.
// Validation happens once at load so execution never re-checks shapes.
func Validate(c *Cartridge) []Issue {
	var issues []Issue
	add := func(sev Severity, scene, node, format string, args ...any) {
		issues = append(issues, Issue{
			Severity: sev,
			Scene:    scene,
			Node:     node,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if c.ID == "" {
		add(SeverityError, "", "", "cartridge has no id")
	}
	if len(c.Scenes) == 0 {
		add(SeverityError, "", "", "cartridge has no scenes")
	}

	sceneIDs := make(map[string]bool)
	for i := range c.Scenes {
		s := &c.Scenes[i]
		if s.ID == "" {
			add(SeverityError, "", "", "scene %d has no id", i)
			continue
		}
		if sceneIDs[s.ID] {
			add(SeverityError, s.ID, "", "duplicate scene id")
		}
		sceneIDs[s.ID] = true
	}

	if c.StartScene == "" {
		add(SeverityError, "", "", "cartridge has no startScene")
	} else if !sceneIDs[c.StartScene] {
		add(SeverityError, "", "", "startScene %q does not exist", c.StartScene)
	}

	for i := range c.Scenes {
		s := &c.Scenes[i]
		nodeIDs := make(map[string]bool)
		s.Walk(func(n *Node) {
			if n.ID == "" {
				add(SeverityError, s.ID, "", "node has no id")
				return
			}
			if nodeIDs[n.ID] {
				add(SeverityError, s.ID, n.ID, "duplicate node id")
			}
			nodeIDs[n.ID] = true

			for _, trig := range n.Triggers {
				if trig.Event == "" {
					add(SeverityError, s.ID, n.ID, "trigger has no event name")
				}
				validateActions(trig.Actions, s.ID, n.ID, sceneIDs, add)
			}
		})
	}

	return issues
}

// addFunc matches the closure signature used throughout validation.
type addFunc func(sev Severity, scene, node, format string, args ...any)

// validateActions checks an action list, recursing into if branches and
// timer payloads.
func validateActions(actions []Action, scene, node string, sceneIDs map[string]bool, add addFunc) {
	for _, a := range actions {
		validateConditions(a.Conditions, scene, node, add)

		switch a.Kind {
		case KindSetVar:
			if a.SetVar.Variable == "" {
				add(SeverityWarning, scene, node, "setVar without a variable name")
			}
		case KindIncVar:
			if a.IncVar.Variable == "" {
				add(SeverityWarning, scene, node, "incVar without a variable name")
			}
		case KindRandomInt:
			if a.RandomInt.Variable == "" {
				add(SeverityWarning, scene, node, "randomInt without a variable name")
			}
		case KindGotoScene:
			if a.GotoScene.Scene == "" {
				add(SeverityWarning, scene, node, "gotoScene without a target scene")
			} else if !sceneIDs[a.GotoScene.Scene] {
				add(SeverityError, scene, node, "gotoScene targets unknown scene %q", a.GotoScene.Scene)
			}
		case KindSpawn:
			if a.Spawn.Node == nil {
				add(SeverityWarning, scene, node, "spawn without a node definition")
			} else if _, err := BuildNode(a.Spawn.Node); err != nil {
				add(SeverityError, scene, node, "spawn node definition does not decode: %v", err)
			}
		case KindTween:
			if a.Tween.Property == "" {
				add(SeverityWarning, scene, node, "tween without a property path")
			}
			if a.Tween.Duration <= 0 {
				add(SeverityWarning, scene, node, "tween with non-positive duration")
			}
			if !knownEasings[a.Tween.Easing] {
				add(SeverityWarning, scene, node, "unknown easing %q falls back to linear", a.Tween.Easing)
			}
		case KindStartTimer:
			if a.StartTimer.ID == "" {
				add(SeverityWarning, scene, node, "startTimer without an id")
			}
			if a.StartTimer.Duration <= 0 {
				add(SeverityWarning, scene, node, "startTimer with non-positive duration")
			}
			validateActions(a.StartTimer.Actions, scene, node, sceneIDs, add)
		case KindStopTimer:
			if a.StopTimer.ID == "" {
				add(SeverityWarning, scene, node, "stopTimer without an id")
			}
		case KindPlaySfx:
			if a.PlaySfx.Sound == "" {
				add(SeverityWarning, scene, node, "playSfx without a sound id")
			}
		case KindPlayMusic:
			if a.PlayMusic.Track == "" {
				add(SeverityWarning, scene, node, "playMusic without a track id")
			}
		case KindIf:
			validateConditions(a.If.Conditions, scene, node, add)
			validateActions(a.If.Then, scene, node, sceneIDs, add)
			validateActions(a.If.Else, scene, node, sceneIDs, add)
		case KindDespawn, KindStopMusic:
			// Nothing to check.
		default:
			add(SeverityWarning, scene, node, "unknown action type %q will be skipped", a.Kind)
		}
	}
}

func validateConditions(conds []Condition, scene, node string, add addFunc) {
	for _, cond := range conds {
		switch cond.Kind {
		case CondEquals, CondGreater, CondLess, CondExists:
			if cond.Variable == "" {
				add(SeverityWarning, scene, node, "condition without a variable name")
			}
		default:
			add(SeverityWarning, scene, node, "unknown condition kind %q never matches", cond.Kind)
		}
	}
}
