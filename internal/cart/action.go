package cart

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Kind identifies an action variant. Unknown kinds survive loading so the
// interpreter can log and skip them without losing their siblings.
type Kind string

// Action kinds understood by the interpreter.
const (
	KindSetVar     Kind = "setVar"
	KindIncVar     Kind = "incVar"
	KindRandomInt  Kind = "randomInt"
	KindGotoScene  Kind = "gotoScene"
	KindSpawn      Kind = "spawn"
	KindDespawn    Kind = "despawn"
	KindTween      Kind = "tween"
	KindStartTimer Kind = "startTimer"
	KindStopTimer  Kind = "stopTimer"
	KindPlaySfx    Kind = "playSfx"
	KindPlayMusic  Kind = "playMusic"
	KindStopMusic  Kind = "stopMusic"
	KindIf         Kind = "if"
)

// ConditionKind selects a comparison operator.
type ConditionKind string

// Condition kinds.
const (
	CondEquals  ConditionKind = "equals"
	CondGreater ConditionKind = "greater"
	CondLess    ConditionKind = "less"
	CondExists  ConditionKind = "exists"
)

// Condition is a single guard over the shared variables map. A list of
// conditions is AND-combined.
type Condition struct {
	Kind     ConditionKind `json:"kind" yaml:"kind"`
	Variable string        `json:"variable" yaml:"variable"`
	Value    any           `json:"value,omitempty" yaml:"value,omitempty"`
}

// Action is a tagged variant: Kind names the variant and exactly one of
// the payload pointers is populated. The free-form params bag of the
// document format is decoded into the typed payload once, at load time,
// so handlers never re-validate shapes per execution.
type Action struct {
	Kind       Kind
	Conditions []Condition

	SetVar     *SetVarParams
	IncVar     *IncVarParams
	RandomInt  *RandomIntParams
	GotoScene  *GotoSceneParams
	Spawn      *SpawnParams
	Despawn    *DespawnParams
	Tween      *TweenParams
	StartTimer *StartTimerParams
	StopTimer  *StopTimerParams
	PlaySfx    *PlaySfxParams
	PlayMusic  *PlayMusicParams
	If         *IfParams
}

// SetVarParams assigns a literal value to a variable.
type SetVarParams struct {
	Variable string
	Value    any
}

// IncVarParams adds an amount to a numeric variable.
type IncVarParams struct {
	Variable string
	Amount   float64
}

// RandomIntParams stores a random integer drawn from the clock's RNG.
type RandomIntParams struct {
	Variable string
	Min      int
	Max      int
}

// GotoSceneParams requests a scene transition. The interpreter only writes
// the reserved __nextScene variable; the engine performs the swap.
type GotoSceneParams struct {
	Scene string
}

// SpawnParams wires a new node into the scene. The node document is kept
// raw; construction is delegated to BuildNode at execution time.
type SpawnParams struct {
	Node   map[string]any
	Parent string // Empty means the firing node
}

// DespawnParams removes a node from the scene.
type DespawnParams struct {
	Target string // Empty means the firing node
}

// TweenParams animates one numeric property over time.
type TweenParams struct {
	Target   string // Empty means the firing node
	Property string // Dotted path, e.g. "transform.x"
	To       float64
	Duration float64 // Milliseconds
	Easing   string
}

// StartTimerParams schedules a literal action list to run after a delay.
type StartTimerParams struct {
	ID       string
	Duration float64 // Milliseconds
	Actions  []Action
}

// StopTimerParams cancels a pending interpreter timer.
type StopTimerParams struct {
	ID string
}

// PlaySfxParams forwards a sound effect request to the audio collaborator.
type PlaySfxParams struct {
	Sound  string
	Volume float64
}

// PlayMusicParams forwards a music request to the audio collaborator.
type PlayMusicParams struct {
	Track  string
	Loop   bool
	Volume float64
}

// IfParams branches on AND-combined conditions. Both branches are ordinary
// action lists interpreted against the same context.
type IfParams struct {
	Conditions []Condition
	Then       []Action
	Else       []Action
}

// actionDoc is the document form of an action: a type tag, a free-form
// params map, and optional conditions.
type actionDoc struct {
	Type       string         `json:"type" yaml:"type"`
	Params     map[string]any `json:"params" yaml:"params"`
	Conditions []Condition    `json:"conditions" yaml:"conditions"`
}

// UnmarshalJSON decodes the document form into the tagged variant.
func (a *Action) UnmarshalJSON(data []byte) error {
	var doc actionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	a.fromDoc(doc)
	return nil
}

// UnmarshalYAML decodes the document form into the tagged variant.
func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	var doc actionDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	a.fromDoc(doc)
	return nil
}

// fromDoc populates the variant payload for the document's type tag.
// Missing params decode to zero values; validation reports them at load
// time and execution treats them as inert rather than failing.
func (a *Action) fromDoc(doc actionDoc) {
	*a = Action{Kind: Kind(doc.Type), Conditions: doc.Conditions}
	p := doc.Params

	switch a.Kind {
	case KindSetVar:
		a.SetVar = &SetVarParams{
			Variable: str(p, "variable"),
			Value:    normalizeValue(p["value"]),
		}
	case KindIncVar:
		amount, _ := Number(p["amount"])
		a.IncVar = &IncVarParams{Variable: str(p, "variable"), Amount: amount}
	case KindRandomInt:
		min, _ := Number(p["min"])
		max, _ := Number(p["max"])
		a.RandomInt = &RandomIntParams{
			Variable: str(p, "variable"),
			Min:      int(min),
			Max:      int(max),
		}
	case KindGotoScene:
		a.GotoScene = &GotoSceneParams{Scene: str(p, "scene")}
	case KindSpawn:
		node, _ := p["node"].(map[string]any)
		a.Spawn = &SpawnParams{Node: node, Parent: str(p, "parent")}
	case KindDespawn:
		a.Despawn = &DespawnParams{Target: str(p, "target")}
	case KindTween:
		to, _ := Number(p["to"])
		duration, _ := Number(p["duration"])
		a.Tween = &TweenParams{
			Target:   str(p, "target"),
			Property: str(p, "property"),
			To:       to,
			Duration: duration,
			Easing:   str(p, "easing"),
		}
	case KindStartTimer:
		duration, _ := Number(p["duration"])
		a.StartTimer = &StartTimerParams{
			ID:       str(p, "id"),
			Duration: duration,
			Actions:  actionList(p["actions"]),
		}
	case KindStopTimer:
		a.StopTimer = &StopTimerParams{ID: str(p, "id")}
	case KindPlaySfx:
		volume := numberOr(p, "volume", 1)
		a.PlaySfx = &PlaySfxParams{Sound: str(p, "sound"), Volume: volume}
	case KindPlayMusic:
		volume := numberOr(p, "volume", 1)
		loop, _ := p["loop"].(bool)
		a.PlayMusic = &PlayMusicParams{Track: str(p, "track"), Loop: loop, Volume: volume}
	case KindStopMusic:
		// No params.
	case KindIf:
		a.If = &IfParams{
			Conditions: conditionList(p["conditions"]),
			Then:       actionList(p["then"]),
			Else:       actionList(p["else"]),
		}
	default:
		// Unknown kind: Kind carries the raw tag, payload stays nil.
	}
}

// actionList decodes a nested list of action documents by round-tripping
// through JSON, reusing the Action unmarshaler recursively.
func actionList(v any) []Action {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	var actions []Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil
	}
	return actions
}

// conditionList decodes a nested list of condition documents.
func conditionList(v any) []Condition {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	var conds []Condition
	if err := json.Unmarshal(data, &conds); err != nil {
		return nil
	}
	for i := range conds {
		conds[i].Value = normalizeValue(conds[i].Value)
	}
	return conds
}

// str reads a string param, returning "" when absent or mistyped.
func str(p map[string]any, key string) string {
	s, _ := p[key].(string)
	return s
}

// numberOr reads a numeric param with a default.
func numberOr(p map[string]any, key string, def float64) float64 {
	if v, ok := Number(p[key]); ok {
		return v
	}
	return def
}

// normalizeValue maps decoded scalars to the runtime's variable types:
// float64, string, or bool. Integer forms collapse to float64 so equality
// checks behave the same for JSON and YAML sources.
func normalizeValue(v any) any {
	if n, ok := Number(v); ok {
		return n
	}
	switch v.(type) {
	case string, bool, nil:
		return v
	default:
		return v
	}
}
