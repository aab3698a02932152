// Package cart defines the cartridge data model: the declarative document
// describing a game's scenes, nodes, variables, and trigger scripts. It
// owns loading (JSON and YAML), load-time validation, and node
// construction. Execution lives elsewhere; this package is data.
package cart

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Transform2D holds a node's position, scale, rotation, skew, and alpha.
// Tweens write through these fields via dotted property paths.
type Transform2D struct {
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	ScaleX   float64 `json:"scaleX" yaml:"scaleX"`
	ScaleY   float64 `json:"scaleY" yaml:"scaleY"`
	Rotation float64 `json:"rotation" yaml:"rotation"`
	SkewX    float64 `json:"skewX" yaml:"skewX"`
	SkewY    float64 `json:"skewY" yaml:"skewY"`
	Alpha    float64 `json:"alpha" yaml:"alpha"`
}

// DefaultTransform returns the identity transform.
func DefaultTransform() Transform2D {
	return Transform2D{ScaleX: 1, ScaleY: 1, Alpha: 1}
}

// UnmarshalJSON applies identity defaults for omitted fields.
func (t *Transform2D) UnmarshalJSON(data []byte) error {
	type alias Transform2D
	tmp := alias(DefaultTransform())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*t = Transform2D(tmp)
	return nil
}

// UnmarshalYAML applies identity defaults for omitted fields.
func (t *Transform2D) UnmarshalYAML(value *yaml.Node) error {
	type alias Transform2D
	tmp := alias(DefaultTransform())
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*t = Transform2D(tmp)
	return nil
}

// Trigger binds a named event to an ordered action list. Triggers are
// immutable once loaded.
type Trigger struct {
	Event   string   `json:"event" yaml:"event"`
	Actions []Action `json:"actions" yaml:"actions"`
}

// Node is a scene entity: a uniquely identified element of the scene tree
// with a transform, owned children, and trigger scripts. The parent link
// is a non-owning id so destruction never traverses upward.
type Node struct {
	ID        string         `json:"id" yaml:"id"`
	Type      string         `json:"type" yaml:"type"`
	Transform Transform2D    `json:"transform" yaml:"transform"`
	Visible   bool           `json:"visible" yaml:"visible"`
	Params    map[string]any `json:"params" yaml:"params"`
	Children  []*Node        `json:"children" yaml:"children"`
	Triggers  []Trigger      `json:"triggers" yaml:"triggers"`

	// ParentID is filled in when the scene tree is indexed; it is not
	// part of the document format.
	ParentID string `json:"-" yaml:"-"`
}

// UnmarshalJSON decodes a node with defaults: visible true, identity
// transform.
func (n *Node) UnmarshalJSON(data []byte) error {
	type alias Node
	tmp := alias{Visible: true, Transform: DefaultTransform()}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*n = Node(tmp)
	return nil
}

// UnmarshalYAML decodes a node with the same defaults as JSON.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	type alias Node
	tmp := alias{Visible: true, Transform: DefaultTransform()}
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*n = Node(tmp)
	return nil
}

// Size returns the node's hit-test extents from its params, if authored.
// The second result reports whether a size was supplied.
func (n *Node) Size() (w, h float64, ok bool) {
	w, wok := Number(n.Params["width"])
	h, hok := Number(n.Params["height"])
	if !wok || !hok {
		return 0, 0, false
	}
	return w, h, true
}

// Clone returns a deep copy of the node and its subtree for a live scene
// instance. Params are copied so tweens never write into the loaded
// document; triggers are immutable at runtime and stay shared.
func (n *Node) Clone() *Node {
	c := *n
	if n.Params != nil {
		c.Params = cloneValue(n.Params).(map[string]any)
	}
	c.Children = make([]*Node, len(n.Children))
	for i, child := range n.Children {
		c.Children[i] = child.Clone()
	}
	return &c
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(x))
		for i, e := range x {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return x
	}
}

// Walk visits the node and every descendant in depth-first declaration
// order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// BuildNode constructs a Node from a decoded document fragment, as used by
// spawn actions whose params carry an inline node definition. The fragment
// is round-tripped through JSON so nested triggers and actions decode
// exactly like a loaded cartridge.
func BuildNode(fragment map[string]any) (*Node, error) {
	data, err := json.Marshal(fragment)
	if err != nil {
		return nil, err
	}
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Number coerces a decoded scalar to float64. JSON numbers arrive as
// float64, YAML integers as int; both are accepted.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}
