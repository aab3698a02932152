package cart

// Scene is one screenful of the cartridge: an ordered list of root nodes.
// The scene owns its roots; every other node is owned by its parent.
type Scene struct {
	ID    string  `json:"id" yaml:"id"`
	Nodes []*Node `json:"nodes" yaml:"nodes"`
}

// Walk visits every node in the scene in depth-first declaration order.
func (s *Scene) Walk(visit func(*Node)) {
	for _, root := range s.Nodes {
		root.Walk(visit)
	}
}

// Clone returns a deep copy of the scene, for use as a live instance.
// Loading a scene mutates its nodes, so the engine never runs the
// document's own tree.
func (s *Scene) Clone() *Scene {
	c := &Scene{ID: s.ID, Nodes: make([]*Node, len(s.Nodes))}
	for i, n := range s.Nodes {
		c.Nodes[i] = n.Clone()
	}
	return c
}

// Index builds the id -> node lookup table for the live scene and fills in
// the non-owning ParentID back-references. Later duplicates do not
// overwrite earlier entries; validation reports them.
func (s *Scene) Index() map[string]*Node {
	nodes := make(map[string]*Node)
	for _, root := range s.Nodes {
		indexInto(root, "", nodes)
	}
	return nodes
}

func indexInto(n *Node, parentID string, nodes map[string]*Node) {
	n.ParentID = parentID
	if _, exists := nodes[n.ID]; !exists {
		nodes[n.ID] = n
	}
	for _, child := range n.Children {
		indexInto(child, n.ID, nodes)
	}
}

// Cartridge is the loaded, read-only document: metadata, the initial
// variables map, and the scene set.
type Cartridge struct {
	ID         string         `json:"id" yaml:"id"`
	Title      string         `json:"title" yaml:"title"`
	Author     string         `json:"author,omitempty" yaml:"author,omitempty"`
	StartScene string         `json:"startScene" yaml:"startScene"`
	Variables  map[string]any `json:"variables" yaml:"variables"`
	Scenes     []Scene        `json:"scenes" yaml:"scenes"`
}

// SceneByID returns the scene with the given id, or nil.
func (c *Cartridge) SceneByID(id string) *Scene {
	for i := range c.Scenes {
		if c.Scenes[i].ID == id {
			return &c.Scenes[i]
		}
	}
	return nil
}

// InitialVariables returns a fresh mutable copy of the cartridge's
// variable map with scalars normalized to float64/string/bool. Each run
// gets its own copy; the cartridge itself stays read-only.
func (c *Cartridge) InitialVariables() map[string]any {
	vars := make(map[string]any, len(c.Variables))
	for k, v := range c.Variables {
		vars[k] = normalizeValue(v)
	}
	return vars
}
