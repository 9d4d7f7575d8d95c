package model

// Resource is an independently addressable group of root nodes, e.g. one
// per compilation unit.
type Resource struct {
	Name  string   `json:"name"`
	Roots []NodeID `json:"roots"`
}

// Forest is an arena of nodes plus the resources grouping its roots.
// Matching only reads a forest; it is never modified by the engine.
type Forest struct {
	Nodes     []Node     `json:"nodes"`
	Resources []Resource `json:"resources"`
}

func NewForest() *Forest {
	return &Forest{}
}

func (f *Forest) AddNode(typeTag, label string) NodeID {
	id := NodeID(len(f.Nodes))
	f.Nodes = append(f.Nodes, Node{ID: id, TypeTag: typeTag, Label: label})
	return id
}

// SetAttr sets an attribute on an existing node.
func (f *Forest) SetAttr(id NodeID, key, value string) {
	n := &f.Nodes[id]
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[key] = value
}

func (f *Forest) AddChild(parent, child NodeID) {
	f.Nodes[parent].Children = append(f.Nodes[parent].Children, child)
}

func (f *Forest) AddReference(from, to NodeID) {
	f.Nodes[from].References = append(f.Nodes[from].References, to)
}

// AddResource appends a resource and returns its index.
func (f *Forest) AddResource(name string, roots ...NodeID) int {
	f.Resources = append(f.Resources, Resource{Name: name, Roots: roots})
	return len(f.Resources) - 1
}

func (f *Forest) Has(id NodeID) bool {
	return id >= 0 && int(id) < len(f.Nodes)
}

// Node returns the node for id, or nil when id is not part of the arena.
func (f *Forest) Node(id NodeID) *Node {
	if f == nil || !f.Has(id) {
		return nil
	}
	return &f.Nodes[id]
}

func (f *Forest) Ref(id NodeID) NodeRef {
	return NodeRef{Forest: f, ID: id}
}

func (f *Forest) Refs(ids []NodeID) []NodeRef {
	refs := make([]NodeRef, len(ids))
	for i, id := range ids {
		refs[i] = NodeRef{Forest: f, ID: id}
	}
	return refs
}

// Validate checks the arena for malformed structure: ids out of range,
// nodes contained more than once, containment cycles and dangling
// references or resource roots. A nil forest is treated as empty.
func (f *Forest) Validate() error {
	if f == nil {
		return nil
	}

	parent := make([]NodeID, len(f.Nodes))
	for i := range parent {
		parent[i] = NoNode
	}

	for i, n := range f.Nodes {
		if n.ID != NodeID(i) {
			return invalidf("node at index %d carries id %d", i, n.ID)
		}
		for _, c := range n.Children {
			if !f.Has(c) {
				return invalidf("node %d has child %d outside the forest", i, c)
			}
			if parent[c] != NoNode {
				return invalidf("node %d is contained by both %d and %d", c, parent[c], i)
			}
			parent[c] = NodeID(i)
		}
		for _, r := range n.References {
			if !f.Has(r) {
				return invalidf("node %d references %d outside the forest", i, r)
			}
		}
	}

	// Every node has at most one container, so following the parent chain
	// either ends at a root or loops.
	const (
		unvisited = iota
		onPath
		done
	)
	state := make([]uint8, len(f.Nodes))
	var path []NodeID
	for i := range f.Nodes {
		path = path[:0]
		cur := NodeID(i)
		for cur != NoNode && state[cur] == unvisited {
			state[cur] = onPath
			path = append(path, cur)
			cur = parent[cur]
		}
		if cur != NoNode && state[cur] == onPath {
			return invalidf("containment cycle through node %d", cur)
		}
		for _, p := range path {
			state[p] = done
		}
	}

	seenRoot := make(map[NodeID]string)
	for _, res := range f.Resources {
		for _, r := range res.Roots {
			if !f.Has(r) {
				return invalidf("resource %q has root %d outside the forest", res.Name, r)
			}
			if parent[r] != NoNode {
				return invalidf("root %d of resource %q is contained by node %d", r, res.Name, parent[r])
			}
			if other, ok := seenRoot[r]; ok {
				return invalidf("node %d is a root of both %q and %q", r, other, res.Name)
			}
			seenRoot[r] = res.Name
		}
	}

	return nil
}
