package model

// NodeID addresses a node inside the arena of a single Forest.
type NodeID int

// NoNode marks an absent side of a Match or an unset reference.
const NoNode NodeID = -1

type Node struct {
	ID         NodeID            `json:"id"`
	TypeTag    string            `json:"type"`
	Label      string            `json:"label"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []NodeID          `json:"children,omitempty"`
	References []NodeID          `json:"references,omitempty"`
}

// NodeRef is a read-only handle to a node of a forest. Strategies receive
// NodeRefs and may walk children and references through them.
type NodeRef struct {
	Forest *Forest
	ID     NodeID
}

func (r NodeRef) Valid() bool {
	return r.Forest != nil && r.Forest.Has(r.ID)
}

func (r NodeRef) node() *Node {
	if !r.Valid() {
		return nil
	}
	return &r.Forest.Nodes[r.ID]
}

func (r NodeRef) TypeTag() string {
	if n := r.node(); n != nil {
		return n.TypeTag
	}
	return ""
}

func (r NodeRef) Label() string {
	if n := r.node(); n != nil {
		return n.Label
	}
	return ""
}

func (r NodeRef) Attr(key string) (string, bool) {
	n := r.node()
	if n == nil {
		return "", false
	}
	v, ok := n.Attributes[key]
	return v, ok
}

func (r NodeRef) Attributes() map[string]string {
	if n := r.node(); n != nil {
		return n.Attributes
	}
	return nil
}

func (r NodeRef) Children() []NodeRef {
	n := r.node()
	if n == nil {
		return nil
	}
	return r.Forest.Refs(n.Children)
}

// References resolves the non-containment links of the node. Dangling ids
// resolve to invalid refs; Forest.Validate rejects them up front.
func (r NodeRef) References() []NodeRef {
	n := r.node()
	if n == nil {
		return nil
	}
	return r.Forest.Refs(n.References)
}
