package model

// Match pairs an optional left node with an optional right node. Left is
// NoNode for nodes only present on the right (added), Right is NoNode for
// nodes only present on the left (deleted). Submatches hold the
// correspondence of the children.
type Match struct {
	Left       NodeID   `json:"left"`
	Right      NodeID   `json:"right"`
	Submatches []*Match `json:"submatches,omitempty"`
}

func (m *Match) IsMatched() bool {
	return m.Left != NoNode && m.Right != NoNode
}

func (m *Match) IsLeftOnly() bool {
	return m.Left != NoNode && m.Right == NoNode
}

func (m *Match) IsRightOnly() bool {
	return m.Left == NoNode && m.Right != NoNode
}

// ResourcePair links a left resource with its right counterpart. Either side
// is nil for wholly removed or added resources.
type ResourcePair struct {
	Left  *Resource `json:"left,omitempty"`
	Right *Resource `json:"right,omitempty"`
}

// Comparison is the result of one matching run. Matches lists the top level
// matches of all resource pairs in pair order; PairMatches[i] is the slice of
// Matches seeded by ResourcePairs[i]. It is not modified after the engine
// returns it.
type Comparison struct {
	ID            string         `json:"id"`
	Left          *Forest        `json:"-"`
	Right         *Forest        `json:"-"`
	ResourcePairs []ResourcePair `json:"resource_pairs"`
	Matches       []*Match       `json:"matches"`
	PairMatches   [][]*Match     `json:"-"`
}

// Walk visits every match depth-first, parents before children, in stored
// order. depth is 0 for top level matches. Returning false from fn skips the
// submatches of that match.
func (c *Comparison) Walk(fn func(m *Match, depth int) bool) {
	WalkMatches(c.Matches, fn)
}

func WalkMatches(ms []*Match, fn func(m *Match, depth int) bool) {
	var walk func(ms []*Match, depth int)
	walk = func(ms []*Match, depth int) {
		for _, m := range ms {
			if fn(m, depth) {
				walk(m.Submatches, depth+1)
			}
		}
	}
	walk(ms, 0)
}
