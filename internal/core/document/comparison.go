package document

import (
	"github.com/agenthands/hiermatch/internal/core/model"
)

type Status string

const (
	StatusMatched   Status = "matched"
	StatusLeftOnly  Status = "left_only"
	StatusRightOnly Status = "right_only"
)

type NodeRefDocument struct {
	ID    model.NodeID `json:"id" yaml:"id"`
	Type  string       `json:"type" yaml:"type"`
	Label string       `json:"label" yaml:"label"`
}

type MatchDocument struct {
	Status     Status           `json:"status" yaml:"status"`
	Left       *NodeRefDocument `json:"left,omitempty" yaml:"left,omitempty"`
	Right      *NodeRefDocument `json:"right,omitempty" yaml:"right,omitempty"`
	Submatches []MatchDocument  `json:"submatches,omitempty" yaml:"submatches,omitempty"`
}

type ResourcePairDocument struct {
	Left    string          `json:"left,omitempty" yaml:"left,omitempty"`
	Right   string          `json:"right,omitempty" yaml:"right,omitempty"`
	Matches []MatchDocument `json:"matches" yaml:"matches"`
}

type ComparisonDocument struct {
	ID            string                 `json:"id" yaml:"id"`
	ResourcePairs []ResourcePairDocument `json:"resource_pairs" yaml:"resource_pairs"`
}

// FromComparison renders a comparison with node labels resolved, grouped by
// resource pair.
func FromComparison(c *model.Comparison) *ComparisonDocument {
	doc := &ComparisonDocument{
		ID:            c.ID,
		ResourcePairs: make([]ResourcePairDocument, 0, len(c.ResourcePairs)),
	}
	for i, p := range c.ResourcePairs {
		rp := ResourcePairDocument{}
		if p.Left != nil {
			rp.Left = p.Left.Name
		}
		if p.Right != nil {
			rp.Right = p.Right.Name
		}
		var ms []*model.Match
		if i < len(c.PairMatches) {
			ms = c.PairMatches[i]
		}
		rp.Matches = matchDocuments(c, ms)
		doc.ResourcePairs = append(doc.ResourcePairs, rp)
	}
	return doc
}

func matchDocuments(c *model.Comparison, ms []*model.Match) []MatchDocument {
	docs := make([]MatchDocument, 0, len(ms))
	for _, m := range ms {
		d := MatchDocument{
			Left:  nodeRef(c.Left, m.Left),
			Right: nodeRef(c.Right, m.Right),
		}
		switch {
		case m.IsMatched():
			d.Status = StatusMatched
		case m.IsLeftOnly():
			d.Status = StatusLeftOnly
		default:
			d.Status = StatusRightOnly
		}
		if len(m.Submatches) > 0 {
			d.Submatches = matchDocuments(c, m.Submatches)
		}
		docs = append(docs, d)
	}
	return docs
}

func nodeRef(f *model.Forest, id model.NodeID) *NodeRefDocument {
	n := f.Node(id)
	if n == nil {
		return nil
	}
	return &NodeRefDocument{ID: id, Type: n.TypeTag, Label: n.Label}
}
