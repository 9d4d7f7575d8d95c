package summary

import (
	"github.com/agenthands/hiermatch/internal/core/model"
)

type Counts struct {
	Matched   int `json:"matched"`
	LeftOnly  int `json:"left_only"`
	RightOnly int `json:"right_only"`
}

func (c Counts) Total() int {
	return c.Matched + c.LeftOnly + c.RightOnly
}

// Changed reports whether any node exists on one side only.
func (c Counts) Changed() bool {
	return c.LeftOnly > 0 || c.RightOnly > 0
}

func (c *Counts) add(m *model.Match) {
	switch {
	case m.IsMatched():
		c.Matched++
	case m.IsLeftOnly():
		c.LeftOnly++
	default:
		c.RightOnly++
	}
}

type ResourceSummary struct {
	Left   string `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
	Counts `json:"counts"`
}

type Summary struct {
	Counts     `json:"counts"`
	MaxDepth   int               `json:"max_depth"`
	ByType     map[string]Counts `json:"by_type"`
	ByResource []ResourceSummary `json:"by_resource"`
}

// Summarize counts matched, left-only and right-only nodes of a comparison,
// overall, per type tag and per resource pair. Matched nodes are filed under
// the left node's type tag.
func Summarize(c *model.Comparison) Summary {
	s := Summary{ByType: make(map[string]Counts)}

	for i, p := range c.ResourcePairs {
		rs := ResourceSummary{}
		if p.Left != nil {
			rs.Left = p.Left.Name
		}
		if p.Right != nil {
			rs.Right = p.Right.Name
		}

		var ms []*model.Match
		if i < len(c.PairMatches) {
			ms = c.PairMatches[i]
		}
		model.WalkMatches(ms, func(m *model.Match, depth int) bool {
			rs.add(m)
			s.add(m)
			s.MaxDepth = max(s.MaxDepth, depth)

			tag := typeTag(c, m)
			tc := s.ByType[tag]
			tc.add(m)
			s.ByType[tag] = tc
			return true
		})
		s.ByResource = append(s.ByResource, rs)
	}

	return s
}

func typeTag(c *model.Comparison, m *model.Match) string {
	if n := c.Left.Node(m.Left); n != nil {
		return n.TypeTag
	}
	if n := c.Right.Node(m.Right); n != nil {
		return n.TypeTag
	}
	return ""
}
