package match

import (
	"fmt"

	"github.com/agenthands/hiermatch/internal/core/model"
	"github.com/agenthands/hiermatch/internal/core/strategy"
)

// DefaultMaxDepth bounds the recursion of a Matcher when none is configured.
const DefaultMaxDepth = 1024

// Matcher builds the correspondence tree between two forests level by level.
// A Matcher keeps per-run state and must not be shared between goroutines.
type Matcher struct {
	left     *model.Forest
	right    *model.Forest
	equality strategy.EqualityStrategy
	ignore   strategy.IgnoreStrategy
	maxDepth int

	leftPath  map[model.NodeID]bool
	rightPath map[model.NodeID]bool
}

// NewMatcher returns a matcher over two forests. A nil equality falls back to
// LabelEquality and a nil ignore strategy ignores nothing.
func NewMatcher(left, right *model.Forest, equality strategy.EqualityStrategy, ignore strategy.IgnoreStrategy, maxDepth int) *Matcher {
	if left == nil {
		left = model.NewForest()
	}
	if right == nil {
		right = model.NewForest()
	}
	if equality == nil {
		equality = strategy.LabelEquality{}
	}
	if ignore == nil {
		ignore = strategy.IgnoreNone{}
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Matcher{
		left:      left,
		right:     right,
		equality:  equality,
		ignore:    ignore,
		maxDepth:  maxDepth,
		leftPath:  make(map[model.NodeID]bool),
		rightPath: make(map[model.NodeID]bool),
	}
}

// MatchSiblings matches two ordered sibling lists and recurses into the
// children of every resulting match.
//
// Each left node takes the first still unmatched right node the equality
// strategy accepts; ambiguous candidates are resolved by position. Left
// nodes without a partner become left-only matches whose subtree is matched
// against nothing, and the right nodes left over at the end become
// right-only matches the same way. The result lists left nodes in left
// order, followed by the right-only nodes in right order. Ignored nodes and
// their subtrees never show up.
func (m *Matcher) MatchSiblings(left, right []model.NodeID) ([]*model.Match, error) {
	return m.matchLevel(left, right, 0)
}

func (m *Matcher) matchLevel(leftIDs, rightIDs []model.NodeID, depth int) ([]*model.Match, error) {
	if depth > m.maxDepth {
		return nil, fmt.Errorf("%w: containment deeper than %d levels", model.ErrInvalidInput, m.maxDepth)
	}

	left, err := m.filter(m.left, leftIDs, true)
	if err != nil {
		return nil, err
	}
	pool, err := m.filter(m.right, rightIDs, false)
	if err != nil {
		return nil, err
	}
	if len(left) == 0 && len(pool) == 0 {
		return nil, nil
	}

	matches := make([]*model.Match, 0, len(left)+len(pool))

	for _, l := range left {
		match := &model.Match{Left: l, Right: model.NoNode}
		for i, r := range pool {
			equal, err := m.areEqual(l, r)
			if err != nil {
				return nil, err
			}
			if equal {
				match.Right = r
				pool = append(pool[:i], pool[i+1:]...)
				break
			}
		}

		var rightChildren []model.NodeID
		if match.Right != model.NoNode {
			rightChildren = m.right.Nodes[match.Right].Children
		}
		subs, err := m.descend(match.Left, match.Right, m.left.Nodes[l].Children, rightChildren, depth)
		if err != nil {
			return nil, err
		}
		match.Submatches = subs
		matches = append(matches, match)
	}

	for _, r := range pool {
		subs, err := m.descend(model.NoNode, r, nil, m.right.Nodes[r].Children, depth)
		if err != nil {
			return nil, err
		}
		matches = append(matches, &model.Match{Left: model.NoNode, Right: r, Submatches: subs})
	}

	return matches, nil
}

// descend matches the children of a match while l and r are marked as being
// on the current containment path.
func (m *Matcher) descend(l, r model.NodeID, leftChildren, rightChildren []model.NodeID, depth int) ([]*model.Match, error) {
	if l != model.NoNode {
		m.leftPath[l] = true
		defer delete(m.leftPath, l)
	}
	if r != model.NoNode {
		m.rightPath[r] = true
		defer delete(m.rightPath, r)
	}
	return m.matchLevel(leftChildren, rightChildren, depth+1)
}

// filter drops ignored nodes from a sibling list and rejects absent ids and
// nodes that are their own ancestors.
func (m *Matcher) filter(f *model.Forest, ids []model.NodeID, isLeft bool) ([]model.NodeID, error) {
	side, path := "right", m.rightPath
	if isLeft {
		side, path = "left", m.leftPath
	}

	kept := make([]model.NodeID, 0, len(ids))
	for _, id := range ids {
		if !f.Has(id) {
			return nil, fmt.Errorf("%w: %s sibling list contains absent node %d", model.ErrInvalidInput, side, id)
		}
		if path[id] {
			return nil, fmt.Errorf("%w: %s node %d contains itself", model.ErrInvalidInput, side, id)
		}
		ignore, err := m.shouldIgnore(f, id, isLeft)
		if err != nil {
			return nil, err
		}
		if !ignore {
			kept = append(kept, id)
		}
	}
	return kept, nil
}

func (m *Matcher) areEqual(l, r model.NodeID) (equal bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			equal = false
			err = &model.StrategyError{Strategy: "equality", Left: l, Right: r, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	equal, err = m.equality.AreEqual(m.left.Ref(l), m.right.Ref(r))
	if err != nil {
		return false, &model.StrategyError{Strategy: "equality", Left: l, Right: r, Err: err}
	}
	return equal, nil
}

func (m *Matcher) shouldIgnore(f *model.Forest, id model.NodeID, isLeft bool) (ignore bool, err error) {
	l, r := id, model.NoNode
	if !isLeft {
		l, r = model.NoNode, id
	}
	defer func() {
		if p := recover(); p != nil {
			ignore = false
			err = &model.StrategyError{Strategy: "ignore", Left: l, Right: r, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	ignore, err = m.ignore.ShouldIgnore(f.Ref(id))
	if err != nil {
		return false, &model.StrategyError{Strategy: "ignore", Left: l, Right: r, Err: err}
	}
	return ignore, nil
}
