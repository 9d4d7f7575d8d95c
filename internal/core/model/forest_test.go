package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForest() *Forest {
	f := NewForest()
	cls := f.AddNode("Class", "Foo")
	m := f.AddNode("Method", "bar")
	imp := f.AddNode("Import", "java.util.List")
	f.AddChild(cls, m)
	f.AddReference(m, imp)
	f.SetAttr(m, "visibility", "public")
	f.AddResource("Foo.java", cls, imp)
	return f
}

func TestForest_Validate(t *testing.T) {
	require.NoError(t, sampleForest().Validate())
	require.NoError(t, (*Forest)(nil).Validate())

	tests := []struct {
		name   string
		mutate func(f *Forest)
	}{
		{"child out of range", func(f *Forest) { f.Nodes[0].Children = append(f.Nodes[0].Children, 99) }},
		{"absent child", func(f *Forest) { f.Nodes[0].Children = append(f.Nodes[0].Children, NoNode) }},
		{"dangling reference", func(f *Forest) { f.Nodes[1].References = []NodeID{7} }},
		{"two containers", func(f *Forest) { f.AddChild(2, 1) }},
		{"contained twice by one parent", func(f *Forest) { f.AddChild(0, 1) }},
		{"self containment", func(f *Forest) { f.Nodes[1].Children = []NodeID{1} }},
		{"cycle", func(f *Forest) {
			a := f.AddNode("N", "a")
			b := f.AddNode("N", "b")
			f.AddChild(a, b)
			f.AddChild(b, a)
		}},
		{"root out of range", func(f *Forest) { f.AddResource("x", 50) }},
		{"root contained elsewhere", func(f *Forest) { f.AddResource("x", 1) }},
		{"root in two resources", func(f *Forest) { f.AddResource("x", 0) }},
		{"id mismatch", func(f *Forest) { f.Nodes[2].ID = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sampleForest()
			tt.mutate(f)
			assert.ErrorIs(t, f.Validate(), ErrInvalidInput)
		})
	}
}

func TestNodeRef(t *testing.T) {
	f := sampleForest()
	m := f.Ref(1)

	assert.True(t, m.Valid())
	assert.Equal(t, "Method", m.TypeTag())
	assert.Equal(t, "bar", m.Label())
	v, ok := m.Attr("visibility")
	assert.True(t, ok)
	assert.Equal(t, "public", v)

	refs := m.References()
	require.Len(t, refs, 1)
	assert.Equal(t, "java.util.List", refs[0].Label())

	children := f.Ref(0).Children()
	require.Len(t, children, 1)
	assert.Equal(t, NodeID(1), children[0].ID)

	missing := f.Ref(NoNode)
	assert.False(t, missing.Valid())
	assert.Empty(t, missing.Label())
	assert.Nil(t, missing.Children())
	assert.Nil(t, f.Node(42))
}

func TestComparison_Walk(t *testing.T) {
	c := &Comparison{
		Matches: []*Match{
			{Left: 0, Right: 0, Submatches: []*Match{
				{Left: 1, Right: NoNode},
				{Left: NoNode, Right: 1, Submatches: []*Match{{Left: NoNode, Right: 2}}},
			}},
			{Left: 2, Right: NoNode},
		},
	}

	var visited []int
	c.Walk(func(m *Match, depth int) bool {
		visited = append(visited, depth)
		return !m.IsRightOnly()
	})
	// The right-only branch is visited but its child is skipped.
	assert.Equal(t, []int{0, 1, 1, 0}, visited)

	assert.True(t, c.Matches[0].IsMatched())
	assert.True(t, c.Matches[1].IsLeftOnly())
}

func TestStrategyError(t *testing.T) {
	err := &StrategyError{Strategy: "ignore", Left: NoNode, Right: 3, Err: assert.AnError}
	assert.ErrorIs(t, err, ErrStrategyContractViolation)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "ignore strategy failed on node 3")
}
