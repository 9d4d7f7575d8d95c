package document

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/hiermatch/internal/core/match"
	"github.com/agenthands/hiermatch/internal/core/model"
	"github.com/agenthands/hiermatch/internal/core/strategy"
)

const leftYAML = `
resources:
  - name: src/Foo.java
    roots:
      - type: Class
        label: Foo
        attributes:
          visibility: public
        children:
          - type: Import
            label: ""
            refs: [list]
          - type: Method
            label: run
  - name: lib/List.java
    roots:
      - id: list
        type: Class
        label: java.util.List
`

const rightJSON = `{
  "resources": [
    {"name": "src/Foo.java", "roots": [
      {"type": "Class", "label": "Foo", "attributes": {"visibility": "public"}, "children": [
        {"type": "Method", "label": "run"},
        {"type": "Method", "label": "stop"}
      ]}
    ]}
  ]
}`

func TestDecode_YAMLToForest(t *testing.T) {
	doc, err := Decode([]byte(leftYAML), FormatYAML)
	require.NoError(t, err)

	f, err := doc.Forest()
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	require.Len(t, f.Resources, 2)
	assert.Equal(t, "src/Foo.java", f.Resources[0].Name)
	foo := f.Ref(f.Resources[0].Roots[0])
	assert.Equal(t, "Foo", foo.Label())
	v, _ := foo.Attr("visibility")
	assert.Equal(t, "public", v)

	children := foo.Children()
	require.Len(t, children, 2)
	refs := children[0].References()
	require.Len(t, refs, 1)
	assert.Equal(t, "java.util.List", refs[0].Label())
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"resources": [], "extra": 1}`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode([]byte("resources: [\n"), FormatYAML)
	assert.Error(t, err)

	doc := &ForestDocument{Resources: []ResourceDocument{{
		Name:  "a",
		Roots: []NodeDocument{{Type: "Import", Refs: []string{"missing"}}},
	}}}
	_, err = doc.Forest()
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	doc = &ForestDocument{Resources: []ResourceDocument{{
		Name:  "a",
		Roots: []NodeDocument{{ID: "x", Type: "Class"}, {ID: "x", Type: "Class"}},
	}}}
	_, err = doc.Forest()
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("left.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("LEFT.YML"))
	assert.Equal(t, FormatJSON, FormatFor("left.json"))
	assert.Equal(t, FormatJSON, FormatFor("left"))
}

func TestFromForest_RoundTrip(t *testing.T) {
	doc, err := Decode([]byte(leftYAML), FormatYAML)
	require.NoError(t, err)
	f, err := doc.Forest()
	require.NoError(t, err)

	again, err := FromForest(f).Forest()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(f, again))
}

func TestFromComparison(t *testing.T) {
	ld, err := Decode([]byte(leftYAML), FormatYAML)
	require.NoError(t, err)
	rd, err := Decode([]byte(rightJSON), FormatJSON)
	require.NoError(t, err)
	left, err := ld.Forest()
	require.NoError(t, err)
	right, err := rd.Forest()
	require.NoError(t, err)

	e := match.NewEngine(strategy.LabelEquality{}, strategy.NewIgnoreTypes("Import"), strategy.PairByName{})
	e.IDGenerator = func() string { return "c1" }
	c, err := e.Compute(context.Background(), left, right)
	require.NoError(t, err)

	out := FromComparison(c)
	assert.Equal(t, "c1", out.ID)
	require.Len(t, out.ResourcePairs, 2)

	foo := out.ResourcePairs[0]
	assert.Equal(t, "src/Foo.java", foo.Left)
	assert.Equal(t, "src/Foo.java", foo.Right)
	require.Len(t, foo.Matches, 1)
	assert.Equal(t, StatusMatched, foo.Matches[0].Status)
	subs := foo.Matches[0].Submatches
	require.Len(t, subs, 2)
	assert.Equal(t, StatusMatched, subs[0].Status)
	assert.Equal(t, "run", subs[0].Left.Label)
	assert.Equal(t, StatusRightOnly, subs[1].Status)
	assert.Nil(t, subs[1].Left)
	assert.Equal(t, "stop", subs[1].Right.Label)

	lib := out.ResourcePairs[1]
	assert.Empty(t, lib.Right)
	require.Len(t, lib.Matches, 1)
	assert.Equal(t, StatusLeftOnly, lib.Matches[0].Status)
}
