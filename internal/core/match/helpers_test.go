package match

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/agenthands/hiermatch/internal/core/model"
)

type tn struct {
	tag   string
	label string
	kids  []tn
}

func n(label string, kids ...tn) tn {
	return tn{tag: "Node", label: label, kids: kids}
}

func typed(tag, label string, kids ...tn) tn {
	return tn{tag: tag, label: label, kids: kids}
}

func add(f *model.Forest, t tn) model.NodeID {
	id := f.AddNode(t.tag, t.label)
	for _, k := range t.kids {
		f.AddChild(id, add(f, k))
	}
	return id
}

// forest builds a forest with a single resource holding the given roots.
func forest(resource string, roots ...tn) *model.Forest {
	f := model.NewForest()
	ids := make([]model.NodeID, 0, len(roots))
	for _, r := range roots {
		ids = append(ids, add(f, r))
	}
	f.AddResource(resource, ids...)
	return f
}

// render prints a match tree one line per match: "A=B" for matched pairs,
// "A-" for left-only and "+B" for right-only nodes, indented by depth.
func render(left, right *model.Forest, ms []*model.Match) []string {
	var out []string
	model.WalkMatches(ms, func(m *model.Match, depth int) bool {
		indent := strings.Repeat("  ", depth)
		switch {
		case m.IsMatched():
			out = append(out, fmt.Sprintf("%s%s=%s", indent, left.Node(m.Left).Label, right.Node(m.Right).Label))
		case m.IsLeftOnly():
			out = append(out, fmt.Sprintf("%s%s-", indent, left.Node(m.Left).Label))
		default:
			out = append(out, fmt.Sprintf("%s+%s", indent, right.Node(m.Right).Label))
		}
		return true
	})
	return out
}

// randomForest builds a reproducible forest with a small label alphabet so
// that equal and ambiguous siblings are common.
func randomForest(seed uint64, resources, maxKids, depth int) *model.Forest {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	tags := []string{"Class", "Method", "Comment"}
	labels := []string{"a", "b", "c", "d"}

	f := model.NewForest()
	var grow func(level int) model.NodeID
	grow = func(level int) model.NodeID {
		id := f.AddNode(tags[rng.IntN(len(tags))], labels[rng.IntN(len(labels))])
		if level < depth {
			for i := rng.IntN(maxKids + 1); i > 0; i-- {
				f.AddChild(id, grow(level+1))
			}
		}
		return id
	}

	for r := 0; r < resources; r++ {
		var roots []model.NodeID
		for i := rng.IntN(maxKids) + 1; i > 0; i-- {
			roots = append(roots, grow(0))
		}
		f.AddResource(fmt.Sprintf("unit%d.java", r), roots...)
	}
	return f
}

// reachable collects every node of the resources that is not ignored and
// not below an ignored node.
func reachable(f *model.Forest, ignored func(model.NodeRef) bool) map[model.NodeID]bool {
	seen := make(map[model.NodeID]bool)
	var visit func(ids []model.NodeID)
	visit = func(ids []model.NodeID) {
		for _, id := range ids {
			if ignored(f.Ref(id)) {
				continue
			}
			seen[id] = true
			visit(f.Nodes[id].Children)
		}
	}
	for _, res := range f.Resources {
		visit(res.Roots)
	}
	return seen
}
