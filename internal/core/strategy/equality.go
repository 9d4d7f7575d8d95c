package strategy

import (
	"sort"
	"strings"

	"github.com/agenthands/hiermatch/internal/core/model"
)

// EqualityStrategy decides whether two nodes occupying corresponding tree
// positions are equivalent. Implementations must be pure: the same pair
// yields the same answer for the whole run, and two independently loaded
// copies of the same tree must be equal node for node.
type EqualityStrategy interface {
	AreEqual(left, right model.NodeRef) (bool, error)
}

// EqualityFunc adapts a plain function to EqualityStrategy.
type EqualityFunc func(left, right model.NodeRef) (bool, error)

func (f EqualityFunc) AreEqual(left, right model.NodeRef) (bool, error) {
	return f(left, right)
}

// LabelEquality treats nodes as equal when type tag and label match.
type LabelEquality struct{}

func (LabelEquality) AreEqual(left, right model.NodeRef) (bool, error) {
	return left.TypeTag() == right.TypeTag() && left.Label() == right.Label(), nil
}

// StructuralEquality compares type tag, label and attributes of the node
// itself, and the identity (type tag and label) of the nodes reached through
// up to ReferenceHops non-containment links. An import -> type access -> type
// chain therefore matches as long as it resolves to the same qualified name,
// whatever changed inside the referenced type.
type StructuralEquality struct {
	ReferenceHops int
}

func (s StructuralEquality) AreEqual(left, right model.NodeRef) (bool, error) {
	return signature(left, s.ReferenceHops, true, nil) == signature(right, s.ReferenceHops, true, nil), nil
}

// signature renders the comparable content of a node and, hops levels deep,
// the identity of the nodes it references. Attributes only count for the
// node itself. onPath stops reference cycles.
func signature(r model.NodeRef, hops int, withAttrs bool, onPath map[model.NodeID]bool) string {
	var b strings.Builder
	b.WriteString(r.TypeTag())
	b.WriteByte(0)
	b.WriteString(r.Label())

	var attrs map[string]string
	if withAttrs {
		attrs = r.Attributes()
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(1)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(attrs[k])
	}

	if hops <= 0 {
		return b.String()
	}

	if onPath == nil {
		onPath = make(map[model.NodeID]bool)
	}
	onPath[r.ID] = true
	for _, ref := range r.References() {
		b.WriteByte(2)
		if onPath[ref.ID] {
			b.WriteString("<cycle>")
			continue
		}
		b.WriteString(signature(ref, hops-1, false, onPath))
	}
	delete(onPath, r.ID)

	return b.String()
}

// TypeSwitch dispatches on the type tag of the pair. Nodes with different
// tags are never equal; tags without an entry in ByType use Default.
type TypeSwitch struct {
	ByType  map[string]EqualityStrategy
	Default EqualityStrategy
}

func (t TypeSwitch) AreEqual(left, right model.NodeRef) (bool, error) {
	tag := left.TypeTag()
	if tag != right.TypeTag() {
		return false, nil
	}
	if s, ok := t.ByType[tag]; ok {
		return s.AreEqual(left, right)
	}
	if t.Default == nil {
		return true, nil
	}
	return t.Default.AreEqual(left, right)
}

type nodePair struct {
	left, right model.NodeID
}

// Memoized caches the answers of an equality strategy by node pair. It is
// not safe for concurrent use; create one per matching run or worker.
// match.Engine refuses a shared Memoized when it runs several workers.
type Memoized struct {
	next  EqualityStrategy
	cache map[nodePair]bool
}

func Memoize(s EqualityStrategy) *Memoized {
	return &Memoized{next: s, cache: make(map[nodePair]bool)}
}

func (m *Memoized) AreEqual(left, right model.NodeRef) (bool, error) {
	key := nodePair{left.ID, right.ID}
	if v, ok := m.cache[key]; ok {
		return v, nil
	}
	v, err := m.next.AreEqual(left, right)
	if err != nil {
		return false, err
	}
	m.cache[key] = v
	return v, nil
}

// Len reports the number of cached pairs.
func (m *Memoized) Len() int {
	return len(m.cache)
}
