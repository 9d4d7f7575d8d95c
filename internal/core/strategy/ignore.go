package strategy

import (
	"strings"

	"github.com/agenthands/hiermatch/internal/core/model"
)

// IgnoreStrategy excludes nodes from matching. An ignored node produces no
// match and its whole subtree is dropped from the comparison.
type IgnoreStrategy interface {
	ShouldIgnore(node model.NodeRef) (bool, error)
}

type IgnoreFunc func(node model.NodeRef) (bool, error)

func (f IgnoreFunc) ShouldIgnore(node model.NodeRef) (bool, error) {
	return f(node)
}

type IgnoreNone struct{}

func (IgnoreNone) ShouldIgnore(model.NodeRef) (bool, error) {
	return false, nil
}

// IgnoreTypes ignores nodes whose type tag is in the set.
type IgnoreTypes map[string]bool

func NewIgnoreTypes(tags ...string) IgnoreTypes {
	t := make(IgnoreTypes, len(tags))
	for _, tag := range tags {
		t[tag] = true
	}
	return t
}

func (t IgnoreTypes) ShouldIgnore(node model.NodeRef) (bool, error) {
	return t[node.TypeTag()], nil
}

// IgnoreLabelPrefixes ignores nodes whose label equals one of the prefixes
// or continues it with a '.', so "java" covers "java.lang" but not "javax".
type IgnoreLabelPrefixes []string

func (p IgnoreLabelPrefixes) ShouldIgnore(node model.NodeRef) (bool, error) {
	label := node.Label()
	for _, prefix := range p {
		if label == prefix || strings.HasPrefix(label, prefix+".") {
			return true, nil
		}
	}
	return false, nil
}

// IgnoreAny ignores a node as soon as one of its strategies does.
type IgnoreAny []IgnoreStrategy

func (a IgnoreAny) ShouldIgnore(node model.NodeRef) (bool, error) {
	for _, s := range a {
		ignore, err := s.ShouldIgnore(node)
		if err != nil || ignore {
			return ignore, err
		}
	}
	return false, nil
}
