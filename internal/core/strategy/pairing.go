package strategy

import (
	"path"

	"github.com/agenthands/hiermatch/internal/core/model"
)

// ResourcePairing decides which left and right resources belong together.
// Each returned pair seeds one top level matching run.
type ResourcePairing interface {
	PairResources(left, right []model.Resource) ([]model.ResourcePair, error)
}

type PairingFunc func(left, right []model.Resource) ([]model.ResourcePair, error)

func (f PairingFunc) PairResources(left, right []model.Resource) ([]model.ResourcePair, error) {
	return f(left, right)
}

// PairByName pairs resources with identical names.
type PairByName struct{}

func (PairByName) PairResources(left, right []model.Resource) ([]model.ResourcePair, error) {
	return pairByKey(left, right, func(r model.Resource) string { return r.Name }), nil
}

// PairByBaseName pairs resources by the final segment of their slash
// separated name, so moved files still pair up.
type PairByBaseName struct{}

func (PairByBaseName) PairResources(left, right []model.Resource) ([]model.ResourcePair, error) {
	return pairByKey(left, right, func(r model.Resource) string { return path.Base(r.Name) }), nil
}

// PairByIndex pairs the i-th left resource with the i-th right resource.
type PairByIndex struct{}

func (PairByIndex) PairResources(left, right []model.Resource) ([]model.ResourcePair, error) {
	n := max(len(left), len(right))
	pairs := make([]model.ResourcePair, 0, n)
	for i := 0; i < n; i++ {
		var p model.ResourcePair
		if i < len(left) {
			p.Left = &left[i]
		}
		if i < len(right) {
			p.Right = &right[i]
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// pairByKey emits left resources in order, each paired with the first
// unconsumed right resource sharing its key, then the unpaired right
// resources in right order.
func pairByKey(left, right []model.Resource, key func(model.Resource) string) []model.ResourcePair {
	byKey := make(map[string][]int)
	for i, r := range right {
		k := key(r)
		byKey[k] = append(byKey[k], i)
	}

	used := make([]bool, len(right))
	pairs := make([]model.ResourcePair, 0, max(len(left), len(right)))
	for i := range left {
		p := model.ResourcePair{Left: &left[i]}
		k := key(left[i])
		if idx := byKey[k]; len(idx) > 0 {
			p.Right = &right[idx[0]]
			used[idx[0]] = true
			byKey[k] = idx[1:]
		}
		pairs = append(pairs, p)
	}
	for i := range right {
		if !used[i] {
			pairs = append(pairs, model.ResourcePair{Right: &right[i]})
		}
	}
	return pairs
}
