package match

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/hiermatch/internal/core/model"
	"github.com/agenthands/hiermatch/internal/core/strategy"
)

// Engine computes comparisons between two forests. Strategies are shared by
// all workers and must be safe for concurrent use; pure predicates are. A
// *strategy.Memoized is not, so Compute rejects it as Equality when more than
// one worker runs; set Memoize instead to get a cache per resource pair.
type Engine struct {
	Equality strategy.EqualityStrategy
	Ignore   strategy.IgnoreStrategy
	Pairing  strategy.ResourcePairing

	// Workers bounds how many resource pairs are matched concurrently.
	Workers  int
	MaxDepth int
	// Memoize caches equality answers per resource pair.
	Memoize bool

	IDGenerator func() string
}

func NewEngine(equality strategy.EqualityStrategy, ignore strategy.IgnoreStrategy, pairing strategy.ResourcePairing) *Engine {
	return &Engine{
		Equality: equality,
		Ignore:   ignore,
		Pairing:  pairing,
		Workers:  1,
		MaxDepth: DefaultMaxDepth,
	}
}

// Compute is the single-call form of Engine.Compute with default tuning.
func Compute(ctx context.Context, left, right *model.Forest, equality strategy.EqualityStrategy, ignore strategy.IgnoreStrategy, pairing strategy.ResourcePairing) (*model.Comparison, error) {
	return NewEngine(equality, ignore, pairing).Compute(ctx, left, right)
}

// Compute pairs the resources of both forests and matches every pair. The
// top level matches follow the order of the resource pairs no matter which
// pair finishes first. Cancellation is observed between resource pairs. On
// any error no comparison is returned.
func (e *Engine) Compute(ctx context.Context, left, right *model.Forest) (*model.Comparison, error) {
	if left == nil {
		left = model.NewForest()
	}
	if right == nil {
		right = model.NewForest()
	}
	if err := left.Validate(); err != nil {
		return nil, fmt.Errorf("left forest: %w", err)
	}
	if err := right.Validate(); err != nil {
		return nil, fmt.Errorf("right forest: %w", err)
	}

	pairs, err := e.pair(left, right)
	if err != nil {
		return nil, err
	}

	results := make([][]*model.Match, len(pairs))

	workers := e.Workers
	if workers <= 0 {
		workers = 1
	}
	if _, shared := e.Equality.(*strategy.Memoized); shared && workers > 1 {
		return nil, fmt.Errorf("memoized equality strategy cannot be shared by %d workers, use Engine.Memoize", workers)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, pair := range pairs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			equality := e.Equality
			if equality == nil {
				equality = strategy.LabelEquality{}
			}
			if e.Memoize {
				equality = strategy.Memoize(equality)
			}

			m := NewMatcher(left, right, equality, e.Ignore, e.MaxDepth)
			ms, err := m.MatchSiblings(roots(pair.Left), roots(pair.Right))
			if err != nil {
				return fmt.Errorf("resource pair %d (%s): %w", i, pairName(pair), err)
			}
			results[i] = ms
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &model.Comparison{
		ID:            e.newID(),
		Left:          left,
		Right:         right,
		ResourcePairs: pairs,
		PairMatches:   results,
	}
	for _, ms := range results {
		c.Matches = append(c.Matches, ms...)
	}
	return c, nil
}

// pair runs the resource pairing and checks that no resource root seeds
// more than one pair.
func (e *Engine) pair(left, right *model.Forest) (pairs []model.ResourcePair, err error) {
	pairing := e.Pairing
	if pairing == nil {
		pairing = strategy.PairByName{}
	}

	defer func() {
		if p := recover(); p != nil {
			pairs = nil
			err = fmt.Errorf("%w: panic: %v", model.ErrResourcePairing, p)
		}
	}()

	pairs, err = pairing.PairResources(left.Resources, right.Resources)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrResourcePairing, err)
	}

	leftSeen := make(map[model.NodeID]bool)
	rightSeen := make(map[model.NodeID]bool)
	for i, p := range pairs {
		if p.Left == nil && p.Right == nil {
			return nil, fmt.Errorf("%w: pair %d has neither side", model.ErrResourcePairing, i)
		}
		if err := claimRoots(left, p.Left, leftSeen); err != nil {
			return nil, fmt.Errorf("%w: pair %d left: %w", model.ErrResourcePairing, i, err)
		}
		if err := claimRoots(right, p.Right, rightSeen); err != nil {
			return nil, fmt.Errorf("%w: pair %d right: %w", model.ErrResourcePairing, i, err)
		}
	}
	return pairs, nil
}

func claimRoots(f *model.Forest, res *model.Resource, seen map[model.NodeID]bool) error {
	if res == nil {
		return nil
	}
	for _, id := range res.Roots {
		if !f.Has(id) {
			return fmt.Errorf("resource %q root %d is not in the forest", res.Name, id)
		}
		if seen[id] {
			return fmt.Errorf("resource %q root %d already paired", res.Name, id)
		}
		seen[id] = true
	}
	return nil
}

func (e *Engine) newID() string {
	if e.IDGenerator != nil {
		return e.IDGenerator()
	}
	return uuid.New().String()
}

func roots(res *model.Resource) []model.NodeID {
	if res == nil {
		return nil
	}
	return res.Roots
}

func pairName(p model.ResourcePair) string {
	switch {
	case p.Left != nil && p.Right != nil && p.Left.Name != p.Right.Name:
		return p.Left.Name + " <-> " + p.Right.Name
	case p.Left != nil:
		return p.Left.Name
	default:
		return p.Right.Name
	}
}
