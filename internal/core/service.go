package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/hiermatch/internal/config"
	"github.com/agenthands/hiermatch/internal/core/document"
	"github.com/agenthands/hiermatch/internal/core/match"
	"github.com/agenthands/hiermatch/internal/core/model"
	"github.com/agenthands/hiermatch/internal/core/strategy"
	"github.com/agenthands/hiermatch/internal/core/summary"
	"github.com/agenthands/hiermatch/internal/driver"
)

// Service compares model forests given directly, as documents, or as
// snapshots stored in the graph database.
type Service struct {
	Driver driver.GraphDriver
	Config *config.Config
	Engine *match.Engine

	UUIDGenerator func() string
	Now           func() time.Time
}

// NewService builds the strategies and engine from cfg. d may be nil, in
// which case the snapshot operations return ErrNoStore.
func NewService(d driver.GraphDriver, cfg *config.Config) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	equality, err := strategy.NewEquality(cfg.Equality)
	if err != nil {
		return nil, err
	}
	pairing, err := strategy.NewPairing(cfg.Pairing)
	if err != nil {
		return nil, err
	}

	engine := match.NewEngine(equality, strategy.NewIgnore(cfg.Ignore), pairing)
	engine.Workers = cfg.Engine.Workers
	engine.MaxDepth = cfg.Engine.MaxDepth
	engine.Memoize = cfg.Engine.Memoize

	s := &Service{
		Driver:        d,
		Config:        cfg,
		Engine:        engine,
		UUIDGenerator: func() string { return uuid.New().String() },
		Now:           func() time.Time { return time.Now().UTC() },
	}
	engine.IDGenerator = func() string { return s.UUIDGenerator() }
	return s, nil
}

func (s *Service) Compare(ctx context.Context, left, right *model.Forest) (*model.Comparison, error) {
	start := s.Now()
	c, err := s.Engine.Compute(ctx, left, right)
	if err != nil {
		return nil, err
	}

	sum := summary.Summarize(c)
	log.Printf("Comparison %s: %d resource pairs, %d matched, %d left-only, %d right-only (%v)",
		c.ID, len(c.ResourcePairs), sum.Matched, sum.LeftOnly, sum.RightOnly, s.Now().Sub(start))
	return c, nil
}

func (s *Service) CompareDocuments(ctx context.Context, left, right *document.ForestDocument) (*model.Comparison, error) {
	lf, err := left.Forest()
	if err != nil {
		return nil, fmt.Errorf("left document: %w", err)
	}
	rf, err := right.Forest()
	if err != nil {
		return nil, fmt.Errorf("right document: %w", err)
	}
	return s.Compare(ctx, lf, rf)
}

// CompareSnapshots loads two stored snapshots and compares them.
func (s *Service) CompareSnapshots(ctx context.Context, leftName, rightName string) (*model.Comparison, error) {
	left, err := s.LoadSnapshot(ctx, leftName)
	if err != nil {
		return nil, err
	}
	right, err := s.LoadSnapshot(ctx, rightName)
	if err != nil {
		return nil, err
	}
	return s.Compare(ctx, left, right)
}
