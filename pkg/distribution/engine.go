// Package distribution turns a season's performance snapshot into a
// claimable distribution: allocations, a merkle commitment, per-recipient
// proofs and the manifest that publishes them.
package distribution

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/config"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/merkle"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/metrics"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/rewards"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

// GenerationResult is everything one generation run produces. Tree is nil
// when the snapshot had no recipients.
type GenerationResult struct {
	Allocation *rewards.Allocation
	Leaves     []*types.Leaf
	Tree       *merkle.MerkleTree
	Proofs     []*types.ClaimProof
	Manifest   *types.SeasonManifest
	Summary    *types.Summary
}

// Root returns the manifest root as hex.
func (r *GenerationResult) Root() string {
	if r == nil || r.Manifest == nil {
		return types.ZeroRoot
	}
	return r.Manifest.MerkleRoot
}

// Engine runs the distribution pipeline. It performs no I/O and holds no
// state between runs, so one Engine may serve concurrent Generate calls.
type Engine struct {
	config  *config.EngineConfig
	logger  *zap.Logger
	clock   clockwork.Clock
	metrics *metrics.RewardsMetrics
}

type EngineOption func(*Engine)

// WithClock sets the clock used to stamp manifests.
func WithClock(clock clockwork.Clock) EngineOption {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithMetrics replaces the process-wide collectors. Pass nil to disable.
func WithMetrics(m *metrics.RewardsMetrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine validates cfg and builds an engine.
func NewEngine(cfg *config.EngineConfig, l *zap.Logger, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("engine config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if l == nil {
		l = zap.NewNop()
	}

	cfgCopy := *cfg
	e := &Engine{
		config:  &cfgCopy,
		logger:  l,
		clock:   clockwork.NewRealClock(),
		metrics: metrics.Rewards(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Generate distributes poolTokens whole tokens across records for season.
//
// An empty snapshot is not an error: it yields the zero-root manifest.
// Input errors wrap types.ErrInvalidInput.
func (e *Engine) Generate(season uint64, records []*types.PerformanceRecord, poolTokens uint64) (*GenerationResult, error) {
	result, err := e.generate(season, records, poolTokens)
	if err != nil {
		e.metrics.ObserveGenerationFailure()
		e.logger.Sugar().Warnw("Reward generation failed",
			"season", season,
			"records", len(records),
			"error", err,
		)
		return nil, err
	}

	alloc := result.Allocation
	e.metrics.ObserveGeneration(season, result.Manifest.RecipientCount, alloc.FloorApplied,
		alloc.RealizedTotal, alloc.RequestedTotal, e.config.BaseUnitScale())

	if overshoot := alloc.Overshoot(); overshoot.Sign() > 0 {
		msg := "Rounding pushed realized total above requested pool"
		if alloc.FloorApplied > 0 {
			msg = "Minimum reward floor pushed realized total above requested pool"
		}
		e.logger.Sugar().Warnw(msg,
			"season", season,
			"requested", alloc.RequestedTotal.String(),
			"realized", alloc.RealizedTotal.String(),
			"overshoot", overshoot.String(),
			"floor_applied", alloc.FloorApplied,
		)
	}
	e.logger.Sugar().Infow("Generated season manifest",
		"season", season,
		"generation_id", result.Manifest.GenerationID,
		"root", result.Manifest.MerkleRoot,
		"recipients", result.Manifest.RecipientCount,
		"total", result.Manifest.TotalAmount,
	)
	return result, nil
}

func (e *Engine) generate(season uint64, records []*types.PerformanceRecord, poolTokens uint64) (*GenerationResult, error) {
	pool := e.config.PoolBaseUnits(poolTokens)

	alloc, err := rewards.Allocate(records, season, pool, e.config.MinRewardBaseUnits())
	if err != nil {
		return nil, fmt.Errorf("allocate season %d: %w", season, err)
	}

	generatedAt := e.clock.Now().UTC()
	generationID := uuid.NewString()

	if len(alloc.Entries) == 0 {
		manifest := EmptyManifest(season, alloc.RequestedTotal, generatedAt, e.config.ClaimExpiryDays)
		manifest.GenerationID = generationID

		summary := Summarize(nil, manifest.MerkleRoot, alloc.RequestedTotal)
		summary.Season = season
		return &GenerationResult{
			Allocation: alloc,
			Leaves:     []*types.Leaf{},
			Proofs:     []*types.ClaimProof{},
			Manifest:   manifest,
			Summary:    summary,
		}, nil
	}

	leaves, err := e.hashLeaves(alloc.Entries)
	if err != nil {
		return nil, err
	}

	hashes := make([][32]byte, len(leaves))
	for i, leaf := range leaves {
		hashes[i] = leaf.Hash
	}
	tree, err := merkle.BuildMerkleTree(hashes)
	if err != nil {
		return nil, fmt.Errorf("build merkle tree: %w", err)
	}

	proofs := make([]*types.ClaimProof, len(leaves))
	for i, leaf := range leaves {
		mp, err := tree.ProofForLeaf(leaf.Hash)
		if err != nil {
			return nil, fmt.Errorf("proof for %s: %w", leaf.Address, err)
		}
		proofs[i] = &types.ClaimProof{
			Address:   leaf.Address,
			Amount:    new(big.Int).Set(leaf.Amount),
			Tier:      leaf.Tier,
			LeafIndex: mp.LeafIndex,
			Leaf:      mp.Leaf,
			Proof:     mp.Proof,
		}
	}

	manifest, err := ExportManifest(tree, proofs, season, alloc.RequestedTotal, generatedAt, e.config.ClaimExpiryDays)
	if err != nil {
		return nil, fmt.Errorf("export manifest: %w", err)
	}
	manifest.GenerationID = generationID

	return &GenerationResult{
		Allocation: alloc,
		Leaves:     leaves,
		Tree:       tree,
		Proofs:     proofs,
		Manifest:   manifest,
		Summary:    Summarize(alloc.Entries, manifest.MerkleRoot, alloc.RequestedTotal),
	}, nil
}

// hashLeaves hashes entries across at most config.Workers goroutines.
// Each goroutine owns one slot of the output, so results keep entry order.
func (e *Engine) hashLeaves(entries []*types.RewardEntry) ([]*types.Leaf, error) {
	leaves := make([]*types.Leaf, len(entries))

	var g errgroup.Group
	g.SetLimit(e.config.Workers)

	for i, entry := range entries {
		g.Go(func() error {
			leaf, err := merkle.NewLeaf(entry)
			if err != nil {
				return fmt.Errorf("leaf for %s: %w", entry.Address, err)
			}
			leaves[i] = leaf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return leaves, nil
}
