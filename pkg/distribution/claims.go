package distribution

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/merkle"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/metrics"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

var (
	// ErrSeasonNotFound means no manifest has been published for the season.
	ErrSeasonNotFound = errors.New("season manifest not found")

	// ErrNoAllocation means the season exists but the address has no claim in it.
	ErrNoAllocation = errors.New("no allocation for address")
)

// ClaimService answers claim queries from published manifests.
type ClaimService struct {
	store   persistence.IManifestPersistence
	logger  *zap.Logger
	metrics *metrics.RewardsMetrics
}

func NewClaimService(store persistence.IManifestPersistence, l *zap.Logger) *ClaimService {
	if l == nil {
		l = zap.NewNop()
	}
	return &ClaimService{
		store:   store,
		logger:  l,
		metrics: metrics.Rewards(),
	}
}

// WithMetrics swaps the collectors, mainly for tests. Pass nil to disable.
func (s *ClaimService) WithMetrics(m *metrics.RewardsMetrics) *ClaimService {
	s.metrics = m
	return s
}

// Publish stores a manifest and marks its season active.
//
// Republishing a season with a different root invalidates every proof handed
// out from the previous manifest; that is allowed but logged loudly.
func (s *ClaimService) Publish(manifest *types.SeasonManifest) error {
	if err := ValidateManifest(manifest); err != nil {
		return err
	}

	existing, err := s.store.LoadManifest(manifest.Season)
	if err != nil {
		return fmt.Errorf("load existing manifest for season %d: %w", manifest.Season, err)
	}
	if existing != nil && !strings.EqualFold(existing.MerkleRoot, manifest.MerkleRoot) {
		s.logger.Sugar().Warnw("Replacing published manifest with a different root; previously issued proofs are now invalid",
			"season", manifest.Season,
			"old_root", existing.MerkleRoot,
			"new_root", manifest.MerkleRoot,
			"old_generation_id", existing.GenerationID,
			"new_generation_id", manifest.GenerationID,
		)
	}

	if err := s.store.SaveManifest(manifest); err != nil {
		return fmt.Errorf("save manifest for season %d: %w", manifest.Season, err)
	}
	if err := s.store.SetActiveSeason(manifest.Season); err != nil {
		return fmt.Errorf("set active season %d: %w", manifest.Season, err)
	}

	s.logger.Sugar().Infow("Published season manifest",
		"season", manifest.Season,
		"root", manifest.MerkleRoot,
		"recipients", manifest.RecipientCount,
	)
	return nil
}

// Manifest loads a season's manifest, ErrSeasonNotFound when absent.
// Season 0 resolves to the active season.
func (s *ClaimService) Manifest(season uint64) (*types.SeasonManifest, error) {
	if season == 0 {
		active, err := s.store.GetActiveSeason()
		if err != nil {
			return nil, fmt.Errorf("get active season: %w", err)
		}
		if active == 0 {
			return nil, ErrSeasonNotFound
		}
		season = active
	}

	manifest, err := s.store.LoadManifest(season)
	if err != nil {
		return nil, fmt.Errorf("load manifest for season %d: %w", season, err)
	}
	if manifest == nil {
		return nil, fmt.Errorf("season %d: %w", season, ErrSeasonNotFound)
	}
	return manifest, nil
}

// GetClaim returns address's claim for season.
func (s *ClaimService) GetClaim(season uint64, address string) (*types.Claim, error) {
	manifest, err := s.Manifest(season)
	if err != nil {
		return nil, err
	}
	claim, ok := manifest.Claim(address)
	if !ok {
		return nil, fmt.Errorf("%s in season %d: %w", types.ManifestKey(address), manifest.Season, ErrNoAllocation)
	}
	return claim, nil
}

// VerifyClaim checks the stored claim for address against the stored root.
func (s *ClaimService) VerifyClaim(season uint64, address string) (bool, error) {
	claim, err := s.GetClaim(season, address)
	if err != nil {
		return false, err
	}
	valid := merkle.VerifyClaimHex(claim.Address, claim.Amount, claim.Proof, claim.MerkleRoot)
	s.metrics.ObserveVerification(valid)
	return valid, nil
}

// ValidateManifest checks the structural consistency of a manifest before
// it is published.
func ValidateManifest(m *types.SeasonManifest) error {
	if m == nil {
		return types.NewInputError("manifest", "", "must not be nil")
	}
	if m.Season == 0 {
		return types.NewInputError("season", "0", "must be positive")
	}
	if _, err := merkle.DecodeHash(m.MerkleRoot); err != nil {
		return types.NewInputError("merkle_root", m.MerkleRoot, err.Error())
	}
	if m.RecipientCount != len(m.ClaimData) {
		return types.NewInputError("recipient_count", fmt.Sprintf("%d", m.RecipientCount),
			fmt.Sprintf("does not match %d claim entries", len(m.ClaimData)))
	}
	if m.RecipientCount == 0 && m.MerkleRoot != types.ZeroRoot {
		return types.NewInputError("merkle_root", m.MerkleRoot, "must be the zero root when there are no recipients")
	}
	if m.RecipientCount > 0 && m.MerkleRoot == types.ZeroRoot {
		return types.NewInputError("merkle_root", m.MerkleRoot, "zero root with recipients")
	}
	return nil
}
