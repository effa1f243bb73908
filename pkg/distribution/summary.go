package distribution

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/util"
)

// Summarize reports per-tier and global statistics for a season's entries.
// Averages use integer division in base units. Only tiers that have at
// least one recipient appear in Tiers.
func Summarize(entries []*types.RewardEntry, root string, requested *big.Int) *types.Summary {
	s := &types.Summary{
		MerkleRoot:      root,
		TotalAmount:     big.NewInt(0),
		RequestedAmount: big.NewInt(0),
		MinReward:       big.NewInt(0),
		MaxReward:       big.NewInt(0),
		AverageReward:   big.NewInt(0),
		Tiers:           make(map[types.Tier]*types.TierSummary),
	}
	if requested != nil {
		s.RequestedAmount.Set(requested)
	}

	for _, e := range entries {
		if e == nil || e.Amount == nil {
			continue
		}
		if s.RecipientCount == 0 {
			s.Season = e.Season
			s.MinReward.Set(e.Amount)
			s.MaxReward.Set(e.Amount)
		}
		s.RecipientCount++
		s.TotalAmount.Add(s.TotalAmount, e.Amount)
		if e.Amount.Cmp(s.MinReward) < 0 {
			s.MinReward.Set(e.Amount)
		}
		if e.Amount.Cmp(s.MaxReward) > 0 {
			s.MaxReward.Set(e.Amount)
		}

		// Claims without a tier count toward the totals but get no bucket
		if e.Tier == types.TierUnknown {
			continue
		}
		bucket, ok := s.Tiers[e.Tier]
		if !ok {
			bucket = &types.TierSummary{Total: big.NewInt(0), Average: big.NewInt(0)}
			s.Tiers[e.Tier] = bucket
		}
		bucket.Count++
		bucket.Total.Add(bucket.Total, e.Amount)
	}

	if s.RecipientCount > 0 {
		s.AverageReward.Quo(s.TotalAmount, big.NewInt(int64(s.RecipientCount)))
	}
	for _, bucket := range s.Tiers {
		bucket.Average.Quo(bucket.Total, big.NewInt(int64(bucket.Count)))
	}
	return s
}

// SummarizeManifest rebuilds a Summary from a published manifest, for
// seasons whose snapshot is no longer at hand.
func SummarizeManifest(m *types.SeasonManifest) (*types.Summary, error) {
	if m == nil {
		return nil, fmt.Errorf("cannot summarize nil manifest")
	}
	requested, err := util.ParseAmount(m.RequestedAmount)
	if err != nil {
		return nil, fmt.Errorf("requested_amount: %w", err)
	}

	entries := make([]*types.RewardEntry, 0, len(m.ClaimData))
	for addr, claim := range m.ClaimData {
		if claim == nil {
			continue
		}
		amount, err := util.ParseAmount(claim.Amount)
		if err != nil {
			return nil, fmt.Errorf("claim for %s: %w", addr, err)
		}
		entries = append(entries, &types.RewardEntry{
			Address: addr,
			Amount:  amount,
			Season:  m.Season,
			Tier:    claim.Tier,
		})
	}

	s := Summarize(entries, m.MerkleRoot, requested)
	s.Season = m.Season
	return s, nil
}
