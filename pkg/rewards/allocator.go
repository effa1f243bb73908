package rewards

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/util"
)

// Weight formula constants
const (
	WeightLevelFactor    = 10
	WeightActivityFactor = 5
	MaxActivityBonus     = 500
	MinWeight            = 1.0
)

// Allocation is the outcome of splitting a pool across a snapshot.
type Allocation struct {
	// Entries is sorted by address
	Entries []*types.RewardEntry

	// RequestedTotal is the pool the caller asked to distribute
	RequestedTotal *big.Int

	// RealizedTotal is the sum of all entry amounts. The minimum reward
	// floor can push it above RequestedTotal; the pool is a target, not a cap.
	RealizedTotal *big.Int

	// FloorApplied counts entries lifted to the minimum reward
	FloorApplied int
}

// Overshoot is how far RealizedTotal exceeds RequestedTotal, never negative.
func (a *Allocation) Overshoot() *big.Int {
	diff := new(big.Int).Sub(a.RealizedTotal, a.RequestedTotal)
	if diff.Sign() < 0 {
		return big.NewInt(0)
	}
	return diff
}

// Weight computes a record's pool weight for the given tier:
// (points + level*10 + min(activityScore*5, 500)) * multiplier, floored at 1.
func Weight(record *types.PerformanceRecord, tier types.Tier) float64 {
	activityBonus := math.Min(record.ActivityScore*WeightActivityFactor, MaxActivityBonus)
	base := float64(record.Points) + float64(record.Level)*WeightLevelFactor + activityBonus
	return math.Max(base*TierMultiplier(tier), MinWeight)
}

// ValidateRecord checks a record before it takes part in allocation.
func ValidateRecord(record *types.PerformanceRecord) error {
	if record == nil {
		return types.NewInputError("record", "", "must not be nil")
	}
	if _, err := util.ParseAddress(record.Address); err != nil {
		return err
	}
	if record.Level < 1 {
		return types.NewInputError("level", record.Address, "must be at least 1")
	}
	if math.IsNaN(record.ActivityScore) || math.IsInf(record.ActivityScore, 0) || record.ActivityScore < 0 {
		return types.NewInputError("activity_score", record.Address, "must be a finite non-negative number")
	}
	return nil
}

// Allocate splits pool (in base units) across records by tiered weight.
//
// Each amount is round(weight / sum(weights) * pool), rounding half up, then
// lifted to minReward. Because of that floor the realized total can exceed
// pool; Allocation reports both. An empty snapshot yields an empty
// allocation and no error.
func Allocate(records []*types.PerformanceRecord, season uint64, pool *big.Int, minReward *big.Int) (*Allocation, error) {
	if season == 0 {
		return nil, types.NewInputError("season", "0", "must be positive")
	}
	if minReward == nil {
		minReward = big.NewInt(0)
	}
	if minReward.Sign() < 0 {
		return nil, types.NewInputError("min_reward", minReward.String(), "must not be negative")
	}

	requested := big.NewInt(0)
	if pool != nil {
		requested.Set(pool)
	}
	if requested.Sign() < 0 {
		return nil, types.NewInputError("pool", requested.String(), "must not be negative")
	}

	allocation := &Allocation{
		Entries:        make([]*types.RewardEntry, 0, len(records)),
		RequestedTotal: requested,
		RealizedTotal:  big.NewInt(0),
	}
	if len(records) == 0 {
		return allocation, nil
	}
	if requested.Sign() == 0 {
		return nil, types.NewInputError("pool", "0", "must be positive when there are recipients")
	}

	seen := make(map[string]struct{}, len(records))
	weights := make([]*big.Rat, len(records))
	totalWeight := new(big.Rat)

	for i, record := range records {
		if err := ValidateRecord(record); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		address := util.NormalizeAddress(record.Address)
		if _, dup := seen[address]; dup {
			return nil, fmt.Errorf("record %d: %w", i, types.NewInputError("address", address, "appears more than once in snapshot"))
		}
		seen[address] = struct{}{}

		score := Score(record)
		tier := ClassifyScore(score)
		weight := Weight(record, tier)

		weights[i] = new(big.Rat).SetFloat64(weight)
		totalWeight.Add(totalWeight, weights[i])

		allocation.Entries = append(allocation.Entries, &types.RewardEntry{
			Address: address,
			Season:  season,
			Tier:    tier,
			Score:   score,
			Weight:  weight,
		})
	}

	poolRat := new(big.Rat).SetInt(requested)
	for i, entry := range allocation.Entries {
		share := new(big.Rat).Mul(weights[i], poolRat)
		share.Quo(share, totalWeight)

		amount := roundHalfUp(share)
		if amount.Cmp(minReward) < 0 {
			amount.Set(minReward)
			allocation.FloorApplied++
		}
		entry.Amount = amount
		allocation.RealizedTotal.Add(allocation.RealizedTotal, amount)
	}

	sort.Slice(allocation.Entries, func(i, j int) bool {
		return allocation.Entries[i].Address < allocation.Entries[j].Address
	})

	return allocation, nil
}

// roundHalfUp rounds a non-negative rational to the nearest integer, ties up.
func roundHalfUp(r *big.Rat) *big.Int {
	quotient, remainder := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	remainder.Lsh(remainder, 1)
	if remainder.Cmp(r.Denom()) >= 0 {
		quotient.Add(quotient, big.NewInt(1))
	}
	return quotient
}
