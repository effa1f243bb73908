package rewards

import (
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

// Composite score coefficients used for tier classification
const (
	ScorePointsFactor   = 1
	ScoreLevelFactor    = 50
	ScoreTreatsFactor   = 25
	ScoreActivityFactor = 10
)

// Score computes the composite classification score for a record:
// points + level*50 + treatsCreated*25 + activityScore*10.
func Score(record *types.PerformanceRecord) float64 {
	return float64(record.Points)*ScorePointsFactor +
		float64(record.Level)*ScoreLevelFactor +
		float64(record.TreatsCreated)*ScoreTreatsFactor +
		record.ActivityScore*ScoreActivityFactor
}

// TierThreshold returns the inclusive lower score bound of a tier.
func TierThreshold(tier types.Tier) float64 {
	switch tier {
	case types.TierDiamond:
		return 10000
	case types.TierGold:
		return 5000
	case types.TierSilver:
		return 2000
	case types.TierBronze:
		return 0
	default:
		return 0
	}
}

// TierMultiplier returns the weight multiplier applied to a tier.
// TierUnknown has no multiplier.
func TierMultiplier(tier types.Tier) float64 {
	switch tier {
	case types.TierDiamond:
		return 3.0
	case types.TierGold:
		return 2.0
	case types.TierSilver:
		return 1.5
	case types.TierBronze:
		return 1.0
	default:
		return 0
	}
}

// ClassifyScore maps a composite score to its tier, highest threshold first.
func ClassifyScore(score float64) types.Tier {
	switch {
	case score >= TierThreshold(types.TierDiamond):
		return types.TierDiamond
	case score >= TierThreshold(types.TierGold):
		return types.TierGold
	case score >= TierThreshold(types.TierSilver):
		return types.TierSilver
	default:
		return types.TierBronze
	}
}

// Classify returns the reward tier for a performance record.
func Classify(record *types.PerformanceRecord) types.Tier {
	return ClassifyScore(Score(record))
}
