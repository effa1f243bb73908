package rewards

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/eigenx-rewards-go/internal/tests"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/util"
)

const (
	addrA = "0x000000000000000000000000000000000000AAAA"
	addrB = "0x000000000000000000000000000000000000BBBB"
)

var oneToken = util.TokensToBaseUnits(1, 18)

func TestWeight(t *testing.T) {
	testCases := []struct {
		name   string
		record *types.PerformanceRecord
		tier   types.Tier
		want   float64
	}{
		{"bronze base", &types.PerformanceRecord{Level: 1}, types.TierBronze, 10},
		{"gold multiplier", &types.PerformanceRecord{Points: 10, Level: 1}, types.TierGold, 40},
		{"silver fractional", &types.PerformanceRecord{Points: 1, Level: 1}, types.TierSilver, 16.5},
		{"activity capped", &types.PerformanceRecord{Level: 1, ActivityScore: 1000}, types.TierBronze, 510},
		{"activity uncapped", &types.PerformanceRecord{Level: 1, ActivityScore: 20}, types.TierBronze, 110},
		{"diamond", &types.PerformanceRecord{Points: 100, Level: 2}, types.TierDiamond, 360},
		{"floor applies", &types.PerformanceRecord{}, types.TierBronze, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, Weight(tc.record, tc.tier), 1e-9)
		})
	}
}

// TestAllocateTwoRecords is the bronze/gold example: weights 10 and 40 over
// a 100 token pool.
func TestAllocateTwoRecords(t *testing.T) {
	records := []*types.PerformanceRecord{
		{Address: addrB, Points: 10, Level: 1, TreatsCreated: 198},
		{Address: addrA, Level: 1},
	}
	pool := util.TokensToBaseUnits(100, 18)

	alloc, err := Allocate(records, 1, pool, oneToken)
	require.NoError(t, err)
	require.Len(t, alloc.Entries, 2)

	a, b := alloc.Entries[0], alloc.Entries[1]
	require.Equal(t, "0x000000000000000000000000000000000000aaaa", a.Address)
	require.Equal(t, types.TierBronze, a.Tier)
	require.Equal(t, 10.0, a.Weight)
	require.Equal(t, util.TokensToBaseUnits(20, 18), a.Amount)

	require.Equal(t, types.TierGold, b.Tier)
	require.Equal(t, 40.0, b.Weight)
	require.Equal(t, util.TokensToBaseUnits(80, 18), b.Amount)

	require.Equal(t, pool, alloc.RealizedTotal)
	require.Equal(t, pool, alloc.RequestedTotal)
	require.Equal(t, 0, alloc.Overshoot().Sign())
	require.Equal(t, 0, alloc.FloorApplied)
	for _, e := range alloc.Entries {
		require.Equal(t, uint64(1), e.Season)
	}
}

// TestAllocateMinimumRewardFloor checks that a share rounding to zero is
// lifted to the minimum and that the realized total then exceeds the pool.
func TestAllocateMinimumRewardFloor(t *testing.T) {
	records := []*types.PerformanceRecord{
		{Address: addrA, Points: 10_000_000, Level: 1},
		{Address: addrB, Level: 1},
	}
	pool := big.NewInt(1000)
	minReward := big.NewInt(5)

	alloc, err := Allocate(records, 2, pool, minReward)
	require.NoError(t, err)

	require.Equal(t, big.NewInt(1000), alloc.Entries[0].Amount)
	require.Equal(t, minReward, alloc.Entries[1].Amount)
	require.Equal(t, 1, alloc.FloorApplied)
	require.Equal(t, big.NewInt(1005), alloc.RealizedTotal)
	require.Equal(t, big.NewInt(5), alloc.Overshoot())
}

func TestAllocateManySmallRecordsOvershoot(t *testing.T) {
	records := tests.CreateTestRecords(50)
	pool := util.TokensToBaseUnits(10, 18)

	alloc, err := Allocate(records, 1, pool, oneToken)
	require.NoError(t, err)
	require.Len(t, alloc.Entries, 50)

	sum := big.NewInt(0)
	for _, e := range alloc.Entries {
		require.GreaterOrEqual(t, e.Amount.Cmp(oneToken), 0)
		sum.Add(sum, e.Amount)
	}
	require.Equal(t, sum, alloc.RealizedTotal)
	require.Positive(t, alloc.RealizedTotal.Cmp(pool))
	require.Positive(t, alloc.FloorApplied)
}

func TestAllocateRoundingHalfUp(t *testing.T) {
	// Equal weights over an odd pool: 5/2 = 2.5 rounds up for both
	records := []*types.PerformanceRecord{
		{Address: addrA, Level: 1},
		{Address: addrB, Level: 1},
	}
	alloc, err := Allocate(records, 1, big.NewInt(5), big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(3), alloc.Entries[0].Amount)
	require.Equal(t, big.NewInt(3), alloc.Entries[1].Amount)
	require.Equal(t, big.NewInt(6), alloc.RealizedTotal)
}

func TestAllocateOrderIndependent(t *testing.T) {
	records := tests.CreateTestRecords(20)
	reversed := make([]*types.PerformanceRecord, len(records))
	for i := range records {
		reversed[len(records)-1-i] = records[i]
	}
	pool := util.TokensToBaseUnits(1000, 18)

	a1, err := Allocate(records, 1, pool, oneToken)
	require.NoError(t, err)
	a2, err := Allocate(reversed, 1, pool, oneToken)
	require.NoError(t, err)
	require.Equal(t, a1, a2)
}

func TestAllocateEmpty(t *testing.T) {
	alloc, err := Allocate(nil, 1, big.NewInt(0), oneToken)
	require.NoError(t, err)
	require.Empty(t, alloc.Entries)
	require.Equal(t, 0, alloc.RealizedTotal.Sign())
}

func TestAllocateInputErrors(t *testing.T) {
	valid := &types.PerformanceRecord{Address: addrA, Level: 1}
	pool := util.TokensToBaseUnits(100, 18)

	testCases := []struct {
		name    string
		records []*types.PerformanceRecord
		season  uint64
		pool    *big.Int
	}{
		{"zero season", []*types.PerformanceRecord{valid}, 0, pool},
		{"zero pool", []*types.PerformanceRecord{valid}, 1, big.NewInt(0)},
		{"nil pool", []*types.PerformanceRecord{valid}, 1, nil},
		{"negative pool", []*types.PerformanceRecord{valid}, 1, big.NewInt(-1)},
		{"nil record", []*types.PerformanceRecord{nil}, 1, pool},
		{"short address", []*types.PerformanceRecord{{Address: "0xAAA", Level: 1}}, 1, pool},
		{"zero level", []*types.PerformanceRecord{{Address: addrA}}, 1, pool},
		{"negative activity", []*types.PerformanceRecord{{Address: addrA, Level: 1, ActivityScore: -1}}, 1, pool},
		{"nan activity", []*types.PerformanceRecord{{Address: addrA, Level: 1, ActivityScore: math.NaN()}}, 1, pool},
		{"inf activity", []*types.PerformanceRecord{{Address: addrA, Level: 1, ActivityScore: math.Inf(1)}}, 1, pool},
		{"duplicate address differing case", []*types.PerformanceRecord{
			{Address: addrA, Level: 1},
			{Address: "0x000000000000000000000000000000000000aaaa", Level: 2},
		}, 1, pool},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			alloc, err := Allocate(tc.records, tc.season, tc.pool, oneToken)
			require.Error(t, err)
			require.True(t, types.IsInputError(err), err.Error())
			require.Nil(t, alloc)
		})
	}

	t.Run("negative min reward", func(t *testing.T) {
		_, err := Allocate([]*types.PerformanceRecord{valid}, 1, pool, big.NewInt(-1))
		require.True(t, types.IsInputError(err))
	})
}
