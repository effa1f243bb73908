package distribution

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

func TestSummarize(t *testing.T) {
	entries := []*types.RewardEntry{
		{Address: addrA, Amount: big.NewInt(10), Season: 6, Tier: types.TierBronze},
		{Address: addrB, Amount: big.NewInt(30), Season: 6, Tier: types.TierBronze},
		{Address: "0x000000000000000000000000000000000000cccc", Amount: big.NewInt(101), Season: 6, Tier: types.TierDiamond},
	}

	s := Summarize(entries, "0xroot", big.NewInt(100))
	assert.Equal(t, uint64(6), s.Season)
	assert.Equal(t, "0xroot", s.MerkleRoot)
	assert.Equal(t, 3, s.RecipientCount)
	assert.Equal(t, "141", s.TotalAmount.String())
	assert.Equal(t, "10", s.MinReward.String())
	assert.Equal(t, "101", s.MaxReward.String())
	assert.Equal(t, "47", s.AverageReward.String())
	assert.Equal(t, "41", s.Overshoot().String())

	require.Len(t, s.Tiers, 2)
	bronze := s.Tiers[types.TierBronze]
	assert.Equal(t, 2, bronze.Count)
	assert.Equal(t, "40", bronze.Total.String())
	assert.Equal(t, "20", bronze.Average.String())

	diamond := s.Tiers[types.TierDiamond]
	assert.Equal(t, 1, diamond.Count)
	assert.Equal(t, "101", diamond.Average.String())
	assert.NotContains(t, s.Tiers, types.TierGold)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, types.ZeroRoot, nil)
	assert.Equal(t, 0, s.RecipientCount)
	assert.Equal(t, 0, s.TotalAmount.Sign())
	assert.Equal(t, 0, s.AverageReward.Sign())
	assert.Equal(t, 0, s.RequestedAmount.Sign())
	assert.Empty(t, s.Tiers)
}

func TestSummarizeManifest_MatchesGeneration(t *testing.T) {
	result, err := newTestEngine(t).Generate(1, twoRecords(), 100)
	require.NoError(t, err)

	s, err := SummarizeManifest(result.Manifest)
	require.NoError(t, err)

	assert.Equal(t, result.Summary.Season, s.Season)
	assert.Equal(t, result.Summary.RecipientCount, s.RecipientCount)
	assert.Equal(t, result.Summary.TotalAmount.String(), s.TotalAmount.String())
	assert.Equal(t, result.Summary.RequestedAmount.String(), s.RequestedAmount.String())
	assert.Equal(t, result.Summary.MinReward.String(), s.MinReward.String())
	assert.Equal(t, result.Summary.MaxReward.String(), s.MaxReward.String())
	assert.Len(t, s.Tiers, len(result.Summary.Tiers))

	result.Manifest.RequestedAmount = "-1"
	_, err = SummarizeManifest(result.Manifest)
	require.Error(t, err)

	_, err = SummarizeManifest(nil)
	require.Error(t, err)
}

func TestSummarizeManifest_ClaimsWithoutTier(t *testing.T) {
	result, err := newTestEngine(t).Generate(1, twoRecords(), 100)
	require.NoError(t, err)

	data, ok := result.Manifest.ClaimData[types.ManifestKey(addrA)]
	require.True(t, ok)
	data.Tier = types.TierUnknown

	s, err := SummarizeManifest(result.Manifest)
	require.NoError(t, err)
	assert.Equal(t, 2, s.RecipientCount)
	assert.Equal(t, result.Manifest.TotalAmount, s.TotalAmount.String())
	assert.NotContains(t, s.Tiers, types.TierUnknown)
	assert.Len(t, s.Tiers, 1)

	_, err = json.Marshal(s)
	require.NoError(t, err)
}
