package persistence

import (
	"fmt"
	"time"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

// NewTestManifest builds a structurally valid manifest with n synthetic
// claims. Hashes are placeholders; it is meant for storage tests only.
func NewTestManifest(season uint64, n int) *types.SeasonManifest {
	claims := make(map[string]*types.ClaimData, n)
	for i := 0; i < n; i++ {
		addr := fmt.Sprintf("0x%040x", i+1)
		claims[addr] = &types.ClaimData{
			Amount: fmt.Sprintf("%d000000000000000000", i+1),
			Proof:  []string{fmt.Sprintf("0x%064x", season*1000+uint64(i))},
			Tier:   types.AllTiers[i%len(types.AllTiers)],
		}
	}
	return &types.SeasonManifest{
		Season:           season,
		GenerationID:     fmt.Sprintf("test-%d", season),
		MerkleRoot:       fmt.Sprintf("0x%064x", season),
		TotalAmount:      fmt.Sprintf("%d", n),
		RequestedAmount:  fmt.Sprintf("%d", n),
		RecipientCount:   n,
		ClaimData:        claims,
		GeneratedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ExpiresAfterDays: 30,
	}
}
