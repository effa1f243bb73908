package types

import (
	"math/big"
	"strings"
	"time"
)

// ZeroRoot is the placeholder merkle root published for a season with no
// eligible recipients.
const ZeroRoot = "0x0000000000000000000000000000000000000000000000000000000000000000"

// ClaimData is the per-address payload a claimant submits on-chain.
type ClaimData struct {
	// Amount is a base-unit decimal string to avoid precision loss in JSON consumers
	Amount string   `json:"amount"`
	Proof  []string `json:"proof"`
	Tier   Tier     `json:"tier,omitempty"`
}

// SeasonManifest is the durable artifact of one generation run. Each
// manifest is a standalone commitment; manifests of different seasons are
// never merged.
type SeasonManifest struct {
	Season       uint64 `json:"season"`
	GenerationID string `json:"generation_id,omitempty"`
	MerkleRoot   string `json:"merkle_root"`

	// TotalAmount is the realized sum of all claims. It can exceed
	// RequestedAmount when the minimum reward floor lifts small shares.
	TotalAmount     string `json:"total_amount"`
	RequestedAmount string `json:"requested_amount"`

	RecipientCount   int                   `json:"recipient_count"`
	ClaimData        map[string]*ClaimData `json:"claim_data"`
	GeneratedAt      time.Time             `json:"generated_at"`
	ExpiresAfterDays int                   `json:"expires_after_days"`
}

// Claim is the answer to a claim query for one address in one season.
type Claim struct {
	Address    string   `json:"address"`
	Season     uint64   `json:"season"`
	Amount     string   `json:"amount"`
	Proof      []string `json:"proof"`
	MerkleRoot string   `json:"merkle_root"`
}

// IsEmpty reports whether the manifest carries no recipients.
func (m *SeasonManifest) IsEmpty() bool {
	return m == nil || m.RecipientCount == 0
}

// ExpiresAt is advisory: collection is enforced elsewhere.
func (m *SeasonManifest) ExpiresAt() time.Time {
	return m.GeneratedAt.Add(time.Duration(m.ExpiresAfterDays) * 24 * time.Hour)
}

// Claim looks up the claim data for address. The lookup is case-insensitive
// and tolerates a missing 0x prefix. The second return value is false when
// the address has no allocation in this manifest.
func (m *SeasonManifest) Claim(address string) (*Claim, bool) {
	if m == nil || len(m.ClaimData) == 0 {
		return nil, false
	}
	key := ManifestKey(address)
	data, ok := m.ClaimData[key]
	if !ok || data == nil {
		return nil, false
	}
	proof := make([]string, len(data.Proof))
	copy(proof, data.Proof)
	return &Claim{
		Address:    key,
		Season:     m.Season,
		Amount:     data.Amount,
		Proof:      proof,
		MerkleRoot: m.MerkleRoot,
	}, true
}

// ManifestKey returns the claim_data key used for address.
func ManifestKey(address string) string {
	a := strings.ToLower(strings.TrimSpace(address))
	if !strings.HasPrefix(a, "0x") {
		a = "0x" + a
	}
	return a
}

// TierSummary aggregates the allocations of a single tier.
type TierSummary struct {
	Count   int      `json:"count"`
	Total   *big.Int `json:"total"`
	Average *big.Int `json:"average"`
}

// Summary is a human-oriented report of one season's distribution.
type Summary struct {
	Season          uint64                `json:"season"`
	MerkleRoot      string                `json:"merkle_root"`
	RecipientCount  int                   `json:"recipient_count"`
	TotalAmount     *big.Int              `json:"total_amount"`
	RequestedAmount *big.Int              `json:"requested_amount"`
	MinReward       *big.Int              `json:"min_reward"`
	MaxReward       *big.Int              `json:"max_reward"`
	AverageReward   *big.Int              `json:"average_reward"`
	Tiers           map[Tier]*TierSummary `json:"tiers"`
}

// Overshoot returns how far the realized total exceeds the requested pool,
// or zero when it does not.
func (s *Summary) Overshoot() *big.Int {
	if s == nil || s.TotalAmount == nil || s.RequestedAmount == nil {
		return big.NewInt(0)
	}
	diff := new(big.Int).Sub(s.TotalAmount, s.RequestedAmount)
	if diff.Sign() < 0 {
		return big.NewInt(0)
	}
	return diff
}
