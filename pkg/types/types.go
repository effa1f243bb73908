package types

import (
	"fmt"
	"math/big"
)

// Tier is the discrete reward bracket a player falls into for a season.
// The set is closed; TierUnknown is the zero value and is never assigned
// by the classifier.
type Tier uint8

const (
	TierUnknown Tier = iota
	TierBronze
	TierSilver
	TierGold
	TierDiamond
)

// AllTiers lists the assignable tiers from lowest to highest.
var AllTiers = []Tier{TierBronze, TierSilver, TierGold, TierDiamond}

func (t Tier) String() string {
	switch t {
	case TierBronze:
		return "bronze"
	case TierSilver:
		return "silver"
	case TierGold:
		return "gold"
	case TierDiamond:
		return "diamond"
	default:
		return "unknown"
	}
}

// IsValid reports whether t is one of the assignable tiers.
func (t Tier) IsValid() bool {
	return t >= TierBronze && t <= TierDiamond
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("cannot marshal unknown tier %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier converts a tier name back to its enum value.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "bronze":
		return TierBronze, nil
	case "silver":
		return TierSilver, nil
	case "gold":
		return TierGold, nil
	case "diamond":
		return TierDiamond, nil
	default:
		return TierUnknown, fmt.Errorf("unsupported tier: %q", s)
	}
}

// PerformanceRecord is one player's season statistics as captured by the
// game backend. Records are read-only inputs to reward generation.
type PerformanceRecord struct {
	Address       string  `json:"address"`
	Points        uint64  `json:"points"`
	Level         uint64  `json:"level"`
	TreatsCreated uint64  `json:"treats_created"`
	ActivityScore float64 `json:"activity_score"`
}

// RewardEntry is the allocation produced for one distinct address.
type RewardEntry struct {
	// Address is the normalized lowercase 0x-prefixed address
	Address string

	// Amount is denominated in token base units
	Amount *big.Int

	Season uint64
	Tier   Tier

	// Score and Weight are kept for reporting; neither is committed to the tree
	Score  float64
	Weight float64
}

// Leaf is a reward entry together with its committed hash.
// Only Address and Amount contribute to Hash.
type Leaf struct {
	Address string
	Amount  *big.Int
	Tier    Tier
	Season  uint64
	Hash    [32]byte
}

// ClaimProof binds a merkle inclusion proof to the claim it proves.
type ClaimProof struct {
	Address   string
	Amount    *big.Int
	Tier      Tier
	LeafIndex int
	Leaf      [32]byte

	// Proof holds sibling hashes from the leaf level up to just below the root
	Proof [][32]byte
}
