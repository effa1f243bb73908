package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

// MarshalManifest serializes a SeasonManifest to JSON bytes.
// The stored form is the same JSON handed to claim consumers.
func MarshalManifest(m *types.SeasonManifest) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("cannot marshal nil SeasonManifest")
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal SeasonManifest to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalManifest deserializes a SeasonManifest from JSON bytes.
func UnmarshalManifest(data []byte) (*types.SeasonManifest, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var m types.SeasonManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to SeasonManifest: %w", err)
	}
	if m.ClaimData == nil {
		m.ClaimData = make(map[string]*types.ClaimData)
	}

	return &m, nil
}

// CopyManifest returns a deep copy so stores never share mutable state with callers.
func CopyManifest(m *types.SeasonManifest) *types.SeasonManifest {
	if m == nil {
		return nil
	}
	out := *m
	out.ClaimData = make(map[string]*types.ClaimData, len(m.ClaimData))
	for addr, cd := range m.ClaimData {
		if cd == nil {
			continue
		}
		proof := make([]string, len(cd.Proof))
		copy(proof, cd.Proof)
		out.ClaimData[addr] = &types.ClaimData{
			Amount: cd.Amount,
			Proof:  proof,
			Tier:   cd.Tier,
		}
	}
	return &out
}
