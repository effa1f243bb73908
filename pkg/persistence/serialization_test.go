package persistence

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMarshalManifest_WireShape checks the JSON field names consumers depend on
func TestMarshalManifest_WireShape(t *testing.T) {
	original := NewTestManifest(4, 2)

	data, err := MarshalManifest(original)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"season", "merkle_root", "total_amount", "recipient_count", "claim_data", "generated_at", "expires_after_days"} {
		assert.Contains(t, raw, key)
	}

	claims := raw["claim_data"].(map[string]interface{})
	claim := claims["0x0000000000000000000000000000000000000001"].(map[string]interface{})
	assert.Equal(t, "1000000000000000000", claim["amount"])
	assert.Equal(t, "bronze", claim["tier"])
	assert.Len(t, claim["proof"], 1)

	restored, err := UnmarshalManifest(data)
	require.NoError(t, err)
	assert.Equal(t, original.MerkleRoot, restored.MerkleRoot)
	assert.True(t, original.GeneratedAt.Equal(restored.GeneratedAt))
	assert.Equal(t, original.ClaimData, restored.ClaimData)
}

func TestUnmarshalManifest_EmptyClaimData(t *testing.T) {
	restored, err := UnmarshalManifest([]byte(`{"season":1,"merkle_root":"0x00","recipient_count":0}`))
	require.NoError(t, err)
	require.NotNil(t, restored.ClaimData)
	require.Empty(t, restored.ClaimData)
}

func TestMarshalManifest_Errors(t *testing.T) {
	_, err := MarshalManifest(nil)
	require.Error(t, err)

	_, err = UnmarshalManifest(nil)
	require.Error(t, err)

	_, err = UnmarshalManifest([]byte("{not json"))
	require.Error(t, err)
}

func TestCopyManifest_Independent(t *testing.T) {
	original := NewTestManifest(2, 3)
	cp := CopyManifest(original)
	require.Equal(t, original, cp)

	cp.ClaimData["0x0000000000000000000000000000000000000001"].Proof[0] = "0xdead"
	cp.MerkleRoot = "0xbeef"
	delete(cp.ClaimData, "0x0000000000000000000000000000000000000002")

	require.NotEqual(t, "0xdead", original.ClaimData["0x0000000000000000000000000000000000000001"].Proof[0])
	require.NotEqual(t, "0xbeef", original.MerkleRoot)
	require.Len(t, original.ClaimData, 3)

	require.Nil(t, CopyManifest(nil))
}
