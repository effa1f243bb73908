package util

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

// NormalizeAddress lowercases address and ensures a single 0x prefix.
// It does not validate the result; use ParseAddress for that.
func NormalizeAddress(address string) string {
	return types.ManifestKey(address)
}

// ParseAddress decodes a 20-byte EVM address. Input is case-insensitive
// and the 0x prefix is optional. Checksums are not enforced.
func ParseAddress(address string) (common.Address, error) {
	normalized := NormalizeAddress(address)
	if !common.IsHexAddress(normalized) {
		return common.Address{}, types.NewInputError("address", address, "expected 20 bytes of hex")
	}
	return common.HexToAddress(normalized), nil
}
