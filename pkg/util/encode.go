package util

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

// EncodeUint256 returns amount as a 32-byte big-endian word, the layout
// Solidity's abi.encodePacked uses for uint256.
func EncodeUint256(amount *big.Int) ([32]byte, error) {
	if amount == nil {
		return [32]byte{}, types.NewInputError("amount", "", "must not be nil")
	}
	if amount.Sign() < 0 {
		return [32]byte{}, types.NewInputError("amount", amount.String(), "must not be negative")
	}
	word, overflow := uint256.FromBig(amount)
	if overflow {
		return [32]byte{}, types.NewInputError("amount", amount.String(), "exceeds uint256")
	}
	return word.Bytes32(), nil
}

// ParseAmount parses a base-10 base-unit amount string.
func ParseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, types.NewInputError("amount", s, "not a base-10 integer")
	}
	if amount.Sign() < 0 {
		return nil, types.NewInputError("amount", s, "must not be negative")
	}
	return amount, nil
}

// TokensToBaseUnits scales a whole-token count by 10^decimals.
func TokensToBaseUnits(tokens uint64, decimals uint8) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return scale.Mul(scale, new(big.Int).SetUint64(tokens))
}
