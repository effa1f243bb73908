package merkle

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/util"
)

// EncodeLeaf hashes a single (address, amount) allocation.
// Format: keccak256(abi.encodePacked(address account, uint256 amount)),
// i.e. the 20 address bytes followed by the 32-byte big-endian amount.
//
// Tier and season are deliberately absent so they can travel as metadata
// without changing what the contract verifies.
func EncodeLeaf(address string, amount *big.Int) ([32]byte, error) {
	addr, err := util.ParseAddress(address)
	if err != nil {
		return [32]byte{}, err
	}
	word, err := util.EncodeUint256(amount)
	if err != nil {
		return [32]byte{}, err
	}

	return [32]byte(crypto.Keccak256Hash(addr.Bytes(), word[:])), nil
}

// NewLeaf hashes a reward entry into a tree leaf.
func NewLeaf(entry *types.RewardEntry) (*types.Leaf, error) {
	if entry == nil {
		return nil, types.NewInputError("entry", "", "must not be nil")
	}
	hash, err := EncodeLeaf(entry.Address, entry.Amount)
	if err != nil {
		return nil, err
	}
	return &types.Leaf{
		Address: util.NormalizeAddress(entry.Address),
		Amount:  new(big.Int).Set(entry.Amount),
		Tier:    entry.Tier,
		Season:  entry.Season,
		Hash:    hash,
	}, nil
}
