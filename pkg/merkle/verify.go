package merkle

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/util"
)

// VerifyProof verifies that a leaf is included in the merkle tree with the given root.
// Sorted-pair hashing means the leaf index is not needed.
func VerifyProof(proof *MerkleProof, root [32]byte) bool {
	if proof == nil {
		return false
	}
	return fold(proof.Leaf, proof.Proof) == root
}

// VerifyClaim recomputes the leaf for (address, amount) and checks the proof
// against root. It needs nothing but the published claim data, which is
// exactly what the on-chain verifier sees. Malformed input yields false.
func VerifyClaim(address string, amount *big.Int, proof [][32]byte, root [32]byte) bool {
	leaf, err := EncodeLeaf(address, amount)
	if err != nil {
		return false
	}
	return fold(leaf, proof) == root
}

// VerifyClaimHex is VerifyClaim over the string forms found in a manifest:
// a base-10 amount and 0x-prefixed hex hashes (any case).
func VerifyClaimHex(address string, amount string, proof []string, root string) bool {
	parsedAmount, err := util.ParseAmount(amount)
	if err != nil {
		return false
	}
	parsedRoot, err := DecodeHash(root)
	if err != nil {
		return false
	}
	parsedProof, err := DecodeHashes(proof)
	if err != nil {
		return false
	}
	return VerifyClaim(address, parsedAmount, parsedProof, parsedRoot)
}

func fold(leaf [32]byte, proof [][32]byte) [32]byte {
	current := leaf
	for _, sibling := range proof {
		current = HashPairSorted(current, sibling)
	}
	return current
}

// EncodeHash renders a hash as lowercase 0x-prefixed hex.
func EncodeHash(h [32]byte) string {
	return hexutil.Encode(h[:])
}

// EncodeHashes renders each hash with EncodeHash.
func EncodeHashes(hashes [][32]byte) []string {
	out := make([]string, len(hashes))
	for i, h := range hashes {
		out[i] = EncodeHash(h)
	}
	return out
}

// DecodeHash parses a 0x-prefixed 32-byte hex string.
func DecodeHash(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hexutil.Decode(s)
	if err != nil {
		return out, err
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("expected 32-byte hash, got %d bytes", len(b))
	}
	copy(out[:], b)
	return out, nil
}

// DecodeHashes parses every element with DecodeHash.
func DecodeHashes(ss []string) ([][32]byte, error) {
	out := make([][32]byte, len(ss))
	for i, s := range ss {
		h, err := DecodeHash(s)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}
