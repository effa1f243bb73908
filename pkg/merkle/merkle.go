package merkle

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/crypto"
)

// BuildMerkleTree creates a binary merkle tree from leaf hashes.
// The leaves are sorted by byte value before building the tree so the root
// does not depend on the order the caller produced them in.
//
// If there's an odd number of nodes at any level, the last node is paired
// with itself. Parents are keccak256(min(left, right) || max(left, right)).
// A single leaf is its own root.
func BuildMerkleTree(leaves [][32]byte) (*MerkleTree, error) {
	if len(leaves) == 0 {
		return nil, fmt.Errorf("cannot build merkle tree from empty leaf list")
	}

	sortedLeaves := SortLeaves(leaves)

	index := make(map[[32]byte]int, len(sortedLeaves))
	for i, leaf := range sortedLeaves {
		if _, exists := index[leaf]; exists {
			return nil, fmt.Errorf("duplicate leaf hash 0x%x", leaf)
		}
		index[leaf] = i
	}

	// Build tree levels bottom-up
	levels := make([][][32]byte, 0)
	levels = append(levels, sortedLeaves)

	currentLevel := sortedLeaves
	for len(currentLevel) > 1 {
		nextLevel := make([][32]byte, 0, (len(currentLevel)+1)/2)

		for i := 0; i < len(currentLevel); i += 2 {
			left := currentLevel[i]

			// If odd number of nodes, pair the last one with itself
			right := left
			if i+1 < len(currentLevel) {
				right = currentLevel[i+1]
			}

			nextLevel = append(nextLevel, HashPairSorted(left, right))
		}

		levels = append(levels, nextLevel)
		currentLevel = nextLevel
	}

	if len(currentLevel) != 1 {
		return nil, fmt.Errorf("merkle tree construction failed: final level has %d nodes instead of 1", len(currentLevel))
	}

	return &MerkleTree{
		Leaves: sortedLeaves,
		Root:   currentLevel[0],
		levels: levels,
		index:  index,
	}, nil
}

// GenerateProof creates a merkle proof for the leaf at the given index.
// The proof consists of sibling hashes along the path from leaf to root.
func (mt *MerkleTree) GenerateProof(leafIndex int) (*MerkleProof, error) {
	if leafIndex < 0 || leafIndex >= len(mt.Leaves) {
		return nil, fmt.Errorf("leaf index %d out of bounds (tree has %d leaves)", leafIndex, len(mt.Leaves))
	}

	proof := make([][32]byte, 0, len(mt.levels)-1)
	index := leafIndex

	// Traverse from leaf to root, collecting sibling hashes
	for level := 0; level < len(mt.levels)-1; level++ {
		currentLevel := mt.levels[level]

		var siblingIndex int
		if index%2 == 0 {
			siblingIndex = index + 1
		} else {
			siblingIndex = index - 1
		}

		// Last node of an odd level was paired with itself
		if siblingIndex >= len(currentLevel) {
			siblingIndex = index
		}

		proof = append(proof, currentLevel[siblingIndex])

		index = index / 2
	}

	return &MerkleProof{
		LeafIndex: leafIndex,
		Leaf:      mt.Leaves[leafIndex],
		Proof:     proof,
	}, nil
}

// ProofForLeaf looks up a leaf by hash and returns its proof.
func (mt *MerkleTree) ProofForLeaf(leaf [32]byte) (*MerkleProof, error) {
	idx, ok := mt.LeafIndex(leaf)
	if !ok {
		return nil, fmt.Errorf("leaf 0x%x not found in tree", leaf)
	}
	return mt.GenerateProof(idx)
}

// LeafIndex returns the sorted position of leaf.
func (mt *MerkleTree) LeafIndex(leaf [32]byte) (int, bool) {
	idx, ok := mt.index[leaf]
	return idx, ok
}

// Depth is the number of hashing levels above the leaves.
func (mt *MerkleTree) Depth() int {
	return len(mt.levels) - 1
}

// Level returns a copy of the nodes at the given level (0 = leaves).
func (mt *MerkleTree) Level(level int) ([][32]byte, error) {
	if level < 0 || level >= len(mt.levels) {
		return nil, fmt.Errorf("level %d out of bounds (tree has %d levels)", level, len(mt.levels))
	}
	out := make([][32]byte, len(mt.levels[level]))
	copy(out, mt.levels[level])
	return out, nil
}

// SortLeaves returns a copy of leaves in ascending byte order.
func SortLeaves(leaves [][32]byte) [][32]byte {
	sorted := make([][32]byte, len(leaves))
	copy(sorted, leaves)

	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})

	return sorted
}

// HashPairSorted computes keccak256(min(a, b) || max(a, b)).
// Ordering the pair makes the parent commutative, so verifiers need no
// left/right flags.
func HashPairSorted(a, b [32]byte) [32]byte {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}

	return [32]byte(crypto.Keccak256Hash(a[:], b[:]))
}
