package merkle

import (
	"fmt"
	"testing"
)

// BenchmarkMerkleTreeBuild benchmarks merkle tree construction with various sizes
func BenchmarkMerkleTreeBuild(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Leaves_%d", size), func(b *testing.B) {
			_, hashes := createTestLeaves(b, size)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = BuildMerkleTree(hashes)
			}
		})
	}
}

// BenchmarkMerkleProofGeneration benchmarks proof generation
func BenchmarkMerkleProofGeneration(b *testing.B) {
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		_, hashes := createTestLeaves(b, size)
		tree, _ := BuildMerkleTree(hashes)

		b.Run(fmt.Sprintf("Leaves_%d", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = tree.GenerateProof(i % size)
			}
		})
	}
}

// BenchmarkVerifyClaim benchmarks standalone claim verification
func BenchmarkVerifyClaim(b *testing.B) {
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		entries, hashes := createTestLeaves(b, size)
		tree, _ := BuildMerkleTree(hashes)
		proof, _ := tree.ProofForLeaf(hashes[0])

		b.Run(fmt.Sprintf("Leaves_%d", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = VerifyClaim(entries[0].Address, entries[0].Amount, proof.Proof, tree.Root)
			}
		})
	}
}

// BenchmarkEncodeLeaf benchmarks leaf hashing
func BenchmarkEncodeLeaf(b *testing.B) {
	entries, _ := createTestLeaves(b, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = EncodeLeaf(entries[0].Address, entries[0].Amount)
	}
}
