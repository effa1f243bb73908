package distribution

import (
	"fmt"
	"math/big"
	"time"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/merkle"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/util"
)

// ExportManifest assembles the claim manifest for a built tree.
//
// Every proof is folded against the tree root before it is written out, so a
// manifest that returns without error only contains claims the on-chain
// verifier will accept. There must be exactly one proof per leaf.
func ExportManifest(
	tree *merkle.MerkleTree,
	proofs []*types.ClaimProof,
	season uint64,
	requested *big.Int,
	generatedAt time.Time,
	expiryDays int,
) (*types.SeasonManifest, error) {
	if tree == nil {
		return nil, fmt.Errorf("cannot export manifest without a tree")
	}
	if season == 0 {
		return nil, types.NewInputError("season", "0", "must be positive")
	}
	if len(proofs) != len(tree.Leaves) {
		return nil, fmt.Errorf("have %d proofs for %d leaves", len(proofs), len(tree.Leaves))
	}

	total := big.NewInt(0)
	claims := make(map[string]*types.ClaimData, len(proofs))

	for _, p := range proofs {
		if p == nil {
			return nil, fmt.Errorf("nil claim proof")
		}
		key := util.NormalizeAddress(p.Address)
		if _, dup := claims[key]; dup {
			return nil, fmt.Errorf("address %s has more than one proof", key)
		}
		if !merkle.VerifyClaim(p.Address, p.Amount, p.Proof, tree.Root) {
			return nil, fmt.Errorf("proof for %s does not verify against root %s", key, merkle.EncodeHash(tree.Root))
		}

		claims[key] = &types.ClaimData{
			Amount: p.Amount.String(),
			Proof:  merkle.EncodeHashes(p.Proof),
			Tier:   p.Tier,
		}
		total.Add(total, p.Amount)
	}

	return &types.SeasonManifest{
		Season:           season,
		MerkleRoot:       merkle.EncodeHash(tree.Root),
		TotalAmount:      total.String(),
		RequestedAmount:  amountString(requested),
		RecipientCount:   len(claims),
		ClaimData:        claims,
		GeneratedAt:      generatedAt.UTC(),
		ExpiresAfterDays: expiryDays,
	}, nil
}

// EmptyManifest is published for a season with no eligible recipients. It
// carries the zero root, which no proof can fold to.
func EmptyManifest(season uint64, requested *big.Int, generatedAt time.Time, expiryDays int) *types.SeasonManifest {
	return &types.SeasonManifest{
		Season:           season,
		MerkleRoot:       types.ZeroRoot,
		TotalAmount:      "0",
		RequestedAmount:  amountString(requested),
		RecipientCount:   0,
		ClaimData:        map[string]*types.ClaimData{},
		GeneratedAt:      generatedAt.UTC(),
		ExpiresAfterDays: expiryDays,
	}
}

func amountString(a *big.Int) string {
	if a == nil {
		return "0"
	}
	return a.String()
}
