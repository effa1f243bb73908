package distribution

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

var csvHeader = []string{"season", "address", "amount", "tier", "proof", "merkle_root", "generated_at"}

// ManifestCSV renders a manifest's claims as CSV, one row per address in
// ascending address order, and returns the payload with its hex SHA-256.
// Proof hashes are joined with ';' inside a single column.
func ManifestCSV(manifest *types.SeasonManifest) ([]byte, string, error) {
	if manifest == nil {
		return nil, "", fmt.Errorf("cannot export nil manifest")
	}

	addresses := make([]string, 0, len(manifest.ClaimData))
	for addr := range manifest.ClaimData {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)
	if err := writer.Write(csvHeader); err != nil {
		return nil, "", err
	}

	season := fmt.Sprintf("%d", manifest.Season)
	generated := manifest.GeneratedAt.UTC().Format(time.RFC3339Nano)
	for _, addr := range addresses {
		claim := manifest.ClaimData[addr]
		if claim == nil {
			continue
		}
		tier := ""
		if claim.Tier.IsValid() {
			tier = claim.Tier.String()
		}
		record := []string{
			season,
			addr,
			claim.Amount,
			tier,
			strings.Join(claim.Proof, ";"),
			manifest.MerkleRoot,
			generated,
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	data := buffer.Bytes()
	checksum := sha256.Sum256(data)
	return data, hex.EncodeToString(checksum[:]), nil
}
