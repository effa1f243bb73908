package tests

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

func GetProjectRootPath() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	startingPath := ""
	iterations := 0
	for {
		if iterations > 10 {
			panic("Could not find project root path")
		}
		iterations++
		p, err := filepath.Abs(fmt.Sprintf("%s/%s", wd, startingPath))
		if err != nil {
			panic(err)
		}

		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return p
		}
		match := regexp.MustCompile(`\/eigenx-rewards-go([A-Za-z0-9_-]+)?\/?$`)
		if match.MatchString(p) {
			return p
		}
		startingPath = startingPath + "/.."
	}
}

// TestDataPath returns the absolute path of a file under internal/testData.
func TestDataPath(name string) string {
	return filepath.Join(GetProjectRootPath(), "internal", "testData", name)
}

// AddressN returns a deterministic, valid address for fixture index n.
// Index 0 maps to 0x...01 so no fixture uses the zero address.
func AddressN(n int) string {
	return fmt.Sprintf("0x%040x", n+1)
}

// CreateTestRewardEntries creates n entries with distinct addresses and
// amounts for a single season.
func CreateTestRewardEntries(n int, season uint64) []*types.RewardEntry {
	entries := make([]*types.RewardEntry, n)
	for i := 0; i < n; i++ {
		amount := new(big.Int).Mul(big.NewInt(int64(i+1)), big.NewInt(1_000_000_000_000_000_000))
		entries[i] = &types.RewardEntry{
			Address: AddressN(i),
			Amount:  amount,
			Season:  season,
			Tier:    types.AllTiers[i%len(types.AllTiers)],
		}
	}
	return entries
}

// CreateTestRecords creates n performance records spread across all tiers.
func CreateTestRecords(n int) []*types.PerformanceRecord {
	records := make([]*types.PerformanceRecord, n)
	for i := 0; i < n; i++ {
		records[i] = &types.PerformanceRecord{
			Address:       AddressN(i),
			Points:        uint64(i * 997 % 12000),
			Level:         uint64(i%40 + 1),
			TreatsCreated: uint64(i % 25),
			ActivityScore: float64(i%150) / 2,
		}
	}
	return records
}
