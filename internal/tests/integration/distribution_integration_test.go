package integration

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-rewards-go/internal/tests"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/config"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/distribution"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/merkle"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence/badger"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence/memory"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/snapshot"
)

func newEngine(t *testing.T, l *zap.Logger) *distribution.Engine {
	t.Helper()
	cfg := config.DefaultEngineConfig()
	e, err := distribution.NewEngine(cfg, l,
		distribution.WithClock(clockwork.NewFakeClockAt(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))),
		distribution.WithMetrics(nil),
	)
	require.NoError(t, err)
	return e
}

// Test_SeasonLifecycle_Badger generates a season, publishes it to a Badger
// store, reopens the store and checks every recipient can claim and verify.
func Test_SeasonLifecycle_Badger(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	records := tests.CreateTestRecords(333)
	result, err := newEngine(t, l).Generate(1, records, 1_000_000)
	require.NoError(t, err)

	dir := t.TempDir()
	store, err := badger.NewBadgerPersistence(dir, l)
	require.NoError(t, err)
	require.NoError(t, distribution.NewClaimService(store, l).WithMetrics(nil).Publish(result.Manifest))
	require.NoError(t, store.Close())

	reopened, err := badger.NewBadgerPersistence(dir, l)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	svc := distribution.NewClaimService(reopened, l).WithMetrics(nil)
	for _, record := range records {
		claim, err := svc.GetClaim(0, record.Address)
		require.NoError(t, err)
		require.Equal(t, result.Manifest.MerkleRoot, claim.MerkleRoot)

		valid, err := svc.VerifyClaim(1, record.Address)
		require.NoError(t, err)
		require.True(t, valid, "address %s", record.Address)
	}

	summary, err := distribution.SummarizeManifest(result.Manifest)
	require.NoError(t, err)
	assert.Equal(t, result.Summary.TotalAmount.String(), summary.TotalAmount.String())
	assert.Equal(t, 333, summary.RecipientCount)
}

// Test_SeasonsAreIndependent publishes two seasons and checks a proof from
// one never verifies against the other's root.
func Test_SeasonsAreIndependent(t *testing.T) {
	engine := newEngine(t, zap.NewNop())
	records := tests.CreateTestRecords(20)

	s1, err := engine.Generate(1, records, 10_000)
	require.NoError(t, err)
	s2, err := engine.Generate(2, records, 20_000)
	require.NoError(t, err)
	require.NotEqual(t, s1.Manifest.MerkleRoot, s2.Manifest.MerkleRoot)

	var store persistence.IManifestPersistence = memory.NewMemoryPersistence(zap.NewNop())
	defer func() { _ = store.Close() }()
	svc := distribution.NewClaimService(store, zap.NewNop()).WithMetrics(nil)
	require.NoError(t, svc.Publish(s1.Manifest))
	require.NoError(t, svc.Publish(s2.Manifest))

	seasons, err := store.ListSeasons()
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, seasons)

	active, err := store.GetActiveSeason()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), active)

	for _, record := range records {
		c1, err := svc.GetClaim(1, record.Address)
		require.NoError(t, err)
		require.False(t, merkle.VerifyClaimHex(c1.Address, c1.Amount, c1.Proof, s2.Manifest.MerkleRoot))
	}
}

// Test_SnapshotFilesProduceSameRoot loads the JSON and CSV fixtures of the
// same snapshot and checks they commit to one root.
func Test_SnapshotFilesProduceSameRoot(t *testing.T) {
	engine := newEngine(t, zap.NewNop())

	fromJSON, err := snapshot.LoadRecords(tests.TestDataPath("season1.json"))
	require.NoError(t, err)
	fromCSV, err := snapshot.LoadRecords(tests.TestDataPath("season1.csv"))
	require.NoError(t, err)

	a, err := engine.Generate(1, fromJSON, 100)
	require.NoError(t, err)
	b, err := engine.Generate(1, fromCSV, 100)
	require.NoError(t, err)
	assert.Equal(t, a.Manifest.MerkleRoot, b.Manifest.MerkleRoot)
	assert.Equal(t, a.Manifest.ClaimData, b.Manifest.ClaimData)
}
