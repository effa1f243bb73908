package badger

import (
	"testing"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence/persistencetest"
)

func newTestLogger(t *testing.T) *zap.Logger {
	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)
	return testLogger
}

func TestBadgerPersistence_Contract(t *testing.T) {
	persistencetest.Run(t, func(t *testing.T) persistence.IManifestPersistence {
		bp, err := NewBadgerPersistence(t.TempDir(), newTestLogger(t))
		require.NoError(t, err)
		return bp
	})
}

func TestBadgerPersistence_ImplementsInterface(t *testing.T) {
	var _ persistence.IManifestPersistence = (*BadgerPersistence)(nil)
}

func TestBadgerPersistence_ManifestKeyOrdering(t *testing.T) {
	// Big-endian keys must sort numerically, not lexically
	assert.Less(t, string(manifestKey(9)), string(manifestKey(10)))
	assert.Less(t, string(manifestKey(255)), string(manifestKey(256)))

	season, err := seasonFromKey(manifestKey(4242))
	require.NoError(t, err)
	assert.Equal(t, uint64(4242), season)

	_, err = seasonFromKey([]byte(keyPrefixManifest + "7"))
	require.Error(t, err)
}

func TestBadgerPersistence_AcrossRestarts(t *testing.T) {
	tmpDir := t.TempDir()
	testLogger := newTestLogger(t)

	bp1, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)

	manifest := persistence.NewTestManifest(11, 3)
	require.NoError(t, bp1.SaveManifest(manifest))
	require.NoError(t, bp1.SetActiveSeason(11))
	require.NoError(t, bp1.Close())

	bp2, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)
	defer func() { _ = bp2.Close() }()

	loaded, err := bp2.LoadManifest(11)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, manifest.MerkleRoot, loaded.MerkleRoot)
	assert.Equal(t, manifest.ClaimData, loaded.ClaimData)

	active, err := bp2.GetActiveSeason()
	require.NoError(t, err)
	assert.Equal(t, uint64(11), active)
}

func TestBadgerPersistence_RejectsUnknownSchema(t *testing.T) {
	tmpDir := t.TempDir()

	opts := badgerdb.DefaultOptions(tmpDir)
	opts.Logger = nil
	db, err := badgerdb.Open(opts)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keySchemaVersion), []byte("v0"))
	}))
	require.NoError(t, db.Close())

	_, err = NewBadgerPersistence(tmpDir, newTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}
