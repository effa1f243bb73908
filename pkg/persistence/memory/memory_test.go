package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence/persistencetest"
)

func TestMemoryPersistence_Contract(t *testing.T) {
	persistencetest.Run(t, func(t *testing.T) persistence.IManifestPersistence {
		return NewMemoryPersistence(zap.NewNop())
	})
}

func TestMemoryPersistence_ImplementsInterface(t *testing.T) {
	var _ persistence.IManifestPersistence = (*MemoryPersistence)(nil)
}

func TestMemoryPersistence_NotSharedAcrossInstances(t *testing.T) {
	a := NewMemoryPersistence(nil)
	b := NewMemoryPersistence(nil)
	defer func() { _ = a.Close() }()
	defer func() { _ = b.Close() }()

	require.NoError(t, a.SaveManifest(persistence.NewTestManifest(1, 1)))

	loaded, err := b.LoadManifest(1)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestNewMemoryPersistence_WarnsThroughLogger(t *testing.T) {
	core, observed := observer.New(zap.WarnLevel)

	store := NewMemoryPersistence(zap.New(core))
	defer func() { _ = store.Close() }()

	entries := observed.FilterMessageSnippet("in-memory persistence").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["hint"], "REWARDS_PERSISTENCE_TYPE")
}
