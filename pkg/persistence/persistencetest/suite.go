// Package persistencetest holds the behavioral checks every
// IManifestPersistence backend must pass.
package persistencetest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) persistence.IManifestPersistence

// Run exercises a backend against the IManifestPersistence contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		original := persistence.NewTestManifest(3, 4)
		require.NoError(t, store.SaveManifest(original))

		loaded, err := store.LoadManifest(3)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, original.MerkleRoot, loaded.MerkleRoot)
		assert.Equal(t, original.TotalAmount, loaded.TotalAmount)
		assert.Equal(t, original.RecipientCount, loaded.RecipientCount)
		assert.Equal(t, original.ClaimData, loaded.ClaimData)
		assert.True(t, original.GeneratedAt.Equal(loaded.GeneratedAt))
	})

	t.Run("LoadNotFound", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		loaded, err := store.LoadManifest(999)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("SaveNil", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		err := store.SaveManifest(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil SeasonManifest")
	})

	t.Run("ReplaceSeason", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		first := persistence.NewTestManifest(5, 2)
		require.NoError(t, store.SaveManifest(first))

		second := persistence.NewTestManifest(5, 3)
		second.MerkleRoot = fmt.Sprintf("0x%064x", 0xabc)
		require.NoError(t, store.SaveManifest(second))

		loaded, err := store.LoadManifest(5)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, second.MerkleRoot, loaded.MerkleRoot)
		assert.Len(t, loaded.ClaimData, 3)

		seasons, err := store.ListSeasons()
		require.NoError(t, err)
		assert.Equal(t, []uint64{5}, seasons)
	})

	t.Run("ListSeasonsSorted", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		seasons, err := store.ListSeasons()
		require.NoError(t, err)
		assert.Empty(t, seasons)

		for _, season := range []uint64{12, 2, 7, 300} {
			require.NoError(t, store.SaveManifest(persistence.NewTestManifest(season, 1)))
		}

		seasons, err = store.ListSeasons()
		require.NoError(t, err)
		assert.Equal(t, []uint64{2, 7, 12, 300}, seasons)
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.SaveManifest(persistence.NewTestManifest(8, 1)))
		require.NoError(t, store.DeleteManifest(8))

		loaded, err := store.LoadManifest(8)
		require.NoError(t, err)
		assert.Nil(t, loaded)

		// Idempotent
		require.NoError(t, store.DeleteManifest(8))

		seasons, err := store.ListSeasons()
		require.NoError(t, err)
		assert.Empty(t, seasons)
	})

	t.Run("ActiveSeason", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		active, err := store.GetActiveSeason()
		require.NoError(t, err)
		assert.Equal(t, uint64(0), active)

		require.NoError(t, store.SetActiveSeason(4))
		active, err = store.GetActiveSeason()
		require.NoError(t, err)
		assert.Equal(t, uint64(4), active)

		require.NoError(t, store.SetActiveSeason(0))
		active, err = store.GetActiveSeason()
		require.NoError(t, err)
		assert.Equal(t, uint64(0), active)
	})

	t.Run("ReturnedCopiesAreIsolated", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		original := persistence.NewTestManifest(9, 2)
		require.NoError(t, store.SaveManifest(original))
		original.MerkleRoot = "0xmutated"

		loaded, err := store.LoadManifest(9)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.NotEqual(t, "0xmutated", loaded.MerkleRoot)

		for _, claim := range loaded.ClaimData {
			claim.Proof[0] = "0xmutated"
		}
		reloaded, err := store.LoadManifest(9)
		require.NoError(t, err)
		for _, claim := range reloaded.ClaimData {
			assert.NotEqual(t, "0xmutated", claim.Proof[0])
		}
	})

	t.Run("ClosedRejectsOperations", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.HealthCheck())
		require.NoError(t, store.Close())
		// Idempotent
		require.NoError(t, store.Close())

		assert.Error(t, store.SaveManifest(persistence.NewTestManifest(1, 1)))
		_, err := store.LoadManifest(1)
		assert.Error(t, err)
		_, err = store.ListSeasons()
		assert.Error(t, err)
		assert.Error(t, store.DeleteManifest(1))
		assert.Error(t, store.SetActiveSeason(1))
		_, err = store.GetActiveSeason()
		assert.Error(t, err)
		assert.Error(t, store.HealthCheck())
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		var wg sync.WaitGroup
		for i := 1; i <= 10; i++ {
			wg.Add(1)
			go func(season uint64) {
				defer wg.Done()
				assert.NoError(t, store.SaveManifest(persistence.NewTestManifest(season, 2)))
				loaded, err := store.LoadManifest(season)
				assert.NoError(t, err)
				assert.NotNil(t, loaded)
			}(uint64(i))
		}
		wg.Wait()

		seasons, err := store.ListSeasons()
		require.NoError(t, err)
		assert.Len(t, seasons, 10)
	})
}
