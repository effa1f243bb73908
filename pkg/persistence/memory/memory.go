package memory

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

// MemoryPersistence is an in-memory implementation of IManifestPersistence.
// This implementation is intended for TESTING and dry runs.
//
// All data is stored in memory and will be lost when the process exits.
// Thread-safe using sync.RWMutex for concurrent access.
// Deep copies data to prevent external mutation.
type MemoryPersistence struct {
	mu sync.RWMutex

	// Manifest storage: season -> SeasonManifest
	manifests map[uint64]*types.SeasonManifest

	// Active season tracking
	activeSeason uint64

	// Closed flag
	closed bool
}

// NewMemoryPersistence creates a new in-memory persistence layer.
// Logs a loud warning since published manifests must survive a restart.
// A nil logger is treated as zap.NewNop.
func NewMemoryPersistence(logger *zap.Logger) *MemoryPersistence {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Sugar().Warnw("Using in-memory persistence, all manifests will be lost on exit",
		"hint", "set REWARDS_PERSISTENCE_TYPE=badger or redis to keep published seasons",
	)

	return &MemoryPersistence{
		manifests: make(map[uint64]*types.SeasonManifest),
	}
}

// SaveManifest persists a season manifest.
func (m *MemoryPersistence) SaveManifest(manifest *types.SeasonManifest) error {
	if manifest == nil {
		return fmt.Errorf("cannot save nil SeasonManifest")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	m.manifests[manifest.Season] = persistence.CopyManifest(manifest)
	return nil
}

// LoadManifest retrieves a manifest by season.
func (m *MemoryPersistence) LoadManifest(season uint64) (*types.SeasonManifest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	manifest, exists := m.manifests[season]
	if !exists {
		return nil, nil // Not found is not an error
	}

	return persistence.CopyManifest(manifest), nil
}

// ListSeasons returns every stored season in ascending order.
func (m *MemoryPersistence) ListSeasons() ([]uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	seasons := make([]uint64, 0, len(m.manifests))
	for season := range m.manifests {
		seasons = append(seasons, season)
	}
	sort.Slice(seasons, func(i, j int) bool {
		return seasons[i] < seasons[j]
	})

	return seasons, nil
}

// DeleteManifest removes a season's manifest.
func (m *MemoryPersistence) DeleteManifest(season uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	delete(m.manifests, season)
	return nil
}

// SetActiveSeason stores the active season.
func (m *MemoryPersistence) SetActiveSeason(season uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	m.activeSeason = season
	return nil
}

// GetActiveSeason retrieves the active season.
func (m *MemoryPersistence) GetActiveSeason() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, fmt.Errorf("persistence layer is closed")
	}

	return m.activeSeason, nil
}

// Close shuts down the persistence layer.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return nil
}
