package persistence

import "github.com/Layr-Labs/eigenx-rewards-go/pkg/types"

// IManifestPersistence defines how season manifests are stored between runs.
// All implementations must be thread-safe.
//
// The interface supports:
// - Manifest storage keyed by season (save, load, list, delete)
// - Active season tracking (which season claims are currently served from)
// - Lifecycle management (close, health check)
type IManifestPersistence interface {
	// Manifest Management

	// SaveManifest persists a manifest under its season number.
	// An existing manifest for the same season is replaced; proofs issued
	// from the replaced manifest no longer verify against the new root.
	SaveManifest(manifest *types.SeasonManifest) error

	// LoadManifest retrieves the manifest for a season.
	// Returns nil if none exists, error only on storage failure.
	LoadManifest(season uint64) (*types.SeasonManifest, error)

	// ListSeasons returns all seasons with a stored manifest in ascending order.
	// Returns empty slice if none exist, error only on storage failure.
	ListSeasons() ([]uint64, error)

	// DeleteManifest removes a season's manifest.
	// Idempotent - returns nil if it doesn't exist.
	DeleteManifest(season uint64) error

	// Active Season Tracking

	// SetActiveSeason records which season is currently claimable.
	// Setting 0 clears it.
	SetActiveSeason(season uint64) error

	// GetActiveSeason returns the active season, or 0 if none is set.
	GetActiveSeason() (uint64, error)

	// Lifecycle Management

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations should return errors.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	HealthCheck() error
}
