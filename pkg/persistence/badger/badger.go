package badger

import (
	"context"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

// Key layout. Season keys carry the season as 8 big-endian bytes after the
// prefix so a prefix scan yields seasons in ascending order.
const (
	keyPrefixManifest    = "manifest:"
	keyActiveSeason      = "active:season"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"

	gcInterval     = 5 * time.Minute
	gcDiscardRatio = 0.5
)

// BadgerPersistence stores season manifests in an embedded Badger database.
// Provides durable, disk-based storage with ACID guarantees.
type BadgerPersistence struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewBadgerPersistence opens (or creates) the database at dataPath with
// SyncWrites enabled and starts background value log GC.
func NewBadgerPersistence(dataPath string, logger *zap.Logger) (*BadgerPersistence, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = newBadgerLogger(logger)
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bp := &BadgerPersistence{
		db:     db,
		logger: logger,
	}

	if err := bp.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bp.gcCancel = cancel
	bp.gcWg.Add(1)
	go bp.runGC(ctx)

	logger.Sugar().Infow("Badger manifest store initialized", "path", absPath)

	return bp, nil
}

// initSchema initializes or validates the schema version
func (b *BadgerPersistence) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to read schema version value: %w", err)
		}

		if existingVersion != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}
		return nil
	})
}

func (b *BadgerPersistence) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(gcDiscardRatio)
			if err != nil && err != badgerdb.ErrNoRewrite {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func manifestKey(season uint64) []byte {
	key := make([]byte, len(keyPrefixManifest)+8)
	copy(key, keyPrefixManifest)
	binary.BigEndian.PutUint64(key[len(keyPrefixManifest):], season)
	return key
}

func seasonFromKey(key []byte) (uint64, error) {
	if len(key) != len(keyPrefixManifest)+8 {
		return 0, fmt.Errorf("malformed manifest key of %d bytes", len(key))
	}
	return binary.BigEndian.Uint64(key[len(keyPrefixManifest):]), nil
}

// SaveManifest persists a season manifest, replacing any previous one
func (b *BadgerPersistence) SaveManifest(manifest *types.SeasonManifest) error {
	if manifest == nil {
		return fmt.Errorf("cannot save nil SeasonManifest")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalManifest(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal SeasonManifest: %w", err)
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(manifestKey(manifest.Season), data)
	})
}

// LoadManifest retrieves the manifest for a season
func (b *BadgerPersistence) LoadManifest(season uint64) (*types.SeasonManifest, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(manifestKey(season))
		if err == badgerdb.ErrKeyNotFound {
			return nil // Not found is not an error
		}
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load SeasonManifest: %w", err)
	}

	if data == nil {
		return nil, nil
	}

	manifest, err := persistence.UnmarshalManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal SeasonManifest: %w", err)
	}
	return manifest, nil
}

// ListSeasons returns stored seasons in ascending order. Only keys are read.
func (b *BadgerPersistence) ListSeasons() ([]uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	seasons := make([]uint64, 0)
	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixManifest)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			season, err := seasonFromKey(key)
			if err != nil {
				b.logger.Sugar().Warnw("Skipping unrecognized manifest key", "key", fmt.Sprintf("%x", key), "error", err)
				continue
			}
			seasons = append(seasons, season)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}

	return seasons, nil
}

// DeleteManifest removes a season's manifest
func (b *BadgerPersistence) DeleteManifest(season uint64) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(manifestKey(season))
	})
}

// SetActiveSeason stores the active season
func (b *BadgerPersistence) SetActiveSeason(season uint64) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, season)

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keyActiveSeason), buf)
	})
}

// GetActiveSeason retrieves the active season, 0 when unset
func (b *BadgerPersistence) GetActiveSeason() (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0, fmt.Errorf("persistence layer is closed")
	}

	var season uint64
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keyActiveSeason))
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("invalid active season value length: %d", len(val))
			}
			season = binary.BigEndian.Uint64(val)
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get active season: %w", err)
	}

	return season, nil
}

// Close stops GC and closes the database
func (b *BadgerPersistence) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil // Already closed, idempotent
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}

	b.logger.Sugar().Info("Badger manifest store closed")
	return nil
}

// HealthCheck verifies the database is readable
func (b *BadgerPersistence) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return fmt.Errorf("schema version not found - database may be corrupted")
		}
		return err
	})
}
