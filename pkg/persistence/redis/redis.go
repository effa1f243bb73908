package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/config"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

// Key names for namespacing in Redis
const (
	keyPrefixManifest    = "rewards:manifest:"
	keyActiveSeason      = "rewards:active:season"
	keySchemaVersion     = "rewards:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Sorted set of stored seasons, scored by season number
	keySeasonIndex = "rewards:seasons:index"

	opTimeout = 5 * time.Second
)

// RedisPersistence stores season manifests in Redis, for deployments where
// several claim servers share one published set of seasons.
type RedisPersistence struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string // Custom prefix for all keys
	mu        sync.RWMutex
	closed    bool
}

// NewRedisPersistence connects to Redis and validates the schema version.
// cfg.KeyPrefix, when set, is prepended to every key, e.g. "staging:" gives
// keys like "staging:rewards:manifest:3".
func NewRedisPersistence(cfg *config.RedisConfig, logger *zap.Logger) (*RedisPersistence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rp := &RedisPersistence{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rp.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Redis manifest store initialized",
		"address", cfg.Address,
		"db", cfg.DB,
		"key_prefix", cfg.KeyPrefix,
	)

	return rp, nil
}

// prefixKey adds the custom key prefix (if configured) to a key
func (r *RedisPersistence) prefixKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + key
}

func (r *RedisPersistence) manifestKey(season uint64) string {
	return r.prefixKey(keyPrefixManifest + strconv.FormatUint(season, 10))
}

func (r *RedisPersistence) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existingVersion, err := r.client.Get(ctx, schemaKey).Result()
	if err == redis.Nil {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if existingVersion != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
	}
	return nil
}

// SaveManifest stores the manifest and indexes its season in one transaction
func (r *RedisPersistence) SaveManifest(manifest *types.SeasonManifest) error {
	if manifest == nil {
		return fmt.Errorf("cannot save nil SeasonManifest")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalManifest(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal SeasonManifest: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.manifestKey(manifest.Season), data, 0)
	pipe.ZAdd(ctx, r.prefixKey(keySeasonIndex), redis.Z{
		Score:  float64(manifest.Season),
		Member: strconv.FormatUint(manifest.Season, 10),
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save SeasonManifest: %w", err)
	}
	return nil
}

// LoadManifest retrieves the manifest for a season
func (r *RedisPersistence) LoadManifest(season uint64) (*types.SeasonManifest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.manifestKey(season)).Bytes()
	if err == redis.Nil {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load SeasonManifest: %w", err)
	}

	manifest, err := persistence.UnmarshalManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal SeasonManifest: %w", err)
	}
	return manifest, nil
}

// ListSeasons returns stored seasons in ascending order from the index
func (r *RedisPersistence) ListSeasons() ([]uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	members, err := r.client.ZRange(ctx, r.prefixKey(keySeasonIndex), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}

	seasons := make([]uint64, 0, len(members))
	for _, member := range members {
		season, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			r.logger.Sugar().Warnw("Skipping malformed season index entry", "member", member, "error", err)
			continue
		}
		seasons = append(seasons, season)
	}
	return seasons, nil
}

// DeleteManifest removes a season's manifest and its index entry
func (r *RedisPersistence) DeleteManifest(season uint64) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.manifestKey(season))
	pipe.ZRem(ctx, r.prefixKey(keySeasonIndex), strconv.FormatUint(season, 10))

	_, err := pipe.Exec(ctx)
	return err
}

// SetActiveSeason stores the active season
func (r *RedisPersistence) SetActiveSeason(season uint64) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, season)

	return r.client.Set(ctx, r.prefixKey(keyActiveSeason), buf, 0).Err()
}

// GetActiveSeason retrieves the active season, 0 when unset
func (r *RedisPersistence) GetActiveSeason() (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return 0, fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.prefixKey(keyActiveSeason)).Bytes()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get active season: %w", err)
	}

	if len(data) != 8 {
		return 0, fmt.Errorf("invalid active season data length: %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

// Close closes the Redis client
func (r *RedisPersistence) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil // Already closed, idempotent
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Info("Redis manifest store closed")
	return nil
}

// HealthCheck pings Redis and checks the schema marker
func (r *RedisPersistence) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	_, err := r.client.Get(ctx, r.prefixKey(keySchemaVersion)).Result()
	if err == redis.Nil {
		return fmt.Errorf("schema version not found - database may not be properly initialized")
	}
	if err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	return nil
}
