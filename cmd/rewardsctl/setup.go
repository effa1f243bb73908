package main

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/config"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence/badger"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence/memory"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence/redis"
)

// parseRewardsConfig layers explicitly set flags (or their env vars) over the
// config file, or over defaults when no file is given.
func parseRewardsConfig(c *cli.Context) (*config.RewardsConfig, error) {
	cfg := config.DefaultRewardsConfig()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("token-decimals") {
		decimals := c.Uint("token-decimals")
		if decimals > uint(config.MaxTokenDecimals) {
			return nil, fmt.Errorf("token-decimals must be at most %d", config.MaxTokenDecimals)
		}
		cfg.Engine.TokenDecimals = uint8(decimals)
	}
	if c.IsSet("min-reward-tokens") {
		cfg.Engine.MinRewardTokens = c.Uint64("min-reward-tokens")
	}
	if c.IsSet("claim-expiry-days") {
		cfg.Engine.ClaimExpiryDays = c.Int("claim-expiry-days")
	}
	if c.IsSet("workers") {
		cfg.Engine.Workers = c.Int("workers")
	}
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = runtime.NumCPU()
	}
	if c.IsSet("persistence-type") {
		cfg.Persistence.Type = config.PersistenceType(c.String("persistence-type"))
	}
	if c.IsSet("badger-path") {
		cfg.Persistence.BadgerPath = c.String("badger-path")
	}
	if c.IsSet("redis-address") {
		cfg.Persistence.Redis.Address = c.String("redis-address")
	}
	if c.IsSet("redis-password") {
		cfg.Persistence.Redis.Password = c.String("redis-password")
	}
	if c.IsSet("redis-db") {
		cfg.Persistence.Redis.DB = c.Int("redis-db")
	}
	if c.IsSet("redis-key-prefix") {
		cfg.Persistence.Redis.KeyPrefix = c.String("redis-key-prefix")
	}
	if c.IsSet("verbose") {
		cfg.Verbose = c.Bool("verbose")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup is the shared prologue of every command.
func setup(c *cli.Context) (*config.RewardsConfig, *zap.Logger, error) {
	cfg, err := parseRewardsConfig(c)
	if err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Verbose})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, l, nil
}

// newPersistence opens the manifest store selected by cfg.
func newPersistence(cfg *config.PersistenceConfig, l *zap.Logger) (persistence.IManifestPersistence, error) {
	switch cfg.Type {
	case config.PersistenceTypeMemory:
		return memory.NewMemoryPersistence(l), nil
	case config.PersistenceTypeBadger:
		store, err := badger.NewBadgerPersistence(cfg.BadgerPath, l)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.PersistenceTypeRedis:
		store, err := redis.NewRedisPersistence(&cfg.Redis, l)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported persistence type %q (supported: %s)", cfg.Type, config.GetSupportedPersistenceTypesString())
	}
}
