package config

import (
	"fmt"
	"math/big"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/util"
)

// Environment variable names for rewards configuration
const (
	EnvRewardsConfigFile      = "REWARDS_CONFIG_FILE"
	EnvRewardsTokenDecimals   = "REWARDS_TOKEN_DECIMALS"
	EnvRewardsMinRewardTokens = "REWARDS_MIN_REWARD_TOKENS"
	EnvRewardsClaimExpiryDays = "REWARDS_CLAIM_EXPIRY_DAYS"
	EnvRewardsWorkers         = "REWARDS_WORKERS"
	EnvRewardsPersistenceType = "REWARDS_PERSISTENCE_TYPE"
	EnvRewardsBadgerPath      = "REWARDS_BADGER_PATH"
	EnvRewardsRedisAddress    = "REWARDS_REDIS_ADDRESS"
	EnvRewardsRedisPassword   = "REWARDS_REDIS_PASSWORD"
	EnvRewardsRedisDB         = "REWARDS_REDIS_DB"
	EnvRewardsRedisKeyPrefix  = "REWARDS_REDIS_KEY_PREFIX"
	EnvRewardsVerbose         = "REWARDS_VERBOSE"
)

// Engine defaults
const (
	DefaultTokenDecimals   uint8  = 18
	DefaultMinRewardTokens uint64 = 1
	DefaultClaimExpiryDays int    = 30
	MaxTokenDecimals       uint8  = 36
)

type PersistenceType string

func (p PersistenceType) String() string {
	return string(p)
}

const (
	PersistenceTypeMemory PersistenceType = "memory"
	PersistenceTypeBadger PersistenceType = "badger"
	PersistenceTypeRedis  PersistenceType = "redis"
)

// GetSupportedPersistenceTypesString returns supported backends for CLI help
func GetSupportedPersistenceTypesString() string {
	return strings.Join([]string{
		PersistenceTypeMemory.String(),
		PersistenceTypeBadger.String(),
		PersistenceTypeRedis.String(),
	}, ", ")
}

// EngineConfig holds the economic and runtime parameters of a generation run.
// It is constructed once and passed into the engine; nothing in the engine
// reads process-wide state.
type EngineConfig struct {
	// TokenDecimals sets the base-unit scale: one token = 10^TokenDecimals base units
	TokenDecimals uint8 `json:"token_decimals" yaml:"token_decimals"`

	// MinRewardTokens is the whole-token floor every recipient receives
	MinRewardTokens uint64 `json:"min_reward_tokens" yaml:"min_reward_tokens"`

	// ClaimExpiryDays is advisory metadata written into each manifest
	ClaimExpiryDays int `json:"claim_expiry_days" yaml:"claim_expiry_days"`

	// Workers bounds parallel leaf hashing
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultEngineConfig returns an 18-decimal token with a one token floor.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		TokenDecimals:   DefaultTokenDecimals,
		MinRewardTokens: DefaultMinRewardTokens,
		ClaimExpiryDays: DefaultClaimExpiryDays,
		Workers:         runtime.NumCPU(),
	}
}

// Validate validates the engine configuration
func (c *EngineConfig) Validate() error {
	return c.validate(field.NewPath("engine")).ToAggregate()
}

func (c *EngineConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	if c.TokenDecimals > MaxTokenDecimals {
		allErrors = append(allErrors, field.Invalid(path.Child("token_decimals"), c.TokenDecimals,
			fmt.Sprintf("must be at most %d", MaxTokenDecimals)))
	}
	if c.ClaimExpiryDays < 1 {
		allErrors = append(allErrors, field.Invalid(path.Child("claim_expiry_days"), c.ClaimExpiryDays, "must be at least 1"))
	}
	if c.Workers < 1 {
		allErrors = append(allErrors, field.Invalid(path.Child("workers"), c.Workers, "must be at least 1"))
	}
	return allErrors
}

// BaseUnitScale returns 10^TokenDecimals.
func (c *EngineConfig) BaseUnitScale() *big.Int {
	return util.TokensToBaseUnits(1, c.TokenDecimals)
}

// MinRewardBaseUnits returns the reward floor in base units.
func (c *EngineConfig) MinRewardBaseUnits() *big.Int {
	return util.TokensToBaseUnits(c.MinRewardTokens, c.TokenDecimals)
}

// PoolBaseUnits converts a whole-token pool to base units.
func (c *EngineConfig) PoolBaseUnits(poolTokens uint64) *big.Int {
	return util.TokensToBaseUnits(poolTokens, c.TokenDecimals)
}

// PersistenceConfig selects and configures the manifest store.
type PersistenceConfig struct {
	Type       PersistenceType `json:"type" yaml:"type"`
	BadgerPath string          `json:"badger_path" yaml:"badger_path"`
	Redis      RedisConfig     `json:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Address   string `json:"address" yaml:"address"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

// Validate validates the persistence configuration
func (p *PersistenceConfig) Validate() error {
	return p.validate(field.NewPath("persistence")).ToAggregate()
}

func (p *PersistenceConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	switch p.Type {
	case PersistenceTypeMemory:
	case PersistenceTypeBadger:
		if p.BadgerPath == "" {
			allErrors = append(allErrors, field.Required(path.Child("badger_path"), "badger_path is required for badger persistence"))
		}
	case PersistenceTypeRedis:
		if p.Redis.Address == "" {
			allErrors = append(allErrors, field.Required(path.Child("redis", "address"), "address is required for redis persistence"))
		}
		if p.Redis.DB < 0 || p.Redis.DB > 15 {
			allErrors = append(allErrors, field.Invalid(path.Child("redis", "db"), p.Redis.DB, "must be between 0-15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), p.Type, []string{
			PersistenceTypeMemory.String(),
			PersistenceTypeBadger.String(),
			PersistenceTypeRedis.String(),
		}))
	}
	return allErrors
}

// RewardsConfig is the complete configuration for the rewards tooling
type RewardsConfig struct {
	Engine      EngineConfig      `json:"engine" yaml:"engine"`
	Persistence PersistenceConfig `json:"persistence" yaml:"persistence"`
	Verbose     bool              `json:"verbose" yaml:"verbose"`
}

// DefaultRewardsConfig returns defaults with in-memory persistence.
func DefaultRewardsConfig() *RewardsConfig {
	return &RewardsConfig{
		Engine: *DefaultEngineConfig(),
		Persistence: PersistenceConfig{
			Type: PersistenceTypeMemory,
		},
	}
}

// Validate validates the full configuration, reporting every problem at once
func (c *RewardsConfig) Validate() error {
	var allErrors field.ErrorList
	allErrors = append(allErrors, c.Engine.validate(field.NewPath("engine"))...)
	allErrors = append(allErrors, c.Persistence.validate(field.NewPath("persistence"))...)
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// LoadFromFile reads a YAML config file over the defaults and validates it.
func LoadFromFile(path string) (*RewardsConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("config path required")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultRewardsConfig()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
