package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "rewardsctl",
		Usage: "Season reward distribution tooling",
		Description: `Generates, publishes and verifies season reward distributions.

A generation run turns a snapshot of player performance into tiered reward
allocations, commits them to a keccak256 merkle root and writes a manifest
holding one inclusion proof per recipient. Claims can be looked up and
verified against a published manifest without the original snapshot.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file; flags override its values",
				EnvVars: []string{config.EnvRewardsConfigFile},
			},
			&cli.UintFlag{
				Name:    "token-decimals",
				Usage:   "Token decimals used to convert whole tokens to base units",
				Value:   uint(config.DefaultTokenDecimals),
				EnvVars: []string{config.EnvRewardsTokenDecimals},
			},
			&cli.Uint64Flag{
				Name:    "min-reward-tokens",
				Usage:   "Minimum reward per recipient in whole tokens",
				Value:   config.DefaultMinRewardTokens,
				EnvVars: []string{config.EnvRewardsMinRewardTokens},
			},
			&cli.IntFlag{
				Name:    "claim-expiry-days",
				Usage:   "Advisory claim window written into manifests",
				Value:   config.DefaultClaimExpiryDays,
				EnvVars: []string{config.EnvRewardsClaimExpiryDays},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Parallel leaf hashing workers (default: number of CPUs)",
				EnvVars: []string{config.EnvRewardsWorkers},
			},
			&cli.StringFlag{
				Name:    "persistence-type",
				Usage:   fmt.Sprintf("Manifest store: %s", config.GetSupportedPersistenceTypesString()),
				Value:   config.PersistenceTypeMemory.String(),
				EnvVars: []string{config.EnvRewardsPersistenceType},
			},
			&cli.StringFlag{
				Name:    "badger-path",
				Usage:   "Badger data directory",
				EnvVars: []string{config.EnvRewardsBadgerPath},
			},
			&cli.StringFlag{
				Name:    "redis-address",
				Usage:   "Redis host:port",
				EnvVars: []string{config.EnvRewardsRedisAddress},
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				EnvVars: []string{config.EnvRewardsRedisPassword},
			},
			&cli.IntFlag{
				Name:    "redis-db",
				Usage:   "Redis database number (0-15)",
				EnvVars: []string{config.EnvRewardsRedisDB},
			},
			&cli.StringFlag{
				Name:    "redis-key-prefix",
				Usage:   "Prefix for every Redis key",
				EnvVars: []string{config.EnvRewardsRedisKeyPrefix},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvRewardsVerbose},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate a season manifest from a performance snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "snapshot",
						Usage:    "Performance snapshot (.json or .csv)",
						Required: true,
					},
					&cli.Uint64Flag{
						Name:     "season",
						Usage:    "Season number (>= 1)",
						Required: true,
					},
					&cli.Uint64Flag{
						Name:     "pool",
						Usage:    "Reward pool in whole tokens",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Write the manifest JSON to this file instead of stdout",
					},
					&cli.StringFlag{
						Name:  "csv",
						Usage: "Also write a CSV export of the claims to this file",
					},
					&cli.BoolFlag{
						Name:  "publish",
						Usage: "Store the manifest and mark its season active",
					},
				},
				Action: generateCommand,
			},
			{
				Name:  "claim",
				Usage: "Look up an address's claim in a published season",
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  "season",
						Usage: "Season number (default: active season)",
					},
					&cli.StringFlag{
						Name:     "address",
						Usage:    "Recipient address",
						Required: true,
					},
				},
				Action: claimCommand,
			},
			{
				Name:  "verify",
				Usage: "Verify a claim proof against a merkle root",
				Description: `Verifies either an explicit (address, amount, proof, root) tuple, the claim
for an address inside a manifest file, or the claim stored for a season.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "address",
						Usage:    "Recipient address",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "amount",
						Usage: "Claim amount in base units",
					},
					&cli.StringSliceFlag{
						Name:  "proof",
						Usage: "Proof hash, bottom to top (repeatable)",
					},
					&cli.StringFlag{
						Name:  "root",
						Usage: "Merkle root",
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Manifest JSON file to read the claim and root from",
					},
					&cli.Uint64Flag{
						Name:  "season",
						Usage: "Published season to read the claim from (0: active season)",
					},
				},
				Action: verifyCommand,
			},
			{
				Name:  "summary",
				Usage: "Print the distribution summary of a published season or manifest file",
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  "season",
						Usage: "Published season (default: active season)",
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Manifest JSON file",
					},
				},
				Action: summaryCommand,
			},
			{
				Name:  "export",
				Usage: "Export a published season as JSON or CSV",
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  "season",
						Usage: "Published season (default: active season)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "json or csv",
						Value: "json",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output file (default: stdout)",
					},
				},
				Action: exportCommand,
			},
			{
				Name:   "seasons",
				Usage:  "List published seasons",
				Action: seasonsCommand,
			},
		},
	}
}
