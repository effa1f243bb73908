package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/config"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/distribution"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/merkle"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/metrics"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/snapshot"
	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

// generateCommand handles the generate subcommand
func generateCommand(c *cli.Context) error {
	cfg, l, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	records, err := snapshot.LoadRecords(c.String("snapshot"))
	if err != nil {
		return err
	}
	l.Sugar().Infow("Loaded snapshot", "path", c.String("snapshot"), "records", len(records))

	engine, err := distribution.NewEngine(&cfg.Engine, l)
	if err != nil {
		return err
	}
	result, err := engine.Generate(c.Uint64("season"), records, c.Uint64("pool"))
	if err != nil {
		return fmt.Errorf("failed to generate season %d: %w", c.Uint64("season"), err)
	}

	if path := c.String("csv"); path != "" {
		data, checksum, err := distribution.ManifestCSV(result.Manifest)
		if err != nil {
			return fmt.Errorf("failed to render CSV: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		l.Sugar().Infow("Wrote claims CSV", "path", path, "sha256", checksum)
	}

	if c.Bool("publish") {
		err := withClaimService(cfg, l, func(svc *distribution.ClaimService) error {
			return svc.Publish(result.Manifest)
		})
		if err != nil {
			return err
		}
	}

	return writeJSON(c, c.String("output"), result.Manifest)
}

// claimCommand handles the claim subcommand
func claimCommand(c *cli.Context) error {
	cfg, l, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	var claim *types.Claim
	err = withClaimService(cfg, l, func(svc *distribution.ClaimService) error {
		var err error
		claim, err = svc.GetClaim(c.Uint64("season"), c.String("address"))
		return err
	})
	if err != nil {
		return err
	}
	return writeJSON(c, "", claim)
}

// verifyCommand handles the verify subcommand. It exits non-zero when the
// proof does not verify.
func verifyCommand(c *cli.Context) error {
	address := c.String("address")

	var valid bool
	switch {
	case c.IsSet("root"):
		valid = merkle.VerifyClaimHex(address, c.String("amount"), c.StringSlice("proof"), c.String("root"))
		metrics.Rewards().ObserveVerification(valid)

	case c.IsSet("manifest"):
		manifest, err := readManifest(c.String("manifest"))
		if err != nil {
			return err
		}
		claim, ok := manifest.Claim(address)
		if !ok {
			return fmt.Errorf("%s in season %d: %w", types.ManifestKey(address), manifest.Season, distribution.ErrNoAllocation)
		}
		valid = merkle.VerifyClaimHex(claim.Address, claim.Amount, claim.Proof, claim.MerkleRoot)
		metrics.Rewards().ObserveVerification(valid)

	default:
		cfg, l, err := setup(c)
		if err != nil {
			return err
		}
		defer func() { _ = l.Sync() }()

		err = withClaimService(cfg, l, func(svc *distribution.ClaimService) error {
			var err error
			valid, err = svc.VerifyClaim(c.Uint64("season"), address)
			return err
		})
		if err != nil {
			return err
		}
	}

	if !valid {
		return cli.Exit(fmt.Sprintf("proof for %s is INVALID", types.ManifestKey(address)), 1)
	}
	fmt.Fprintf(c.App.Writer, "proof for %s is valid\n", types.ManifestKey(address))
	return nil
}

// summaryCommand handles the summary subcommand
func summaryCommand(c *cli.Context) error {
	manifest, err := resolveManifest(c)
	if err != nil {
		return err
	}
	summary, err := distribution.SummarizeManifest(manifest)
	if err != nil {
		return err
	}
	printSummary(c.App.Writer, summary)
	return nil
}

// exportCommand handles the export subcommand
func exportCommand(c *cli.Context) error {
	manifest, err := resolveManifest(c)
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "json":
		return writeJSON(c, c.String("output"), manifest)
	case "csv":
		data, checksum, err := distribution.ManifestCSV(manifest)
		if err != nil {
			return err
		}
		if path := c.String("output"); path != "" {
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}
			fmt.Fprintf(c.App.ErrWriter, "sha256 %s\n", checksum)
			return nil
		}
		_, err = c.App.Writer.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported export format %q (want json or csv)", c.String("format"))
	}
}

// seasonsCommand handles the seasons subcommand
func seasonsCommand(c *cli.Context) error {
	cfg, l, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	store, err := newPersistence(&cfg.Persistence, l)
	if err != nil {
		return fmt.Errorf("failed to open manifest store: %w", err)
	}
	defer func() { _ = store.Close() }()

	seasons, err := store.ListSeasons()
	if err != nil {
		return err
	}
	active, err := store.GetActiveSeason()
	if err != nil {
		return err
	}
	for _, season := range seasons {
		marker := ""
		if season == active {
			marker = " (active)"
		}
		fmt.Fprintf(c.App.Writer, "%d%s\n", season, marker)
	}
	return nil
}

// resolveManifest reads --manifest if given, else loads --season from the store.
func resolveManifest(c *cli.Context) (*types.SeasonManifest, error) {
	if path := c.String("manifest"); path != "" {
		return readManifest(path)
	}

	cfg, l, err := setup(c)
	if err != nil {
		return nil, err
	}
	defer func() { _ = l.Sync() }()

	var manifest *types.SeasonManifest
	err = withClaimService(cfg, l, func(svc *distribution.ClaimService) error {
		var err error
		manifest, err = svc.Manifest(c.Uint64("season"))
		return err
	})
	return manifest, err
}

// withClaimService opens the configured store for the duration of fn.
func withClaimService(cfg *config.RewardsConfig, l *zap.Logger, fn func(*distribution.ClaimService) error) error {
	store, err := newPersistence(&cfg.Persistence, l)
	if err != nil {
		return fmt.Errorf("failed to open manifest store: %w", err)
	}
	defer func() { _ = store.Close() }()

	return fn(distribution.NewClaimService(store, l))
}

func readManifest(path string) (*types.SeasonManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	manifest, err := persistence.UnmarshalManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return manifest, nil
}

func writeJSON(c *cli.Context, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = c.App.Writer.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func printSummary(w io.Writer, s *types.Summary) {
	fmt.Fprintf(w, "Season:          %d\n", s.Season)
	fmt.Fprintf(w, "Merkle root:     %s\n", s.MerkleRoot)
	fmt.Fprintf(w, "Recipients:      %d\n", s.RecipientCount)
	fmt.Fprintf(w, "Requested pool:  %s\n", s.RequestedAmount)
	fmt.Fprintf(w, "Realized total:  %s\n", s.TotalAmount)
	if overshoot := s.Overshoot(); overshoot.Sign() > 0 {
		fmt.Fprintf(w, "Floor overshoot: %s\n", overshoot)
	}
	fmt.Fprintf(w, "Min / avg / max: %s / %s / %s\n", s.MinReward, s.AverageReward, s.MaxReward)

	tiers := make([]types.Tier, 0, len(s.Tiers))
	for tier := range s.Tiers {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] > tiers[j] })
	for _, tier := range tiers {
		b := s.Tiers[tier]
		fmt.Fprintf(w, "  %-8s count=%d total=%s average=%s\n", tier, b.Count, b.Total, b.Average)
	}
}
