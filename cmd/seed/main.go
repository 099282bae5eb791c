// Command seed loads the static YAML fixtures into the record store so a
// fresh tenant starts with the same data the fallback path serves.
//
// Usage:
//
//	seed -tenant default -data-dir data
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/okian/roundup/internal/adapters/store"
	"github.com/okian/roundup/internal/config"
	"github.com/okian/roundup/internal/domain/model"
	"github.com/okian/roundup/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	tenant := flag.String("tenant", "", "tenant partition to seed (defaults to configured tenant)")
	dataDir := flag.String("data-dir", "", "directory holding teams.yaml and bounties.yaml")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal(ctx, "failed to load config", logger.Error(err))
	}
	if *tenant == "" {
		*tenant = cfg.TenantID
	}
	if *dataDir == "" {
		*dataDir = cfg.DataDir
	}

	fs, err := store.NewFirestore(ctx,
		store.WithProjectID(cfg.ProjectID),
		store.WithCredentialsFile(cfg.CredentialsFile),
		store.WithCredentialsBase64(cfg.CredentialsBase64),
	)
	if err != nil {
		log.Fatal(ctx, "record store is not configured; nothing to seed", logger.Error(err))
	}
	defer fs.Close()

	teams := readFixtures[model.Team](ctx, log, filepath.Join(*dataDir, "teams.yaml"))
	for _, t := range teams {
		if err := fs.SetMerge(ctx, *tenant, "teams", t.ID, map[string]any{
			"name":              t.Name,
			"description":       t.Description,
			"skills":            t.Skills,
			"productivity_rate": t.ProductivityRate,
			"current_workload":  t.CurrentWorkload,
			"max_capacity":      t.MaxCapacity,
			"joinCode":          t.JoinCode,
			"leadUid":           t.LeadUID,
			"active":            true,
		}); err != nil {
			log.Fatal(ctx, "seeding team failed", logger.String("id", t.ID), logger.Error(err))
		}
	}
	log.Info(ctx, "teams seeded", logger.Int("count", len(teams)), logger.String("tenant", *tenant))

	bounties := readFixtures[model.Bounty](ctx, log, filepath.Join(*dataDir, "bounties.yaml"))
	for _, b := range bounties {
		if err := fs.SetMerge(ctx, *tenant, "bounties", b.ID, map[string]any{
			"title":           b.Title,
			"description":     b.Description,
			"difficulty":      b.Difficulty,
			"required_skills": b.RequiredSkills,
			"status":          b.Status,
		}); err != nil {
			log.Fatal(ctx, "seeding bounty failed", logger.String("id", b.ID), logger.Error(err))
		}
	}
	log.Info(ctx, "bounties seeded", logger.Int("count", len(bounties)), logger.String("tenant", *tenant))
}

func readFixtures[T any](ctx context.Context, log logger.Logger, path string) []T {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(ctx, "fixture file unreadable", logger.String("path", path), logger.Error(err))
	}
	var records []T
	if err := yaml.Unmarshal(raw, &records); err != nil {
		log.Fatal(ctx, "fixture file malformed", logger.String("path", path), logger.Error(err))
	}
	return records
}
