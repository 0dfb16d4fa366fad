package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listingsearch/internal/config"
	logpkg "github.com/kailas-cloud/listingsearch/internal/logger"
	listingrepo "github.com/kailas-cloud/listingsearch/internal/repository/listing"
)

// ImportCmd copies a JSON/YAML listing file into the database catalog.
type ImportCmd struct {
	File    string        `arg:"" help:"Listing file (.json, .yaml)." type:"existingfile"`
	Timeout time.Duration `help:"Overall import timeout." default:"1m"`
	Prune   bool          `help:"Delete stored listings that are not in the file."`
}

// Run validates every listing in the file, then upserts them in one pipeline.
func (c *ImportCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.Database.Enabled() {
		return fmt.Errorf("import requires database.addrs in config/%s.yaml", cli.Env)
	}

	logger, err := logpkg.NewLogger(cli.Env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	static, err := listingrepo.LoadFile(c.File)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	store, err := connect(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer store.Close()

	listings, err := static.Listings(ctx)
	if err != nil {
		return err
	}
	repo := listingrepo.New(store, cfg.Storage.KeyPrefix)
	if err := repo.Upsert(ctx, listings); err != nil {
		return fmt.Errorf("upsert listings: %w", err)
	}

	pruned := 0
	if c.Prune {
		keep := make([]string, len(listings))
		for i := range listings {
			keep[i] = listings[i].ID()
		}
		if pruned, err = repo.Prune(ctx, keep); err != nil {
			return fmt.Errorf("prune listings: %w", err)
		}
	}

	logger.Info("Listings imported",
		zap.String("file", c.File),
		zap.Int("count", len(listings)),
		zap.Int("pruned", pruned),
		zap.String("key_prefix", cfg.Storage.KeyPrefix),
	)
	return nil
}
