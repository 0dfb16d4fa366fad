package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listingsearch/internal/config"
	dbRedis "github.com/kailas-cloud/listingsearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/listingsearch/internal/logger"
	"github.com/kailas-cloud/listingsearch/internal/metrics"
	chiTransport "github.com/kailas-cloud/listingsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/listingsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/listingsearch/internal/usecase/search"
	usageuc "github.com/kailas-cloud/listingsearch/internal/usecase/usage"
	"github.com/kailas-cloud/listingsearch/internal/version"
)

// ServeCmd runs the HTTP API.
type ServeCmd struct{}

// Run wires the composition root and blocks until SIGINT/SIGTERM.
func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(cli.Env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting listingsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", cli.Env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog", cfg.Catalog.Source),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := context.Background()

	var store *dbRedis.Store
	if cfg.Database.Enabled() {
		store, err = connect(ctx, cfg, cfg.Catalog.Source == config.CatalogDatabase)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.Info("Connected to database")
	}

	catalog, err := openCatalog(cfg, store)
	if err != nil {
		return err
	}

	searchMetrics, err := metrics.NewSearchMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register search metrics: %w", err)
	}
	embeddingMetrics, err := metrics.NewEmbeddingMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register embedding metrics: %w", err)
	}

	opts := []searchuc.Option{
		searchuc.WithRecorder(searchMetrics),
		searchuc.WithSemanticTimeout(time.Duration(cfg.Search.SemanticTimeoutSec) * time.Second),
		searchuc.WithFuzzyThreshold(cfg.Search.FuzzyThreshold),
		searchuc.WithEmbedConcurrency(cfg.Embedding.Concurrency),
	}

	// Typed-nil pointers must not leak into the interfaces below.
	var dbPinger healthuc.DBPinger
	if store != nil {
		dbPinger = store
	}
	var embedChecker healthuc.EmbeddingChecker
	var queryEmbedder searchuc.Embedder
	var budgetReader usageuc.BudgetReader

	if chain, ok := buildEmbedders(ctx, cfg, store, embeddingMetrics, logger); ok {
		queryEmbedder = chain.query
		opts = append(opts, searchuc.WithDocumentEmbedder(chain.document))
		embedChecker = chain.base
		if chain.budget != nil {
			budgetReader = chain.budget
		}
		logger.Info("Embedders created",
			zap.String("provider", chain.provider),
			zap.String("model", chain.model),
		)
	} else {
		logger.Warn("No vectorizer configured, semantic search disabled")
	}

	searchSvc := searchuc.New(queryEmbedder, opts...)
	healthSvc := healthuc.New(catalog, dbPinger, embedChecker)
	usageSvc := usageuc.New(budgetReader)

	server := chiTransport.NewServer(searchSvc, catalog, healthSvc, usageSvc, chiTransport.RouteDefaults{
		Alpha:        cfg.Search.DefaultAlpha,
		FuzzyLimit:   cfg.Search.FuzzyLimit,
		SemanticTopN: cfg.Search.SemanticTopN,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// connect opens the store and waits for it. listings requires the JSON module
// that stores listing documents.
func connect(ctx context.Context, cfg config.Config, listings bool) (*dbRedis.Store, error) {
	dbCfg := cfg.Database
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:       dbCfg.Addrs,
		Username:    dbCfg.Username,
		Password:    dbCfg.Password,
		DB:          dbCfg.DB,
		ClientName:  "listingsearch",
		DialTimeout: time.Duration(dbCfg.DialTimeoutSec) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create database store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(dbCfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	if listings {
		if err := store.RequireJSON(ctx, cfg.Storage.KeyPrefix+"listing"); err != nil {
			store.Close()
			return nil, fmt.Errorf("listing storage: %w", err)
		}
	}
	return store, nil
}
