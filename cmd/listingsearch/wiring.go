package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listingsearch/internal/config"
	dbRedis "github.com/kailas-cloud/listingsearch/internal/db/redis"
	"github.com/kailas-cloud/listingsearch/internal/domain"
	domusage "github.com/kailas-cloud/listingsearch/internal/domain/usage"
	"github.com/kailas-cloud/listingsearch/internal/metrics"
	budgetrepo "github.com/kailas-cloud/listingsearch/internal/repository/budget"
	"github.com/kailas-cloud/listingsearch/internal/repository/embcache"
	listingrepo "github.com/kailas-cloud/listingsearch/internal/repository/listing"
	chiTransport "github.com/kailas-cloud/listingsearch/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/listingsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/listingsearch/internal/usecase/embedding"
)

// openCatalog returns the listing source selected by catalog.source.
func openCatalog(cfg config.Config, store *dbRedis.Store) (chiTransport.Catalog, error) {
	switch cfg.Catalog.Source {
	case config.CatalogDatabase:
		if store == nil {
			return nil, fmt.Errorf("database catalog requires database.addrs")
		}
		return listingrepo.New(store, cfg.Storage.KeyPrefix), nil
	default:
		static, err := listingrepo.LoadFile(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		return static, nil
	}
}

type embedders struct {
	base     *openaiEmb.Embedder
	query    domain.Embedder
	document domain.Embedder
	budget   *embeddinguc.BudgetTracker // nil when no limits are configured
	provider string
	model    string
}

// buildEmbedders assembles the query and document chains. Returns false when
// no vectorizer is selected.
func buildEmbedders(
	ctx context.Context, cfg config.Config, store *dbRedis.Store, m *metrics.EmbeddingMetrics, logger *zap.Logger,
) (embedders, bool) {
	vecCfg, provCfg, ok := cfg.ActiveVectorizer()
	if !ok {
		return embedders{}, false
	}
	provName := vecCfg.Provider

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   provName,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Metrics:    m,
		Logger:     logger,
	})

	// One tracker shared by both chains. A nil interface, not a typed nil pointer,
	// when no limits are configured.
	var budget embeddinguc.BudgetChecker
	var tracker *embeddinguc.BudgetTracker
	if b := provCfg.Budget; b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0 {
		tracker = embeddinguc.NewBudgetTracker(embeddinguc.BudgetConfig{
			Provider:     provName,
			DailyLimit:   b.DailyTokenLimit,
			MonthlyLimit: b.MonthlyTokenLimit,
			Action:       embeddinguc.BudgetAction(b.Action),
		}, logger)
		if store != nil {
			tracker.WithStore(ctx, budgetrepo.New(store, cfg.Storage.KeyPrefix))
		}
		budget = tracker
	}

	chain := func(c domusage.Chain, instruction string) domain.Embedder {
		var e domain.Embedder = embeddinguc.NewRetryingEmbedder(base, embeddinguc.RetryConfig{
			Attempts: cfg.Embedding.RetryAttempts,
		}, logger)
		if store != nil {
			e = embcache.New(e, store, m.Chain(string(c)), logger,
				embcache.WithNamespace(vecCfg.Model),
				embcache.WithTTL(time.Duration(cfg.Embedding.CacheTTLHours)*time.Hour),
				embcache.WithConcurrency(cfg.Embedding.Concurrency),
			)
		}
		e = embeddinguc.NewInstrumentedEmbedder(e, embeddinguc.ChainConfig{
			Chain:    c,
			Provider: provName,
			Model:    vecCfg.Model,
			Budget:   budget,
			Metrics:  m,
		}, logger)
		// Outermost, so the cache key includes the instruction.
		if instruction != "" {
			e = domain.NewInstructionEmbedder(e, instruction)
		}
		return e
	}

	return embedders{
		base:     base,
		query:    chain(domusage.ChainQuery, vecCfg.QueryInstruction),
		document: chain(domusage.ChainDocument, vecCfg.DocumentInstruction),
		budget:   tracker,
		provider: provName,
		model:    vecCfg.Model,
	}, true
}
