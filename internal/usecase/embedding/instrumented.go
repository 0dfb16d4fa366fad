package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listingsearch/internal/domain"
	domusage "github.com/kailas-cloud/listingsearch/internal/domain/usage"
	"github.com/kailas-cloud/listingsearch/internal/metrics"
)

// DefaultMaxAPIBatchSize caps texts per provider request.
const DefaultMaxAPIBatchSize = 256

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Provider() string
	Check(ctx context.Context) error
	Record(chain domusage.Chain, tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// ChainConfig describes one embedding chain.
type ChainConfig struct {
	Chain    domusage.Chain
	Provider string
	Model    string
	Budget   BudgetChecker             // optional
	Metrics  *metrics.EmbeddingMetrics // optional
	MaxBatch int                       // texts per provider call, default DefaultMaxAPIBatchSize
}

// InstrumentedEmbedder books the spend of one chain, search text or listing
// documents, against the shared token budget. Provider call metrics live in
// transport/openai.
type InstrumentedEmbedder struct {
	inner   domain.Embedder
	cfg     ChainConfig
	metrics metrics.ChainMetrics
	logger  *zap.Logger
}

// NewInstrumentedEmbedder wraps inner for the chain described by cfg.
func NewInstrumentedEmbedder(inner domain.Embedder, cfg ChainConfig, logger *zap.Logger) *InstrumentedEmbedder {
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = DefaultMaxAPIBatchSize
	}
	return &InstrumentedEmbedder{
		inner:   inner,
		cfg:     cfg,
		metrics: cfg.Metrics.Chain(string(cfg.Chain)),
		logger:  logger.With(zap.String("chain", string(cfg.Chain))),
	}
}

// Embed embeds one text after a budget check.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := p.checkBudget(ctx, 1); err != nil {
		return domain.EmbeddingResult{}, err
	}

	start := time.Now()
	result, err := p.inner.Embed(ctx, text)
	if err != nil {
		p.logger.Error("Embedding request failed",
			zap.String("provider", p.cfg.Provider),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed %s: %w", p.cfg.Chain, err)
	}

	p.book(1, result.TotalTokens)
	p.logger.Debug("Embedding completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)
	return result, nil
}

// BatchEmbed splits texts into provider-sized chunks. The budget is checked
// before every chunk, so a large import stops as soon as the budget runs out.
func (p *InstrumentedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	start := time.Now()
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, 0, len(texts))}

	for offset := 0; offset < len(texts); offset += p.cfg.MaxBatch {
		end := min(offset+p.cfg.MaxBatch, len(texts))
		chunk := texts[offset:end]

		if err := p.checkBudget(ctx, len(chunk)); err != nil {
			if offset > 0 {
				return domain.BatchEmbeddingResult{}, fmt.Errorf("chunk at %d: %w", offset, err)
			}
			return domain.BatchEmbeddingResult{}, err
		}

		res, err := p.embedInner(ctx, chunk)
		if err != nil {
			p.logger.Error("Batch embedding request failed",
				zap.String("provider", p.cfg.Provider),
				zap.Int("chunk_offset", offset),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed %s: %w", p.cfg.Chain, err)
		}

		// Book each chunk as it lands; tokens already spent stay spent if a later chunk fails.
		p.book(len(chunk), res.TotalTokens)
		out.Embeddings = append(out.Embeddings, res.Embeddings...)
		out.PromptTokens += res.PromptTokens
		out.TotalTokens += res.TotalTokens
	}

	p.logger.Debug("Batch embedding completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("texts", len(texts)),
		zap.Int("total_tokens", out.TotalTokens),
	)
	return out, nil
}

func (p *InstrumentedEmbedder) checkBudget(ctx context.Context, texts int) error {
	if p.cfg.Budget == nil {
		return nil
	}
	if err := p.cfg.Budget.Check(ctx); err != nil {
		p.metrics.BudgetRejected(p.cfg.Provider)
		p.logger.Error("Budget exceeded",
			zap.String("provider", p.cfg.Provider),
			zap.String("model", p.cfg.Model),
			zap.Int("texts", texts),
			zap.Error(err),
		)
		return fmt.Errorf("budget check: %w", err)
	}
	return nil
}

func (p *InstrumentedEmbedder) embedInner(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := p.inner.(domain.BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("inner batch embed: %w", err)
		}
		return res, nil
	}
	res, err := domain.BatchFallback(ctx, p.inner, texts, domain.DefaultEmbedConcurrency)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("inner batch fallback: %w", err)
	}
	return res, nil
}

// book records texts and tokens for the chain and refreshes the budget gauges.
// Cache hits arrive with zero tokens and are counted as texts only.
func (p *InstrumentedEmbedder) book(texts, tokens int) {
	p.metrics.Texts(texts)
	if tokens <= 0 {
		return
	}
	p.metrics.Tokens(p.cfg.Provider, tokens)
	if p.cfg.Budget == nil {
		return
	}
	p.cfg.Budget.Record(p.cfg.Chain, int64(tokens))
	p.cfg.Metrics.SetBudgetRemaining(p.cfg.Budget.Provider(), p.cfg.Budget.RemainingDaily(), p.cfg.Budget.RemainingMonthly())
}
