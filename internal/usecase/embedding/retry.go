package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listingsearch/internal/domain"
)

// RetryConfig controls retries of transient provider failures.
type RetryConfig struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

// RetryingEmbedder retries calls that fail with a retryable domain error.
// Quota, cancellation and deadline errors are returned immediately.
type RetryingEmbedder struct {
	inner  domain.Embedder
	cfg    RetryConfig
	logger *zap.Logger
}

// NewRetryingEmbedder wraps inner. Attempts below 1 mean a single try.
func NewRetryingEmbedder(inner domain.Embedder, cfg RetryConfig, logger *zap.Logger) *RetryingEmbedder {
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 100 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 2 * time.Second
	}
	return &RetryingEmbedder{inner: inner, cfg: cfg, logger: logger}
}

// Embed implements domain.Embedder.
func (r *RetryingEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	var res domain.EmbeddingResult
	err := r.do(ctx, "embed", func() error {
		var err error
		res, err = r.inner.Embed(ctx, text)
		return err
	})
	return res, err
}

// BatchEmbed implements domain.BatchEmbedder, retrying the whole batch.
func (r *RetryingEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	var res domain.BatchEmbeddingResult
	err := r.do(ctx, "batch embed", func() error {
		var err error
		res, err = domain.EmbedAll(ctx, r.inner, texts, domain.DefaultEmbedConcurrency)
		return err
	})
	return res, err
}

func (r *RetryingEmbedder) do(ctx context.Context, op string, fn func() error) error {
	err := retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(r.cfg.Attempts),
		retry.Delay(r.cfg.Delay),
		retry.MaxDelay(r.cfg.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(domain.IsRetryable),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warn("Retrying embedding request",
				zap.String("op", op),
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", r.cfg.Attempts),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
