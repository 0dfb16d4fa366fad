package domain

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultEmbedConcurrency bounds parallel single-text calls when a provider has no batch endpoint.
const DefaultEmbedConcurrency = 8

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single API call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate token usage.
// Embeddings[i] belongs to the i-th input text.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// EmbedAll vectorizes texts through the batch endpoint when inner has one,
// otherwise falls back to concurrent single calls.
func EmbedAll(ctx context.Context, e Embedder, texts []string, concurrency int) (BatchEmbeddingResult, error) {
	if be, ok := e.(BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		if len(res.Embeddings) != len(texts) {
			return BatchEmbeddingResult{}, fmt.Errorf(
				"batch embed returned %d vectors for %d texts: %w",
				len(res.Embeddings), len(texts), ErrEmbeddingProviderError,
			)
		}
		return res, nil
	}
	return BatchFallback(ctx, e, texts, concurrency)
}

// BatchFallback calls Embed once per text with at most concurrency calls in flight.
// Results are placed by input index, so completion order does not matter.
func BatchFallback(ctx context.Context, e Embedder, texts []string, concurrency int) (BatchEmbeddingResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultEmbedConcurrency
	}

	embeddings := make([][]float32, len(texts))
	prompt := make([]int, len(texts))
	total := make([]int, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, text := range texts {
		g.Go(func() error {
			res, err := e.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("fallback embed [%d]: %w", i, err)
			}
			embeddings[i] = res.Embedding
			prompt[i] = res.PromptTokens
			total[i] = res.TotalTokens
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchEmbeddingResult{}, err
	}

	out := BatchEmbeddingResult{Embeddings: embeddings}
	for i := range texts {
		out.PromptTokens += prompt[i]
		out.TotalTokens += total[i]
	}
	return out, nil
}

// InstructionEmbedder prepends an instruction prefix before embedding
// (asymmetric models want different prefixes for queries and documents).
type InstructionEmbedder struct {
	inner       Embedder
	instruction string
	concurrency int
}

// NewInstructionEmbedder creates a decorator that prepends instruction text.
func NewInstructionEmbedder(inner Embedder, instruction string) *InstructionEmbedder {
	return &InstructionEmbedder{inner: inner, instruction: instruction, concurrency: DefaultEmbedConcurrency}
}

// Embed prepends instruction and delegates to inner embedder.
func (e *InstructionEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.instruction+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("instruction embed: %w", err)
	}
	return result, nil
}

// BatchEmbed prepends instruction to each text and delegates to inner.
func (e *InstructionEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	prefixed := make([]string, len(texts))
	for i, t := range texts {
		prefixed[i] = e.instruction + t
	}

	res, err := EmbedAll(ctx, e.inner, prefixed, e.concurrency)
	if err != nil {
		return BatchEmbeddingResult{}, fmt.Errorf("instruction batch embed: %w", err)
	}
	return res, nil
}
