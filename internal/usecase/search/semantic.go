package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/listingsearch/internal/domain"
	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/result"
)

// rankSemantic embeds the query once and every candidate's name+description,
// then orders candidates by cosine similarity and keeps the top n.
func (s *Service) rankSemantic(
	ctx context.Context, query string, candidates []listing.Listing, topN int,
) ([]result.Result, error) {
	if s.queryEmbed == nil {
		return nil, domain.ErrEmbedderNotConfigured
	}
	if len(candidates) == 0 {
		return []result.Result{}, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	q, err := s.queryEmbed.Embed(ctx, query)
	if err != nil {
		return nil, embedError(ctx, "vectorize query", err)
	}
	domain.UsageFromContext(ctx).AddTokens(q.TotalTokens)

	texts := make([]string, len(candidates))
	for i := range candidates {
		texts[i] = semanticDocument(&candidates[i])
	}
	docs, err := domain.EmbedAll(ctx, s.docEmbed, texts, s.concurrency)
	if err != nil {
		return nil, embedError(ctx, "vectorize candidates", err)
	}
	domain.UsageFromContext(ctx).AddTokens(docs.TotalTokens)

	results := make([]result.Result, len(candidates))
	for i := range candidates {
		score, err := Cosine(q.Embedding, docs.Embeddings[i])
		if err != nil {
			return nil, fmt.Errorf("score listing %s: %w", candidates[i].ID(), err)
		}
		results[i] = result.New(&candidates[i], score)
	}

	sortByScore(results)
	if len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}

func semanticDocument(l *listing.Listing) string {
	return strings.TrimSpace(l.Name() + " " + l.Description())
}

// embedError classifies a provider failure: deadline -> ErrSearchTimeout,
// budget and provider sentinels pass through, anything else becomes a provider error.
func embedError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrSearchTimeout, err)
	case errors.Is(err, context.Canceled),
		errors.Is(err, domain.ErrEmbeddingQuotaExceeded),
		errors.Is(err, domain.ErrEmbeddingProviderError),
		errors.Is(err, domain.ErrVectorDimMismatch):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrEmbeddingProviderError, err)
	}
}
