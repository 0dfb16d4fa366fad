package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listingsearch/internal/domain"
	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/request"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/result"
	"github.com/kailas-cloud/listingsearch/internal/logger"
)

// Service ranks a caller-supplied corpus with the hybrid, fuzzy or semantic strategy.
// It holds no per-call state and is safe for concurrent use.
type Service struct {
	queryEmbed  Embedder
	docEmbed    Embedder
	fuzzy       *FuzzyMatcher
	recorder    Recorder
	timeout     time.Duration
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithDocumentEmbedder sets a separate embedder for candidate texts
// (e.g. one with a document instruction prefix). Defaults to the query embedder.
func WithDocumentEmbedder(e Embedder) Option {
	return func(s *Service) { s.docEmbed = e }
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithSemanticTimeout bounds every semantic call. Zero disables the bound.
func WithSemanticTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithFuzzyThreshold sets the largest normalized edit distance counted as a match.
func WithFuzzyThreshold(t float64) Option {
	return func(s *Service) { s.fuzzy = NewFuzzyMatcher(t) }
}

// WithEmbedConcurrency bounds parallel candidate embedding for providers without a batch endpoint.
func WithEmbedConcurrency(n int) Option {
	return func(s *Service) { s.concurrency = n }
}

// New creates a search service. embed may be nil when semantic search is not used.
func New(embed Embedder, opts ...Option) *Service {
	s := &Service{
		queryEmbed:  embed,
		fuzzy:       NewFuzzyMatcher(DefaultFuzzyThreshold),
		recorder:    nopRecorder{},
		concurrency: domain.DefaultEmbedConcurrency,
	}
	for _, o := range opts {
		o(s)
	}
	if s.docEmbed == nil {
		s.docEmbed = s.queryEmbed
	}
	return s
}

// Search routes the request to the strategy named by its mode.
func (s *Service) Search(
	ctx context.Context, corpus []listing.Listing, req request.Request,
) ([]result.Result, error) {
	switch req.Mode() {
	case mode.Hybrid:
		return s.Hybrid(ctx, corpus, req.Hybrid()), nil
	case mode.Fuzzy:
		return s.Fuzzy(ctx, corpus, req.Fuzzy()), nil
	case mode.Semantic:
		return s.Semantic(ctx, corpus, req.Semantic())
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedMode, req.Mode())
	}
}

// Hybrid filters by category, location and guest count, then ranks by boosts
// plus term relevance. Never fails.
func (s *Service) Hybrid(ctx context.Context, corpus []listing.Listing, req *request.Hybrid) []result.Result {
	start := time.Now()
	candidates := Filter(corpus, req.Criteria())
	results := rankHybridCandidates(candidates, req)
	s.observe(ctx, mode.Hybrid, len(candidates), len(results), start, nil)
	return results
}

// Fuzzy pre-filters by category/location and returns the closest name/description matches.
func (s *Service) Fuzzy(ctx context.Context, corpus []listing.Listing, req *request.Fuzzy) []result.Result {
	start := time.Now()
	candidates := prefilter(corpus, req.Criteria())
	results := s.fuzzy.Match(candidates, req.Pattern(), req.Limit())
	s.observe(ctx, mode.Fuzzy, len(candidates), len(results), start, nil)
	return results
}

// Semantic pre-filters by category/location and ranks by embedding cosine similarity.
// An empty pre-filtered corpus returns no results without calling the provider.
func (s *Service) Semantic(
	ctx context.Context, corpus []listing.Listing, req *request.Semantic,
) ([]result.Result, error) {
	start := time.Now()
	candidates := prefilter(corpus, req.Criteria())
	results, err := s.rankSemantic(ctx, req.Query(), candidates, req.TopN())
	s.observe(ctx, mode.Semantic, len(candidates), len(results), start, err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func prefilter(corpus []listing.Listing, c filter.Criteria) []listing.Listing {
	if c.IsEmpty() {
		return corpus
	}
	return Filter(corpus, c)
}

func (s *Service) observe(
	ctx context.Context, m mode.Mode, candidates, returned int, start time.Time, err error,
) {
	elapsed := time.Since(start)
	status := statusLabel(err)
	s.recorder.ObserveSearch(string(m), status, candidates, elapsed)

	logger.FromContext(ctx).Debug("Search completed",
		zap.String("strategy", string(m)),
		zap.String("status", status),
		zap.Int("candidates", candidates),
		zap.Int("results", returned),
		zap.Duration("duration", elapsed),
		zap.Error(err),
	)
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrSearchTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrEmbeddingQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		return "provider_error"
	default:
		return "error"
	}
}
