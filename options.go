package listingsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	embedder    Embedder
	docEmbedder Embedder

	fuzzyThreshold  float64
	semanticTimeout time.Duration
	concurrency     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithEmbedder sets the embedding provider used by Semantic.
// Without it Semantic returns ErrEmbedderNotConfigured; Hybrid and Fuzzy never need one.
// If the embedder also implements BatchEmbedder, candidates are embedded in one call.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithDocumentEmbedder sets a separate embedder for listing texts, e.g. one that
// prepends a document instruction. Defaults to the WithEmbedder embedder.
func WithDocumentEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.docEmbedder = e
	})
}

// WithFuzzyThreshold sets the largest normalized edit distance still counted as
// a fuzzy match. Default: 0.4.
func WithFuzzyThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.fuzzyThreshold = t
	})
}

// WithSemanticTimeout bounds every Semantic call. Zero (default) leaves only
// the caller's context deadline.
func WithSemanticTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.semanticTimeout = d
	})
}

// WithEmbedConcurrency bounds parallel Embed calls for embedders without a batch endpoint.
// Default: 8.
func WithEmbedConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.concurrency = n
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithMetrics registers search metrics (per-strategy counts, candidate sizes,
// durations) on the given registerer. Pass nil to disable (default).
func WithMetrics(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
