package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EmbeddingMetrics records embedding provider calls and per-chain spend.
// A chain is "query" (search text) or "document" (listing name and description).
// All methods are safe on a nil receiver.
type EmbeddingMetrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	errors    *prometheus.CounterVec
	texts     *prometheus.CounterVec
	tokens    *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	cache     *prometheus.CounterVec
	remaining *prometheus.GaugeVec
}

// NewEmbeddingMetrics creates embedding collectors and registers them with reg.
// Collectors already registered on reg are reused.
func NewEmbeddingMetrics(reg prometheus.Registerer) (*EmbeddingMetrics, error) {
	m := &EmbeddingMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "embedding_requests_total",
				Help:      "Embedding API calls by outcome",
			},
			[]string{"provider", "model", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "embedding_request_duration_seconds",
				Help:      "Embedding API call duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"provider", "model"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "embedding_errors_total",
				Help:      "Embedding API errors by kind",
			},
			[]string{"provider", "model", "error_type"},
		),
		texts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "embedding_texts_total",
				Help:      "Search texts and listing documents embedded, by chain",
			},
			[]string{"chain"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "embedding_tokens_total",
				Help:      "Embedding tokens booked against the budget, by chain",
			},
			[]string{"chain", "provider"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "embedding_budget_rejections_total",
				Help:      "Embedding calls refused because the token budget is spent",
			},
			[]string{"chain", "provider"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "embedding_cache_total",
				Help:      "Embedding cache lookups by chain and result",
			},
			[]string{"chain", "result"},
		),
		remaining: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "embedding_budget_tokens_remaining",
				Help:      "Tokens left in the current budget period, -1 when unlimited",
			},
			[]string{"provider", "period"},
		),
	}

	var err error
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.errors, err = register(reg, m.errors); err != nil {
		return nil, err
	}
	if m.texts, err = register(reg, m.texts); err != nil {
		return nil, err
	}
	if m.tokens, err = register(reg, m.tokens); err != nil {
		return nil, err
	}
	if m.rejected, err = register(reg, m.rejected); err != nil {
		return nil, err
	}
	if m.cache, err = register(reg, m.cache); err != nil {
		return nil, err
	}
	if m.remaining, err = register(reg, m.remaining); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveProviderCall records one successful API call.
func (m *EmbeddingMetrics) ObserveProviderCall(provider, model string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(provider, model, "success").Inc()
	m.duration.WithLabelValues(provider, model).Observe(elapsed.Seconds())
}

// CountProviderError records one failed API call.
func (m *EmbeddingMetrics) CountProviderError(provider, model, kind string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(provider, model, "error").Inc()
	m.errors.WithLabelValues(provider, model, kind).Inc()
}

// SetBudgetRemaining publishes the tokens left today and this month.
func (m *EmbeddingMetrics) SetBudgetRemaining(provider string, daily, monthly int64) {
	if m == nil {
		return
	}
	m.remaining.WithLabelValues(provider, "day").Set(float64(daily))
	m.remaining.WithLabelValues(provider, "month").Set(float64(monthly))
}

// Chain returns the recorder for one embedding chain.
func (m *EmbeddingMetrics) Chain(chain string) ChainMetrics {
	return ChainMetrics{m: m, chain: chain}
}

// ChainMetrics records spend for one embedding chain.
type ChainMetrics struct {
	m     *EmbeddingMetrics
	chain string
}

// Texts counts n texts embedded.
func (c ChainMetrics) Texts(n int) {
	if c.m == nil || n <= 0 {
		return
	}
	c.m.texts.WithLabelValues(c.chain).Add(float64(n))
}

// Tokens counts n tokens booked to provider.
func (c ChainMetrics) Tokens(provider string, n int) {
	if c.m == nil || n <= 0 {
		return
	}
	c.m.tokens.WithLabelValues(c.chain, provider).Add(float64(n))
}

// BudgetRejected counts one call refused by the budget.
func (c ChainMetrics) BudgetRejected(provider string) {
	if c.m == nil {
		return
	}
	c.m.rejected.WithLabelValues(c.chain, provider).Inc()
}

// CacheLookups counts cache hits and misses.
func (c ChainMetrics) CacheLookups(hits, misses int) {
	if c.m == nil {
		return
	}
	if hits > 0 {
		c.m.cache.WithLabelValues(c.chain, "hit").Add(float64(hits))
	}
	if misses > 0 {
		c.m.cache.WithLabelValues(c.chain, "miss").Add(float64(misses))
	}
}
