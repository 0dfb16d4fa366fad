package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SearchMetrics records per-strategy search outcomes.
type SearchMetrics struct {
	requests   *prometheus.CounterVec
	candidates *prometheus.HistogramVec
	duration   *prometheus.HistogramVec
}

// NewSearchMetrics creates search collectors and registers them with reg.
// Collectors already registered on reg are reused.
func NewSearchMetrics(reg prometheus.Registerer) (*SearchMetrics, error) {
	m := &SearchMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "search_requests_total",
				Help:      "Total number of searches by strategy and outcome",
			},
			[]string{"strategy", "status"},
		),
		candidates: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "search_candidates",
				Help:      "Listings entering the ranking stage per search",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"strategy"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "search_duration_seconds",
				Help:      "Search duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"strategy"},
		),
	}

	var err error
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.candidates, err = register(reg, m.candidates); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveSearch records one finished search.
func (m *SearchMetrics) ObserveSearch(strategy, status string, candidates int, elapsed time.Duration) {
	m.requests.WithLabelValues(strategy, status).Inc()
	m.candidates.WithLabelValues(strategy).Observe(float64(candidates))
	m.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metrics: %w", err)
	}
	return c, nil
}
