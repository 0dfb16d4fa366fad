package listingsearch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/request"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/result"
	"github.com/kailas-cloud/listingsearch/internal/metrics"
	searchuc "github.com/kailas-cloud/listingsearch/internal/usecase/search"
)

// searchUseCase is the internal interface for swapping in tests.
type searchUseCase interface {
	Search(ctx context.Context, corpus []listing.Listing, req request.Request) ([]result.Result, error)
}

// Client ranks caller-supplied listings. It is stateless and safe for concurrent use.
type Client struct {
	svc searchUseCase
	obs *observer
}

// New creates a Client. No option is required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	var svcOpts []searchuc.Option
	if cfg.metricsReg != nil {
		rec, err := metrics.NewSearchMetrics(cfg.metricsReg)
		if err != nil {
			return nil, fmt.Errorf("listingsearch: %w", err)
		}
		svcOpts = append(svcOpts, searchuc.WithRecorder(rec))
	}
	if cfg.docEmbedder != nil {
		svcOpts = append(svcOpts, searchuc.WithDocumentEmbedder(adapt(cfg.docEmbedder)))
	}
	if cfg.fuzzyThreshold > 0 {
		svcOpts = append(svcOpts, searchuc.WithFuzzyThreshold(cfg.fuzzyThreshold))
	}
	if cfg.semanticTimeout > 0 {
		svcOpts = append(svcOpts, searchuc.WithSemanticTimeout(cfg.semanticTimeout))
	}
	if cfg.concurrency > 0 {
		svcOpts = append(svcOpts, searchuc.WithEmbedConcurrency(cfg.concurrency))
	}

	// A nil Embedder must reach the service as a nil interface.
	var embed searchuc.Embedder
	if e := adapt(cfg.embedder); e != nil {
		embed = e
	}

	return &Client{
		svc: searchuc.New(embed, svcOpts...),
		obs: &observer{logger: cfg.logger},
	}, nil
}
