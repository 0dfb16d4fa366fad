package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/listingsearch/internal/domain"
)

// Embedder vectorizes text into embeddings.
// Implementations may also satisfy domain.BatchEmbedder.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Recorder observes finished searches (metrics sink). candidates counts the
// listings that passed the category/location/guest filters and reached a ranker.
type Recorder interface {
	ObserveSearch(strategy, status string, candidates int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSearch(string, string, int, time.Duration) {}
