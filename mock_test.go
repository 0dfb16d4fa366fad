package listingsearch

import (
	"context"
	"strings"
	"sync"

	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/request"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/result"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, corpus []listing.Listing, req request.Request) ([]result.Result, error)
}

func (m *mockSearchUC) Search(
	ctx context.Context, corpus []listing.Listing, req request.Request,
) ([]result.Result, error) {
	return m.searchFn(ctx, corpus, req)
}

// --- embedders ---

// keywordEmbedder maps texts onto fixed axes by keyword, so similarities are predictable.
type keywordEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

var axes = []string{"beach", "ballroom", "flower"}

func (e *keywordEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.err != nil {
		return EmbeddingResult{}, e.err
	}
	return EmbeddingResult{Embedding: keywordVector(text), TotalTokens: 1}, nil
}

func keywordVector(text string) []float32 {
	vec := make([]float32, len(axes))
	for i, a := range axes {
		if strings.Contains(strings.ToLower(text), a) {
			vec[i] = 1
		}
	}
	return vec
}

type batchKeywordEmbedder struct {
	keywordEmbedder
	batches int
}

func (e *batchKeywordEmbedder) BatchEmbed(_ context.Context, texts []string) (BatchEmbeddingResult, error) {
	e.batches++
	out := BatchEmbeddingResult{}
	for _, t := range texts {
		out.Embeddings = append(out.Embeddings, keywordVector(t))
		out.TotalTokens++
	}
	return out, nil
}

func testCorpus() []Listing {
	return []Listing{
		{ID: "v1", VendorID: "acme", Name: "Grand Ballroom", Category: "venue", Location: "Mumbai",
			Description: "Elegant ballroom", Status: "active", CategoryDetails: map[string]any{"capacity": 150.0}},
		{ID: "v2", Name: "Garden Terrace", Category: "venue", Location: "Mumbai",
			Description: "Open air lawn", CategoryDetails: map[string]any{"capacity": 100.0}},
		{ID: "v3", Name: "Sandy Shores", Category: "venue", Location: "Goa",
			Description: "Beach resort", CategoryDetails: map[string]any{"capacity": "300"}},
		{ID: "d1", Name: "Petal Studio", Category: "decor", Location: "Pune",
			Description: "Flower and floral mandap decor", CategoryDetails: map[string]any{"decorStyle": []any{"floral"}}},
	}
}

func ids(ls []Listing) []string {
	out := make([]string, len(ls))
	for i := range ls {
		out[i] = ls[i].ID
	}
	return out
}
