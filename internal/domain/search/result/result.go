package result

import "github.com/kailas-cloud/listingsearch/internal/domain/listing"

// Result is a single ranked listing. The listing is shared, never copied or mutated.
type Result struct {
	listing *listing.Listing
	score   float64
}

// New creates a search result.
func New(l *listing.Listing, score float64) Result {
	return Result{listing: l, score: score}
}

// Listing returns the ranked listing.
func (r *Result) Listing() *listing.Listing { return r.listing }

// Score returns the strategy-specific score (boost+relevance, similarity or cosine).
func (r *Result) Score() float64 { return r.score }

// Listings strips scores, preserving order.
func Listings(rs []Result) []*listing.Listing {
	out := make([]*listing.Listing, len(rs))
	for i := range rs {
		out[i] = rs[i].listing
	}
	return out
}
