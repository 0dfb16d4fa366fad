package listingsearch

import (
	"strconv"

	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/result"
)

// Listing is a marketplace offering. CategoryDetails holds the category-specific
// attributes (capacity, maxGuests, cuisineType, ...) and is returned unmodified.
type Listing struct {
	ID              string
	VendorID        string
	Name            string
	Category        string
	Location        string
	Description     string
	Status          string
	CategoryDetails map[string]any
}

// Result is a listing with its cosine similarity to a semantic query.
type Result struct {
	Listing Listing
	Score   float64
}

// HybridQuery filters by hard constraints and ranks the survivors.
// Empty fields and a non-positive GuestCount disable the matching filter.
type HybridQuery struct {
	Category   string
	Location   string
	GuestCount int
	QueryText  string
	// Alpha weights TF-IDF relevance against the constraint boosts.
	// Nil, NaN or a value outside [0,1] uses 0.4.
	Alpha *float64
}

// FuzzyQuery matches name and description hints with typo tolerance.
type FuzzyQuery struct {
	Name        string
	Description string
	Category    string
	Location    string
	Limit       int // default 10
}

// SemanticQuery ranks by embedding similarity. Query is required.
type SemanticQuery struct {
	Query    string
	TopN     int // default 10, max 500
	Category string
	Location string
}

// toDomain converts the caller's corpus. Each domain listing is keyed by its
// input position rather than the caller's ID, which may be empty or repeated.
func toDomain(ls []Listing) []listing.Listing {
	out := make([]listing.Listing, len(ls))
	for i := range ls {
		l := &ls[i]
		out[i] = listing.Reconstruct(
			strconv.Itoa(i), l.VendorID, l.Name, l.Category, l.Location, l.Description, l.Status, l.CategoryDetails,
		)
	}
	return out
}

// corpusIndex resolves ranked domain listings back to the caller's values.
type corpusIndex []Listing

func (x corpusIndex) listing(l *listing.Listing) Listing {
	i, err := strconv.Atoi(l.ID())
	if err != nil || i < 0 || i >= len(x) {
		// Only reachable when the search service returns a listing it did not receive.
		return Listing{
			VendorID:        l.VendorID(),
			Name:            l.Name(),
			Category:        string(l.Category()),
			Location:        l.Location(),
			Description:     l.Description(),
			Status:          string(l.Status()),
			CategoryDetails: l.Attributes(),
		}
	}
	return x[i]
}

func (x corpusIndex) listings(rs []result.Result) []Listing {
	out := make([]Listing, len(rs))
	for i := range rs {
		out[i] = x.listing(rs[i].Listing())
	}
	return out
}

func (x corpusIndex) results(rs []result.Result) []Result {
	out := make([]Result, len(rs))
	for i := range rs {
		out[i] = Result{Listing: x.listing(rs[i].Listing()), Score: rs[i].Score()}
	}
	return out
}
