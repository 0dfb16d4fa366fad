package listingsearch

import (
	"context"
	"time"

	"github.com/kailas-cloud/listingsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/request"
)

// Hybrid keeps listings that satisfy the category, location and guest-count
// constraints and orders them by constraint boosts plus alpha-weighted TF-IDF
// relevance of QueryText. It never fails; no match is an empty slice.
func (c *Client) Hybrid(ctx context.Context, corpus []Listing, q HybridQuery) []Listing {
	start := time.Now()
	req := request.NewHybrid(filter.New(q.Category, q.Location, q.GuestCount), q.QueryText, q.Alpha)

	rs, err := c.svc.Search(ctx, toDomain(corpus), request.ForHybrid(req))
	c.obs.observe("hybrid", start, len(rs), err)
	if err != nil {
		return []Listing{}
	}
	return corpusIndex(corpus).listings(rs)
}

// Fuzzy pre-filters by category and location, then returns up to Limit listings
// whose name or description approximately matches the hints. With no hints it
// returns the first Limit listings in input order.
func (c *Client) Fuzzy(ctx context.Context, corpus []Listing, q FuzzyQuery) []Listing {
	start := time.Now()
	req := request.NewFuzzy(q.Name, q.Description, filter.New(q.Category, q.Location, 0), q.Limit)

	rs, err := c.svc.Search(ctx, toDomain(corpus), request.ForFuzzy(req))
	c.obs.observe("fuzzy", start, len(rs), err)
	if err != nil {
		return []Listing{}
	}
	return corpusIndex(corpus).listings(rs)
}

// Semantic pre-filters by category and location, then ranks by cosine similarity
// between the query and each listing's name and description embeddings.
func (c *Client) Semantic(ctx context.Context, corpus []Listing, q SemanticQuery) ([]Result, error) {
	start := time.Now()
	req, err := request.NewSemantic(q.Query, q.TopN, filter.New(q.Category, q.Location, 0))
	if err != nil {
		c.obs.observe("semantic", start, 0, err)
		return nil, err
	}

	rs, err := c.svc.Search(ctx, toDomain(corpus), request.ForSemantic(req))
	c.obs.observe("semantic", start, len(rs), err)
	if err != nil {
		return nil, err
	}
	return corpusIndex(corpus).results(rs), nil
}
