package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/request"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/result"
)

// Hybrid boost weights.
const (
	categoryBoost        = 3.0
	exactLocationBoost   = 3.0
	partialLocationBoost = 1.5
)

// RankHybrid filters the corpus by the request criteria, then scores every
// survivor by category/location boosts plus alpha * TF-IDF relevance.
// Ties keep filtered input order.
func RankHybrid(corpus []listing.Listing, req *request.Hybrid) []result.Result {
	return rankHybridCandidates(Filter(corpus, req.Criteria()), req)
}

// rankHybridCandidates scores listings that already passed the filter stage.
func rankHybridCandidates(candidates []listing.Listing, req *request.Hybrid) []result.Result {
	if len(candidates) == 0 {
		return []result.Result{}
	}

	var relevance []float64
	if req.QueryText() != "" {
		texts := make([]string, len(candidates))
		for i := range candidates {
			texts[i] = hybridDocument(&candidates[i])
		}
		relevance = newRelevanceIndex(texts).Scores(req.QueryText())
	}

	results := make([]result.Result, len(candidates))
	for i := range candidates {
		score := boost(&candidates[i], req.Criteria())
		if relevance != nil {
			score += req.Alpha() * relevance[i]
		}
		results[i] = result.New(&candidates[i], score)
	}

	sortByScore(results)
	return results
}

// boost rewards an exact category match and an exact (else partial) location match.
func boost(l *listing.Listing, crit filter.Criteria) float64 {
	score := 0.0
	if crit.Category() != "" && string(l.Category()) == crit.Category() {
		score += categoryBoost
	}
	if crit.Location() != "" {
		loc := strings.ToLower(l.Location())
		switch {
		case loc == crit.Location():
			score += exactLocationBoost
		case strings.Contains(loc, crit.Location()):
			score += partialLocationBoost
		}
	}
	return score
}

func hybridDocument(l *listing.Listing) string {
	return strings.ToLower(strings.Join([]string{
		l.Name(), l.Description(), string(l.Category()), l.Location(),
	}, "\n"))
}

// sortByScore orders results by descending score, keeping input order on ties.
func sortByScore(rs []result.Result) {
	slices.SortStableFunc(rs, func(a, b result.Result) int {
		return cmp.Compare(b.Score(), a.Score())
	})
}
