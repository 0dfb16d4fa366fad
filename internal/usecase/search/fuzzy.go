package search

import (
	"strings"

	"github.com/xrash/smetrics"

	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/result"
)

// DefaultFuzzyThreshold is the largest normalized edit distance that still counts as a match.
const DefaultFuzzyThreshold = 0.4

// Fuzzy field weights.
const (
	nameWeight        = 0.7
	descriptionWeight = 0.3
)

// FuzzyMatcher scores listings against a free-text pattern by edit distance
// over name and description.
type FuzzyMatcher struct {
	threshold float64
}

// NewFuzzyMatcher creates a matcher. A threshold outside (0,1] falls back to the default.
func NewFuzzyMatcher(threshold float64) *FuzzyMatcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}
	return &FuzzyMatcher{threshold: threshold}
}

// Match returns up to limit listings ordered by weighted similarity.
// An empty pattern returns the first limit listings unscored.
// Listings where neither field is within the threshold are dropped.
func (m *FuzzyMatcher) Match(corpus []listing.Listing, pattern string, limit int) []result.Result {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		n := min(limit, len(corpus))
		out := make([]result.Result, n)
		for i := range n {
			out[i] = result.New(&corpus[i], 0)
		}
		return out
	}

	var out []result.Result
	for i := range corpus {
		l := &corpus[i]
		total, matched := 0.0, false
		for _, f := range []struct {
			text   string
			weight float64
		}{
			{l.Name(), nameWeight},
			{l.Description(), descriptionWeight},
		} {
			sim := fieldSimilarity(pattern, f.text)
			if 1-sim <= m.threshold {
				total += f.weight * sim
				matched = true
			}
		}
		if matched {
			out = append(out, result.New(l, total/(nameWeight+descriptionWeight)))
		}
	}

	sortByScore(out)
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []result.Result{}
	}
	return out
}

// fieldSimilarity is 1 - d/len(pattern), where d is the smallest edit distance
// between the lowercased pattern and any run of consecutive field words whose
// length is within one word of the pattern's.
func fieldSimilarity(pattern, field string) float64 {
	words := strings.Fields(strings.ToLower(field))
	if len(words) == 0 || len(pattern) == 0 {
		return 0
	}

	n := len(strings.Fields(pattern))
	lo := min(max(1, n-1), len(words))
	hi := min(n+1, len(words))
	best := len(pattern)
	for size := lo; size <= hi; size++ {
		for start := 0; start+size <= len(words); start++ {
			window := strings.Join(words[start:start+size], " ")
			if d := smetrics.WagnerFischer(pattern, window, 1, 1, 1); d < best {
				best = d
			}
		}
	}

	sim := 1 - float64(best)/float64(len(pattern))
	return max(0, min(1, sim))
}
