package request

import (
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/listingsearch/internal/domain"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed semantic query length in bytes.
	MaxQueryLength = 4096
	// DefaultAlpha weights term relevance against the hard-constraint boosts.
	DefaultAlpha = 0.4
	DefaultTopN  = 10
	MaxTopN      = 500
	DefaultLimit = 10
	MaxLimit     = 500
)

// Hybrid is a filter-then-rank query.
type Hybrid struct {
	criteria  filter.Criteria
	queryText string
	alpha     float64
}

// NewHybrid normalizes hybrid parameters. It never fails: an alpha outside
// [0,1] or NaN falls back to DefaultAlpha.
func NewHybrid(criteria filter.Criteria, queryText string, alpha *float64) Hybrid {
	a := DefaultAlpha
	if alpha != nil && !math.IsNaN(*alpha) && *alpha >= 0 && *alpha <= 1 {
		a = *alpha
	}
	return Hybrid{
		criteria:  criteria,
		queryText: strings.ToLower(strings.TrimSpace(queryText)),
		alpha:     a,
	}
}

// Criteria returns the hard constraints.
func (r *Hybrid) Criteria() filter.Criteria { return r.criteria }

// QueryText returns the lowercased free text ("" = boosts only).
func (r *Hybrid) QueryText() string { return r.queryText }

// Alpha returns the relevance weight.
func (r *Hybrid) Alpha() float64 { return r.alpha }

// Fuzzy is a typo-tolerant name/description lookup.
type Fuzzy struct {
	name        string
	description string
	criteria    filter.Criteria
	limit       int
}

// NewFuzzy normalizes fuzzy parameters. Limit defaults to DefaultLimit.
func NewFuzzy(name, description string, criteria filter.Criteria, limit int) Fuzzy {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Fuzzy{
		name:        strings.TrimSpace(name),
		description: strings.TrimSpace(description),
		criteria:    criteria,
		limit:       limit,
	}
}

// Name returns the name hint.
func (r *Fuzzy) Name() string { return r.name }

// Description returns the description hint.
func (r *Fuzzy) Description() string { return r.description }

// Criteria returns the category/location pre-filter.
func (r *Fuzzy) Criteria() filter.Criteria { return r.criteria }

// Limit returns the maximum results to return.
func (r *Fuzzy) Limit() int { return r.limit }

// Pattern returns the non-empty hints joined by a space.
func (r *Fuzzy) Pattern() string {
	switch {
	case r.name != "" && r.description != "":
		return r.name + " " + r.description
	case r.name != "":
		return r.name
	default:
		return r.description
	}
}

// Semantic is an embedding similarity query.
type Semantic struct {
	query    string
	topN     int
	criteria filter.Criteria
}

// NewSemantic validates semantic parameters. Query is required.
func NewSemantic(query string, topN int, criteria filter.Criteria) (Semantic, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Semantic{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if len(q) > MaxQueryLength {
		return Semantic{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	if topN > MaxTopN {
		topN = MaxTopN
	}
	return Semantic{query: q, topN: topN, criteria: criteria}, nil
}

// Query returns the trimmed query text.
func (r *Semantic) Query() string { return r.query }

// TopN returns the number of results to return.
func (r *Semantic) TopN() int { return r.topN }

// Criteria returns the category/location pre-filter.
func (r *Semantic) Criteria() filter.Criteria { return r.criteria }

// Request is a strategy-tagged query for the dispatcher.
type Request struct {
	searchMode mode.Mode
	hybrid     *Hybrid
	fuzzy      *Fuzzy
	semantic   *Semantic
}

// ForHybrid wraps a hybrid query.
func ForHybrid(h Hybrid) Request { return Request{searchMode: mode.Hybrid, hybrid: &h} }

// ForFuzzy wraps a fuzzy query.
func ForFuzzy(f Fuzzy) Request { return Request{searchMode: mode.Fuzzy, fuzzy: &f} }

// ForSemantic wraps a semantic query.
func ForSemantic(s Semantic) Request { return Request{searchMode: mode.Semantic, semantic: &s} }

// Mode returns the search strategy ("" for the zero Request).
func (r Request) Mode() mode.Mode { return r.searchMode }

// Hybrid returns the hybrid query, nil for other modes.
func (r Request) Hybrid() *Hybrid { return r.hybrid }

// Fuzzy returns the fuzzy query, nil for other modes.
func (r Request) Fuzzy() *Fuzzy { return r.fuzzy }

// Semantic returns the semantic query, nil for other modes.
func (r Request) Semantic() *Semantic { return r.semantic }
