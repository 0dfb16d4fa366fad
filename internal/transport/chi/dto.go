package chi

import (
	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	domusage "github.com/kailas-cloud/listingsearch/internal/domain/usage"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/result"
)

// errorCode is the machine-readable code in the error envelope.
type errorCode string

const (
	codeBadRequest          errorCode = "bad_request"
	codeUnauthorized        errorCode = "unauthorized"
	codeInvalidQuery        errorCode = "invalid_query"
	codeQuotaExceeded       errorCode = "embedding_quota_exceeded"
	codeProviderError       errorCode = "embedding_provider_error"
	codeSearchTimeout       errorCode = "search_timeout"
	codeVectorDimMismatch   errorCode = "vector_dim_mismatch"
	codeSemanticUnavailable errorCode = "semantic_search_unavailable"
	codeCatalogUnavailable  errorCode = "catalog_unavailable"
	codeInternalError       errorCode = "internal_error"
)

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// ListingResponse is a listing as returned by every route.
// categoryDetails is passed through exactly as stored.
type ListingResponse struct {
	ID              string         `json:"id"`
	VendorID        string         `json:"vendorId,omitempty"`
	Name            string         `json:"name"`
	Category        string         `json:"category"`
	Location        string         `json:"location"`
	Description     string         `json:"description,omitempty"`
	Status          string         `json:"status,omitempty"`
	CategoryDetails map[string]any `json:"categoryDetails"`
}

// SemanticItem is a listing with its cosine similarity to the query.
type SemanticItem struct {
	ListingResponse
	SimilarityScore float64 `json:"similarity_score"`
}

// SemanticResponse wraps semantic results.
type SemanticResponse struct {
	Results []SemanticItem `json:"results"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Listings int               `json:"listings"`
}

// UsageResponse reports embedding token spend for a budget window.
// Used splits into search-text (query) and listing (document) tokens.
// Remaining is -1 when no limit is configured.
type UsageResponse struct {
	Period         string `json:"period"`
	Start          int64  `json:"period_start"` // unix millis
	End            int64  `json:"period_end"`   // unix millis, also the reset time
	Limit          int64  `json:"tokens_limit"`
	Used           int64  `json:"tokens_used"`
	QueryTokens    int64  `json:"query_tokens"`
	DocumentTokens int64  `json:"document_tokens"`
	Remaining      int64  `json:"tokens_remaining"`
	Exhausted      bool   `json:"is_exhausted"`
}

func usageToResponse(r *domusage.Report) UsageResponse {
	spend := r.Spend()
	return UsageResponse{
		Period:         string(r.Period()),
		Start:          r.Start().UnixMilli(),
		End:            r.End().UnixMilli(),
		Limit:          r.Limit(),
		Used:           r.Used(),
		QueryTokens:    spend.Query,
		DocumentTokens: spend.Document,
		Remaining:      r.Remaining(),
		Exhausted:      r.Exhausted(),
	}
}

func listingToResponse(l *listing.Listing) ListingResponse {
	return ListingResponse{
		ID:              l.ID(),
		VendorID:        l.VendorID(),
		Name:            l.Name(),
		Category:        string(l.Category()),
		Location:        l.Location(),
		Description:     l.Description(),
		Status:          string(l.Status()),
		CategoryDetails: l.Attributes(),
	}
}

func listingsToResponse(rs []result.Result) []ListingResponse {
	out := make([]ListingResponse, len(rs))
	for i := range rs {
		out[i] = listingToResponse(rs[i].Listing())
	}
	return out
}

func semanticToResponse(rs []result.Result) SemanticResponse {
	items := make([]SemanticItem, len(rs))
	for i := range rs {
		items[i] = SemanticItem{
			ListingResponse: listingToResponse(rs[i].Listing()),
			SimilarityScore: rs[i].Score(),
		}
	}
	return SemanticResponse{Results: items}
}
