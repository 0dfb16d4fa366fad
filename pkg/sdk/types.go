package sdk

// Listing is a marketplace listing as returned by every search route.
type Listing struct {
	ID              string         `json:"id"`
	VendorID        string         `json:"vendorId,omitempty"`
	Name            string         `json:"name"`
	Category        string         `json:"category"`
	Location        string         `json:"location"`
	Description     string         `json:"description,omitempty"`
	Status          string         `json:"status,omitempty"`
	CategoryDetails map[string]any `json:"categoryDetails"`
}

// SemanticHit is a listing with its cosine similarity to the query.
type SemanticHit struct {
	Listing
	SimilarityScore float64 `json:"similarity_score"`
}

// SemanticResult is the semantic route response.
type SemanticResult struct {
	Results []SemanticHit `json:"results"`
	// EmbeddingTokens is the provider token count reported by the server, 0 on cache hits.
	EmbeddingTokens int `json:"-"`
}

// HealthStatus is the /health response.
type HealthStatus struct {
	Status   string            `json:"status"` // ok, degraded, error
	Checks   map[string]string `json:"checks"`
	Listings int               `json:"listings"`
}

// Usage is the /usage embedding budget report. Times are unix millis;
// TokensRemaining is -1 when the window has no limit.
type Usage struct {
	Period          string `json:"period"`
	PeriodStart     int64  `json:"period_start"`
	PeriodEnd       int64  `json:"period_end"`
	TokensLimit     int64  `json:"tokens_limit"`
	TokensUsed      int64  `json:"tokens_used"`
	QueryTokens     int64  `json:"query_tokens"`    // spent embedding search text
	DocumentTokens  int64  `json:"document_tokens"` // spent embedding listings
	TokensRemaining int64  `json:"tokens_remaining"`
	Exhausted       bool   `json:"is_exhausted"`
}

// SearchParams are the hybrid search parameters. Zero values are omitted.
type SearchParams struct {
	Category   string
	Location   string
	GuestCount int
	QueryText  string
	Alpha      *float64
}

// FuzzyParams are the fuzzy search parameters.
type FuzzyParams struct {
	Name        string
	Description string
	Category    string
	Location    string
}

// SemanticParams are the semantic search parameters. Query is required.
type SemanticParams struct {
	Query    string
	TopN     int
	Category string
	Location string
}
