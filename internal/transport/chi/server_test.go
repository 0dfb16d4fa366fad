package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listingsearch/internal/domain"
	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	domusage "github.com/kailas-cloud/listingsearch/internal/domain/usage"
	healthuc "github.com/kailas-cloud/listingsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/listingsearch/internal/usecase/search"
	usageuc "github.com/kailas-cloud/listingsearch/internal/usecase/usage"
)

type stubCatalog struct {
	listings []listing.Listing
	err      error
}

func (c *stubCatalog) Listings(context.Context) ([]listing.Listing, error) {
	return c.listings, c.err
}

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (e *stubEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	vec, ok := e.vectors[text]
	if !ok {
		vec = []float32{0, 1}
	}
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: 3}, nil
}

func testCatalog() *stubCatalog {
	return &stubCatalog{listings: []listing.Listing{
		listing.Reconstruct("v1", "vendor-1", "Grand Ballroom", "venue", "Mumbai",
			"elegant hall", "active", map[string]any{"capacity": 150}),
		listing.Reconstruct("v2", "vendor-2", "Garden Terrace", "venue", "Mumbai",
			"open air", "active", map[string]any{"capacity": 100}),
		listing.Reconstruct("d1", "vendor-3", "Petal Studio", "decor", "Pune",
			"floral arrangements", "active", map[string]any{"themes": []any{"floral"}}),
	}}
}

type stubBudget struct {
	daily int64
	spend domusage.Spend
}

func (b *stubBudget) DailyLimit() int64            { return b.daily }
func (b *stubBudget) MonthlyLimit() int64          { return 0 }
func (b *stubBudget) DailySpend() domusage.Spend   { return b.spend }
func (b *stubBudget) MonthlySpend() domusage.Spend { return b.spend }

func newTestRouter(t *testing.T, catalog *stubCatalog, embed searchuc.Embedder, apiKeys ...string) http.Handler {
	t.Helper()
	budget := &stubBudget{daily: 1000, spend: domusage.Spend{Query: 50, Document: 200}}
	svc := searchuc.New(embed)
	health := healthuc.New(catalog, nil, nil)
	srv := NewServer(svc, catalog, health, usageuc.New(budget), RouteDefaults{Alpha: 0.4, FuzzyLimit: 3, SemanticTopN: 3}, zap.NewNop())
	return NewRouter(srv, apiKeys, zap.NewNop())
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeListings(t *testing.T, rr *httptest.ResponseRecorder) []ListingResponse {
	t.Helper()
	var out []ListingResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode listings: %v", err)
	}
	return out
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return out
}

func TestSearch_HybridCapacity(t *testing.T) {
	h := newTestRouter(t, testCatalog(), nil)

	rr := get(t, h, "/search?category=venue&guestCount=120")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	got := decodeListings(t, rr)
	if len(got) != 1 || got[0].ID != "v1" {
		t.Fatalf("got %+v, want only v1", got)
	}
	if got[0].VendorID != "vendor-1" || got[0].Status != "active" {
		t.Errorf("vendor/status not carried: %+v", got[0])
	}
	if got[0].CategoryDetails["capacity"] != float64(150) {
		t.Errorf("categoryDetails = %v", got[0].CategoryDetails)
	}
}

func TestSearch_BadNumbersTreatedAsAbsent(t *testing.T) {
	h := newTestRouter(t, testCatalog(), nil)

	rr := get(t, h, "/search?category=venue&guestCount=lots&alpha=high")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := decodeListings(t, rr); len(got) != 2 {
		t.Errorf("got %d listings, want 2", len(got))
	}
}

func TestSearch_EmptyResultIsArray(t *testing.T) {
	h := newTestRouter(t, testCatalog(), nil)

	rr := get(t, h, "/search?category=photographer")
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestSearch_CatalogUnavailable(t *testing.T) {
	h := newTestRouter(t, &stubCatalog{err: errors.New("redis down")}, nil)

	rr := get(t, h, "/search")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != codeCatalogUnavailable {
		t.Errorf("code = %q", e.Code)
	}
}

func TestFuzzySearch(t *testing.T) {
	h := newTestRouter(t, testCatalog(), nil)

	rr := get(t, h, "/search/fuzzy?name=Grnd+Ballrom")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	got := decodeListings(t, rr)
	if len(got) == 0 || got[0].ID != "v1" {
		t.Fatalf("got %+v, want v1 first", got)
	}

	rr = get(t, h, "/search/fuzzy?description=floral&category=decor")
	got = decodeListings(t, rr)
	if len(got) != 1 || got[0].ID != "d1" {
		t.Errorf("got %+v, want d1", got)
	}
}

func TestFuzzySearch_EmptyHintsUseRouteLimit(t *testing.T) {
	h := newTestRouter(t, testCatalog(), nil)

	got := decodeListings(t, get(t, h, "/search/fuzzy"))
	if len(got) != 3 {
		t.Errorf("got %d, want 3", len(got))
	}
}

func TestSemanticSearch(t *testing.T) {
	embed := &stubEmbedder{vectors: map[string][]float32{
		"ballroom":                    {1, 0},
		"Grand Ballroom elegant hall": {1, 0},
		"Garden Terrace open air":     {0.6, 0.8},
	}}
	h := newTestRouter(t, testCatalog(), embed)

	rr := get(t, h, "/search/semantic?query=ballroom&category=venue&topN=1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if tokens := rr.Header().Get("X-Embedding-Tokens"); tokens != "9" {
		t.Errorf("X-Embedding-Tokens = %q, want 9", tokens)
	}

	var resp SemanticResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "v1" {
		t.Fatalf("results = %+v", resp.Results)
	}
	if score := resp.Results[0].SimilarityScore; score < 0.999 {
		t.Errorf("similarity_score = %f, want ~1", score)
	}
}

func TestSemanticSearch_EmptyCandidatesSkipHeader(t *testing.T) {
	h := newTestRouter(t, testCatalog(), &stubEmbedder{})

	rr := get(t, h, "/search/semantic?query=anything&category=photographer")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Embedding-Tokens") != "" {
		t.Error("token header set without provider call")
	}
	if body := rr.Body.String(); body != "{\"results\":[]}\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSemanticSearch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		embed  searchuc.Embedder
		status int
		code   errorCode
	}{
		{"missing query", "", &stubEmbedder{}, http.StatusBadRequest, codeInvalidQuery},
		{"no embedder", "ballroom", nil, http.StatusServiceUnavailable, codeSemanticUnavailable},
		{"provider failure", "ballroom", &stubEmbedder{err: errors.New("boom")},
			http.StatusBadGateway, codeProviderError},
		{"quota", "ballroom", &stubEmbedder{err: domain.ErrEmbeddingQuotaExceeded},
			http.StatusPaymentRequired, codeQuotaExceeded},
		{"timeout", "ballroom", &stubEmbedder{err: context.DeadlineExceeded},
			http.StatusGatewayTimeout, codeSearchTimeout},
		{"dimension mismatch", "ballroom", &stubEmbedder{vectors: map[string][]float32{"ballroom": {1, 0, 0}}},
			http.StatusInternalServerError, codeVectorDimMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(t, testCatalog(), tc.embed)

			rr := get(t, h, "/search/semantic?query="+tc.query)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			e := decodeError(t, rr)
			if e.Code != tc.code {
				t.Errorf("code = %q, want %q", e.Code, tc.code)
			}
			if e.Message == "" || e.Message == "boom" {
				t.Errorf("message = %q", e.Message)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	rr := get(t, newTestRouter(t, testCatalog(), nil), "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Listings != 3 || resp.Checks["catalog"] != "ok" {
		t.Errorf("resp = %+v", resp)
	}

	rr = get(t, newTestRouter(t, &stubCatalog{err: errors.New("gone")}, nil), "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want 503", rr.Code)
	}
}

func TestGetUsage(t *testing.T) {
	h := newTestRouter(t, testCatalog(), nil)

	rr := get(t, h, "/usage")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var day UsageResponse
	if err := json.NewDecoder(rr.Body).Decode(&day); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if day.Period != "day" || day.Limit != 1000 || day.Used != 250 || day.Remaining != 750 || day.Exhausted {
		t.Errorf("day = %+v", day)
	}
	if day.QueryTokens != 50 || day.DocumentTokens != 200 {
		t.Errorf("chain split = %d/%d, want 50/200", day.QueryTokens, day.DocumentTokens)
	}
	if day.End-day.Start != 24*60*60*1000 {
		t.Errorf("window = %d ms", day.End-day.Start)
	}

	var month UsageResponse
	rr = get(t, h, "/usage?period=month")
	if err := json.NewDecoder(rr.Body).Decode(&month); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if month.Limit != 0 || month.Remaining != -1 {
		t.Errorf("month = %+v", month)
	}

	if rr := get(t, h, "/usage?period=year"); rr.Code != http.StatusBadRequest {
		t.Errorf("bad period status = %d", rr.Code)
	}
}

func TestRouter_RequestIDAndAuth(t *testing.T) {
	h := newTestRouter(t, testCatalog(), nil, "secret")

	rr := get(t, h, "/search")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/search", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestRouter_NotFound(t *testing.T) {
	rr := get(t, newTestRouter(t, testCatalog(), nil), "/collections")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/search", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != codeInternalError {
		t.Errorf("code = %q", e.Code)
	}
}

func TestSafeDomainMessage_HidesInternals(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.1:6379: connection refused")
	if got := safeDomainMessage(err); got != "internal error" {
		t.Errorf("got %q", got)
	}
	wrapped := errors.Join(domain.ErrSearchTimeout, err)
	if got := safeDomainMessage(wrapped); got != domain.ErrSearchTimeout.Error() {
		t.Errorf("got %q", got)
	}
}
