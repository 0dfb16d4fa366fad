package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const maxErrorBody = 64 << 10

// Client calls a listingsearch server. Safe for concurrent use.
type Client struct {
	base     *url.URL
	http     *http.Client
	token    string
	attempts uint
	delay    time.Duration
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("listingsearch: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("listingsearch: base url %q must be absolute", baseURL)
	}

	c := &Client{
		base:     u,
		http:     &http.Client{Timeout: 30 * time.Second},
		attempts: 1,
		delay:    200 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	if c.attempts == 0 {
		c.attempts = 1
	}
	return c, nil
}

// Search runs a hybrid search (GET /search).
func (c *Client) Search(ctx context.Context, p SearchParams) ([]Listing, error) {
	q := url.Values{}
	setString(q, "category", p.Category)
	setString(q, "location", p.Location)
	setString(q, "queryText", p.QueryText)
	if p.GuestCount > 0 {
		q.Set("guestCount", strconv.Itoa(p.GuestCount))
	}
	if p.Alpha != nil {
		q.Set("alpha", strconv.FormatFloat(*p.Alpha, 'f', -1, 64))
	}

	var out []Listing
	if _, err := c.get(ctx, "/search", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FuzzySearch runs a typo-tolerant name/description search (GET /search/fuzzy).
func (c *Client) FuzzySearch(ctx context.Context, p FuzzyParams) ([]Listing, error) {
	q := url.Values{}
	setString(q, "name", p.Name)
	setString(q, "description", p.Description)
	setString(q, "category", p.Category)
	setString(q, "location", p.Location)

	var out []Listing
	if _, err := c.get(ctx, "/search/fuzzy", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SemanticSearch runs an embedding similarity search (GET /search/semantic).
func (c *Client) SemanticSearch(ctx context.Context, p SemanticParams) (SemanticResult, error) {
	if strings.TrimSpace(p.Query) == "" {
		return SemanticResult{}, fmt.Errorf("listingsearch: %w: query is required", ErrInvalidQuery)
	}
	q := url.Values{}
	q.Set("query", p.Query)
	setString(q, "category", p.Category)
	setString(q, "location", p.Location)
	if p.TopN > 0 {
		q.Set("topN", strconv.Itoa(p.TopN))
	}

	var out SemanticResult
	hdr, err := c.get(ctx, "/search/semantic", q, &out)
	if err != nil {
		return SemanticResult{}, err
	}
	if v := hdr.Get("X-Embedding-Tokens"); v != "" {
		out.EmbeddingTokens, _ = strconv.Atoi(v)
	}
	return out, nil
}

// Health returns the server health report. A degraded or failing server is
// reported through Status, not as an error.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	_, err := c.get(ctx, "/health", nil, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable && out.Status != "" {
		return out, nil
	}
	if err != nil {
		return HealthStatus{}, err
	}
	return out, nil
}

// Usage returns embedding token spend for period ("day" or "month";
// empty means day).
func (c *Client) Usage(ctx context.Context, period string) (Usage, error) {
	q := url.Values{}
	setString(q, "period", period)
	var out Usage
	if _, err := c.get(ctx, "/usage", q, &out); err != nil {
		return Usage{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) (http.Header, error) {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = q.Encode()

	var hdr http.Header
	err := retry.Do(
		func() error {
			var err error
			hdr, err = c.do(ctx, u.String(), out)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
	return hdr, err
}

func (c *Client) do(ctx context.Context, target string, out any) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("listingsearch: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listingsearch: GET %s: %w", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.Header, decodeError(resp, out)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("listingsearch: decode %s: %w", req.URL.Path, err))
	}
	return resp.Header, nil
}

// decodeError reads the {code, message} envelope. /health sends its report
// with 503, so the body is also decoded into out when it is not an envelope.
func decodeError(resp *http.Response, out any) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Code != "" {
		apiErr.Code, apiErr.Message = envelope.Code, envelope.Message
		return apiErr
	}
	if hs, ok := out.(*HealthStatus); ok {
		_ = json.Unmarshal(body, hs)
	}
	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.temporary()
	}
	// Transport errors (connection refused, reset) are worth another try.
	return true
}

func setString(q url.Values, key, val string) {
	if val != "" {
		q.Set(key, val)
	}
}
