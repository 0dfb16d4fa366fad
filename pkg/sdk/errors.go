package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by APIError via errors.Is.
var (
	ErrInvalidQuery  = errors.New("invalid query")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrQuotaExceeded = errors.New("embedding quota exceeded")
	ErrProviderError = errors.New("embedding provider error")
	ErrTimeout       = errors.New("search timed out")
	ErrUnavailable   = errors.New("service unavailable")
	ErrServerError   = errors.New("server error")
)

var statusSentinels = map[int]error{
	http.StatusBadRequest:          ErrInvalidQuery,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusPaymentRequired:     ErrQuotaExceeded,
	http.StatusBadGateway:          ErrProviderError,
	http.StatusGatewayTimeout:      ErrTimeout,
	http.StatusServiceUnavailable:  ErrUnavailable,
	http.StatusInternalServerError: ErrServerError,
}

// APIError is a non-2xx response decoded from the {code, message} envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("listingsearch: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("listingsearch: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is maps the status code onto the package sentinels.
func (e *APIError) Is(target error) bool {
	sentinel, ok := statusSentinels[e.StatusCode]
	return ok && sentinel == target
}

// temporary reports whether repeating the request may succeed.
func (e *APIError) temporary() bool {
	switch e.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
