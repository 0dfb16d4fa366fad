package chi

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/listingsearch/internal/logger"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

const bearerScheme = "bearer "

// apiKey is a configured key, kept only as its digest.
type apiKey struct {
	digest      [sha256.Size]byte
	fingerprint string // logged in place of the key
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
// Every key is compared in constant time. The matched key's fingerprint is
// logged with the request so marketplace clients can be told apart.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([]apiKey, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, newAPIKey(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				unauthorized(w, "missing authorization header")
				return
			}
			if len(auth) < len(bearerScheme) || !strings.EqualFold(auth[:len(bearerScheme)], bearerScheme) {
				unauthorized(w, "authorization header must use Bearer scheme")
				return
			}

			key, ok := match(keys, strings.TrimSpace(auth[len(bearerScheme):]))
			if !ok {
				unauthorized(w, "invalid api key")
				return
			}

			ctx := r.Context()
			if meta := metaFromContext(ctx); meta != nil {
				meta.apiKey = key.fingerprint
			}
			ctx = logpkg.ContextWithLogger(ctx,
				logpkg.FromContext(ctx).With(zap.String("api_key", key.fingerprint)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newAPIKey(k string) apiKey {
	digest := sha256.Sum256([]byte(k))
	return apiKey{digest: digest, fingerprint: hex.EncodeToString(digest[:4])}
}

// match walks every key so timing does not depend on which one matched.
func match(keys []apiKey, token string) (apiKey, bool) {
	digest := sha256.Sum256([]byte(token))
	var found apiKey
	ok := 0
	for _, k := range keys {
		if subtle.ConstantTimeCompare(digest[:], k.digest[:]) == 1 {
			found, ok = k, 1
		}
	}
	return found, ok == 1
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="listingsearch"`)
	writeError(w, http.StatusUnauthorized, codeUnauthorized, msg)
}
