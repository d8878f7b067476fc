package middleware

import (
	"context"
	"net/http"

	"github.com/tendant/leadflow/internal/httputil"
	"github.com/tendant/leadflow/pkg/policy"
)

type contextKey string

// ClaimsKey is the context key for the verified caller claims.
const ClaimsKey contextKey = "claims"

// TokenVerifier turns a bearer token into verified claims.
type TokenVerifier interface {
	Verify(token string) (policy.Claims, error)
}

// Auth creates middleware that validates JWT access tokens.
// Checks Authorization header first, then falls back to cookie for web clients.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := httputil.BearerToken(r)
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims policy.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaims extracts the verified claims from the request context.
func GetClaims(ctx context.Context) (policy.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(policy.Claims)
	return claims, ok
}
