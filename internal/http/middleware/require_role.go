package middleware

import (
	"net/http"
	"slices"

	"github.com/tendant/leadflow/internal/httputil"
	"github.com/tendant/leadflow/pkg/domain"
)

// RequireRole creates middleware that admits only the given roles.
// Must be used after Auth middleware.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !slices.Contains(roles, claims.Role) {
				httputil.Error(w, http.StatusForbidden, "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
