package middleware

import (
	"net/http"
	"strconv"

	"github.com/tendant/leadflow/internal/config"
)

// SecurityHeaders sets the response headers a JSON API needs: nosniff,
// HSTS and no-store.
func SecurityHeaders(cfg config.SecurityHeadersConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	hsts := ""
	if cfg.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if cfg.ContentTypeOptions != "" {
				h.Set("X-Content-Type-Options", cfg.ContentTypeOptions)
			}
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			// responses are per-caller
			h.Set("Cache-Control", "no-store")

			next.ServeHTTP(w, r)
		})
	}
}
