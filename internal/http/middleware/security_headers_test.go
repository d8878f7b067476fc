package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendant/leadflow/internal/config"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.SecurityHeadersConfig
		wantSniff string
		wantHSTS  string
		wantCache string
	}{
		{
			name:      "enabled",
			cfg:       config.SecurityHeadersConfig{Enabled: true, HSTSMaxAge: 31536000, ContentTypeOptions: "nosniff"},
			wantSniff: "nosniff",
			wantHSTS:  "max-age=31536000",
			wantCache: "no-store",
		},
		{
			name:      "no hsts",
			cfg:       config.SecurityHeadersConfig{Enabled: true, ContentTypeOptions: "nosniff"},
			wantSniff: "nosniff",
			wantCache: "no-store",
		},
		{
			name: "disabled",
			cfg:  config.SecurityHeadersConfig{Enabled: false, HSTSMaxAge: 600, ContentTypeOptions: "nosniff"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecurityHeaders(tt.cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/leads", nil))

			assert.Equal(t, tt.wantSniff, w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, tt.wantHSTS, w.Header().Get("Strict-Transport-Security"))
			assert.Equal(t, tt.wantCache, w.Header().Get("Cache-Control"))
		})
	}
}
