package httputil

import (
	"net/http"
	"strings"
)

// AccessTokenCookie is the cookie browser clients may carry the token in.
const AccessTokenCookie = "access_token"

// BearerToken extracts the access token from the Authorization header,
// falling back to the access_token cookie for web clients.
func BearerToken(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && strings.TrimSpace(parts[1]) != "" {
			return strings.TrimSpace(parts[1]), true
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}
