// Package common holds request helpers shared by the feature handlers.
package common

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/leadflow/internal/http/middleware"
	"github.com/tendant/leadflow/internal/httputil"
	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/leads"
	"github.com/tendant/leadflow/pkg/policy"
)

// Claims returns the caller's verified claims, writing 401 if the request
// did not pass through the auth middleware.
func Claims(w http.ResponseWriter, r *http.Request) (policy.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return policy.Claims{}, false
	}
	return claims, true
}

// IDParam parses a UUID path parameter, writing 400 on failure.
func IDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// Decode reads a JSON body, writing 400 or 413 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httputil.DecodeJSON(r, v); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// WriteError maps service errors onto responses. Unknown errors are logged
// and reported as 500 without detail.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error, msg string) {
	var verr *leads.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.Error(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, domain.ErrLeadNotFound):
		httputil.Error(w, http.StatusNotFound, "lead not found")
	case errors.Is(err, domain.ErrApplicationNotFound):
		httputil.Error(w, http.StatusNotFound, "application not found")
	case errors.Is(err, domain.ErrTaskNotFound):
		httputil.Error(w, http.StatusNotFound, "task not found")
	case errors.Is(err, domain.ErrTeamNotFound):
		httputil.Error(w, http.StatusBadRequest, "team not found")
	case errors.Is(err, domain.ErrForbidden):
		httputil.Error(w, http.StatusForbidden, "forbidden")
	default:
		logger.Error(msg, "error", err)
		httputil.Error(w, http.StatusInternalServerError, msg)
	}
}
