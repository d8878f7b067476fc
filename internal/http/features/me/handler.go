package me

import (
	"log/slog"
	"net/http"

	"github.com/tendant/leadflow/internal/http/features/common"
	"github.com/tendant/leadflow/internal/httputil"
	"github.com/tendant/leadflow/pkg/policy"
)

// Handler handles the caller identity endpoint.
type Handler struct {
	logger *slog.Logger
	teams  policy.TeamResolver
}

// NewHandler creates a new me handler.
func NewHandler(logger *slog.Logger, teams policy.TeamResolver) *Handler {
	return &Handler{logger: logger, teams: teams}
}

// MeResponse describes the caller as the access policy sees them.
type MeResponse struct {
	UserID   string   `json:"user_id"`
	TenantID string   `json:"tenant_id"`
	Role     string   `json:"role"`
	TeamIDs  []string `json:"team_ids"`
}

// GetMe returns the caller's claims and team assignments.
// GET /v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.Claims(w, r)
	if !ok {
		return
	}

	teamIDs, err := h.teams.TeamIDsForUser(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("failed to load teams", "error", err, "user_id", claims.UserID)
		httputil.Error(w, http.StatusInternalServerError, "failed to load teams")
		return
	}

	resp := MeResponse{
		UserID:   claims.UserID.String(),
		TenantID: claims.TenantID.String(),
		Role:     claims.Role.String(),
		TeamIDs:  make([]string, 0, len(teamIDs)),
	}
	for _, id := range teamIDs {
		resp.TeamIDs = append(resp.TeamIDs, id.String())
	}
	httputil.JSON(w, http.StatusOK, resp)
}
