package applications

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/internal/http/features/common"
	"github.com/tendant/leadflow/internal/httputil"
	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/policy"
)

// Service is the application side of the lead service.
type Service interface {
	CreateApplication(ctx context.Context, c policy.Claims, leadID uuid.UUID) (*domain.Application, error)
	UpdateApplicationStatus(ctx context.Context, c policy.Claims, id uuid.UUID, status string) (*domain.Application, error)
}

// Handler handles application endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// NewHandler creates a new applications handler.
func NewHandler(logger *slog.Logger, service Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// CreateRequest opens an application on a lead.
type CreateRequest struct {
	LeadID string `json:"lead_id"`
}

// StatusRequest changes an application's status.
type StatusRequest struct {
	Status string `json:"status"`
}

// ApplicationResponse is the JSON form of an application.
type ApplicationResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	LeadID    string    `json:"lead_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(a *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:        a.ID.String(),
		TenantID:  a.TenantID.String(),
		LeadID:    a.LeadID.String(),
		Status:    a.Status,
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	}
}

// Create opens an application.
// POST /v1/applications
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.Claims(w, r)
	if !ok {
		return
	}

	var req CreateRequest
	if !common.Decode(w, r, &req) {
		return
	}
	if req.LeadID == "" {
		httputil.Error(w, http.StatusBadRequest, "lead_id is required")
		return
	}
	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "lead_id must be a valid UUID")
		return
	}

	app, err := h.service.CreateApplication(r.Context(), claims, leadID)
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to create application")
		return
	}
	httputil.JSON(w, http.StatusCreated, toResponse(app))
}

// UpdateStatus changes an application's status.
// PATCH /v1/applications/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.Claims(w, r)
	if !ok {
		return
	}
	id, ok := common.IDParam(w, r, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if !common.Decode(w, r, &req) {
		return
	}

	app, err := h.service.UpdateApplicationStatus(r.Context(), claims, id, req.Status)
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to update application")
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(app))
}
