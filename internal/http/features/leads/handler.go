package leads

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/internal/http/features/common"
	"github.com/tendant/leadflow/internal/httputil"
	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/leads"
	"github.com/tendant/leadflow/pkg/policy"
)

// Service is the lead service used by the handler.
type Service interface {
	List(ctx context.Context, c policy.Claims, limit int) ([]*domain.Lead, error)
	Get(ctx context.Context, c policy.Claims, id uuid.UUID) (*domain.Lead, error)
	Create(ctx context.Context, c policy.Claims, in leads.CreateInput) (*domain.Lead, error)
	Update(ctx context.Context, c policy.Claims, id uuid.UUID, in leads.UpdateInput) (*domain.Lead, error)
	Delete(ctx context.Context, c policy.Claims, id uuid.UUID) error
}

// Handler handles lead endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// NewHandler creates a new leads handler.
func NewHandler(logger *slog.Logger, service Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// LeadResponse is the JSON form of a lead.
type LeadResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	OwnerID   string    `json:"owner_id"`
	TeamID    *string   `json:"team_id,omitempty"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Stage     string    `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(l *domain.Lead) LeadResponse {
	resp := LeadResponse{
		ID:        l.ID.String(),
		TenantID:  l.TenantID.String(),
		OwnerID:   l.OwnerID.String(),
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Stage:     l.Stage,
		CreatedAt: l.CreatedAt.UTC(),
		UpdatedAt: l.UpdatedAt.UTC(),
	}
	if l.TeamID != nil {
		team := l.TeamID.String()
		resp.TeamID = &team
	}
	return resp
}

// List returns the leads visible to the caller.
// GET /v1/leads?limit=N
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.Claims(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.List(r.Context(), claims, limit)
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to list leads")
		return
	}

	resp := make([]LeadResponse, 0, len(list))
	for _, l := range list {
		resp = append(resp, toResponse(l))
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"leads": resp})
}

// Get returns one lead.
// GET /v1/leads/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.Claims(w, r)
	if !ok {
		return
	}
	id, ok := common.IDParam(w, r, "id")
	if !ok {
		return
	}

	lead, err := h.service.Get(r.Context(), claims, id)
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to load lead")
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(lead))
}

// Create creates a lead owned by the caller.
// POST /v1/leads
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.Claims(w, r)
	if !ok {
		return
	}

	var req leads.CreateInput
	if !common.Decode(w, r, &req) {
		return
	}

	lead, err := h.service.Create(r.Context(), claims, req)
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to create lead")
		return
	}
	httputil.JSON(w, http.StatusCreated, toResponse(lead))
}

// Update changes lead fields.
// PATCH /v1/leads/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.Claims(w, r)
	if !ok {
		return
	}
	id, ok := common.IDParam(w, r, "id")
	if !ok {
		return
	}

	var req leads.UpdateInput
	if !common.Decode(w, r, &req) {
		return
	}

	lead, err := h.service.Update(r.Context(), claims, id, req)
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to update lead")
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(lead))
}

// Delete removes a lead and everything under it.
// DELETE /v1/leads/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.Claims(w, r)
	if !ok {
		return
	}
	id, ok := common.IDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), claims, id); err != nil {
		common.WriteError(w, h.logger, err, "failed to delete lead")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
