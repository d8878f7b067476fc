package tasks

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/internal/http/features/common"
	"github.com/tendant/leadflow/internal/httputil"
	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/tasks"
)

// Service is the task service used by the handler.
type Service interface {
	Create(ctx context.Context, in tasks.CreateInput) (*domain.Task, error)
	DueToday(ctx context.Context, tenantID uuid.UUID) ([]*domain.Task, error)
	Complete(ctx context.Context, tenantID, taskID uuid.UUID) error
}

// Handler handles task endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// NewHandler creates a new tasks handler.
func NewHandler(logger *slog.Logger, service Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// TaskResponse is the JSON form of a task.
type TaskResponse struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	ApplicationID string    `json:"application_id"`
	TaskType      string    `json:"task_type"`
	Status        string    `json:"status"`
	DueAt         time.Time `json:"due_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListResponse is the body of the daily task list.
type ListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

func toResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID.String(),
		TenantID:      t.TenantID.String(),
		ApplicationID: t.ApplicationID.String(),
		TaskType:      string(t.Type),
		Status:        string(t.Status),
		DueAt:         t.DueAt.UTC(),
		CreatedAt:     t.CreatedAt.UTC(),
	}
}

// Create creates a follow-up task.
// POST /v1/tasks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req tasks.CreateInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.Fail(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		httputil.Fail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	task, err := h.service.Create(r.Context(), req)
	if err != nil {
		var verr *tasks.ValidationError
		switch {
		case errors.As(err, &verr):
			httputil.Fail(w, http.StatusBadRequest, verr.Message)
		case errors.Is(err, tasks.ErrCreateFailed):
			// cause already logged by the service
			httputil.Fail(w, http.StatusInternalServerError, "Failed to create task")
		case errors.Is(err, domain.ErrApplicationNotFound):
			httputil.Fail(w, http.StatusBadRequest, "Application not found")
		default:
			// cause already logged by the service
			httputil.Fail(w, http.StatusInternalServerError, "Failed to create task")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.Result{Success: true, TaskID: task.ID.String()})
}

// Today lists the caller's tenant tasks due today.
// GET /v1/tasks/today
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.Claims(w, r)
	if !ok {
		return
	}

	list, err := h.service.DueToday(r.Context(), claims.TenantID)
	if err != nil {
		h.logger.Error("failed to load today's tasks", "error", err, "tenant_id", claims.TenantID)
		httputil.Error(w, http.StatusInternalServerError, "failed to load tasks")
		return
	}

	resp := ListResponse{Tasks: make([]TaskResponse, 0, len(list))}
	for _, t := range list {
		resp.Tasks = append(resp.Tasks, toResponse(t))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// Complete marks a task completed.
// POST /v1/tasks/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	claims, ok := common.Claims(w, r)
	if !ok {
		return
	}
	taskID, ok := common.IDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Complete(r.Context(), claims.TenantID, taskID); err != nil {
		common.WriteError(w, h.logger, err, "failed to complete task")
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.Result{Success: true, TaskID: taskID.String()})
}
