// Package tasks creates follow-up tasks and serves the daily task list.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/internal/metrics"
	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/notify"
)

// ErrCreateFailed is returned when a task could not be stored for any
// reason other than validation or an unknown application.
var ErrCreateFailed = errors.New("failed to create task")

// ApplicationLookup resolves the tenant of an application.
type ApplicationLookup interface {
	GetTenantID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// Store persists tasks.
type Store interface {
	Create(ctx context.Context, task *domain.Task) error
	ListOpenDueBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*domain.Task, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.TaskStatus) error
}

// Notifier hands events to the realtime channel without waiting.
type Notifier interface {
	Dispatch(event notify.Event)
}

// Service implements task creation and the dashboard queries.
type Service struct {
	apps     ApplicationLookup
	store    Store
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new task service.
func NewService(apps ApplicationLookup, store Store, notifier Notifier, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		apps:     apps,
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates in, stores a pending task under the application's
// tenant and dispatches task.created. It returns a *ValidationError,
// domain.ErrApplicationNotFound or an error wrapping ErrCreateFailed.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Task, error) {
	valid, err := Validate(in, s.now())
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			metrics.RecordValidationFailure(verr.Field)
		}
		return nil, err
	}

	tenantID, err := s.apps.GetTenantID(ctx, valid.ApplicationID)
	if errors.Is(err, domain.ErrApplicationNotFound) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		s.logger.Error("failed to resolve application tenant", "error", err, "application_id", valid.ApplicationID)
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	task := &domain.Task{
		ID:            uuid.New(),
		TenantID:      tenantID,
		ApplicationID: valid.ApplicationID,
		Type:          valid.Type,
		Status:        domain.TaskStatusPending,
		DueAt:         valid.DueAt,
	}

	if err := s.store.Create(ctx, task); err != nil {
		s.logger.Error("failed to insert task", "error", err, "application_id", valid.ApplicationID, "tenant_id", tenantID)
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	metrics.RecordTaskCreated()
	s.logger.Info("task created", "task_id", task.ID, "tenant_id", tenantID, "type", task.Type)

	if s.notifier != nil {
		s.notifier.Dispatch(notify.TaskCreated(task, s.now()))
	}

	return task, nil
}

// DueToday returns the tenant's open tasks due in the current UTC day,
// earliest first.
func (s *Service) DueToday(ctx context.Context, tenantID uuid.UUID) ([]*domain.Task, error) {
	start, end := domain.DayWindow(s.now())
	tasks, err := s.store.ListOpenDueBetween(ctx, tenantID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list tasks due today: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Complete marks a task of the tenant completed.
func (s *Service) Complete(ctx context.Context, tenantID, taskID uuid.UUID) error {
	if err := s.store.UpdateStatus(ctx, tenantID, taskID, domain.TaskStatusCompleted); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}
