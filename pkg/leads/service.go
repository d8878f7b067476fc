// Package leads applies the lead access policy to lead and application
// operations.
package leads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/policy"
)

// DefaultListLimit caps List when the caller passes no limit.
const DefaultListLimit = 100

// LeadStore persists leads.
type LeadStore interface {
	Create(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	ListVisible(ctx context.Context, scope policy.LeadScope, limit int) ([]*domain.Lead, error)
	Update(ctx context.Context, lead *domain.Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ApplicationStore persists applications.
type ApplicationStore interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
}

// TeamStore looks up teams.
type TeamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
}

// CreateInput holds the fields of a new lead.
type CreateInput struct {
	Name   string     `json:"name"`
	Email  *string    `json:"email,omitempty"`
	Phone  *string    `json:"phone,omitempty"`
	Stage  *string    `json:"stage,omitempty"`
	TeamID *uuid.UUID `json:"team_id,omitempty"`
}

// UpdateInput holds the lead fields to change. Nil fields are left alone;
// ClearTeam unassigns the team.
type UpdateInput struct {
	Name      *string    `json:"name,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Stage     *string    `json:"stage,omitempty"`
	TeamID    *uuid.UUID `json:"team_id,omitempty"`
	ClearTeam bool       `json:"clear_team,omitempty"`
}

// Service implements lead and application operations for a caller.
type Service struct {
	leads  LeadStore
	apps   ApplicationStore
	teams  TeamStore
	policy *policy.LeadPolicy
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new lead service.
func NewService(leads LeadStore, apps ApplicationStore, teams TeamStore, p *policy.LeadPolicy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{leads: leads, apps: apps, teams: teams, policy: p, logger: logger, now: time.Now}
}

// checkTeam rejects a team outside the lead's tenant as unknown.
func (s *Service) checkTeam(ctx context.Context, tenantID uuid.UUID, teamID *uuid.UUID) error {
	if teamID == nil {
		return nil
	}
	team, err := s.teams.GetByID(ctx, *teamID)
	if err != nil {
		return err
	}
	if team.TenantID != tenantID {
		return domain.ErrTeamNotFound
	}
	return nil
}

// List returns the leads the caller can read, newest first.
func (s *Service) List(ctx context.Context, c policy.Claims, limit int) ([]*domain.Lead, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	scope, ok := policy.ReadScope(c)
	if !ok {
		return []*domain.Lead{}, nil
	}

	leads, err := s.leads.ListVisible(ctx, scope, limit)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	if leads == nil {
		leads = []*domain.Lead{}
	}
	return leads, nil
}

// Get returns a lead the caller can read. Invisible leads are reported as
// domain.ErrLeadNotFound.
func (s *Service) Get(ctx context.Context, c policy.Claims, id uuid.UUID) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.policy.CanRead(ctx, c, policy.RowOf(lead))
	if err != nil {
		return nil, fmt.Errorf("evaluate read policy: %w", err)
	}
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	return lead, nil
}

// Create stores a new lead owned by the caller in the caller's tenant.
func (s *Service) Create(ctx context.Context, c policy.Claims, in CreateInput) (*domain.Lead, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	lead := &domain.Lead{
		ID:        uuid.New(),
		TenantID:  c.TenantID,
		OwnerID:   c.UserID,
		TeamID:    in.TeamID,
		Name:      name,
		Stage:     domain.DefaultLeadStage,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if in.Email != nil && *in.Email != "" {
		email, err := validateEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		lead.Email = &email
	}
	if in.Phone != nil && *in.Phone != "" {
		phone, err := validatePhone(*in.Phone)
		if err != nil {
			return nil, err
		}
		lead.Phone = &phone
	}
	if in.Stage != nil {
		stage, err := validateLabel("stage", *in.Stage)
		if err != nil {
			return nil, err
		}
		lead.Stage = stage
	}

	if !s.policy.CanCreate(c, policy.RowOf(lead)) {
		return nil, domain.ErrForbidden
	}
	if err := s.checkTeam(ctx, lead.TenantID, lead.TeamID); err != nil {
		return nil, err
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, err
	}

	s.logger.Info("lead created", "lead_id", lead.ID, "tenant_id", lead.TenantID, "owner_id", lead.OwnerID)
	return lead, nil
}

// Update applies in to a lead. Invisible leads are reported as
// domain.ErrLeadNotFound; visible leads the caller may not write as
// domain.ErrForbidden.
func (s *Service) Update(ctx context.Context, c policy.Claims, id uuid.UUID, in UpdateInput) (*domain.Lead, error) {
	lead, err := s.Get(ctx, c, id)
	if err != nil {
		return nil, err
	}
	before := policy.RowOf(lead)

	if in.Name != nil {
		name, err := validateName(*in.Name)
		if err != nil {
			return nil, err
		}
		lead.Name = name
	}
	if in.Email != nil {
		if *in.Email == "" {
			lead.Email = nil
		} else {
			email, err := validateEmail(*in.Email)
			if err != nil {
				return nil, err
			}
			lead.Email = &email
		}
	}
	if in.Phone != nil {
		if *in.Phone == "" {
			lead.Phone = nil
		} else {
			phone, err := validatePhone(*in.Phone)
			if err != nil {
				return nil, err
			}
			lead.Phone = &phone
		}
	}
	if in.Stage != nil {
		stage, err := validateLabel("stage", *in.Stage)
		if err != nil {
			return nil, err
		}
		lead.Stage = stage
	}
	switch {
	case in.ClearTeam:
		lead.TeamID = nil
	case in.TeamID != nil:
		lead.TeamID = in.TeamID
	}

	ok, err := s.policy.CanUpdate(ctx, c, before, policy.RowOf(lead))
	if err != nil {
		return nil, fmt.Errorf("evaluate update policy: %w", err)
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	if !in.ClearTeam {
		if err := s.checkTeam(ctx, lead.TenantID, in.TeamID); err != nil {
			return nil, err
		}
	}

	lead.UpdatedAt = s.now().UTC()
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// Delete removes a lead together with its applications and tasks.
func (s *Service) Delete(ctx context.Context, c policy.Claims, id uuid.UUID) error {
	lead, err := s.Get(ctx, c, id)
	if err != nil {
		return err
	}
	if !s.policy.CanDelete(c, policy.RowOf(lead)) {
		return domain.ErrForbidden
	}

	if err := s.leads.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("lead deleted", "lead_id", id, "tenant_id", lead.TenantID)
	return nil
}

// CreateApplication opens an application on a lead the caller can read.
// The application inherits the lead's tenant.
func (s *Service) CreateApplication(ctx context.Context, c policy.Claims, leadID uuid.UUID) (*domain.Application, error) {
	lead, err := s.Get(ctx, c, leadID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	app := &domain.Application{
		ID:        uuid.New(),
		TenantID:  lead.TenantID,
		LeadID:    lead.ID,
		Status:    domain.DefaultApplicationStatus,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateApplicationStatus sets the status of an application in the
// caller's tenant.
func (s *Service) UpdateApplicationStatus(ctx context.Context, c policy.Claims, id uuid.UUID, status string) (*domain.Application, error) {
	status, err := validateLabel("status", status)
	if err != nil {
		return nil, err
	}

	if err := s.apps.UpdateStatus(ctx, c.TenantID, id, status); err != nil {
		return nil, err
	}

	app, err := s.apps.GetByID(ctx, id)
	if errors.Is(err, domain.ErrApplicationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("reload application: %w", err)
	}
	return app, nil
}
