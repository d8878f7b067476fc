// Package seed loads fixture data from YAML and upserts it so a seed can be
// applied any number of times.
package seed

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/repository"
)

// File is the top-level seed document.
type File struct {
	Tenant       string        `yaml:"tenant"`
	Teams        []Team        `yaml:"teams"`
	Leads        []Lead        `yaml:"leads"`
	Applications []Application `yaml:"applications"`
	Tasks        []Task        `yaml:"tasks"`
}

type Team struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

type Lead struct {
	ID     string `yaml:"id"`
	Owner  string `yaml:"owner"`
	Team   string `yaml:"team,omitempty"`
	Name   string `yaml:"name"`
	Email  string `yaml:"email,omitempty"`
	Phone  string `yaml:"phone,omitempty"`
	Stage  string `yaml:"stage,omitempty"`
	Tenant string `yaml:"tenant,omitempty"`
}

type Application struct {
	ID     string `yaml:"id"`
	Lead   string `yaml:"lead"`
	Status string `yaml:"status,omitempty"`
}

// Task sets either DueAt (absolute) or DueIn (relative to the apply time).
type Task struct {
	ID          string        `yaml:"id"`
	Application string        `yaml:"application"`
	Type        string        `yaml:"type"`
	Status      string        `yaml:"status,omitempty"`
	DueAt       string        `yaml:"due_at,omitempty"`
	DueIn       time.Duration `yaml:"due_in,omitempty"`
}

// Plan is a parsed seed with IDs resolved and defaults applied.
type Plan struct {
	Teams        []*domain.Team
	Members      []*domain.TeamMember
	Leads        []*domain.Lead
	Applications []*domain.Application
	Tasks        []*domain.Task
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document, rejecting unknown fields.
func Parse(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}
	return &f, nil
}

// Plan resolves the file into domain rows stamped at now.
//
// Application tenants are copied from their lead and task tenants from
// their application. A task whose due time is already past gets
// created_at = due_at so the due_at >= created_at check still holds.
func (f *File) Plan(now time.Time) (*Plan, error) {
	now = now.UTC()
	defaultTenant, err := parseOptionalID("tenant", f.Tenant)
	if err != nil {
		return nil, err
	}

	p := &Plan{}
	teamTenants := make(map[uuid.UUID]uuid.UUID)
	for i, t := range f.Teams {
		id, err := parseID(fmt.Sprintf("teams[%d].id", i), t.ID)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("teams[%d].name is required", i)
		}
		if defaultTenant == uuid.Nil {
			return nil, errors.New("tenant is required when teams are declared")
		}
		p.Teams = append(p.Teams, &domain.Team{ID: id, TenantID: defaultTenant, Name: t.Name, CreatedAt: now})
		teamTenants[id] = defaultTenant

		for j, m := range t.Members {
			userID, err := parseID(fmt.Sprintf("teams[%d].members[%d]", i, j), m)
			if err != nil {
				return nil, err
			}
			p.Members = append(p.Members, &domain.TeamMember{TeamID: id, UserID: userID, TenantID: defaultTenant, CreatedAt: now})
		}
	}

	leadTenants := make(map[uuid.UUID]uuid.UUID)
	for i, l := range f.Leads {
		lead, err := l.toDomain(i, defaultTenant, now)
		if err != nil {
			return nil, err
		}
		if lead.TeamID != nil {
			if tenant, ok := teamTenants[*lead.TeamID]; ok && tenant != lead.TenantID {
				return nil, fmt.Errorf("leads[%d].team belongs to another tenant", i)
			}
		}
		p.Leads = append(p.Leads, lead)
		leadTenants[lead.ID] = lead.TenantID
	}

	appTenants := make(map[uuid.UUID]uuid.UUID)
	for i, a := range f.Applications {
		id, err := parseID(fmt.Sprintf("applications[%d].id", i), a.ID)
		if err != nil {
			return nil, err
		}
		leadID, err := parseID(fmt.Sprintf("applications[%d].lead", i), a.Lead)
		if err != nil {
			return nil, err
		}
		tenant, ok := leadTenants[leadID]
		if !ok {
			return nil, fmt.Errorf("applications[%d].lead %s is not declared in this seed", i, leadID)
		}
		status := a.Status
		if status == "" {
			status = domain.DefaultApplicationStatus
		}
		p.Applications = append(p.Applications, &domain.Application{
			ID: id, TenantID: tenant, LeadID: leadID, Status: status, CreatedAt: now, UpdatedAt: now,
		})
		appTenants[id] = tenant
	}

	for i, t := range f.Tasks {
		task, err := t.toDomain(i, appTenants, now)
		if err != nil {
			return nil, err
		}
		p.Tasks = append(p.Tasks, task)
	}
	return p, nil
}

func (l Lead) toDomain(i int, defaultTenant uuid.UUID, now time.Time) (*domain.Lead, error) {
	id, err := parseID(fmt.Sprintf("leads[%d].id", i), l.ID)
	if err != nil {
		return nil, err
	}
	owner, err := parseID(fmt.Sprintf("leads[%d].owner", i), l.Owner)
	if err != nil {
		return nil, err
	}
	tenant, err := parseOptionalID(fmt.Sprintf("leads[%d].tenant", i), l.Tenant)
	if err != nil {
		return nil, err
	}
	if tenant == uuid.Nil {
		tenant = defaultTenant
	}
	if tenant == uuid.Nil {
		return nil, fmt.Errorf("leads[%d] has no tenant", i)
	}
	if strings.TrimSpace(l.Name) == "" {
		return nil, fmt.Errorf("leads[%d].name is required", i)
	}

	lead := &domain.Lead{
		ID: id, TenantID: tenant, OwnerID: owner, Name: l.Name,
		Stage: l.Stage, CreatedAt: now, UpdatedAt: now,
	}
	if lead.Stage == "" {
		lead.Stage = domain.DefaultLeadStage
	}
	if l.Team != "" {
		teamID, err := parseID(fmt.Sprintf("leads[%d].team", i), l.Team)
		if err != nil {
			return nil, err
		}
		lead.TeamID = &teamID
	}
	if l.Email != "" {
		email := l.Email
		lead.Email = &email
	}
	if l.Phone != "" {
		phone := l.Phone
		lead.Phone = &phone
	}
	return lead, nil
}

func (t Task) toDomain(i int, appTenants map[uuid.UUID]uuid.UUID, now time.Time) (*domain.Task, error) {
	id, err := parseID(fmt.Sprintf("tasks[%d].id", i), t.ID)
	if err != nil {
		return nil, err
	}
	appID, err := parseID(fmt.Sprintf("tasks[%d].application", i), t.Application)
	if err != nil {
		return nil, err
	}
	tenant, ok := appTenants[appID]
	if !ok {
		return nil, fmt.Errorf("tasks[%d].application %s is not declared in this seed", i, appID)
	}
	taskType, err := domain.ParseTaskType(t.Type)
	if err != nil {
		return nil, fmt.Errorf("tasks[%d].type: %w", i, err)
	}

	var due time.Time
	switch {
	case t.DueAt != "" && t.DueIn != 0:
		return nil, fmt.Errorf("tasks[%d] sets both due_at and due_in", i)
	case t.DueAt != "":
		due, err = time.Parse(time.RFC3339, t.DueAt)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d].due_at: %w", i, err)
		}
	case t.DueIn != 0:
		due = now.Add(t.DueIn)
	default:
		return nil, fmt.Errorf("tasks[%d] needs due_at or due_in", i)
	}
	due = due.UTC()

	status := domain.TaskStatus(t.Status)
	switch status {
	case "":
		status = domain.TaskStatusPending
	case domain.TaskStatusPending, domain.TaskStatusCompleted:
	default:
		return nil, fmt.Errorf("tasks[%d].status %q is not pending or completed", i, t.Status)
	}

	created := now
	if due.Before(created) {
		created = due
	}
	return &domain.Task{
		ID: id, TenantID: tenant, ApplicationID: appID, Type: taskType, Status: status,
		DueAt: due, CreatedAt: created, UpdatedAt: now,
	}, nil
}

// Result counts the rows written by Apply.
type Result struct {
	Teams        int
	Members      int
	Leads        int
	Applications int
	Tasks        int
}

// Apply writes the plan in one transaction.
func Apply(ctx context.Context, db *sql.DB, p *Plan) (Result, error) {
	var res Result
	teams := repository.NewTeamsRepository(db)

	err := repository.WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, t := range p.Teams {
			if err := repository.UpsertTeamTx(ctx, tx, t); err != nil {
				return fmt.Errorf("upsert team %s: %w", t.ID, err)
			}
			res.Teams++
		}
		for _, m := range p.Members {
			if err := teams.AddMemberTx(ctx, tx, m); err != nil {
				return fmt.Errorf("add member %s to team %s: %w", m.UserID, m.TeamID, err)
			}
			res.Members++
		}
		for _, l := range p.Leads {
			if err := repository.UpsertLeadTx(ctx, tx, l); err != nil {
				return fmt.Errorf("upsert lead %s: %w", l.ID, err)
			}
			res.Leads++
		}
		for _, a := range p.Applications {
			if err := repository.UpsertApplicationTx(ctx, tx, a); err != nil {
				return fmt.Errorf("upsert application %s: %w", a.ID, err)
			}
			res.Applications++
		}
		for _, t := range p.Tasks {
			if err := repository.UpsertTaskTx(ctx, tx, t); err != nil {
				return fmt.Errorf("upsert task %s: %w", t.ID, err)
			}
			res.Tasks++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func parseID(field, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, fmt.Errorf("%s is required", field)
	}
	return parseOptionalID(field, s)
}

func parseOptionalID(field, s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: invalid UUID %q", field, s)
	}
	return id, nil
}
