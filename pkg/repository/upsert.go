package repository

import (
	"context"

	"github.com/tendant/leadflow/pkg/domain"
)

// The upserts below make seeding repeatable: running a seed twice leaves the
// same rows behind.

// UpsertTeamTx inserts or renames a team.
func UpsertTeamTx(ctx context.Context, q Querier, team *domain.Team) error {
	query := `
		INSERT INTO teams (id, tenant_id, name, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET tenant_id = EXCLUDED.tenant_id, name = EXCLUDED.name
	`
	_, err := q.ExecContext(ctx, query, team.ID, team.TenantID, team.Name, team.CreatedAt)
	return err
}

// UpsertLeadTx inserts or overwrites a lead.
func UpsertLeadTx(ctx context.Context, q Querier, lead *domain.Lead) error {
	query := `
		INSERT INTO leads (id, tenant_id, owner_id, team_id, name, email, phone, stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			owner_id = EXCLUDED.owner_id,
			team_id = EXCLUDED.team_id,
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			stage = EXCLUDED.stage,
			updated_at = EXCLUDED.updated_at
	`
	_, err := q.ExecContext(ctx, query,
		lead.ID, lead.TenantID, lead.OwnerID, lead.TeamID, lead.Name,
		lead.Email, lead.Phone, lead.Stage, lead.CreatedAt, lead.UpdatedAt,
	)
	if isForeignKeyViolation(err, "leads_team_id_fkey") {
		return domain.ErrTeamNotFound
	}
	return err
}

// UpsertApplicationTx inserts or overwrites an application.
func UpsertApplicationTx(ctx context.Context, q Querier, app *domain.Application) error {
	query := `
		INSERT INTO applications (id, tenant_id, lead_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			lead_id = EXCLUDED.lead_id,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`
	_, err := q.ExecContext(ctx, query,
		app.ID, app.TenantID, app.LeadID, app.Status, app.CreatedAt, app.UpdatedAt,
	)
	if isForeignKeyViolation(err, "applications_lead_id_fkey") {
		return domain.ErrLeadNotFound
	}
	return err
}

// UpsertTaskTx inserts or overwrites a task. created_at is part of the
// update so a re-seeded due_at never trips the due_at >= created_at check.
func UpsertTaskTx(ctx context.Context, q Querier, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, tenant_id, application_id, type, status, due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			application_id = EXCLUDED.application_id,
			type = EXCLUDED.type,
			status = EXCLUDED.status,
			due_at = EXCLUDED.due_at,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err := q.ExecContext(ctx, query,
		task.ID, task.TenantID, task.ApplicationID, string(task.Type), string(task.Status),
		task.DueAt, task.CreatedAt, task.UpdatedAt,
	)
	if isForeignKeyViolation(err, "tasks_application_id_fkey") {
		return domain.ErrApplicationNotFound
	}
	if err != nil {
		return wrapConstraint("upsert task", err)
	}
	return nil
}
