package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/policy"
)

const leadColumns = `id, tenant_id, owner_id, team_id, name, email, phone, stage, created_at, updated_at`

// LeadsRepository handles lead persistence.
type LeadsRepository struct {
	db *sql.DB
}

// NewLeadsRepository creates a new leads repository.
func NewLeadsRepository(db *sql.DB) *LeadsRepository {
	return &LeadsRepository{db: db}
}

// Create inserts a lead.
func (r *LeadsRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.CreateTx(ctx, r.db, lead)
}

// CreateTx inserts a lead using the given querier.
func (r *LeadsRepository) CreateTx(ctx context.Context, q Querier, lead *domain.Lead) error {
	query := `
		INSERT INTO leads (id, tenant_id, owner_id, team_id, name, email, phone, stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := q.ExecContext(ctx, query,
		lead.ID, lead.TenantID, lead.OwnerID, lead.TeamID, lead.Name,
		lead.Email, lead.Phone, lead.Stage, lead.CreatedAt, lead.UpdatedAt,
	)
	if isForeignKeyViolation(err, "leads_team_id_fkey") {
		return domain.ErrTeamNotFound
	}
	if err != nil {
		return wrapConstraint("insert lead", err)
	}
	return nil
}

// GetByID retrieves a lead by ID.
func (r *LeadsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// ListVisible returns the leads visible under scope, newest first.
// The WHERE clause mirrors policy.LeadPolicy.CanRead.
func (r *LeadsRepository) ListVisible(ctx context.Context, scope policy.LeadScope, limit int) ([]*domain.Lead, error) {
	var (
		rows *sql.Rows
		err  error
	)

	switch {
	case scope.TenantID != nil:
		query := `SELECT ` + leadColumns + `
			FROM leads
			WHERE tenant_id = $1
			ORDER BY created_at DESC
			LIMIT $2`
		rows, err = r.db.QueryContext(ctx, query, *scope.TenantID, limit)
	case scope.UserID != nil:
		query := `SELECT ` + leadColumns + `
			FROM leads
			WHERE owner_id = $1
				OR team_id IN (SELECT team_id FROM team_members WHERE user_id = $1)
			ORDER BY created_at DESC
			LIMIT $2`
		rows, err = r.db.QueryContext(ctx, query, *scope.UserID, limit)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

// Update writes the mutable lead columns.
func (r *LeadsRepository) Update(ctx context.Context, lead *domain.Lead) error {
	query := `
		UPDATE leads
		SET tenant_id = $2, team_id = $3, name = $4, email = $5, phone = $6, stage = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		lead.ID, lead.TenantID, lead.TeamID, lead.Name, lead.Email, lead.Phone, lead.Stage, lead.UpdatedAt,
	)
	if isForeignKeyViolation(err, "leads_team_id_fkey") {
		return domain.ErrTeamNotFound
	}
	if err != nil {
		return wrapConstraint("update lead", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

// Delete removes a lead. Its applications and their tasks are removed by
// the ON DELETE CASCADE foreign keys.
func (r *LeadsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*domain.Lead, error) {
	var lead domain.Lead
	err := row.Scan(
		&lead.ID, &lead.TenantID, &lead.OwnerID, &lead.TeamID, &lead.Name,
		&lead.Email, &lead.Phone, &lead.Stage, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}
