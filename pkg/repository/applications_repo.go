package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/pkg/domain"
)

// ApplicationsRepository handles application persistence.
type ApplicationsRepository struct {
	db *sql.DB
}

// NewApplicationsRepository creates a new applications repository.
func NewApplicationsRepository(db *sql.DB) *ApplicationsRepository {
	return &ApplicationsRepository{db: db}
}

// Create inserts an application.
func (r *ApplicationsRepository) Create(ctx context.Context, app *domain.Application) error {
	return r.CreateTx(ctx, r.db, app)
}

// CreateTx inserts an application using the given querier.
func (r *ApplicationsRepository) CreateTx(ctx context.Context, q Querier, app *domain.Application) error {
	query := `
		INSERT INTO applications (id, tenant_id, lead_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.ExecContext(ctx, query,
		app.ID, app.TenantID, app.LeadID, app.Status, app.CreatedAt, app.UpdatedAt,
	)
	if isForeignKeyViolation(err, "applications_lead_id_fkey") {
		return domain.ErrLeadNotFound
	}
	if err != nil {
		return wrapConstraint("insert application", err)
	}
	return nil
}

// GetByID retrieves an application by ID.
func (r *ApplicationsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	query := `
		SELECT id, tenant_id, lead_id, status, created_at, updated_at
		FROM applications
		WHERE id = $1
	`
	var app domain.Application
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&app.ID, &app.TenantID, &app.LeadID, &app.Status, &app.CreatedAt, &app.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetTenantID returns the tenant that owns an application.
func (r *ApplicationsRepository) GetTenantID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var tenantID uuid.UUID
	err := r.db.QueryRowContext(ctx, `SELECT tenant_id FROM applications WHERE id = $1`, id).Scan(&tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return tenantID, nil
}

// UpdateStatus sets the status of an application in a tenant.
func (r *ApplicationsRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `
		UPDATE applications
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, id, tenantID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}
