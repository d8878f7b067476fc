package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/pkg/domain"
)

// TeamsRepository handles teams and team membership.
type TeamsRepository struct {
	db *sql.DB
}

// NewTeamsRepository creates a new teams repository.
func NewTeamsRepository(db *sql.DB) *TeamsRepository {
	return &TeamsRepository{db: db}
}

// Create creates a new team.
func (r *TeamsRepository) Create(ctx context.Context, team *domain.Team) error {
	return r.CreateTx(ctx, r.db, team)
}

// CreateTx creates a new team using the given querier.
func (r *TeamsRepository) CreateTx(ctx context.Context, q Querier, team *domain.Team) error {
	query := `
		INSERT INTO teams (id, tenant_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := q.ExecContext(ctx, query, team.ID, team.TenantID, team.Name, team.CreatedAt)
	return err
}

// GetByID retrieves a team by ID.
func (r *TeamsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	query := `
		SELECT id, tenant_id, name, created_at
		FROM teams
		WHERE id = $1
	`

	var team domain.Team
	err := r.db.QueryRowContext(ctx, query, id).Scan(&team.ID, &team.TenantID, &team.Name, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	return &team, nil
}

// AddMember assigns a user to a team. Adding an existing member is a no-op.
func (r *TeamsRepository) AddMember(ctx context.Context, member *domain.TeamMember) error {
	return r.AddMemberTx(ctx, r.db, member)
}

// AddMemberTx assigns a user to a team using the given querier.
func (r *TeamsRepository) AddMemberTx(ctx context.Context, q Querier, member *domain.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, user_id, tenant_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`
	_, err := q.ExecContext(ctx, query, member.TeamID, member.UserID, member.TenantID, member.CreatedAt)
	if isForeignKeyViolation(err, "") {
		return domain.ErrTeamNotFound
	}
	return err
}

// TeamIDsForUser returns the teams a user is assigned to.
func (r *TeamsRepository) TeamIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT team_id FROM team_members WHERE user_id = $1 ORDER BY team_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
