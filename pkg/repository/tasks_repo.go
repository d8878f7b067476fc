package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/pkg/domain"
)

const taskColumns = `id, tenant_id, application_id, type, status, due_at, created_at, updated_at`

// TasksRepository handles task persistence.
type TasksRepository struct {
	db *sql.DB
}

// NewTasksRepository creates a new tasks repository.
func NewTasksRepository(db *sql.DB) *TasksRepository {
	return &TasksRepository{db: db}
}

// Create inserts a task. ID, CreatedAt and UpdatedAt are filled from the
// database defaults when zero.
func (r *TasksRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.CreateTx(ctx, r.db, task)
}

// CreateTx inserts a task using the given querier.
func (r *TasksRepository) CreateTx(ctx context.Context, q Querier, task *domain.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	query := `
		INSERT INTO tasks (id, tenant_id, application_id, type, status, due_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := q.QueryRowContext(ctx, query,
		task.ID, task.TenantID, task.ApplicationID, string(task.Type), string(task.Status), task.DueAt,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if isForeignKeyViolation(err, "tasks_application_id_fkey") {
		return domain.ErrApplicationNotFound
	}
	if err != nil {
		return wrapConstraint("insert task", err)
	}
	return nil
}

// GetByID retrieves a task by ID.
func (r *TasksRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListOpenDueBetween returns tasks of a tenant with due_at in [from, to)
// whose status is not completed, ordered by due_at ascending.
func (r *TasksRepository) ListOpenDueBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE tenant_id = $1
			AND due_at >= $2
			AND due_at < $3
			AND status <> $4
		ORDER BY due_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tenantID, from, to, string(domain.TaskStatusCompleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// UpdateStatus sets the status of a task in a tenant.
func (r *TasksRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.TaskStatus) error {
	query := `
		UPDATE tasks
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3
	`
	result, err := r.db.ExecContext(ctx, query, string(status), id, tenantID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task       domain.Task
		taskType   string
		taskStatus string
	)
	err := row.Scan(
		&task.ID, &task.TenantID, &task.ApplicationID, &taskType, &taskStatus,
		&task.DueAt, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Type = domain.TaskType(taskType)
	task.Status = domain.TaskStatus(taskStatus)
	return &task, nil
}
