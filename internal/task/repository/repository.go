package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	accountdomain "github.com/pmorel/tasklane/internal/account/domain"
	"github.com/pmorel/tasklane/internal/task/domain"
)

var ErrTaskNotFound = errors.New("task not found")

type Repository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	FindByID(ctx context.Context, id int64) (domain.Task, error)
	ListByOwner(ctx context.Context, ownerID accountdomain.ID) ([]domain.Task, error)
	// Update applies the non-nil fields of changes in a single conditional
	// UPDATE guarded by the owner id, so concurrent mutations cannot lose
	// writes and a row that changed owner mid-flight is not touched.
	Update(ctx context.Context, id int64, ownerID accountdomain.ID, changes domain.Changes, updatedAt time.Time) (domain.Task, error)
	Delete(ctx context.Context, id int64, ownerID accountdomain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const taskColumns = `id, title, description, completed, due_date, priority, created_at, updated_at, owner_id`

func (r *PgRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO tasks (title, description, completed, due_date, priority, created_at, updated_at, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+taskColumns,
		task.Title,
		task.Description,
		task.Completed,
		task.DueDate,
		string(task.Priority),
		task.CreatedAt,
		task.UpdatedAt,
		string(task.OwnerID),
	)

	return scanTask(row)
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.Task, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`,
		id,
	)

	return scanTask(row)
}

func (r *PgRepository) ListByOwner(ctx context.Context, ownerID accountdomain.ID) ([]domain.Task, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`,
		string(ownerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, id int64, ownerID accountdomain.ID, changes domain.Changes, updatedAt time.Time) (domain.Task, error) {
	var priority *string
	if changes.Priority != nil {
		p := string(*changes.Priority)
		priority = &p
	}

	row := r.pool.QueryRow(
		ctx,
		`UPDATE tasks SET
			title       = COALESCE($3, title),
			description = COALESCE($4, description),
			completed   = COALESCE($5, completed),
			due_date    = COALESCE($6, due_date),
			priority    = COALESCE($7, priority),
			updated_at  = $8
		 WHERE id = $1 AND owner_id = $2
		 RETURNING `+taskColumns,
		id,
		string(ownerID),
		changes.Title,
		changes.Description,
		changes.Completed,
		changes.DueDate,
		priority,
		updatedAt,
	)

	return scanTask(row)
}

func (r *PgRepository) Delete(ctx context.Context, id int64, ownerID accountdomain.ID) error {
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
		id,
		string(ownerID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var (
		task     domain.Task
		priority string
		ownerID  string
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.DueDate,
		&priority,
		&task.CreatedAt,
		&task.UpdatedAt,
		&ownerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, err
	}

	task.Priority = domain.Priority(priority)
	task.OwnerID = accountdomain.ID(ownerID)
	return task, nil
}
