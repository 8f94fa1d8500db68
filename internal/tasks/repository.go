package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskdeck/taskdeck/internal/platform/db"
	"github.com/taskdeck/taskdeck/internal/shared"
)

// Repository defines persistence operations for the tasks module.
type Repository interface {
	Get(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context, ownerID int64, req ListTasksRequest) ([]Task, int, error)
	Create(ctx context.Context, task Task) (*Task, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const taskColumns = `id, owner_id, title, description, status, priority, due_date, created_at, updated_at`

func (r *PGRepository) Get(ctx context.Context, id int64) (*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)
	task, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *PGRepository) List(ctx context.Context, ownerID int64, req ListTasksRequest) ([]Task, int, error) {
	conditions := []string{"owner_id = $1"}
	args := []any{ownerID}
	argPos := 2

	if req.Status != nil && *req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		pattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argPos, argPos))
		args = append(args, pattern)
		argPos++
	}
	conditions = append(conditions, fmt.Sprintf("priority BETWEEN $%d AND $%d", argPos, argPos+1))
	args = append(args, req.MinPriority, req.MaxPriority)
	argPos += 2

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tasks %s", whereClause)

	// Tasks with a due date come first, soonest deadline up, then priority.
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		%s
		ORDER BY (due_date IS NULL), due_date, priority
		LIMIT $%d OFFSET $%d
	`, taskColumns, whereClause, argPos, argPos+1)

	var total int
	var result []Task
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, query, append(args, req.Limit, req.Offset)...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			task, err := scanTask(rows)
			if err != nil {
				return err
			}
			result = append(result, *task)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *PGRepository) Create(ctx context.Context, task Task) (*Task, error) {
	query := fmt.Sprintf(`
		INSERT INTO tasks (owner_id, title, description, status, priority, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s`, taskColumns)

	row := r.pool.QueryRow(ctx, query,
		task.OwnerID,
		task.Title,
		pgtype.Text{String: derefString(task.Description), Valid: task.Description != nil},
		task.Status,
		task.Priority,
		dueDate(task.DueDate),
	)
	return scanTask(row)
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE tasks SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, column := range []string{"title", "description", "status", "priority", "due_date"} {
		if v, ok := updates[column]; ok {
			query += fmt.Sprintf(", %s = $%d", column, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*Task, error) {
	var task Task
	var description pgtype.Text
	var due pgtype.Timestamptz
	err := row.Scan(
		&task.ID, &task.OwnerID, &task.Title, &description, &task.Status,
		&task.Priority, &due, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		task.Description = &description.String
	}
	if due.Valid {
		t := due.Time
		task.DueDate = &t
	}
	return &task, nil
}

func dueDate(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ Repository = (*PGRepository)(nil)
