package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/NordCoder/Todorus/internal/domain/todo"
)

var _ todo.Repo = (*TodoRepo)(nil)

type TodoRepo struct {
	db *DB
}

func NewTodoRepo(db *DB) *TodoRepo { return &TodoRepo{db: db} }

const (
	qTodoInsert = `
INSERT INTO todos (user_id, text, priority, due_date)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, text, completed, priority, due_date, created_at, updated_at;`

	qTodoByID = `
SELECT id, user_id, text, completed, priority, due_date, created_at, updated_at
FROM todos
WHERE id = $1;`

	qTodoListByUser = `
SELECT id, user_id, text, completed, priority, due_date, created_at, updated_at
FROM todos
WHERE user_id = $1
ORDER BY id DESC;`

	qTodoUpdate = `
UPDATE todos
SET text       = $2,
    completed  = $3,
    priority   = $4,
    due_date   = $5,
    updated_at = NOW()
WHERE id = $1
RETURNING id, user_id, text, completed, priority, due_date, created_at, updated_at;`

	qTodoDelete = `DELETE FROM todos WHERE id = $1;`
)

func scanTodo(row pgx.Row, t *todo.Todo) error {
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Text,
		&t.Completed,
		&t.Priority,
		&t.DueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan todo: %w", err)
	}
	return nil
}

func (r *TodoRepo) Create(ctx context.Context, t *todo.Todo) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	row := r.db.Pool.QueryRow(ctx, qTodoInsert, t.UserID, t.Text, t.Priority, t.DueDate)
	return scanTodo(row, t)
}

func (r *TodoRepo) GetByID(ctx context.Context, id int64) (*todo.Todo, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var t todo.Todo
	if err := scanTodo(r.db.Pool.QueryRow(ctx, qTodoByID, id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TodoRepo) ListByUser(ctx context.Context, userID int64) ([]*todo.Todo, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qTodoListByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	var out []*todo.Todo
	for rows.Next() {
		var t todo.Todo
		if err := scanTodo(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *TodoRepo) Update(ctx context.Context, t *todo.Todo) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	row := r.db.Pool.QueryRow(ctx, qTodoUpdate, t.ID, t.Text, t.Completed, t.Priority, t.DueDate)
	return scanTodo(row, t)
}

func (r *TodoRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.Pool.Exec(ctx, qTodoDelete, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
