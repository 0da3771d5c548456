package postgres

import (
	"context"
	"database/sql"
	"time"

	"coursedeck/internal/model"
	"coursedeck/internal/repository"
)

// TodoPostgres is a PostgreSQL implementation of repository.TodoRepository.
type TodoPostgres struct {
	db *sql.DB
}

// NewTodoPostgres creates a new TodoPostgres repository.
func NewTodoPostgres(db *sql.DB) *TodoPostgres {
	return &TodoPostgres{db: db}
}

var _ repository.TodoRepository = (*TodoPostgres)(nil)

const todoColumns = `id, user_id, title, description, done, due_at, created_at, updated_at`

func scanTodo(row interface{ Scan(...any) error }) (*model.Todo, error) {
	var td model.Todo
	if err := row.Scan(
		&td.ID,
		&td.UserID,
		&td.Title,
		&td.Description,
		&td.Done,
		&td.DueAt,
		&td.CreatedAt,
		&td.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &td, nil
}

// Create inserts a new todo row and returns the stored record.
func (r *TodoPostgres) Create(ctx context.Context, td *model.Todo) (*model.Todo, error) {
	const q = `
		INSERT INTO todos (id, user_id, title, description, done, due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + todoColumns
	row := r.db.QueryRowContext(ctx, q,
		td.ID,
		td.UserID,
		td.Title,
		td.Description,
		td.Done,
		td.DueAt,
		td.CreatedAt,
		td.UpdatedAt,
	)
	return scanTodo(row)
}

// FindByID fetches a single todo owned by userID.
func (r *TodoPostgres) FindByID(ctx context.Context, userID int64, id string) (*model.Todo, error) {
	const q = `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = $1 AND user_id = $2
	`
	return scanTodo(r.db.QueryRowContext(ctx, q, id, userID))
}

// List returns the user's todos using LIMIT/OFFSET pagination and a total count.
func (r *TodoPostgres) List(ctx context.Context, userID int64, pq repository.PageQuery) (*repository.PageResult[model.Todo], error) {
	const qCount = `SELECT COUNT(*) FROM todos WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Todo, 0)
	for rows.Next() {
		td, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *td)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Todo]{
		Items: items,
		Total: total,
	}, nil
}

// Update persists mutable fields of an existing todo and bumps updated_at.
func (r *TodoPostgres) Update(ctx context.Context, td *model.Todo) (*model.Todo, error) {
	const q = `
		UPDATE todos
		SET title = $1, description = $2, done = $3, due_at = $4, updated_at = now()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + todoColumns
	row := r.db.QueryRowContext(ctx, q,
		td.Title,
		td.Description,
		td.Done,
		td.DueAt,
		td.ID,
		td.UserID,
	)
	return scanTodo(row)
}

// MarkDone sets done=true and returns the updated row.
func (r *TodoPostgres) MarkDone(ctx context.Context, userID int64, id string) (*model.Todo, error) {
	const q = `
		UPDATE todos
		SET done = TRUE, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRowContext(ctx, q, id, userID))
}

// Overdue returns not-done todos whose due date is before the given time.
func (r *TodoPostgres) Overdue(ctx context.Context, userID int64, before time.Time) ([]model.Todo, error) {
	const q = `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1 AND NOT done AND due_at IS NOT NULL AND due_at < $2
		ORDER BY due_at ASC
	`
	rows, err := r.db.QueryContext(ctx, q, userID, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Todo, 0)
	for rows.Next() {
		td, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *td)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a todo by ID. It does not return an error if the row does not exist.
func (r *TodoPostgres) Delete(ctx context.Context, userID int64, id string) error {
	const q = `DELETE FROM todos WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
