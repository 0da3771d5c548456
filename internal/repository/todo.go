package repository

import (
	"context"
	"time"

	"coursedeck/internal/model"
)

// TodoRepository defines data access for user-owned todos.
type TodoRepository interface {
	// Create inserts a new todo record and returns the stored row.
	Create(ctx context.Context, td *model.Todo) (*model.Todo, error)

	// FindByID returns a todo owned by userID, or sql.ErrNoRows.
	FindByID(ctx context.Context, userID int64, id string) (*model.Todo, error)

	// List returns a paginated list of the user's todos and a total count.
	List(ctx context.Context, userID int64, pq PageQuery) (*PageResult[model.Todo], error)

	// Update persists title, description, due date and done flag of an existing todo.
	Update(ctx context.Context, td *model.Todo) (*model.Todo, error)

	// MarkDone sets done=true. Returns sql.ErrNoRows when the todo does not exist.
	MarkDone(ctx context.Context, userID int64, id string) (*model.Todo, error)

	// Overdue returns not-done todos with a due date before the given time.
	Overdue(ctx context.Context, userID int64, before time.Time) ([]model.Todo, error)

	// Delete removes a todo by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, userID int64, id string) error
}
