package repository

import (
	"context"

	"coursedeck/internal/model"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// Create inserts a new user with a pre-hashed password and returns the stored row.
	Create(ctx context.Context, username, passwordHash string) (*model.User, error)

	// FindByUsername returns a user by username, or sql.ErrNoRows.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
