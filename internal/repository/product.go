package repository

import (
	"context"

	"coursedeck/internal/model"
)

// ProductRepository defines data access for catalog products using SQL queries only.
// No business logic here — strictly persistence operations.
type ProductRepository interface {
	// Create inserts a new product record.
	// The caller provides required fields (ID, CreatedAt) according to the schema defaults.
	// Returns the stored product (may include values set by the DB).
	Create(ctx context.Context, p *model.Product) (*model.Product, error)

	// FindByID returns a product by its ID.
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// List returns a paginated list of products and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Product], error)

	// Delete removes a product by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
