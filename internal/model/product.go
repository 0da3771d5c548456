package model

import "time"

// Product represents an item in the demo shop catalog.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, cache) without coupling to persistence.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}
