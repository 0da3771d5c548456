package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"coursedeck/internal/cache"
	"coursedeck/internal/model"
	"coursedeck/internal/repository"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrProductNotFound = errors.New("product not found")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

// ProductListResult is the service-level DTO for paginated products.
type ProductListResult struct {
	Items []model.Product `json:"data"`
	Total int             `json:"total"`
}

// ProductService defines the use cases for the demo shop catalog.
type ProductService interface {
	// Create validates the payload, assigns an ID and timestamp, and stores the product.
	Create(ctx context.Context, name, description string, priceCents int64, currency string) (*model.Product, error)

	// List returns products using limit/offset and a total count.
	// Pages are served from cache when possible.
	List(ctx context.Context, limit, offset int) (*ProductListResult, error)

	// Get returns a single product by its ID.
	Get(ctx context.Context, id string) (*model.Product, error)

	// Delete removes a product by ID.
	Delete(ctx context.Context, id string) error
}

// productService is a concrete implementation of ProductService.
type productService struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
}

// NewProductService constructs a new ProductService.
func NewProductService(repo repository.ProductRepository, cache cache.ProductCache) ProductService {
	return &productService{repo: repo, cache: cache}
}

func (s *productService) Create(ctx context.Context, name, description string, priceCents int64, currency string) (*model.Product, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if priceCents < 0 {
		return nil, ErrInvalidPrice
	}
	if currency == "" {
		currency = "EUR"
	}

	p := &model.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		Currency:    currency,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	// Any write makes every cached page stale. The product exists at this
	// point, so a failed invalidation is logged, not surfaced; stale pages
	// age out with the cache TTL.
	if err := s.cache.Invalidate(ctx); err != nil {
		logCacheInvalidateError(err)
	}
	return stored, nil
}

// List returns paginated products without exposing repository types.
func (s *productService) List(ctx context.Context, limit, offset int) (*ProductListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	// Cache lookup failures fall through to the repository.
	if page, err := s.cache.GetPage(ctx, limit, offset); err == nil && page != nil {
		return &ProductListResult{Items: page.Items, Total: page.Total}, nil
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetPage(ctx, limit, offset, &cache.ProductPage{Items: res.Items, Total: res.Total})
	return &ProductListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a product by ID.
func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// Delete removes a product and drops stale cache pages.
func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	// Find the product first so missing IDs surface as not found.
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logCacheInvalidateError(err)
	}
	return nil
}

func logCacheInvalidateError(err error) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": "warn",
		"msg":   "cache_invalidate_failed",
		"error": err.Error(),
	}
	if b, mErr := json.Marshal(entry); mErr == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
