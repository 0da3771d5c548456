package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"coursedeck/internal/cache"
	cacheMocks "coursedeck/internal/cache/mocks"
	"coursedeck/internal/model"
	"coursedeck/internal/repository"
	repoMocks "coursedeck/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      struct {
			name        string
			description string
			priceCents  int64
			currency    string
		}
		setupMocks func(mRepo *repoMocks.MockProductRepository, mCache *cacheMocks.MockProductCache)
		wantErr    error
	}{
		{
			name: "happy path",
			input: struct {
				name        string
				description string
				priceCents  int64
				currency    string
			}{"Keyboard", "clicky", 12999, "EUR"},
			setupMocks: func(mRepo *repoMocks.MockProductRepository, mCache *cacheMocks.MockProductCache) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
					return p.ID != "" && p.Name == "Keyboard" && p.PriceCents == 12999
				})).Return(&model.Product{ID: "gen-id", Name: "Keyboard"}, nil)
				mCache.On("Invalidate", ctx).Return(nil)
			},
			wantErr: nil,
		},
		{
			name: "defaults currency to EUR",
			input: struct {
				name        string
				description string
				priceCents  int64
				currency    string
			}{"Mouse", "", 4999, ""},
			setupMocks: func(mRepo *repoMocks.MockProductRepository, mCache *cacheMocks.MockProductCache) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
					return p.Currency == "EUR"
				})).Return(&model.Product{ID: "gen-id"}, nil)
				mCache.On("Invalidate", ctx).Return(nil)
			},
			wantErr: nil,
		},
		{
			name: "cache invalidation failure does not fail the create",
			input: struct {
				name        string
				description string
				priceCents  int64
				currency    string
			}{"Keyboard", "clicky", 12999, "EUR"},
			setupMocks: func(mRepo *repoMocks.MockProductRepository, mCache *cacheMocks.MockProductCache) {
				mRepo.On("Create", ctx, mock.Anything).Return(&model.Product{ID: "gen-id", Name: "Keyboard"}, nil)
				mCache.On("Invalidate", ctx).Return(errors.New("redis down"))
			},
			wantErr: nil,
		},
		{
			name: "validation error - empty name",
			input: struct {
				name        string
				description string
				priceCents  int64
				currency    string
			}{"", "", 100, "EUR"},
			setupMocks: func(mRepo *repoMocks.MockProductRepository, mCache *cacheMocks.MockProductCache) {},
			wantErr:    ErrNameRequired,
		},
		{
			name: "validation error - negative price",
			input: struct {
				name        string
				description string
				priceCents  int64
				currency    string
			}{"Keyboard", "", -1, "EUR"},
			setupMocks: func(mRepo *repoMocks.MockProductRepository, mCache *cacheMocks.MockProductCache) {},
			wantErr:    ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockProductRepository)
			mCache := new(cacheMocks.MockProductCache)
			tt.setupMocks(mRepo, mCache)

			svc := NewProductService(mRepo, mCache)
			got, err := svc.Create(ctx, tt.input.name, tt.input.description, tt.input.priceCents, tt.input.currency)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, got)
			}
			mRepo.AssertExpectations(t)
			mCache.AssertExpectations(t)
		})
	}
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mCache := new(cacheMocks.MockProductCache)
		mCache.On("GetPage", ctx, 10, 0).Return(&cache.ProductPage{
			Items: []model.Product{{ID: "p1"}},
			Total: 1,
		}, nil)

		svc := NewProductService(mRepo, mCache)
		res, err := svc.List(ctx, 10, 0)

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		mRepo.AssertNotCalled(t, "List")
		mCache.AssertExpectations(t)
	})

	t.Run("cache miss falls through and populates cache", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mCache := new(cacheMocks.MockProductCache)
		mCache.On("GetPage", ctx, 10, 0).Return(nil, nil)
		mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).Return(&repository.PageResult[model.Product]{
			Items: []model.Product{{ID: "p1"}, {ID: "p2"}},
			Total: 2,
		}, nil)
		mCache.On("SetPage", ctx, 10, 0, mock.Anything).Return(nil)

		svc := NewProductService(mRepo, mCache)
		res, err := svc.List(ctx, 10, 0)

		assert.NoError(t, err)
		assert.Len(t, res.Items, 2)
		mRepo.AssertExpectations(t)
		mCache.AssertExpectations(t)
	})

	t.Run("clamps invalid paging", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mCache := new(cacheMocks.MockProductCache)
		mCache.On("GetPage", ctx, 10, 0).Return(nil, nil)
		mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).Return(&repository.PageResult[model.Product]{
			Items: []model.Product{},
			Total: 0,
		}, nil)
		mCache.On("SetPage", ctx, 10, 0, mock.Anything).Return(nil)

		svc := NewProductService(mRepo, mCache)
		_, err := svc.List(ctx, -5, -3)

		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})
}

func TestProductService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mCache := new(cacheMocks.MockProductCache)
		mRepo.On("FindByID", ctx, "p1").Return(&model.Product{ID: "p1"}, nil)

		svc := NewProductService(mRepo, mCache)
		got, err := svc.Get(ctx, "p1")

		assert.NoError(t, err)
		assert.Equal(t, "p1", got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mCache := new(cacheMocks.MockProductCache)
		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		svc := NewProductService(mRepo, mCache)
		got, err := svc.Get(ctx, "missing")

		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Nil(t, got)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewProductService(new(repoMocks.MockProductRepository), new(cacheMocks.MockProductCache))
		_, err := svc.Get(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path invalidates cache", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mCache := new(cacheMocks.MockProductCache)
		mRepo.On("FindByID", ctx, "p1").Return(&model.Product{ID: "p1"}, nil)
		mRepo.On("Delete", ctx, "p1").Return(nil)
		mCache.On("Invalidate", ctx).Return(nil)

		svc := NewProductService(mRepo, mCache)
		err := svc.Delete(ctx, "p1")

		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
		mCache.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mCache := new(cacheMocks.MockProductCache)
		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		svc := NewProductService(mRepo, mCache)
		err := svc.Delete(ctx, "missing")

		assert.ErrorIs(t, err, ErrProductNotFound)
		mRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("cache invalidation failure does not fail the delete", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mCache := new(cacheMocks.MockProductCache)
		mRepo.On("FindByID", ctx, "p1").Return(&model.Product{ID: "p1"}, nil)
		mRepo.On("Delete", ctx, "p1").Return(nil)
		mCache.On("Invalidate", ctx).Return(errors.New("redis down"))

		svc := NewProductService(mRepo, mCache)
		err := svc.Delete(ctx, "p1")

		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
		mCache.AssertExpectations(t)
	})

	t.Run("repo error propagates", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mCache := new(cacheMocks.MockProductCache)
		mRepo.On("FindByID", ctx, "p1").Return(&model.Product{ID: "p1"}, nil)
		mRepo.On("Delete", ctx, "p1").Return(errors.New("db down"))

		svc := NewProductService(mRepo, mCache)
		err := svc.Delete(ctx, "p1")

		assert.Error(t, err)
		mCache.AssertNotCalled(t, "Invalidate")
	})
}
