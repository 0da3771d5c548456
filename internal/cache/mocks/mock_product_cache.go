package mocks

import (
	"context"

	"coursedeck/internal/cache"
	"github.com/stretchr/testify/mock"
)

type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) GetPage(ctx context.Context, limit, offset int) (*cache.ProductPage, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cache.ProductPage), args.Error(1)
}

func (m *MockProductCache) SetPage(ctx context.Context, limit, offset int, page *cache.ProductPage) error {
	args := m.Called(ctx, limit, offset, page)
	return args.Error(0)
}

func (m *MockProductCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
