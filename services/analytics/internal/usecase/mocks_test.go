package usecase

import (
	"context"

	"creator-market/services/analytics/internal/entity"
	"creator-market/services/analytics/internal/repo/cache"
	"creator-market/services/analytics/internal/repo/persistent"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockSalesRepository struct {
	mock.Mock
}

func (m *MockSalesRepository) ListSales(ctx context.Context, creatorID string) ([]entity.Sale, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Sale), args.Error(1)
}

func (m *MockSalesRepository) SumEarnings(ctx context.Context, creatorID string) (decimal.Decimal, error) {
	args := m.Called(ctx, creatorID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ persistent.SalesRepository = (*MockSalesRepository)(nil)

type MockSalesSummaryCache struct {
	mock.Mock
}

func (m *MockSalesSummaryCache) Generation(ctx context.Context, creatorID string) (int64, error) {
	args := m.Called(ctx, creatorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesSummaryCache) Get(ctx context.Context, creatorID string, generation int64) (*entity.SalesSummary, error) {
	args := m.Called(ctx, creatorID, generation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SalesSummary), args.Error(1)
}

func (m *MockSalesSummaryCache) Set(ctx context.Context, creatorID string, generation int64, summary *entity.SalesSummary) error {
	args := m.Called(ctx, creatorID, generation, summary)
	return args.Error(0)
}

func (m *MockSalesSummaryCache) Invalidate(ctx context.Context, creatorID string) error {
	args := m.Called(ctx, creatorID)
	return args.Error(0)
}

var _ cache.SalesSummaryCache = (*MockSalesSummaryCache)(nil)
