package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tiendapos/internal/domain"
)

// MockSalesRepo is a mock implementation of port.SalesRepository.
type MockSalesRepo struct {
	mock.Mock
}

func (m *MockSalesRepo) Append(ctx context.Context, sale *domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

// MockPurchaseRepo is a mock implementation of port.PurchaseRepository.
type MockPurchaseRepo struct {
	mock.Mock
}

func (m *MockPurchaseRepo) Append(ctx context.Context, purchase *domain.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}
