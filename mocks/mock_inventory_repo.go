package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tiendapos/internal/domain"
)

// MockInventoryRepo is a mock implementation of port.InventoryRepository.
type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) ListRecords(ctx context.Context) ([]domain.InventoryRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryRecord), args.Error(1)
}

func (m *MockInventoryRepo) UpdateFields(ctx context.Context, updates []domain.FieldUpdate) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}

func (m *MockInventoryRepo) InsertRecords(ctx context.Context, records []domain.InventoryRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}
