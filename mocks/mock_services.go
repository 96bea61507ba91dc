package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"tiendapos/internal/domain"
	"tiendapos/internal/service"
)

// MockReceptionService is a mock implementation of service.ReceptionService.
type MockReceptionService struct {
	mock.Mock
}

func (m *MockReceptionService) view(args mock.Arguments) (*service.ReceptionView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReceptionView), args.Error(1)
}

func (m *MockReceptionService) Start(ctx context.Context, input service.StartReceptionInput) (*service.ReceptionView, error) {
	return m.view(m.Called(ctx, input))
}

func (m *MockReceptionService) Get(ctx context.Context, id string) (*service.ReceptionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockReceptionService) StartCounting(ctx context.Context, id string) (*service.ReceptionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockReceptionService) SetReceived(ctx context.Context, id string, seq int, qty decimal.Decimal) (*service.ReceptionView, error) {
	return m.view(m.Called(ctx, id, seq, qty))
}

func (m *MockReceptionService) AcceptAll(ctx context.Context, id string) (*service.ReceptionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockReceptionService) Refresh(ctx context.Context, id string) (*service.ReceptionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockReceptionService) Finalize(ctx context.Context, id string) (*service.ReceptionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockReceptionService) Reopen(ctx context.Context, id string) (*service.ReceptionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockReceptionService) Apply(ctx context.Context, id string) (*service.ReceptionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockReceptionService) Cancel(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReceptionService) ArchiveURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// MockSalesService is a mock implementation of service.SalesService.
type MockSalesService struct {
	mock.Mock
}

func (m *MockSalesService) Checkout(ctx context.Context, input service.CheckoutInput) (*domain.Sale, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}
