package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestoi/GoOrderSync/internal/customer/repository"
	"github.com/shestoi/GoOrderSync/internal/customer/repository/memory"
	"github.com/shestoi/GoOrderSync/internal/event"
)

// MockCustomerStore — мок хранилища для тестов
type MockCustomerStore struct {
	mock.Mock
}

func (m *MockCustomerStore) GetByID(ctx context.Context, id int64) (repository.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repository.Customer), args.Error(1)
}

func (m *MockCustomerStore) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerStore) ApplyOrderCreated(ctx context.Context, customerID int64, eventID string) error {
	args := m.Called(ctx, customerID, eventID)
	return args.Error(0)
}

func testEvent(customerID int64) event.OrderCreated {
	return event.NewOrderCreated(event.OrderCreatedPayload{
		OrderID:     10,
		CustomerID:  customerID,
		ProductName: "Laptop",
		Quantity:    1,
		Price:       999.99,
		Status:      "pending",
		TotalAmount: 999.99,
		CreatedAt:   "2025-01-15T10:30:00Z",
	})
}

func TestHandleOrderCreated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRepository()
	id := store.Add(repository.Customer{Name: "John Smith", Email: "john.smith@example.com"})

	svc := NewCustomerService(zap.NewNop(), store)

	err := svc.HandleOrderCreated(ctx, testEvent(id))
	require.NoError(t, err)

	customer, err := svc.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, customer.OrdersCount)
}

func TestHandleOrderCreated_DuplicateEvent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRepository()
	id := store.Add(repository.Customer{Name: "John Smith", Email: "john.smith@example.com"})

	svc := NewCustomerService(zap.NewNop(), store)

	ev := testEvent(id)
	require.NoError(t, svc.HandleOrderCreated(ctx, ev))
	require.NoError(t, svc.HandleOrderCreated(ctx, ev))

	customer, err := svc.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, customer.OrdersCount, "redelivery must not double the counter")
}

func TestHandleOrderCreated_CustomerNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRepository()

	svc := NewCustomerService(zap.NewNop(), store)

	err := svc.HandleOrderCreated(ctx, testEvent(999))
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestHandleOrderCreated_StoreError(t *testing.T) {
	ctx := context.Background()
	store := &MockCustomerStore{}
	store.On("IsEventProcessed", mock.Anything, mock.Anything).Return(false, nil)
	store.On("ApplyOrderCreated", mock.Anything, int64(1), mock.Anything).Return(errors.New("connection refused"))

	svc := NewCustomerService(zap.NewNop(), store)

	err := svc.HandleOrderCreated(ctx, testEvent(1))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCustomerNotFound)
	store.AssertExpectations(t)
}

func TestHandleOrderCreated_DedupCheckShortCircuits(t *testing.T) {
	ctx := context.Background()
	store := &MockCustomerStore{}
	store.On("IsEventProcessed", mock.Anything, mock.Anything).Return(true, nil)

	svc := NewCustomerService(zap.NewNop(), store)

	err := svc.HandleOrderCreated(ctx, testEvent(1))
	require.NoError(t, err)
	store.AssertNotCalled(t, "ApplyOrderCreated", mock.Anything, mock.Anything, mock.Anything)
}
