package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shestoi/GoOrderSync/internal/customer/repository"
	"github.com/shestoi/GoOrderSync/internal/event"
)

// ErrCustomerNotFound возвращается, если событие ссылается на несуществующего покупателя
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerService обрабатывает события заказов и отдаёт данные покупателей
type CustomerService struct {
	logger *zap.Logger
	store  CustomerStore
}

// NewCustomerService создаёт новый сервис покупателей
func NewCustomerService(logger *zap.Logger, store CustomerStore) *CustomerService {
	return &CustomerService{
		logger: logger,
		store:  store,
	}
}

// HandleOrderCreated применяет событие order.created: инкрементирует
// orders_count покупателя ровно один раз. Повторная доставка того же
// event_id — не ошибка, эффект не дублируется.
func (s *CustomerService) HandleOrderCreated(ctx context.Context, ev event.OrderCreated) error {
	processed, err := s.store.IsEventProcessed(ctx, ev.EventID)
	if err != nil {
		return fmt.Errorf("check processed event: %w", err)
	}
	if processed {
		s.logger.Info("skipping already processed event",
			zap.String("event_id", ev.EventID),
			zap.Int64("customer_id", ev.Payload.CustomerID),
		)
		return nil
	}

	err = s.store.ApplyOrderCreated(ctx, ev.Payload.CustomerID, ev.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrCustomerNotFound, ev.Payload.CustomerID)
		}
		return fmt.Errorf("apply order created: %w", err)
	}

	s.logger.Info("incremented orders count",
		zap.String("event_id", ev.EventID),
		zap.Int64("customer_id", ev.Payload.CustomerID),
		zap.Int64("order_id", ev.Payload.OrderID),
	)

	return nil
}

// GetCustomer возвращает покупателя по ID
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (repository.Customer, error) {
	return s.store.GetByID(ctx, id)
}
