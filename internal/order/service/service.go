package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shestoi/GoOrderSync/internal/order/client/customer"
	"github.com/shestoi/GoOrderSync/internal/order/repository"
)

// OrderService содержит бизнес-логику создания заказов.
// Последовательность создания: проверка покупателя в customer сервисе →
// локальное сохранение → публикация события. Первые два шага фатальны,
// неудачная публикация — нет: заказ уже существует, event_id просто
// отсутствует в результате.
type OrderService struct {
	logger         *zap.Logger
	customerClient CustomerClient
	publisher      EventPublisher
	orderRepo      repository.OrderRepository
}

// NewOrderService создаёт новый экземпляр OrderService
// Принимает интерфейсы как зависимости - это позволяет легко подменять их в тестах
func NewOrderService(
	logger *zap.Logger,
	customerClient CustomerClient,
	publisher EventPublisher,
	orderRepo repository.OrderRepository,
) *OrderService {
	return &OrderService{
		logger:         logger,
		customerClient: customerClient,
		publisher:      publisher,
		orderRepo:      orderRepo,
	}
}

// CreateOrderInput содержит входные данные для создания заказа
type CreateOrderInput struct {
	CustomerID  int64
	ProductName string
	Quantity    int
	Price       float64
	// Status опционален, по умолчанию pending
	Status string
}

// CreateOrderResult содержит исход создания заказа
// Success определяется пустым списком Errors; EventID пуст, если публикация
// события не удалась (заказ при этом создан)
type CreateOrderResult struct {
	Order    repository.Order
	Customer customer.Info
	EventID  string
	Errors   []string
}

// Success возвращает true если заказ создан
func (r CreateOrderResult) Success() bool {
	return len(r.Errors) == 0
}

// CreateOrder создаёт новый заказ
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) CreateOrderResult {
	// 1. Проверяем покупателя в customer сервисе — жёсткий precondition:
	// заказ на неверифицируемого покупателя не создаётся
	customerResult := s.customerClient.FetchCustomer(ctx, input.CustomerID)
	if customerResult.Failure() {
		s.logger.Info("order rejected: customer precondition failed",
			zap.Int64("customer_id", input.CustomerID),
			zap.String("reason", customerResult.Reason()),
		)
		return CreateOrderResult{Errors: []string{customerResult.Reason()}}
	}

	// 2. Валидируем и сохраняем заказ
	status := repository.Status(input.Status)
	if input.Status == "" {
		status = repository.StatusPending
	}

	order := repository.Order{
		CustomerID:  input.CustomerID,
		ProductName: input.ProductName,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Status:      status,
	}

	if errs := order.Validate(); len(errs) > 0 {
		return CreateOrderResult{Errors: errs}
	}

	saved, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		s.logger.Error("failed to save order",
			zap.Error(err),
			zap.Int64("customer_id", input.CustomerID),
		)
		return CreateOrderResult{Errors: []string{fmt.Sprintf("Failed to save order: %v", err)}}
	}

	// 3. Публикуем событие. Неудача здесь не фатальна для операции:
	// заказ сохранён и доступен, messaging outage деградирует консистентность,
	// а не доступность
	eventID := ""
	publishResult := s.publisher.PublishOrderCreated(ctx, saved)
	if publishResult.Failure() {
		s.logger.Warn("order created but event publishing failed",
			zap.Int64("order_id", saved.ID),
			zap.String("reason", publishResult.Reason()),
		)
	} else {
		eventID = publishResult.Value().EventID
	}

	// 4. Возвращаем заказ, данные покупателя из шага 1 и event_id (если есть)
	return CreateOrderResult{
		Order:    saved,
		Customer: customerResult.Value(),
		EventID:  eventID,
	}
}

// GetOrderInput содержит входные данные для получения заказа
type GetOrderInput struct {
	OrderID int64
}

// GetOrder получает заказ по ID
func (s *OrderService) GetOrder(ctx context.Context, input GetOrderInput) (repository.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return repository.Order{}, err
	}
	return order, nil
}

// ListOrders возвращает заказы, при customerID > 0 — только этого покупателя
func (s *OrderService) ListOrders(ctx context.Context, customerID int64) ([]repository.Order, error) {
	return s.orderRepo.List(ctx, customerID)
}
