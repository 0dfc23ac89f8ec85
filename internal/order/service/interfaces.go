package service

import (
	"context"

	"github.com/shestoi/GoOrderSync/internal/order/client/customer"
	"github.com/shestoi/GoOrderSync/internal/order/repository"
	"github.com/shestoi/GoOrderSync/internal/pkg/result"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=CustomerClient --dir=. --output=./mocks --outpkg=mocks

// CustomerClient определяет интерфейс для синхронной проверки покупателя
// в customer сервисе. Транспортные ошибки и retry скрыты за Result.
type CustomerClient interface {
	// FetchCustomer получает покупателя по ID
	// Failure означает: покупатель не найден или сервис недоступен
	FetchCustomer(ctx context.Context, id int64) result.Result[customer.Info]
}

// PublishInfo — результат успешной публикации события
type PublishInfo struct {
	EventID string
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=EventPublisher --dir=. --output=./mocks --outpkg=mocks

// EventPublisher определяет интерфейс для публикации события order.created
// Success означает, что брокер принял и durable-сохранил сообщение,
// а не что какой-либо consumer его обработал
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order repository.Order) result.Result[PublishInfo]
}
