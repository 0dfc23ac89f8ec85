package repository

import (
	"context"
	"errors"
	"math"
	"time"
)

// Status представляет статус заказа
type Status string

// Жизненный цикл заказа: pending → confirmed → shipped → delivered → cancelled
const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Valid возвращает true для известного статуса
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order представляет доменную модель заказа
// Это бизнес-сущность, не привязанная к HTTP или БД
type Order struct {
	ID          int64
	CustomerID  int64
	ProductName string
	Quantity    int
	Price       float64
	Status      Status
	CreatedAt   time.Time
}

// TotalAmount возвращает сумму заказа (price × quantity) с точностью два знака
func (o Order) TotalAmount() float64 {
	return math.Round(o.Price*float64(o.Quantity)*100) / 100
}

// Validate проверяет поля заказа и возвращает список сообщений об ошибках
// Пустой список означает валидный заказ
func (o Order) Validate() []string {
	var errs []string

	if o.CustomerID <= 0 {
		errs = append(errs, "Customer can't be blank")
	}
	if o.ProductName == "" {
		errs = append(errs, "Product name can't be blank")
	}
	if o.Quantity <= 0 {
		errs = append(errs, "Quantity must be greater than 0")
	}
	if o.Price <= 0 {
		errs = append(errs, "Price must be greater than 0")
	}
	if !o.Status.Valid() {
		errs = append(errs, "Status is not a valid status")
	}

	return errs
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=OrderRepository --dir=. --output=./mocks --outpkg=mocks

// OrderRepository определяет интерфейс для работы с хранилищем заказов
// Service слой зависит от этого интерфейса, а не от конкретной реализации
type OrderRepository interface {
	// Create сохраняет новый заказ и возвращает его с присвоенными ID и CreatedAt
	Create(ctx context.Context, order Order) (Order, error)

	// GetByID получает заказ по ID
	// Возвращает ErrNotFound, если заказ не найден
	GetByID(ctx context.Context, id int64) (Order, error)

	// List возвращает заказы, отсортированные по created_at
	// customerID > 0 фильтрует по покупателю
	List(ctx context.Context, customerID int64) ([]Order, error)
}

// ErrNotFound возвращается, когда заказ не найден в хранилище
var ErrNotFound = errors.New("order not found")
