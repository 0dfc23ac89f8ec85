package repository

import (
	"context"
	"errors"
	"time"
)

// Customer представляет доменную модель покупателя
type Customer struct {
	ID          int64
	Name        string
	Email       string
	Address     string
	OrdersCount int
	CreatedAt   time.Time
}

// Validate проверяет поля покупателя и возвращает список сообщений об ошибках
func (c Customer) Validate() []string {
	var errs []string

	if c.Name == "" {
		errs = append(errs, "Name can't be blank")
	}
	if c.Email == "" {
		errs = append(errs, "Email can't be blank")
	}
	if c.Address == "" {
		errs = append(errs, "Address can't be blank")
	}

	return errs
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=CustomerRepository --dir=. --output=./mocks --outpkg=mocks

// CustomerRepository определяет интерфейс для работы с хранилищем покупателей
// и приватным для этого сервиса журналом обработанных событий.
// Журнал — не часть публичного контракта: он существует только чтобы
// сделать consumption идемпотентным.
type CustomerRepository interface {
	// GetByID получает покупателя по ID
	// Возвращает ErrNotFound, если покупатель не найден
	GetByID(ctx context.Context, id int64) (Customer, error)

	// EnsureCustomer идемпотентно создаёт покупателя (ключ — email)
	// Используется для seed-данных
	EnsureCustomer(ctx context.Context, customer Customer) error

	// IsEventProcessed возвращает true если событие с указанным event_id
	// уже было применено. Дёшево и без side-effect-ов: это ожидаемый
	// путь при redelivery
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)

	// ApplyOrderCreated атомарно применяет событие: блокирует строку
	// покупателя, инкрементирует orders_count и записывает event_id в журнал.
	// Либо происходит и то и другое, либо ничего.
	// Возвращает ErrNotFound если покупателя нет; повторное применение
	// того же event_id — no-op без ошибки
	ApplyOrderCreated(ctx context.Context, customerID int64, eventID string) error
}

// ErrNotFound возвращается, когда покупатель не найден в хранилище
var ErrNotFound = errors.New("customer not found")
