package service

import (
	"context"

	"github.com/shestoi/GoOrderSync/internal/customer/repository"
)

//go:generate mockery --name=CustomerStore --output=mocks --case=underscore

// CustomerStore — хранилище покупателей и журнала обработанных событий
type CustomerStore interface {
	GetByID(ctx context.Context, id int64) (repository.Customer, error)
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	ApplyOrderCreated(ctx context.Context, customerID int64, eventID string) error
}
