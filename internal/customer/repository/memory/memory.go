package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shestoi/GoOrderSync/internal/customer/repository"
)

// Repository — in-memory реализация CustomerRepository для тестов
type Repository struct {
	mu        sync.Mutex
	customers map[int64]repository.Customer
	processed map[string]struct{}
	nextID    int64
}

// NewRepository создаёт новый in-memory репозиторий
func NewRepository() *Repository {
	return &Repository{
		customers: make(map[int64]repository.Customer),
		processed: make(map[string]struct{}),
		nextID:    1,
	}
}

// Add добавляет покупателя напрямую, возвращая присвоенный ID
func (r *Repository) Add(customer repository.Customer) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer.ID = r.nextID
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}
	r.customers[customer.ID] = customer
	r.nextID++

	return customer.ID
}

func (r *Repository) GetByID(_ context.Context, id int64) (repository.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer, ok := r.customers[id]
	if !ok {
		return repository.Customer{}, repository.ErrNotFound
	}
	return customer, nil
}

func (r *Repository) EnsureCustomer(_ context.Context, customer repository.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.customers {
		if existing.Email == customer.Email {
			return nil
		}
	}

	customer.ID = r.nextID
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}
	r.customers[customer.ID] = customer
	r.nextID++

	return nil
}

func (r *Repository) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.processed[eventID]
	return ok, nil
}

func (r *Repository) ApplyOrderCreated(_ context.Context, customerID int64, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.processed[eventID]; ok {
		return nil
	}

	customer, ok := r.customers[customerID]
	if !ok {
		return repository.ErrNotFound
	}

	customer.OrdersCount++
	r.customers[customerID] = customer
	r.processed[eventID] = struct{}{}

	return nil
}
