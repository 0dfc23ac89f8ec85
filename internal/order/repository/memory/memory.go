package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shestoi/GoOrderSync/internal/order/repository"
)

// Repository реализует OrderRepository используя in-memory map
// Используется для dev/test окружений
type Repository struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]repository.Order
}

// NewRepository создаёт новый in-memory репозиторий
func NewRepository() *Repository {
	return &Repository{
		nextID: 1,
		orders: make(map[int64]repository.Order),
	}
}

// Create сохраняет новый заказ, присваивая следующий ID
func (r *Repository) Create(ctx context.Context, order repository.Order) (repository.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextID
	r.nextID++
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	r.orders[order.ID] = order

	return order, nil
}

// GetByID получает заказ по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (repository.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return repository.Order{}, repository.ErrNotFound
	}

	return order, nil
}

// List возвращает заказы, отсортированные по времени создания
func (r *Repository) List(ctx context.Context, customerID int64) ([]repository.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]repository.Order, 0)
	for _, order := range r.orders {
		if customerID > 0 && order.CustomerID != customerID {
			continue
		}
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

	return orders, nil
}
