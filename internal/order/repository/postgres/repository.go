package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shestoi/GoOrderSync/internal/order/repository"
)

// Статусы хранятся как smallint, в домене — строки
var statusCodes = map[repository.Status]int16{
	repository.StatusPending:   0,
	repository.StatusConfirmed: 1,
	repository.StatusShipped:   2,
	repository.StatusDelivered: 3,
	repository.StatusCancelled: 4,
}

var statusNames = map[int16]repository.Status{
	0: repository.StatusPending,
	1: repository.StatusConfirmed,
	2: repository.StatusShipped,
	3: repository.StatusDelivered,
	4: repository.StatusCancelled,
}

// Repository реализует OrderRepository используя PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт новый PostgreSQL репозиторий
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
	}
}

// Create сохраняет новый заказ в PostgreSQL
// ID и CreatedAt присваивает БД (bigserial + DEFAULT now())
func (r *Repository) Create(ctx context.Context, order repository.Order) (repository.Order, error) {
	code, ok := statusCodes[order.Status]
	if !ok {
		return repository.Order{}, fmt.Errorf("unknown order status: %q", order.Status)
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO orders (customer_id, product_name, quantity, price, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		order.CustomerID, order.ProductName, order.Quantity, order.Price, code,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return repository.Order{}, err
	}

	return order, nil
}

// GetByID получает заказ по ID из PostgreSQL
func (r *Repository) GetByID(ctx context.Context, id int64) (repository.Order, error) {
	var order repository.Order
	var code int16

	err := r.pool.QueryRow(ctx,
		`SELECT id, customer_id, product_name, quantity, price, status, created_at
		 FROM orders
		 WHERE id = $1`,
		id).Scan(&order.ID, &order.CustomerID, &order.ProductName, &order.Quantity, &order.Price, &code, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Order{}, repository.ErrNotFound
		}
		return repository.Order{}, err
	}

	order.Status = statusNames[code]

	return order, nil
}

// List возвращает заказы, при customerID > 0 — только заказы этого покупателя
func (r *Repository) List(ctx context.Context, customerID int64) ([]repository.Order, error) {
	query := `SELECT id, customer_id, product_name, quantity, price, status, created_at
		 FROM orders
		 ORDER BY created_at`
	args := []any{}

	if customerID > 0 {
		query = `SELECT id, customer_id, product_name, quantity, price, status, created_at
		 FROM orders
		 WHERE customer_id = $1
		 ORDER BY created_at`
		args = append(args, customerID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]repository.Order, 0)
	for rows.Next() {
		var order repository.Order
		var code int16
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.ProductName, &order.Quantity, &order.Price, &code, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.Status = statusNames[code]
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
