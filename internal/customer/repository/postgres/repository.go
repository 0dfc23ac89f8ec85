package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shestoi/GoOrderSync/internal/customer/repository"
)

// pgUniqueViolation — код ошибки unique constraint в PostgreSQL
const pgUniqueViolation = "23505"

// Repository реализует CustomerRepository используя PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт новый PostgreSQL репозиторий
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
	}
}

// GetByID получает покупателя по ID из PostgreSQL
func (r *Repository) GetByID(ctx context.Context, id int64) (repository.Customer, error) {
	var customer repository.Customer

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, address, orders_count, created_at
		 FROM customers
		 WHERE id = $1`,
		id).Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Address, &customer.OrdersCount, &customer.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Customer{}, repository.ErrNotFound
		}
		return repository.Customer{}, err
	}

	return customer, nil
}

// EnsureCustomer идемпотентно создаёт покупателя (ключ — email)
func (r *Repository) EnsureCustomer(ctx context.Context, customer repository.Customer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO customers (name, email, address)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO NOTHING`,
		customer.Name, customer.Email, customer.Address)
	return err
}

// IsEventProcessed проверяет, было ли событие уже применено
func (r *Repository) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM processed_events WHERE event_id = $1)`,
		eventID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ApplyOrderCreated атомарно применяет событие order.created.
// Внутри одной транзакции: эксклюзивная блокировка строки покупателя
// (SELECT ... FOR UPDATE, блокирующая семантика — конкурирующие consumer-ы
// одного покупателя сериализуются на ней), инкремент orders_count и запись
// в processed_events. Commit происходит до ack брокеру, поэтому crash между
// apply и ack безопасен: redelivery найдёт запись в журнале.
func (r *Repository) ApplyOrderCreated(ctx context.Context, customerID int64, eventID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	// Гарантируем откат транзакции в случае ошибки
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM customers WHERE id = $1 FOR UPDATE`,
		customerID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE customers
		 SET orders_count = orders_count + 1, updated_at = now()
		 WHERE id = $1`,
		customerID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO processed_events (event_id) VALUES ($1)`,
		eventID)
	if err != nil {
		// Конкурирующая доставка того же события успела первой:
		// откатываем свой инкремент и выходим без ошибки
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil
		}
		return err
	}

	return tx.Commit(ctx)
}
