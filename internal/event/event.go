// Package event определяет wire-контракт доменных событий между
// order и customer сервисами.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типы событий
const (
	TypeOrderCreated = "order.created"
)

// Топология брокера: durable topic exchange, по одной durable очереди
// на логического consumer-а
const (
	Exchange               = "orders.events"
	RoutingKeyOrderCreated = "orders.created"
	QueueOrderCreated      = "customer_service.order_created"
)

// OrderCreatedPayload — данные заказа внутри события order.created
type OrderCreatedPayload struct {
	OrderID     int64   `json:"order_id"`
	CustomerID  int64   `json:"customer_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	CreatedAt   string  `json:"created_at"`
}

// OrderCreated — envelope события order.created.
// EventID генерируется ровно один раз при построении события и служит
// единственным ключом дедупликации на стороне consumer-а: при redelivery
// брокер доставляет те же байты с тем же event_id.
type OrderCreated struct {
	EventType string              `json:"event_type"`
	EventID   string              `json:"event_id"`
	Timestamp string              `json:"timestamp"`
	Payload   OrderCreatedPayload `json:"payload"`
}

// NewOrderCreated строит новый envelope для указанного payload:
// свежий event_id (uuid v4) и текущее время в ISO-8601
func NewOrderCreated(payload OrderCreatedPayload) OrderCreated {
	return OrderCreated{
		EventType: TypeOrderCreated,
		EventID:   uuid.New().String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	}
}

// Marshal сериализует событие в JSON для отправки в брокер
func (e OrderCreated) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// ParseError описывает ошибку валидации входящего события
type ParseError struct {
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// ParseOrderCreated разбирает и валидирует сырое сообщение из брокера.
// Обязательные ключи: event_type (строго "order.created"), event_id,
// payload.customer_id. Любое нарушение — ошибка, сообщение не подлежит
// обработке.
func ParseOrderCreated(raw []byte) (OrderCreated, error) {
	var ev OrderCreated
	if err := json.Unmarshal(raw, &ev); err != nil {
		return OrderCreated{}, fmt.Errorf("invalid event json: %w", err)
	}

	if ev.EventType != TypeOrderCreated {
		return OrderCreated{}, &ParseError{Field: "event_type", Message: fmt.Sprintf("unexpected event_type: %q", ev.EventType)}
	}
	if ev.EventID == "" {
		return OrderCreated{}, &ParseError{Field: "event_id", Message: "event_id is required"}
	}
	if ev.Payload.CustomerID <= 0 {
		return OrderCreated{}, &ParseError{Field: "payload.customer_id", Message: "payload.customer_id is required"}
	}

	return ev, nil
}
