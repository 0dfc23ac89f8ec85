package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/shestoi/GoOrderSync/internal/event"
	"github.com/shestoi/GoOrderSync/internal/order/repository"
	"github.com/shestoi/GoOrderSync/internal/order/service"
	"github.com/shestoi/GoOrderSync/internal/pkg/result"
	platformrabbit "github.com/shestoi/GoOrderSync/platform/rabbitmq"
)

// Publisher публикует события order.created в durable topic exchange.
// Success означает, что брокер принял persistent сообщение; доставка
// consumer-у — at-least-once, асинхронно и вне ответственности publisher-а.
type Publisher struct {
	logger *zap.Logger
	client *platformrabbit.Client

	mu sync.Mutex
	ch *amqp.Channel
}

// NewPublisher создаёт новый publisher поверх явно переданного
// соединения с брокером
func NewPublisher(logger *zap.Logger, client *platformrabbit.Client) *Publisher {
	return &Publisher{
		logger: logger,
		client: client,
	}
}

// channel возвращает открытый канал с объявленным exchange,
// лениво переоткрывая его после обрыва
func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}

	ch, err := p.client.NewChannel()
	if err != nil {
		return nil, err
	}

	if err := ch.ExchangeDeclare(event.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	p.ch = ch
	return p.ch, nil
}

// PublishOrderCreated строит ровно один envelope (свежий event_id) и
// отправляет его с routing key orders.created.
// Сообщение помечается persistent, event_id дублируется в message_id —
// как подсказка брокерному tooling-у, consumer делает собственный dedup.
// Любая ошибка превращается в failure Result: политику решает caller.
func (p *Publisher) PublishOrderCreated(ctx context.Context, order repository.Order) result.Result[service.PublishInfo] {
	ev := event.NewOrderCreated(event.OrderCreatedPayload{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		ProductName: order.ProductName,
		Quantity:    order.Quantity,
		Price:       order.Price,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount(),
		CreatedAt:   order.CreatedAt.UTC().Format(time.RFC3339),
	})

	body, err := ev.Marshal()
	if err != nil {
		p.logger.Error("failed to marshal order created event",
			zap.Error(err),
			zap.Int64("order_id", order.ID),
		)
		return result.Failure[service.PublishInfo](fmt.Sprintf("Failed to publish event: %v", err))
	}

	ch, err := p.channel()
	if err != nil {
		p.logger.Error("failed to open publish channel",
			zap.Error(err),
			zap.Int64("order_id", order.ID),
		)
		return result.Failure[service.PublishInfo](fmt.Sprintf("Failed to publish event: %v", err))
	}

	err = ch.PublishWithContext(ctx,
		event.Exchange,
		event.RoutingKeyOrderCreated,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		// Сбрасываем канал: следующая публикация переоткроет его
		p.mu.Lock()
		p.ch = nil
		p.mu.Unlock()

		p.logger.Error("failed to publish order created event",
			zap.Error(err),
			zap.String("exchange", event.Exchange),
			zap.Int64("order_id", order.ID),
		)
		return result.Failure[service.PublishInfo](fmt.Sprintf("Failed to publish event: %v", err))
	}

	p.logger.Info("order created event published",
		zap.String("event_id", ev.EventID),
		zap.Int64("order_id", order.ID),
		zap.String("routing_key", event.RoutingKeyOrderCreated),
	)

	return result.Success(service.PublishInfo{EventID: ev.EventID})
}

// Close закрывает канал publisher-а
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		return nil
	}
	return p.ch.Close()
}
