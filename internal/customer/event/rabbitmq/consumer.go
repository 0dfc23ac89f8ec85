package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/shestoi/GoOrderSync/internal/customer/service"
	"github.com/shestoi/GoOrderSync/internal/event"
	platformrabbit "github.com/shestoi/GoOrderSync/platform/rabbitmq"
)

// reconnectDelay — пауза перед повторным подключением к брокеру
const reconnectDelay = 3 * time.Second

// Decision — решение consumer-а по доставленному сообщению
type Decision int

const (
	// DecisionAck — сообщение обработано, подтверждаем брокеру
	DecisionAck Decision = iota
	// DecisionReject — сообщение не может быть обработано, отклоняем без requeue
	DecisionReject
)

//go:generate mockery --name=OrderEventHandler --output=mocks --case=underscore

// OrderEventHandler применяет событие order.created к данным покупателя
type OrderEventHandler interface {
	HandleOrderCreated(ctx context.Context, ev event.OrderCreated) error
}

// Consumer читает события заказов из очереди customer_service.order_created.
// Подтверждение (ack) отправляется только после commit-а в базе, поэтому
// при падении между ними брокер передоставит сообщение, а журнал
// processed_events не даст применить его второй раз.
type Consumer struct {
	logger   *zap.Logger
	client   *platformrabbit.Client
	handler  OrderEventHandler
	prefetch int
	workers  int
}

// NewConsumer создаёт нового consumer-а событий заказов
func NewConsumer(logger *zap.Logger, client *platformrabbit.Client, handler OrderEventHandler, prefetch, workers int) *Consumer {
	return &Consumer{
		logger:   logger,
		client:   client,
		handler:  handler,
		prefetch: prefetch,
		workers:  workers,
	}
}

// Start блокирует до отмены контекста, переподключаясь к брокеру при обрывах
func (c *Consumer) Start(ctx context.Context) {
	for {
		if err := c.consume(ctx); err != nil {
			c.logger.Error("consumer stopped, reconnecting",
				zap.Error(err),
				zap.Duration("delay", reconnectDelay),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

// consume объявляет топологию и обрабатывает сообщения до обрыва канала
// или отмены контекста
func (c *Consumer) consume(ctx context.Context) error {
	ch, err := c.client.NewChannel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := c.declareTopology(ch); err != nil {
		return err
	}

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(
		event.QueueOrderCreated,
		"",    // consumer tag
		false, // autoAck — подтверждаем вручную после обработки
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}

	c.logger.Info("consuming order events",
		zap.String("queue", event.QueueOrderCreated),
		zap.Int("prefetch", c.prefetch),
		zap.Int("workers", c.workers),
	)

	// Закрытие канала при отмене контекста разблокирует воркеров
	go func() {
		<-ctx.Done()
		_ = ch.Close()
	}()

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range deliveries {
				c.handleDelivery(ctx, d)
			}
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil
	}
	return errors.New("delivery channel closed")
}

func (c *Consumer) declareTopology(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(
		event.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}

	_, err = ch.QueueDeclare(
		event.QueueOrderCreated,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}

	return ch.QueueBind(
		event.QueueOrderCreated,
		event.RoutingKeyOrderCreated,
		event.Exchange,
		false,
		nil,
	)
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	switch c.processDelivery(ctx, d.Body) {
	case DecisionAck:
		if err := d.Ack(false); err != nil {
			c.logger.Error("failed to ack delivery", zap.Error(err))
		}
	case DecisionReject:
		if err := d.Reject(false); err != nil {
			c.logger.Error("failed to reject delivery", zap.Error(err))
		}
	}
}

// processDelivery разбирает и применяет сообщение, возвращая решение для брокера
func (c *Consumer) processDelivery(ctx context.Context, body []byte) Decision {
	ev, err := event.ParseOrderCreated(body)
	if err != nil {
		// Raw тело в логе: мёртвое сообщение разбирают руками
		c.logger.Warn("rejecting malformed event",
			zap.Error(err),
			zap.ByteString("body", body),
		)
		return DecisionReject
	}

	if err := c.handler.HandleOrderCreated(ctx, ev); err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			c.logger.Warn("rejecting event for unknown customer",
				zap.String("event_id", ev.EventID),
				zap.Int64("customer_id", ev.Payload.CustomerID),
			)
		} else {
			c.logger.Error("failed to process event",
				zap.String("event_id", ev.EventID),
				zap.Error(err),
			)
		}
		return DecisionReject
	}

	return DecisionAck
}
