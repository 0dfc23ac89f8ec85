package rabbitmq

import (
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client — владелец соединения с RabbitMQ на время жизни процесса.
// Соединение устанавливается лениво при первом обращении и переустанавливается
// после обрыва. Handle передаётся publisher-у и consumer-у явно при
// конструировании: никакого глобального состояния.
type Client struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewClient создаёт новый Client для указанного URL брокера
// Соединение не устанавливается до первого NewChannel()
func NewClient(url string) *Client {
	return &Client{url: url}
}

// connection возвращает живое соединение, устанавливая его при необходимости
func (c *Client) connection() (*amqp.Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn, nil
	}

	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}
	c.conn = conn

	return c.conn, nil
}

// NewChannel открывает новый канал поверх соединения.
// Каналы amqp не потокобезопасны: каждый publisher/consumer открывает свой.
func (c *Client) NewChannel() (*amqp.Channel, error) {
	conn, err := c.connection()
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return ch, nil
}

// Connected возвращает true если соединение с брокером установлено и открыто
// Используется health check-ом, не трогает сам request path
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Close закрывает соединение с брокером (вызывается при shutdown)
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	return err
}
