package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/storefront/internal/config"
)

const (
	NotificationsExchange = "notifications_direct"
	notificationsDLX      = "notifications_dlx"
)

type Connection interface {
	Channel() (Channel, error)
	Close() error
	IsClosed() bool
}

// Channel is the slice of *amqp.Channel used by the notification channel
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Confirm(noWait bool) error
	NotifyReturn() <-chan amqp.Return
	PublishWithConfirm(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (Confirmation, error)
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Close() error
	NotifyClose() <-chan *amqp.Error
}

// Confirmation is satisfied by *amqp.DeferredConfirmation
type Confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type Queue struct {
	Name      string
	Messages  int
	Consumers int
}

// QueueName is the durable queue fed by one delivery service's routing key
func QueueName(serviceID string) string {
	return "notifications." + serviceID
}

// DeclareNotificationTopology declares the direct exchange, the per-service
// queue and its dead letter queue. Both ends call it, so a confirmation
// published before the subscriber ever ran is still routable.
func DeclareNotificationTopology(ch Channel, serviceID string) (string, error) {
	if serviceID == "" {
		return "", fmt.Errorf("notification service id is empty")
	}

	if err := ch.ExchangeDeclare(NotificationsExchange, "direct", true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("failed to declare notifications exchange: %w", err)
	}
	if err := ch.ExchangeDeclare(notificationsDLX, "direct", true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("failed to declare DLQ exchange: %w", err)
	}

	queueName := QueueName(serviceID)
	dlqName := queueName + ".dlq"

	if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("failed to declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqName, serviceID, notificationsDLX, false, nil); err != nil {
		return "", fmt.Errorf("failed to bind DLQ: %w", err)
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": notificationsDLX,
	})
	if err != nil {
		return "", fmt.Errorf("failed to declare notifications queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, serviceID, NotificationsExchange, false, nil); err != nil {
		return "", fmt.Errorf("failed to bind notifications queue: %w", err)
	}
	return q.Name, nil
}

type amqpConnection struct {
	conn   *amqp.Connection
	mu     sync.RWMutex
	closed bool
}

func Connect(cfg config.RabbitMQConfig) (Connection, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/",
		cfg.User, cfg.Password, cfg.Host, cfg.Port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return &amqpConnection{conn: conn}, nil
}

func (c *amqpConnection) Channel() (Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("connection is closed")
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return &amqpChannel{Channel: ch}, nil
}

func (c *amqpConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn.Close()
	}
	return nil
}

func (c *amqpConnection) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed || c.conn.IsClosed()
}

// amqpChannel embeds *amqp.Channel and adapts the few methods whose
// signatures differ from Channel.
type amqpChannel struct {
	*amqp.Channel
}

func (ch *amqpChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (Queue, error) {
	q, err := ch.Channel.QueueDeclare(name, durable, autoDelete, exclusive, noWait, args)
	if err != nil {
		return Queue{}, err
	}
	return Queue{Name: q.Name, Messages: q.Messages, Consumers: q.Consumers}, nil
}

func (ch *amqpChannel) NotifyReturn() <-chan amqp.Return {
	return ch.Channel.NotifyReturn(make(chan amqp.Return, 1))
}

func (ch *amqpChannel) PublishWithConfirm(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (Confirmation, error) {
	confirm, err := ch.Channel.PublishWithDeferredConfirmWithContext(ctx, exchange, key, mandatory, immediate, msg)
	if err != nil {
		return nil, err
	}
	if confirm == nil {
		return nil, fmt.Errorf("channel is not in confirm mode")
	}
	return confirm, nil
}

func (ch *amqpChannel) NotifyClose() <-chan *amqp.Error {
	return ch.Channel.NotifyClose(make(chan *amqp.Error, 1))
}
