package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

const reconnectDelay = 5 * time.Second

type consumer struct {
	conn      Connection
	serviceID string
	prefetch  int
	logger    logger.Logger
}

func NewConsumer(conn Connection, serviceID string, prefetch int, logger logger.Logger) interfaces.MessageConsumer {
	return &consumer{conn: conn, serviceID: serviceID, prefetch: prefetch, logger: logger}
}

// ConsumeNotifications blocks until ctx is done, reopening the channel
// whenever the broker drops it.
func (c *consumer) ConsumeNotifications(ctx context.Context, handler interfaces.NotificationHandler) error {
	for {
		err := c.consume(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			return nil
		}

		c.logger.Error("consumer_disconnected", "Notifications consumer disconnected, reconnecting", "", map[string]interface{}{
			"retry_in": reconnectDelay.String(),
		}, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *consumer) consume(ctx context.Context, handler interfaces.NotificationHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	queue, err := DeclareNotificationTopology(ch, c.serviceID)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}
			settle(ctx, msg, handler)
		}
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// settle acks a handled message. Failed sends go to the dead letter queue;
// the channel never retries.
func settle(ctx context.Context, msg amqp.Delivery, handler interfaces.NotificationHandler) {
	settleWith(ctx, msg.Body, &msg, handler)
}

func settleWith(ctx context.Context, body []byte, ack acknowledger, handler interfaces.NotificationHandler) {
	if err := handler(ctx, body); err != nil {
		_ = ack.Nack(false, false)
		return
	}
	_ = ack.Ack(false)
}
