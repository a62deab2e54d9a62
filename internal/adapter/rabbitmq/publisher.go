package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

const confirmTimeout = 10 * time.Second

// publisher is the storefront side of the notification channel. The routing
// key is the service id, so each delivery service gets its own queue.
// Publishes are mandatory and confirmed: Send only returns nil once the
// broker has queued the message.
type publisher struct {
	conn Connection
	now  func() time.Time
}

func NewPublisher(conn Connection) interfaces.NotificationChannel {
	return &publisher{conn: conn, now: time.Now}
}

func (p *publisher) Send(ctx context.Context, serviceID, templateID string, params map[string]string) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if _, err := DeclareNotificationTopology(ch, serviceID); err != nil {
		return err
	}

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}
	returns := ch.NotifyReturn()

	body, err := json.Marshal(interfaces.ConfirmationMessage{
		ServiceID:  serviceID,
		TemplateID: templateID,
		Params:     params,
		SentAt:     p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	confirm, err := ch.PublishWithConfirm(ctx, NotificationsExchange, serviceID, true, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("no publisher confirm: %w", err)
	}
	if !acked {
		return fmt.Errorf("broker rejected message for %s", serviceID)
	}

	// the broker sends basic.return before the ack of an unroutable message
	select {
	case ret := <-returns:
		return fmt.Errorf("message for %s was not routed: %d %s", ret.RoutingKey, ret.ReplyCode, ret.ReplyText)
	default:
	}
	return nil
}
