package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// NotificationHandler is the subscriber end of the notification channel: it
// hands every confirmation message to the delivery backend.
type NotificationHandler struct {
	delivery interfaces.NotificationChannel
	logger   logger.Logger
}

func NewNotificationHandler(delivery interfaces.NotificationChannel, logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		delivery: delivery,
		logger:   logger,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var msg interfaces.ConfirmationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse confirmation message", "", nil, err)
		return err
	}

	h.logger.Debug("notification_received", fmt.Sprintf("Received confirmation for %s", msg.Params["user_name"]), "",
		map[string]interface{}{
			"service_id":  msg.ServiceID,
			"template_id": msg.TemplateID,
		})

	if err := h.delivery.Send(ctx, msg.ServiceID, msg.TemplateID, msg.Params); err != nil {
		h.logger.Error("notification_delivery_failed", "Failed to deliver confirmation", "", map[string]interface{}{
			"template_id": msg.TemplateID,
		}, err)
		return err
	}

	h.logger.Info("notification_delivered", "Confirmation delivered", "", map[string]interface{}{
		"template_id": msg.TemplateID,
	})
	return nil
}
