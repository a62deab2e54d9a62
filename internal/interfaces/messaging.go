package interfaces

import (
	"context"
	"time"
)

// ConfirmationMessage is what travels over the notification channel
type ConfirmationMessage struct {
	ServiceID  string            `json:"service_id"`
	TemplateID string            `json:"template_id"`
	Params     map[string]string `json:"params"`
	SentAt     time.Time         `json:"sent_at"`
}

// NotificationChannel delivers a templated message; it never retries
type NotificationChannel interface {
	Send(ctx context.Context, serviceID, templateID string, params map[string]string) error
}

type MessageConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, body []byte) error
