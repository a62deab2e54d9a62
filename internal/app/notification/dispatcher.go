package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

const sendFailedMessage = "Error sending the e-mail notification. Please inform the administrator."

type Config struct {
	ServiceID      string
	TemplateID     string
	PickupLocation string
	DateLayout     string
	Workers        int
}

// Dispatcher posts the local acknowledgment and sends the confirmation
// through the external channel without waiting for it. A failed send is
// neither retried nor rolled back; it only posts an error notice.
type Dispatcher struct {
	channel interfaces.NotificationChannel
	board   *Board
	pool    *ants.Pool
	cfg     Config
	logger  logger.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(channel interfaces.NotificationChannel, board *Board, cfg Config, logger logger.Logger) (*Dispatcher, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create send pool: %w", err)
	}
	return &Dispatcher{
		channel: channel,
		board:   board,
		pool:    pool,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, order domain.PlacedOrder) interfaces.Notice {
	date := order.Date.Format(d.cfg.DateLayout)
	ack := d.board.Post(interfaces.NoticeAcknowledgment, fmt.Sprintf(
		"Thank you for ordering, %s! See you on %s at %s at locker %s.",
		order.CustomerName, date, order.Time, d.cfg.PickupLocation,
	))

	params := d.Params(order)
	sendCtx := context.WithoutCancel(ctx)

	d.wg.Add(1)
	if err := d.pool.Submit(func() {
		defer d.wg.Done()
		d.send(sendCtx, params)
	}); err != nil {
		d.wg.Done()
		d.fail(params, err)
	}
	return ack
}

// Params builds the structured message for the notification template
func (d *Dispatcher) Params(order domain.PlacedOrder) map[string]string {
	return map[string]string{
		"user_name":     order.CustomerName,
		"delivery_date": order.Date.Format(d.cfg.DateLayout),
		"delivery_time": order.Time,
		"product_name":  order.Product.Name,
		"price":         order.Product.EffectivePrice().StringFixed(2),
		"casier":        d.cfg.PickupLocation,
	}
}

func (d *Dispatcher) send(ctx context.Context, params map[string]string) {
	start := time.Now()
	if err := d.channel.Send(ctx, d.cfg.ServiceID, d.cfg.TemplateID, params); err != nil {
		d.fail(params, err)
		return
	}
	d.logger.Info("notification_sent", "Order confirmation sent", "", map[string]interface{}{
		"product":     params["product_name"],
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

func (d *Dispatcher) fail(params map[string]string, err error) {
	d.logger.Error("notification_send_failed", "Failed to send order confirmation", "", map[string]interface{}{
		"product": params["product_name"],
		"date":    params["delivery_date"],
		"time":    params["delivery_time"],
	}, fmt.Errorf("%w: %v", domain.ErrNotificationSend, err))
	d.board.Post(interfaces.NoticeError, sendFailedMessage)
}

// Wait blocks until every submitted send has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) Close() {
	d.wg.Wait()
	d.pool.Release()
}
