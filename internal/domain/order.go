package domain

import (
	"strings"
	"time"
)

// OrderDraft is the single in-flight pickup order
type OrderDraft struct {
	Step         OrderStep
	Product      *Product
	Date         time.Time
	Time         string
	CustomerName string
	StartedAt    time.Time
}

// PlacedOrder is a draft that passed the name step and is ready for notification
type PlacedOrder struct {
	Product      Product
	Date         time.Time
	Time         string
	CustomerName string
}

// NewOrderDraft starts a draft for an in-stock product
func NewOrderDraft(product Product, now time.Time) (*OrderDraft, error) {
	if !product.InStock {
		return nil, ErrUnavailableProduct
	}
	return &OrderDraft{
		Step:      StepAwaitingDateConfirmation,
		Product:   &product,
		StartedAt: now,
	}, nil
}

// TransitionTo moves the draft to the next step
func (d *OrderDraft) TransitionTo(next OrderStep) error {
	if !d.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	d.Step = next
	return nil
}

// CanTransitionTo checks the linear step order; any step may fall back to idle
func (d *OrderDraft) CanTransitionTo(next OrderStep) bool {
	if next == StepIdle {
		return true
	}
	validTransitions := map[OrderStep]OrderStep{
		StepAwaitingDateConfirmation: StepAwaitingDate,
		StepAwaitingDate:             StepAwaitingTime,
		StepAwaitingTime:             StepAwaitingName,
	}
	allowed, ok := validTransitions[d.Step]
	return ok && allowed == next
}

// Place finalizes the draft with the customer's first name
func (d *OrderDraft) Place(name string) (*PlacedOrder, error) {
	if d.Step != StepAwaitingName {
		return nil, ErrInvalidTransition
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}
	return &PlacedOrder{
		Product:      *d.Product,
		Date:         d.Date,
		Time:         d.Time,
		CustomerName: name,
	}, nil
}
