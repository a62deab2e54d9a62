package order

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

type ProductFinder interface {
	FindByID(id string) (domain.Product, bool)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, order domain.PlacedOrder) interfaces.Notice
}

// DraftState holds the single process-wide order draft. Starting a new order
// overwrites whatever draft was open.
type DraftState struct {
	mu    sync.Mutex
	draft *domain.OrderDraft
}

func NewDraftState() *DraftState {
	return &DraftState{}
}

type Config struct {
	PickupLocation string
	TimeSlots      []string
	DateLayout     string
	Location       *time.Location
}

type Service struct {
	catalog    ProductFinder
	dispatcher Dispatcher
	state      *DraftState
	cfg        Config
	now        func() time.Time
	logger     logger.Logger
}

func NewService(catalog ProductFinder, dispatcher Dispatcher, state *DraftState, cfg Config, logger logger.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Service{
		catalog:    catalog,
		dispatcher: dispatcher,
		state:      state,
		cfg:        cfg,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *Service) Current() interfaces.OrderView {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.view(s.state.draft)
}

// SelectProduct starts a draft for an in-stock product and asks for the
// pickup terms to be acknowledged
func (s *Service) SelectProduct(id string) (interfaces.OrderView, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	product, ok := s.catalog.FindByID(id)
	if !ok {
		s.logger.Debug("order_rejected", "Product not in catalog", "", map[string]interface{}{"product_id": id})
		return s.view(s.state.draft), fmt.Errorf("%w: %s", domain.ErrUnavailableProduct, id)
	}

	draft, err := domain.NewOrderDraft(product, s.now())
	if err != nil {
		s.logger.Debug("order_rejected", "Product out of stock", "", map[string]interface{}{"product_id": id})
		return s.view(s.state.draft), fmt.Errorf("%w: %s", err, product.Name)
	}

	if s.state.draft != nil {
		s.logger.Debug("order_overwritten", "Open draft replaced by a new order", "", map[string]interface{}{
			"previous_product": s.state.draft.Product.ID,
		})
	}
	s.state.draft = draft

	s.logger.Info("order_started", fmt.Sprintf("Order started for %s", product.Name), "", map[string]interface{}{
		"product_id": product.ID,
		"price":      product.EffectivePrice().StringFixed(2),
	})
	return s.view(draft), nil
}

// ConfirmTerms accepts or declines the cash-on-pickup terms
func (s *Service) ConfirmTerms(accept bool) (interfaces.OrderView, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	draft, err := s.draftAt(domain.StepAwaitingDateConfirmation)
	if err != nil {
		return s.view(s.state.draft), err
	}

	if !accept {
		s.discardLocked("terms_declined")
		return s.view(nil), nil
	}
	if err := draft.TransitionTo(domain.StepAwaitingDate); err != nil {
		return s.view(draft), err
	}
	return s.view(draft), nil
}

func (s *Service) SubmitDate(raw string) (interfaces.OrderView, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	draft, err := s.draftAt(domain.StepAwaitingDate)
	if err != nil {
		return s.view(s.state.draft), err
	}

	date, err := s.parseDate(raw)
	if err != nil {
		return s.view(draft), err
	}

	draft.Date = date
	if err := draft.TransitionTo(domain.StepAwaitingTime); err != nil {
		return s.view(draft), err
	}
	return s.view(draft), nil
}

func (s *Service) SelectTime(slot string) (interfaces.OrderView, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	draft, err := s.draftAt(domain.StepAwaitingTime)
	if err != nil {
		return s.view(s.state.draft), err
	}

	slot = strings.TrimSpace(slot)
	if !s.offers(slot) {
		return s.view(draft), fmt.Errorf("%w: time slot %q is not offered", domain.ErrValidation, slot)
	}

	draft.Time = slot
	if err := draft.TransitionTo(domain.StepAwaitingName); err != nil {
		return s.view(draft), err
	}
	return s.view(draft), nil
}

// SubmitName finalizes the order. A blank name abandons the draft.
func (s *Service) SubmitName(ctx context.Context, name string) (*interfaces.Notice, error) {
	s.state.mu.Lock()
	draft, err := s.draftAt(domain.StepAwaitingName)
	if err != nil {
		s.state.mu.Unlock()
		return nil, err
	}

	placed, err := draft.Place(name)
	s.discardLocked("")
	s.state.mu.Unlock()

	if err != nil {
		s.logger.Info("order_abandoned", "Order cancelled, first name is required", "", map[string]interface{}{
			"product_id": draft.Product.ID,
		})
		return nil, fmt.Errorf("%w: order cancelled, first name is required", err)
	}

	s.logger.Info("order_placed", fmt.Sprintf("Order placed by %s", placed.CustomerName), "", map[string]interface{}{
		"product_id": placed.Product.ID,
		"date":       placed.Date.Format(time.DateOnly),
		"time":       placed.Time,
	})

	ack := s.dispatcher.Dispatch(ctx, *placed)
	return &ack, nil
}

func (s *Service) Cancel() interfaces.OrderView {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.discardLocked("order_cancelled")
	return s.view(nil)
}

func (s *Service) draftAt(step domain.OrderStep) (*domain.OrderDraft, error) {
	draft := s.state.draft
	if draft == nil {
		return nil, fmt.Errorf("%w: no order in progress", domain.ErrInvalidTransition)
	}
	if draft.Step != step {
		return nil, fmt.Errorf("%w: order is at %s", domain.ErrInvalidTransition, draft.Step)
	}
	return draft, nil
}

func (s *Service) discardLocked(action string) {
	if s.state.draft != nil && action != "" {
		s.logger.Debug(action, "Order draft discarded", "", map[string]interface{}{
			"product_id": s.state.draft.Product.ID,
			"step":       s.state.draft.Step,
		})
	}
	s.state.draft = nil
}

func (s *Service) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: please select a date", domain.ErrValidation)
	}
	parsed, err := s.parseCalendarDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	date := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, s.cfg.Location)
	if date.Before(s.today()) {
		return time.Time{}, fmt.Errorf("%w: date %s is in the past", domain.ErrValidation, date.Format(time.DateOnly))
	}
	return date, nil
}

// parseCalendarDate accepts ISO and display-layout dates first, then any
// day-first date dateparse understands. A time of day is rejected so the
// picked day never shifts across zones.
func (s *Service) parseCalendarDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, s.cfg.DateLayout} {
		if layout == "" {
			continue
		}
		if t, err := time.ParseInLocation(layout, raw, s.cfg.Location); err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseIn(raw, s.cfg.Location, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrValidation, raw)
	}
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return time.Time{}, fmt.Errorf("%w: %q carries a time of day, pick a date only", domain.ErrValidation, raw)
	}
	return t, nil
}

func (s *Service) today() time.Time {
	return startOfDay(s.now().In(s.cfg.Location))
}

func (s *Service) offers(slot string) bool {
	for _, offered := range s.cfg.TimeSlots {
		if offered == slot {
			return true
		}
	}
	return false
}

func (s *Service) view(draft *domain.OrderDraft) interfaces.OrderView {
	if draft == nil {
		return interfaces.OrderView{Step: domain.StepIdle}
	}

	price := draft.Product.EffectivePrice().StringFixed(2)
	v := interfaces.OrderView{
		Step:        draft.Step,
		ProductID:   draft.Product.ID,
		ProductName: draft.Product.Name,
		Price:       price,
	}

	switch draft.Step {
	case domain.StepAwaitingDateConfirmation:
		v.Terms = fmt.Sprintf(
			"CASH PAYMENT ONLY. No payment on the site. Bring exactly %s $ in cash to locker %s. Continue and choose your date?",
			price, s.cfg.PickupLocation,
		)
	case domain.StepAwaitingDate:
		v.MinDate = s.today().Format(time.DateOnly)
	case domain.StepAwaitingTime:
		v.Date = draft.Date.Format(s.cfg.DateLayout)
		v.TimeTitle = fmt.Sprintf("Choose your time for %s", v.Date)
		v.TimeSlots = append([]string(nil), s.cfg.TimeSlots...)
	case domain.StepAwaitingName:
		v.Date = draft.Date.Format(s.cfg.DateLayout)
		v.Time = draft.Time
	}
	return v
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
