package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/app/catalog"
	"github.com/YelzhanWeb/storefront/internal/app/notification"
	"github.com/YelzhanWeb/storefront/internal/app/order"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

type memoryStore struct {
	mu   sync.Mutex
	next int
	ids  []string
	docs map[string]map[string]any
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: map[string]map[string]any{}}
}

func (s *memoryStore) List(ctx context.Context, collection string) ([]interfaces.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]interfaces.Document, 0, len(s.ids))
	for _, id := range s.ids {
		fields := map[string]any{}
		for k, v := range s.docs[id] {
			fields[k] = v
		}
		out = append(out, interfaces.Document{ID: id, Fields: fields})
	}
	return out, nil
}

func (s *memoryStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := fmt.Sprintf("p%d", s.next)
	s.ids = append(s.ids, id)
	s.docs[id] = fields
	return id, nil
}

func (s *memoryStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range patch {
		s.docs[id][k] = v
	}
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return nil
}

type sentMessage struct {
	serviceID  string
	templateID string
	params     map[string]string
}

type recordingChannel struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (c *recordingChannel) Send(ctx context.Context, serviceID, templateID string, params map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMessage{serviceID, templateID, params})
	return nil
}

type testServer struct {
	handler    http.Handler
	channel    *recordingChannel
	dispatcher *notification.Dispatcher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.NewNop()
	store := newMemoryStore()

	model := catalog.NewModel(store, "products", catalog.NewState(), log)
	admin := catalog.NewAdminService(store, "products", model, catalog.NewGate("admin123"), log)

	board := notification.NewBoard(6*time.Second, time.Now)
	channel := &recordingChannel{}
	dispatcher, err := notification.NewDispatcher(channel, board, notification.Config{
		ServiceID:      "service_mail",
		TemplateID:     "template_order",
		PickupLocation: "046",
		DateLayout:     "02/01/2006",
		Workers:        1,
	}, log)
	if err != nil {
		t.Fatalf("Expected dispatcher, got: %v", err)
	}
	t.Cleanup(dispatcher.Close)

	orders := order.NewService(model, dispatcher, order.NewDraftState(), order.Config{
		PickupLocation: "046",
		TimeSlots:      []string{"12:00", "12:30"},
		DateLayout:     "02/01/2006",
		Location:       time.Local,
	}, log)

	handler := NewRouter(Handlers{
		Catalog: NewCatalogHandler(catalog.NewService(model), log),
		Admin:   NewAdminHandler(admin, log),
		Order:   NewOrderHandler(orders, log),
		Notices: NewNoticeHandler(board),
	}, log)

	return &testServer{handler: handler, channel: channel, dispatcher: dispatcher}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

var adminHeaders = map[string]string{passphraseHeader: "admin123"}

func TestStorefront_AdminAddsProductAndCustomerOrders(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/admin/products", CreateProductRequest{
		Name:        "Cola",
		Category:    "beverages",
		Size:        "355ml",
		Price:       "2.00",
		Image:       "cola.png",
		Description: "Cold",
	}, adminHeaders)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	json.NewDecoder(rec.Body).Decode(&created)
	id := created["id"]

	rec = srv.do(t, http.MethodGet, "/catalog?filter=all", nil, nil)
	var sections []interfaces.CatalogSection
	if err := json.NewDecoder(rec.Body).Decode(&sections); err != nil {
		t.Fatalf("Expected sections, got: %v", err)
	}
	if len(sections) != 1 || sections[0].Name != "Beverages" || len(sections[0].Cards) != 1 {
		t.Fatalf("Expected one Beverages section with one card, got %+v", sections)
	}
	card := sections[0].Cards[0]
	if card.Price != "2.00 $" || card.PromoBadge || card.ShowOriginalPrice || !card.CanOrder {
		t.Errorf("Unexpected card: %+v", card)
	}

	pickup := time.Now().AddDate(0, 0, 3)
	steps := []struct {
		path string
		body any
	}{
		{"/order/start", StartOrderRequest{ProductID: id}},
		{"/order/terms", TermsRequest{Accept: true}},
		{"/order/date", DateRequest{Date: pickup.Format("2006-01-02")}},
		{"/order/time", TimeRequest{Slot: "12:30"}},
	}
	for _, step := range steps {
		rec = srv.do(t, http.MethodPost, step.path, step.body, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200 from %s, got %d: %s", step.path, rec.Code, rec.Body.String())
		}
	}

	rec = srv.do(t, http.MethodPost, "/order/name", NameRequest{Name: "Alex"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	srv.dispatcher.Wait()

	if len(srv.channel.sent) != 1 {
		t.Fatalf("Expected 1 send, got %d", len(srv.channel.sent))
	}
	params := srv.channel.sent[0].params
	if params["price"] != "2.00" || params["user_name"] != "Alex" || params["casier"] != "046" {
		t.Errorf("Unexpected params: %+v", params)
	}
	if params["delivery_date"] != pickup.Format("02/01/2006") || params["delivery_time"] != "12:30" {
		t.Errorf("Unexpected pickup params: %+v", params)
	}

	rec = srv.do(t, http.MethodGet, "/notices", nil, nil)
	var notices []interfaces.Notice
	json.NewDecoder(rec.Body).Decode(&notices)
	if len(notices) != 1 || notices[0].Kind != interfaces.NoticeAcknowledgment {
		t.Fatalf("Expected one acknowledgment, got %+v", notices)
	}
	for _, want := range []string{"Alex", pickup.Format("02/01/2006"), "12:30", "046"} {
		if !strings.Contains(notices[0].Message, want) {
			t.Errorf("Expected acknowledgment to mention %q, got %q", want, notices[0].Message)
		}
	}
}

func TestStorefront_AdminGate(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"wrong", map[string]string{passphraseHeader: "nope"}, http.StatusForbidden},
		{"correct", adminHeaders, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, "/admin/products", nil, tt.headers)
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestStorefront_Login(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		passphrase string
		want       int
	}{
		{"", http.StatusNoContent},
		{"nope", http.StatusUnauthorized},
		{"admin123", http.StatusOK},
	}
	for _, tt := range tests {
		rec := srv.do(t, http.MethodPost, "/admin/login", LoginRequest{Passphrase: tt.passphrase}, nil)
		if rec.Code != tt.want {
			t.Errorf("Passphrase %q: expected %d, got %d", tt.passphrase, tt.want, rec.Code)
		}
	}
}

func TestStorefront_OutOfStockCannotBeOrdered(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/admin/products", CreateProductRequest{
		Name: "Chips", Category: "snacks", Size: "45g", Price: "1.50", Promo: "1.20",
		Image: "images/chips.png", Description: "Salted",
	}, adminHeaders)
	var created map[string]string
	json.NewDecoder(rec.Body).Decode(&created)

	rec = srv.do(t, http.MethodPost, "/admin/products/"+created["id"]+"/stock", nil, adminHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodGet, "/catalog?filter=snacks", nil, nil)
	var sections []interfaces.CatalogSection
	json.NewDecoder(rec.Body).Decode(&sections)
	card := sections[0].Cards[0]
	if card.CanOrder || card.PromoBadge || card.Price != "1.20 $" {
		t.Errorf("Expected out-of-stock card without badge, got %+v", card)
	}

	rec = srv.do(t, http.MethodPost, "/order/start", StartOrderRequest{ProductID: created["id"]}, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rec.Code)
	}
}

func TestStorefront_InvalidRequests(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/admin/products", CreateProductRequest{Name: "Cola"}, adminHeaders)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for incomplete form, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/catalog?filter=toys", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown filter, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPost, "/order/time", TimeRequest{Slot: "12:00"}, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 without a draft, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodDelete, "/admin/products/ghost", nil, adminHeaders)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
