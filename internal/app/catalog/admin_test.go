package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

func newTestAdmin(store *fakeStore) (*AdminService, *Model) {
	model := newTestModel(store)
	return NewAdminService(store, "products", model, NewGate("admin123"), logger.NewNop()), model
}

var colaForm = domain.ProductForm{
	Name:        "Cola",
	Category:    "beverages",
	Size:        "355ml",
	Price:       "2.00",
	Image:       "cola.png",
	Description: "Cold",
}

func TestGate(t *testing.T) {
	gate := NewGate("admin123")
	if !gate.Allows("admin123") {
		t.Error("Expected correct passphrase to pass")
	}
	if gate.Allows("wrong") || gate.Allows("") {
		t.Error("Expected wrong or empty passphrase to fail")
	}
}

func TestAdminService_CreateReconciles(t *testing.T) {
	store := &fakeStore{}
	admin, model := newTestAdmin(store)

	id, err := admin.Create(context.Background(), colaForm)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	p, ok := model.FindByID(id)
	if !ok {
		t.Fatal("Expected created product to be visible after reconcile")
	}
	if p.Category != domain.CategoryBeverages || p.HasPromo || !p.InStock {
		t.Errorf("Unexpected product after create: %+v", p)
	}
}

func TestAdminService_CreateValidationSkipsStore(t *testing.T) {
	store := &fakeStore{}
	admin, _ := newTestAdmin(store)

	form := colaForm
	form.Name = ""
	if _, err := admin.Create(context.Background(), form); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if store.listCalls() != 0 {
		t.Error("Expected no reload after rejected form")
	}
}

func TestAdminService_WriteFailureDoesNotReload(t *testing.T) {
	store := &fakeStore{failWrite: true}
	admin, _ := newTestAdmin(store)

	if _, err := admin.Create(context.Background(), colaForm); !errors.Is(err, domain.ErrStoreWrite) {
		t.Fatalf("Expected write error, got %v", err)
	}
	if store.listCalls() != 0 {
		t.Errorf("Expected no reload after failed write, got %d", store.listCalls())
	}
}

func TestAdminService_ToggleEditDelete(t *testing.T) {
	store := &fakeStore{}
	admin, model := newTestAdmin(store)
	ctx := context.Background()

	id, err := admin.Create(ctx, colaForm)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	inStock, err := admin.ToggleStock(ctx, id)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if inStock {
		t.Error("Expected toggle to mark out of stock")
	}
	if p, _ := model.FindByID(id); p.InStock {
		t.Error("Expected reloaded product to be out of stock")
	}

	if err := admin.Edit(ctx, id, "3.00", "2.50"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	p, _ := model.FindByID(id)
	if !p.HasPromo || p.EffectivePrice().StringFixed(2) != "2.50" {
		t.Errorf("Expected promo 2.50 after edit, got has=%v price=%s", p.HasPromo, p.EffectivePrice())
	}

	if err := admin.Delete(ctx, id); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, ok := model.FindByID(id); ok {
		t.Error("Expected product to be gone after delete")
	}

	if err := admin.Delete(ctx, id); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("Expected not found for deleted product, got %v", err)
	}
}

func TestPresentAdmin(t *testing.T) {
	products := []domain.Product{
		product("promo", domain.CategorySnacks, "5.00", "3.50", true, true),
		product("plain", domain.CategoryCandy, "1.00", "1.00", false, false),
	}

	cards := PresentAdmin(products)
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	if cards[0].PriceText != "5.00$ → 3.50 $" {
		t.Errorf("Expected both prices, got %q", cards[0].PriceText)
	}
	if cards[1].PriceText != "1.00$" {
		t.Errorf("Expected single price, got %q", cards[1].PriceText)
	}

	kinds := []interfaces.AdminActionKind{interfaces.AdminActionToggleStock, interfaces.AdminActionEdit, interfaces.AdminActionDelete}
	for i, kind := range kinds {
		if cards[1].Actions[i].Kind != kind || cards[1].Actions[i].ProductID != "plain" {
			t.Errorf("Expected action %s for plain, got %+v", kind, cards[1].Actions[i])
		}
	}
	if cards[1].Actions[0].Label != "Back in stock" {
		t.Errorf("Expected restock label, got %s", cards[1].Actions[0].Label)
	}
}
