package catalog

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// Gate compares a shared passphrase in plain text. It is a usability gate,
// not an access-control mechanism.
type Gate struct {
	passphrase string
}

func NewGate(passphrase string) Gate {
	return Gate{passphrase: passphrase}
}

func (g Gate) Allows(candidate string) bool {
	return candidate != "" && candidate == g.passphrase
}

// PresentAdmin renders every product, filter-independent, with its actions
func PresentAdmin(products []domain.Product) []interfaces.AdminCard {
	cards := make([]interfaces.AdminCard, 0, len(products))
	for _, p := range products {
		info, _ := domain.LookupCategory(p.Category)

		priceText := p.PriceOriginal.StringFixed(2) + "$"
		if p.HasPromo {
			priceText += " → " + domain.FormatPrice(p.PricePromo)
		}

		stockLabel, toggleLabel := "In stock", "Mark out of stock"
		if !p.InStock {
			stockLabel, toggleLabel = "Out of stock", "Back in stock"
		}

		cards = append(cards, interfaces.AdminCard{
			ID:            p.ID,
			Name:          p.Name,
			Size:          p.Size,
			Image:         p.Image,
			Category:      p.Category,
			CategoryLabel: info.Icon + " " + info.Name,
			PriceText:     priceText,
			InStock:       p.InStock,
			StockLabel:    stockLabel,
			Actions: []interfaces.AdminAction{
				{Kind: interfaces.AdminActionToggleStock, ProductID: p.ID, Label: toggleLabel},
				{Kind: interfaces.AdminActionEdit, ProductID: p.ID, Label: "Edit"},
				{Kind: interfaces.AdminActionDelete, ProductID: p.ID, Label: "Delete"},
			},
		})
	}
	return cards
}

// AdminService applies catalog mutations. Every successful write is followed
// by a full reconcile; failed writes leave the snapshot untouched.
type AdminService struct {
	store      interfaces.CatalogStore
	collection string
	model      *Model
	gate       Gate
	logger     logger.Logger
}

func NewAdminService(store interfaces.CatalogStore, collection string, model *Model, gate Gate, logger logger.Logger) *AdminService {
	return &AdminService{
		store:      store,
		collection: collection,
		model:      model,
		gate:       gate,
		logger:     logger,
	}
}

func (s *AdminService) Authorize(passphrase string) bool {
	return s.gate.Allows(passphrase)
}

func (s *AdminService) Products() []interfaces.AdminCard {
	return PresentAdmin(s.model.State().Snapshot())
}

func (s *AdminService) Create(ctx context.Context, form domain.ProductForm) (string, error) {
	product, err := domain.NewProduct(form)
	if err != nil {
		return "", err
	}

	id, err := s.store.Create(ctx, s.collection, encodeProduct(*product))
	if err != nil {
		s.logger.Error("product_create_failed", "Failed to create product", "", map[string]interface{}{
			"name": product.Name,
		}, err)
		return "", err
	}

	s.logger.Info("product_created", fmt.Sprintf("Product %s created", product.Name), "", map[string]interface{}{
		"id":       id,
		"category": product.Category,
	})
	return id, s.reconcile(ctx)
}

func (s *AdminService) Edit(ctx context.Context, id, price, promo string) error {
	product, ok := s.model.FindByID(id)
	if !ok {
		return domain.ErrProductNotFound
	}

	updated := product.Reprice(price, promo)
	if err := s.store.Update(ctx, s.collection, id, pricePatch(updated)); err != nil {
		s.logger.Error("product_update_failed", "Failed to update product price", "", map[string]interface{}{
			"id": id,
		}, err)
		return err
	}

	s.logger.Info("product_repriced", "Product price updated", "", map[string]interface{}{
		"id":        id,
		"price":     updated.PriceOriginal.StringFixed(2),
		"has_promo": updated.HasPromo,
	})
	return s.reconcile(ctx)
}

// ToggleStock flips the stock flag and returns the new value
func (s *AdminService) ToggleStock(ctx context.Context, id string) (bool, error) {
	product, ok := s.model.FindByID(id)
	if !ok {
		return false, domain.ErrProductNotFound
	}

	inStock := !product.InStock
	if err := s.store.Update(ctx, s.collection, id, map[string]any{fieldInStock: inStock}); err != nil {
		s.logger.Error("stock_update_failed", "Failed to update stock", "", map[string]interface{}{
			"id": id,
		}, err)
		return product.InStock, err
	}

	s.logger.Info("stock_updated", "Product stock updated", "", map[string]interface{}{
		"id":       id,
		"in_stock": inStock,
	})
	return inStock, s.reconcile(ctx)
}

func (s *AdminService) Delete(ctx context.Context, id string) error {
	product, ok := s.model.FindByID(id)
	if !ok {
		return domain.ErrProductNotFound
	}

	if err := s.store.Delete(ctx, s.collection, id); err != nil {
		s.logger.Error("product_delete_failed", "Failed to delete product", "", map[string]interface{}{
			"id": id,
		}, err)
		return err
	}

	s.logger.Info("product_deleted", fmt.Sprintf("Product %s deleted", product.Name), "", map[string]interface{}{
		"id": id,
	})
	return s.reconcile(ctx)
}

// reconcile reports a failed reload separately from the write that preceded it
func (s *AdminService) reconcile(ctx context.Context) error {
	if err := s.model.Reconcile(ctx); err != nil {
		return fmt.Errorf("write applied but reload failed: %w", err)
	}
	return nil
}
