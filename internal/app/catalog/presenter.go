package catalog

import (
	"context"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

const (
	labelAddToOrder  = "Add to order"
	labelUnavailable = "Unavailable"
)

// Present groups products into registry buckets and renders the cards.
// Empty buckets are omitted; "all" keeps registry order.
func Present(products []domain.Product, filter string) []interfaces.CatalogSection {
	buckets := make(map[domain.Category][]domain.Product)
	for _, p := range products {
		buckets[p.Category] = append(buckets[p.Category], p)
	}

	var sections []interfaces.CatalogSection
	for _, info := range domain.Categories() {
		if filter != FilterAll && filter != string(info.Key) {
			continue
		}
		items := buckets[info.Key]
		if len(items) == 0 {
			continue
		}
		section := interfaces.CatalogSection{
			Key:   info.Key,
			Name:  info.Name,
			Icon:  info.Icon,
			Cards: make([]interfaces.ProductCard, 0, len(items)),
		}
		for _, p := range items {
			section.Cards = append(section.Cards, presentCard(p))
		}
		sections = append(sections, section)
	}
	return sections
}

func presentCard(p domain.Product) interfaces.ProductCard {
	card := interfaces.ProductCard{
		ID:          p.ID,
		Name:        p.Name,
		Size:        p.Size,
		Description: p.Description,
		Image:       p.Image,
		Price:       domain.FormatPrice(p.EffectivePrice()),
		OutOfStock:  !p.InStock,
		CanOrder:    p.InStock,
		ActionLabel: labelUnavailable,
	}
	if p.InStock {
		card.ActionLabel = labelAddToOrder
	}
	if p.HasPromo && p.InStock {
		card.ShowOriginalPrice = true
		card.PromoBadge = true
		card.OriginalPrice = domain.FormatPrice(p.PriceOriginal)
	}
	return card
}

// Service serves the read-only catalog
type Service struct {
	model *Model
}

func NewService(model *Model) *Service {
	return &Service{model: model}
}

// Sections applies the filter to the shared state and renders the catalog
func (s *Service) Sections(filter string) ([]interfaces.CatalogSection, error) {
	state := s.model.State()
	if filter != "" {
		if err := state.SetFilter(filter); err != nil {
			return nil, err
		}
	}
	return Present(state.Snapshot(), state.Filter()), nil
}

func (s *Service) Reconcile(ctx context.Context) error {
	return s.model.Reconcile(ctx)
}
