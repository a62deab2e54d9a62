package catalog

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

func product(id string, cat domain.Category, price, promo string, hasPromo, inStock bool) domain.Product {
	return domain.Product{
		ID:            id,
		Name:          id,
		Category:      cat,
		PriceOriginal: decimal.RequireFromString(price),
		PricePromo:    decimal.RequireFromString(promo),
		HasPromo:      hasPromo,
		InStock:       inStock,
	}
}

func TestPresent_AllKeepsRegistryOrderAndSkipsEmpty(t *testing.T) {
	products := []domain.Product{
		product("bundle", domain.CategoryBundles, "9.00", "9.00", false, true),
		product("gum", domain.CategoryCandy, "1.00", "1.00", false, true),
		product("cola", domain.CategoryBeverages, "2.00", "2.00", false, true),
	}

	sections := Present(products, FilterAll)

	want := []domain.Category{domain.CategoryBeverages, domain.CategoryCandy, domain.CategoryBundles}
	if len(sections) != len(want) {
		t.Fatalf("Expected %d sections, got %d", len(want), len(sections))
	}
	for i, key := range want {
		if sections[i].Key != key {
			t.Errorf("Expected section %d to be %s, got %s", i, key, sections[i].Key)
		}
	}
}

func TestPresent_SingleCategoryFilter(t *testing.T) {
	products := []domain.Product{
		product("cola", domain.CategoryBeverages, "2.00", "2.00", false, true),
		product("chips", domain.CategorySnacks, "1.50", "1.50", false, true),
	}

	sections := Present(products, string(domain.CategorySnacks))
	if len(sections) != 1 || sections[0].Key != domain.CategorySnacks {
		t.Fatalf("Expected only snacks, got %+v", sections)
	}
	if len(sections[0].Cards) != 1 || sections[0].Cards[0].ID != "chips" {
		t.Errorf("Expected chips card, got %+v", sections[0].Cards)
	}

	if empty := Present(products, string(domain.CategoryCandy)); len(empty) != 0 {
		t.Errorf("Expected nothing for empty category, got %d sections", len(empty))
	}
}

func TestPresent_CardFields(t *testing.T) {
	tests := []struct {
		name         string
		p            domain.Product
		wantPrice    string
		wantOriginal bool
		wantCanOrder bool
	}{
		{"promo in stock", product("a", domain.CategorySnacks, "5.00", "3.50", true, true), "3.50 $", true, true},
		{"promo out of stock", product("b", domain.CategorySnacks, "5.00", "3.50", true, false), "3.50 $", false, false},
		{"plain in stock", product("c", domain.CategorySnacks, "5.00", "5.00", false, true), "5.00 $", false, true},
		{"plain out of stock", product("d", domain.CategorySnacks, "5.00", "5.00", false, false), "5.00 $", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := presentCard(tt.p)
			if card.Price != tt.wantPrice {
				t.Errorf("Expected price %s, got %s", tt.wantPrice, card.Price)
			}
			if card.ShowOriginalPrice != tt.wantOriginal || card.PromoBadge != tt.wantOriginal {
				t.Errorf("Expected strikethrough/badge %v, got %v/%v", tt.wantOriginal, card.ShowOriginalPrice, card.PromoBadge)
			}
			if card.CanOrder != tt.wantCanOrder {
				t.Errorf("Expected can order %v, got %v", tt.wantCanOrder, card.CanOrder)
			}
			if card.OutOfStock == tt.p.InStock {
				t.Errorf("Expected stock badge %v, got %v", !tt.p.InStock, card.OutOfStock)
			}
		})
	}
}
