package catalog

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// Field names of a product document in the catalog collection
const (
	fieldName          = "name"
	fieldCategory      = "category"
	fieldSize          = "size"
	fieldImage         = "image"
	fieldDescription   = "description"
	fieldPriceOriginal = "priceOriginal"
	fieldPricePromo    = "pricePromo"
	fieldHasPromo      = "hasPromo"
	fieldInStock       = "inStock"
)

// productDocument mirrors the stored fields. Pointers tell absent fields apart.
type productDocument struct {
	Name          string   `doc:"name"`
	Category      string   `doc:"category"`
	Size          string   `doc:"size"`
	Image         string   `doc:"image"`
	Description   string   `doc:"description"`
	PriceOriginal float64  `doc:"priceOriginal"`
	PricePromo    *float64 `doc:"pricePromo"`
	HasPromo      bool     `doc:"hasPromo"`
	InStock       *bool    `doc:"inStock"`
}

// decodeProduct applies the load defaults. A document with malformed fields
// still yields a product, marked out of stock, alongside the decode error.
func decodeProduct(d interfaces.Document) (domain.Product, error) {
	var doc productDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "doc",
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return domain.Product{ID: d.ID, Category: domain.DefaultCategory}, err
	}
	// mapstructure keeps decoding the remaining fields after a bad one
	decodeErr := decoder.Decode(d.Fields)

	p := domain.Product{
		ID:            d.ID,
		Name:          doc.Name,
		Description:   doc.Description,
		Size:          doc.Size,
		Image:         doc.Image,
		Category:      domain.ParseCategory(doc.Category),
		PriceOriginal: money(doc.PriceOriginal),
		PricePromo:    money(doc.PriceOriginal),
		HasPromo:      doc.HasPromo,
		InStock:       true,
	}
	if doc.PricePromo != nil {
		p.PricePromo = money(*doc.PricePromo)
	}
	if doc.InStock != nil {
		p.InStock = *doc.InStock
	}
	// stored flags are not trusted over the promo rule
	if p.HasPromo && !p.PricePromo.LessThan(p.PriceOriginal) {
		p.HasPromo = false
	}
	if decodeErr != nil {
		// keep it listed for the admin but not orderable at a guessed price
		p.InStock = false
		return p, fmt.Errorf("document %s: %w", d.ID, decodeErr)
	}
	return p, nil
}

func encodeProduct(p domain.Product) map[string]any {
	return map[string]any{
		fieldName:          p.Name,
		fieldCategory:      string(p.Category),
		fieldSize:          p.Size,
		fieldImage:         p.Image,
		fieldDescription:   p.Description,
		fieldPriceOriginal: p.PriceOriginal.InexactFloat64(),
		fieldPricePromo:    p.PricePromo.InexactFloat64(),
		fieldHasPromo:      p.HasPromo,
		fieldInStock:       p.InStock,
	}
}

func pricePatch(p domain.Product) map[string]any {
	return map[string]any{
		fieldPriceOriginal: p.PriceOriginal.InexactFloat64(),
		fieldPricePromo:    p.PricePromo.InexactFloat64(),
		fieldHasPromo:      p.HasPromo,
	}
}

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}
