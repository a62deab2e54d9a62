package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item as loaded from the catalog store
type Product struct {
	ID            string
	Name          string
	Description   string
	Size          string
	Image         string
	Category      Category
	PriceOriginal decimal.Decimal
	PricePromo    decimal.Decimal
	HasPromo      bool
	InStock       bool
}

// EffectivePrice returns the price actually charged for the product
func (p Product) EffectivePrice() decimal.Decimal {
	if p.HasPromo {
		return p.PricePromo
	}
	return p.PriceOriginal
}

// ResolvePromo applies the promotion rule. A promo is active only when one was
// supplied, is non-zero and is strictly below the original price. The stored
// promo price falls back to the original price when no promo was supplied.
func ResolvePromo(original decimal.Decimal, promo *decimal.Decimal) (decimal.Decimal, bool) {
	if promo == nil || promo.IsZero() {
		return original, false
	}
	return *promo, promo.LessThan(original)
}

// ProductForm carries the raw admin input used to create a product
type ProductForm struct {
	Name        string
	Category    string
	Size        string
	Price       string
	Promo       string
	Image       string
	Description string
}

// NewProduct validates the form and builds an in-stock product without an ID.
// The store assigns the ID on creation.
func NewProduct(form ProductForm) (*Product, error) {
	name := strings.TrimSpace(form.Name)
	size := strings.TrimSpace(form.Size)
	image := strings.TrimSpace(form.Image)
	description := strings.TrimSpace(form.Description)
	category := Category(strings.TrimSpace(form.Category))

	if name == "" || size == "" || image == "" || description == "" || category == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	price, ok := ParsePrice(form.Price)
	if !ok || !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be a positive number", ErrValidation)
	}

	var promo *decimal.Decimal
	if p, ok := ParsePrice(form.Promo); ok {
		promo = &p
	}
	pricePromo, hasPromo := ResolvePromo(price, promo)

	return &Product{
		Name:          name,
		Description:   description,
		Size:          size,
		Image:         image,
		Category:      category,
		PriceOriginal: price,
		PricePromo:    pricePromo,
		HasPromo:      hasPromo,
		InStock:       true,
	}, nil
}

// Reprice applies an admin price edit. A blank price keeps the current
// original price; a blank promo clears the promotion.
func (p Product) Reprice(rawPrice, rawPromo string) Product {
	original := p.PriceOriginal
	if price, ok := ParsePrice(rawPrice); ok && !price.IsZero() {
		original = price
	}

	var promo *decimal.Decimal
	if v, ok := ParsePrice(rawPromo); ok {
		promo = &v
	}

	p.PriceOriginal = original
	p.PricePromo, p.HasPromo = ResolvePromo(original, promo)
	return p
}

// ParsePrice parses a decimal amount; false means blank or unparseable
func ParsePrice(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// FormatPrice renders an amount the way the storefront shows it, e.g. "2.00 $"
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2) + " $"
}
