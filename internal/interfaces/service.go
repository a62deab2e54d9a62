package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

type CatalogService interface {
	Sections(filter string) ([]CatalogSection, error)
	Reconcile(ctx context.Context) error
}

type AdminService interface {
	Authorize(passphrase string) bool
	Products() []AdminCard
	Create(ctx context.Context, form domain.ProductForm) (string, error)
	Edit(ctx context.Context, id, price, promo string) error
	ToggleStock(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type OrderService interface {
	Current() OrderView
	SelectProduct(id string) (OrderView, error)
	ConfirmTerms(accept bool) (OrderView, error)
	SubmitDate(raw string) (OrderView, error)
	SelectTime(slot string) (OrderView, error)
	SubmitName(ctx context.Context, name string) (*Notice, error)
	Cancel() OrderView
}

type NoticeBoard interface {
	Live() []Notice
}

// Catalog presenter output
type CatalogSection struct {
	Key   domain.Category `json:"key"`
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Cards []ProductCard   `json:"cards"`
}

type ProductCard struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Size              string `json:"size"`
	Description       string `json:"description"`
	Image             string `json:"image"`
	Price             string `json:"price"`
	OriginalPrice     string `json:"original_price,omitempty"`
	ShowOriginalPrice bool   `json:"show_original_price"`
	PromoBadge        bool   `json:"promo_badge"`
	OutOfStock        bool   `json:"out_of_stock"`
	CanOrder          bool   `json:"can_order"`
	ActionLabel       string `json:"action_label"`
}

// Admin presenter output
type AdminCard struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Size          string          `json:"size"`
	Image         string          `json:"image"`
	Category      domain.Category `json:"category"`
	CategoryLabel string          `json:"category_label"`
	PriceText     string          `json:"price_text"`
	InStock       bool            `json:"in_stock"`
	StockLabel    string          `json:"stock_label"`
	Actions       []AdminAction   `json:"actions"`
}

type AdminActionKind string

const (
	AdminActionToggleStock AdminActionKind = "toggle_stock"
	AdminActionEdit        AdminActionKind = "edit"
	AdminActionDelete      AdminActionKind = "delete"
)

type AdminAction struct {
	Kind      AdminActionKind `json:"kind"`
	ProductID string          `json:"product_id"`
	Label     string          `json:"label"`
}

// Order flow output
type OrderView struct {
	Step        domain.OrderStep `json:"step"`
	ProductID   string           `json:"product_id,omitempty"`
	ProductName string           `json:"product_name,omitempty"`
	Price       string           `json:"price,omitempty"`
	Terms       string           `json:"terms,omitempty"`
	MinDate     string           `json:"min_date,omitempty"`
	Date        string           `json:"date,omitempty"`
	TimeTitle   string           `json:"time_title,omitempty"`
	TimeSlots   []string         `json:"time_slots,omitempty"`
	Time        string           `json:"time,omitempty"`
}

type NoticeKind string

const (
	NoticeAcknowledgment NoticeKind = "acknowledgment"
	NoticeError          NoticeKind = "error"
)

type Notice struct {
	ID        string     `json:"id"`
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}
