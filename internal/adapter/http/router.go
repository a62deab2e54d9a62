package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
)

type Handlers struct {
	Catalog *CatalogHandler
	Admin   *AdminHandler
	Order   *OrderHandler
	Notices *NoticeHandler
}

func NewRouter(h Handlers, logger logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))

	r.Get("/catalog", h.Catalog.GetCatalog)
	r.Get("/categories", h.Catalog.GetCategories)
	r.Post("/catalog/reload", h.Catalog.Reload)

	r.Post("/admin/login", h.Admin.Login)
	r.Route("/admin/products", func(r chi.Router) {
		r.Use(h.Admin.RequireAdmin)
		r.Get("/", h.Admin.ListProducts)
		r.Post("/", h.Admin.CreateProduct)
		r.Patch("/{id}", h.Admin.EditProduct)
		r.Post("/{id}/stock", h.Admin.ToggleStock)
		r.Delete("/{id}", h.Admin.DeleteProduct)
	})

	r.Route("/order", func(r chi.Router) {
		r.Get("/", h.Order.GetOrder)
		r.Post("/start", h.Order.Start)
		r.Post("/terms", h.Order.Terms)
		r.Post("/date", h.Order.Date)
		r.Post("/time", h.Order.Time)
		r.Post("/name", h.Order.Name)
		r.Post("/cancel", h.Order.Cancel)
	})

	r.Get("/notices", h.Notices.GetNotices)
	return r
}
