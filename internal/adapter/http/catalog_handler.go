package http

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

type CatalogHandler struct {
	service interfaces.CatalogService
	logger  logger.Logger
}

func NewCatalogHandler(service interfaces.CatalogService, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	sections, err := h.service.Sections(r.URL.Query().Get("filter"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sections)
}

func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.Categories())
}

func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reconcile(r.Context()); err != nil {
		h.logger.Error("catalog_reload_failed", "Manual reload failed", middleware.GetReqID(r.Context()), nil, err)
		respondDomainError(w, err)
		return
	}
	sections, err := h.service.Sections("")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sections)
}
