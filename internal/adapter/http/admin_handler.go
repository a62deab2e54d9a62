package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

const passphraseHeader = "X-Admin-Passphrase"

type AdminHandler struct {
	service interfaces.AdminService
	logger  logger.Logger
}

func NewAdminHandler(service interfaces.AdminService, logger logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

type LoginRequest struct {
	Passphrase string `json:"passphrase"`
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Size        string `json:"size"`
	Price       string `json:"price"`
	Promo       string `json:"promo"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

type EditProductRequest struct {
	Price string `json:"price"`
	Promo string `json:"promo"`
}

// Login checks the passphrase. An empty passphrase is ignored.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Passphrase == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if !h.service.Authorize(req.Passphrase) {
		h.logger.Info("admin_login_rejected", "Wrong admin passphrase", middleware.GetReqID(r.Context()), nil)
		respondError(w, "Wrong passphrase", http.StatusUnauthorized, nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"authorized": true})
}

// RequireAdmin guards the admin routes with the passphrase header
func (h *AdminHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passphrase := r.Header.Get(passphraseHeader)
		if passphrase == "" {
			respondError(w, "Admin passphrase required", http.StatusUnauthorized, nil)
			return
		}
		if !h.service.Authorize(passphrase) {
			respondError(w, "Wrong passphrase", http.StatusForbidden, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Products())
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if validationErrors := validateCreateProductRequest(req); len(validationErrors) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	id, err := h.service.Create(r.Context(), domain.ProductForm{
		Name:        req.Name,
		Category:    req.Category,
		Size:        req.Size,
		Price:       req.Price,
		Promo:       req.Promo,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		if id != "" {
			h.logger.Error("product_reload_failed", "Product created but catalog not refreshed", middleware.GetReqID(r.Context()), map[string]interface{}{
				"id": id,
			}, err)
		}
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *AdminHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	var req EditProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.service.Edit(r.Context(), chi.URLParam(r, "id"), req.Price, req.Promo); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ToggleStock(w http.ResponseWriter, r *http.Request) {
	inStock, err := h.service.ToggleStock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"in_stock": inStock})
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateCreateProductRequest(req CreateProductRequest) []ValidationError {
	var errors []ValidationError

	required := []struct {
		field string
		value string
	}{
		{"name", req.Name},
		{"category", req.Category},
		{"size", req.Size},
		{"price", req.Price},
		{"image", req.Image},
		{"description", req.Description},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errors = append(errors, ValidationError{
				Field:   f.field,
				Message: f.field + " is required",
			})
		}
	}

	if req.Category != "" && !domain.Category(req.Category).Valid() {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "unknown category",
		})
	}

	if req.Price != "" {
		if _, ok := domain.ParsePrice(req.Price); !ok {
			errors = append(errors, ValidationError{
				Field:   "price",
				Message: "price must be a positive number",
			})
		}
	}

	return errors
}
