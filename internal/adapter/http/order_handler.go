package http

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type StartOrderRequest struct {
	ProductID string `json:"product_id"`
}

type TermsRequest struct {
	Accept bool `json:"accept"`
}

type DateRequest struct {
	Date string `json:"date"`
}

type TimeRequest struct {
	Slot string `json:"slot"`
}

type NameRequest struct {
	Name string `json:"name"`
}

type OrderErrorResponse struct {
	Error string               `json:"error"`
	Order interfaces.OrderView `json:"order"`
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Current())
}

func (h *OrderHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "product_id", Message: "product id is required"},
		})
		return
	}
	view, err := h.service.SelectProduct(req.ProductID)
	h.respondView(w, r, view, err)
}

func (h *OrderHandler) Terms(w http.ResponseWriter, r *http.Request) {
	var req TermsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := h.service.ConfirmTerms(req.Accept)
	h.respondView(w, r, view, err)
}

func (h *OrderHandler) Date(w http.ResponseWriter, r *http.Request) {
	var req DateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := h.service.SubmitDate(req.Date)
	h.respondView(w, r, view, err)
}

func (h *OrderHandler) Time(w http.ResponseWriter, r *http.Request) {
	var req TimeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := h.service.SelectTime(req.Slot)
	h.respondView(w, r, view, err)
}

// Name finalizes the order and returns the acknowledgment notice
func (h *OrderHandler) Name(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	notice, err := h.service.SubmitName(r.Context(), req.Name)
	if err != nil {
		h.respondView(w, r, h.service.Current(), err)
		return
	}
	respondJSON(w, http.StatusCreated, notice)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Cancel())
}

// respondView always includes the current step so the client can re-render
func (h *OrderHandler) respondView(w http.ResponseWriter, r *http.Request, view interfaces.OrderView, err error) {
	if err != nil {
		h.logger.Debug("order_step_rejected", err.Error(), middleware.GetReqID(r.Context()), map[string]interface{}{
			"step": view.Step,
		})
		respondJSON(w, statusFor(err), OrderErrorResponse{Error: err.Error(), Order: view})
		return
	}
	respondJSON(w, http.StatusOK, view)
}
