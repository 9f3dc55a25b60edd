package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/carevault/practice-server/internal/middleware"
	"github.com/carevault/practice-server/internal/models"
	"github.com/carevault/practice-server/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Catalog returns the active lab-test catalog; public browsing surface
func (h *OrderHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	tests, err := h.orderService.ListCatalog(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, "list_catalog", err)
		return
	}

	writeJSON(w, http.StatusOK, tests)
}

// Checkout flushes the client-held cart into an order plus items
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.Checkout(r.Context(), actor.Caps, &req)
	if err != nil {
		writeServiceError(w, "checkout", err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// ListForCustomer returns a customer's orders
func (h *OrderHandler) ListForCustomer(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	customerID, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}

	orders, err := h.orderService.ListForCustomer(r.Context(), actor.Caps, customerID)
	if err != nil {
		writeServiceError(w, "list_orders", err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Advance moves an order through fulfilment
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status models.LabOrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.Advance(r.Context(), actor.Caps, orderID, req.Status)
	if err != nil {
		writeServiceError(w, "advance_order", err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
