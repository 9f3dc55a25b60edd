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

type LeaveHandler struct {
	leaveService *services.LeaveService
}

func NewLeaveHandler(leaveService *services.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

// Request creates a leave request in Pending status
func (h *LeaveHandler) Request(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	var req models.RequestLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	leave, err := h.leaveService.Request(r.Context(), actor.Caps, &req)
	if err != nil {
		writeServiceError(w, "request_leave", err)
		return
	}

	writeJSON(w, http.StatusCreated, leave)
}

// Cancel cancels a Pending leave request
func (h *LeaveHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	leaveID, err := uuid.Parse(chi.URLParam(r, "leaveID"))
	if err != nil {
		http.Error(w, "Invalid leave ID", http.StatusBadRequest)
		return
	}

	leave, err := h.leaveService.Cancel(r.Context(), actor.Caps, leaveID)
	if err != nil {
		writeServiceError(w, "cancel_leave", err)
		return
	}

	writeJSON(w, http.StatusOK, leave)
}

// List returns the acting doctor's leave requests
func (h *LeaveHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	leaves, err := h.leaveService.List(r.Context(), actor.Caps)
	if err != nil {
		writeServiceError(w, "list_leaves", err)
		return
	}

	writeJSON(w, http.StatusOK, leaves)
}
