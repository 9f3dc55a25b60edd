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

type ReferralHandler struct {
	referralService *services.ReferralService
}

func NewReferralHandler(referralService *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// Create creates a referral in pending status
func (h *ReferralHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	var req models.CreateReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ref, err := h.referralService.Create(r.Context(), actor.Caps, &req)
	if err != nil {
		writeServiceError(w, "create_referral", err)
		return
	}

	writeJSON(w, http.StatusCreated, ref)
}

// Update moves a referral to a new status
func (h *ReferralHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	refID, err := uuid.Parse(chi.URLParam(r, "referralID"))
	if err != nil {
		http.Error(w, "Invalid referral ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ref, err := h.referralService.Update(r.Context(), actor.Caps, refID, &req)
	if err != nil {
		writeServiceError(w, "update_referral", err)
		return
	}

	writeJSON(w, http.StatusOK, ref)
}

// ListMadeBy returns referrals the acting doctor created
func (h *ReferralHandler) ListMadeBy(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	refs, err := h.referralService.ListMadeBy(r.Context(), actor.Caps)
	if err != nil {
		writeServiceError(w, "list_referrals", err)
		return
	}

	writeJSON(w, http.StatusOK, refs)
}

// ListAddressedTo returns referrals addressed to the acting doctor
func (h *ReferralHandler) ListAddressedTo(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	refs, err := h.referralService.ListAddressedTo(r.Context(), actor.Caps)
	if err != nil {
		writeServiceError(w, "list_referrals", err)
		return
	}

	writeJSON(w, http.StatusOK, refs)
}
