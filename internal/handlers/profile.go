package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/carevault/practice-server/internal/middleware"
	"github.com/carevault/practice-server/internal/models"
	"github.com/carevault/practice-server/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get returns the caller's own profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	user, err := h.profileService.GetProfile(r.Context(), actor.Caps.UserID)
	if err != nil {
		writeServiceError(w, "get_profile", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Capabilities returns the caller's resolved capability set, which the SPA
// uses to shape its navigation.
func (h *ProfileHandler) Capabilities(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, actor.Caps)
}

// Complete applies the profile-completion form
func (h *ProfileHandler) Complete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	var req models.CompleteProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.profileService.CompleteProfile(r.Context(), actor.Caps.UserID, &req)
	if err != nil {
		writeServiceError(w, "complete_profile", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
