package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/carevault/practice-server/internal/models"
	"github.com/carevault/practice-server/internal/services"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates an account and opens a session
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		log.Warn().Err(err).Msg("Signup failed")
		writeServiceError(w, "signup", err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Signin checks credentials and opens a session
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.authService.Signin(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "signin", err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Signout ends the session. Tokens are stateless, so this is a client-side
// discard; the endpoint exists so the SPA has a uniform call surface.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// ResetPassword replaces the stored credential
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), &req); err != nil {
		writeServiceError(w, "password_reset", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
