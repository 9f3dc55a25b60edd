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

type PatientHandler struct {
	patientService *services.PatientService
	profileService *services.ProfileService
}

func NewPatientHandler(patientService *services.PatientService, profileService *services.ProfileService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
		profileService: profileService,
	}
}

// DoctorPatients returns the patients connected to a doctor
func (h *PatientHandler) DoctorPatients(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	doctorID, err := uuid.Parse(chi.URLParam(r, "doctorID"))
	if err != nil {
		http.Error(w, "Invalid doctor ID", http.StatusBadRequest)
		return
	}

	patients, err := h.patientService.DoctorPatients(r.Context(), actor.Caps, doctorID)
	if err != nil {
		writeServiceError(w, "doctor_patients", err)
		return
	}

	writeJSON(w, http.StatusOK, patients)
}

// PatientMedications returns a patient's prescriptions
func (h *PatientHandler) PatientMedications(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		http.Error(w, "Invalid patient ID", http.StatusBadRequest)
		return
	}

	meds, err := h.patientService.PatientMedications(r.Context(), actor.Caps, patientID)
	if err != nil {
		writeServiceError(w, "patient_medications", err)
		return
	}

	writeJSON(w, http.StatusOK, meds)
}

// UserRoles returns the raw role set for a user
func (h *PatientHandler) UserRoles(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	roles, err := h.patientService.UserRoles(r.Context(), actor.Caps, userID)
	if err != nil {
		writeServiceError(w, "user_roles", err)
		return
	}

	writeJSON(w, http.StatusOK, roles)
}

type roleChangeRequest struct {
	Role models.Role `json:"role"`
}

// GrantRole assigns a role to a user
func (h *PatientHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req roleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profileService.GrantRole(r.Context(), actor.Caps, userID, req.Role); err != nil {
		writeServiceError(w, "grant_role", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RevokeRole removes a role from a user
func (h *PatientHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req roleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profileService.RevokeRole(r.Context(), actor.Caps, userID, req.Role); err != nil {
		writeServiceError(w, "revoke_role", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
