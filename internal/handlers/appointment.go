package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/carevault/practice-server/internal/middleware"
	"github.com/carevault/practice-server/internal/models"
	"github.com/carevault/practice-server/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	apptService *services.AppointmentService
}

func NewAppointmentHandler(apptService *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{apptService: apptService}
}

// Book creates an appointment in Scheduled status
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	var req models.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.apptService.Book(r.Context(), actor.Caps, &req)
	if err != nil {
		writeServiceError(w, "book_appointment", err)
		return
	}

	writeJSON(w, http.StatusCreated, appt)
}

// Transition moves an appointment to a terminal state
func (h *AppointmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	apptID, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	var req models.AppointmentTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.apptService.Transition(r.Context(), actor.Caps, apptID, req.Status)
	if err != nil {
		writeServiceError(w, "transition_appointment", err)
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// UpdateNotes replaces an appointment's notes
func (h *AppointmentHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	apptID, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	var req models.AppointmentNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.apptService.UpdateNotes(r.Context(), actor.Caps, apptID, req.Notes)
	if err != nil {
		writeServiceError(w, "update_appointment_notes", err)
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// ListForDoctor returns a doctor's appointments
func (h *AppointmentHandler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
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

	limit, offset := pagination(r)
	appts, err := h.apptService.ListForDoctor(r.Context(), actor.Caps, doctorID, limit, offset)
	if err != nil {
		writeServiceError(w, "list_appointments", err)
		return
	}

	writeJSON(w, http.StatusOK, appts)
}

// ListForCustomer returns a customer's appointments
func (h *AppointmentHandler) ListForCustomer(w http.ResponseWriter, r *http.Request) {
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

	limit, offset := pagination(r)
	appts, err := h.apptService.ListForCustomer(r.Context(), actor.Caps, customerID, limit, offset)
	if err != nil {
		writeServiceError(w, "list_appointments", err)
		return
	}

	writeJSON(w, http.StatusOK, appts)
}

// History returns the audit trail of an appointment
func (h *AppointmentHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	apptID, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	entries, err := h.apptService.History(r.Context(), actor.Caps, apptID)
	if err != nil {
		writeServiceError(w, "appointment_history", err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func pagination(r *http.Request) (limit, offset int) {
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, _ = strconv.Atoi(v)
	}
	return limit, offset
}
