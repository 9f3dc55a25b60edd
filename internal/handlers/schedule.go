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

type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// CreateWeeklySlot adds a recurring availability slot for a doctor
func (h *ScheduleHandler) CreateWeeklySlot(w http.ResponseWriter, r *http.Request) {
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

	var req models.CreateWeeklySlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	slot, err := h.scheduleService.CreateWeeklySlot(r.Context(), actor.Caps, doctorID, &req)
	if err != nil {
		writeServiceError(w, "create_weekly_slot", err)
		return
	}

	writeJSON(w, http.StatusCreated, slot)
}

// ListWeeklySlots returns a doctor's active recurring slots
func (h *ScheduleHandler) ListWeeklySlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(chi.URLParam(r, "doctorID"))
	if err != nil {
		http.Error(w, "Invalid doctor ID", http.StatusBadRequest)
		return
	}

	slots, err := h.scheduleService.ListWeeklySlots(r.Context(), doctorID)
	if err != nil {
		writeServiceError(w, "list_weekly_slots", err)
		return
	}

	writeJSON(w, http.StatusOK, slots)
}

// RetireWeeklySlot soft-deletes a recurring slot
func (h *ScheduleHandler) RetireWeeklySlot(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	slotID, err := uuid.Parse(chi.URLParam(r, "slotID"))
	if err != nil {
		http.Error(w, "Invalid slot ID", http.StatusBadRequest)
		return
	}

	if err := h.scheduleService.RetireWeeklySlot(r.Context(), actor.Caps, slotID); err != nil {
		writeServiceError(w, "retire_weekly_slot", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetEmergencySlot opens an ad hoc slot for the acting doctor on one date
func (h *ScheduleHandler) SetEmergencySlot(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	var req models.CreateEmergencySlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	slot, err := h.scheduleService.SetEmergencySlot(r.Context(), actor.Caps, &req)
	if err != nil {
		writeServiceError(w, "set_emergency_slot", err)
		return
	}

	writeJSON(w, http.StatusCreated, slot)
}

// GetEmergencySlot returns a doctor's emergency slot for a date, if any
func (h *ScheduleHandler) GetEmergencySlot(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(chi.URLParam(r, "doctorID"))
	if err != nil {
		http.Error(w, "Invalid doctor ID", http.StatusBadRequest)
		return
	}
	date := chi.URLParam(r, "date")

	slot, err := h.scheduleService.GetEmergencySlot(r.Context(), doctorID, date)
	if err != nil {
		writeServiceError(w, "get_emergency_slot", err)
		return
	}
	if slot == nil {
		http.Error(w, "No emergency slot", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, slot)
}

// ClearEmergencySlot withdraws the acting doctor's emergency slot on a date
func (h *ScheduleHandler) ClearEmergencySlot(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}
	date := chi.URLParam(r, "date")

	if err := h.scheduleService.ClearEmergencySlot(r.Context(), actor.Caps, date); err != nil {
		writeServiceError(w, "clear_emergency_slot", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearAllEmergencySlots withdraws every emergency slot the acting doctor has open
func (h *ScheduleHandler) ClearAllEmergencySlots(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	if err := h.scheduleService.ClearAllEmergencySlots(r.Context(), actor.Caps); err != nil {
		writeServiceError(w, "clear_all_emergency_slots", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
