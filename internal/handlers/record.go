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

type RecordHandler struct {
	recordService *services.RecordService
}

func NewRecordHandler(recordService *services.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// Create appends a medical record for a patient
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	var req models.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := h.recordService.CreateRecord(r.Context(), actor.Caps, &req)
	if err != nil {
		writeServiceError(w, "create_record", err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// ListForPatient returns a patient's records, optionally filtered by type
func (h *RecordHandler) ListForPatient(w http.ResponseWriter, r *http.Request) {
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
	recordType := models.RecordType(r.URL.Query().Get("type"))

	recs, err := h.recordService.ListRecords(r.Context(), actor.Caps, patientID, recordType)
	if err != nil {
		writeServiceError(w, "list_records", err)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}

// CreatePrescription issues a prescription for a patient
func (h *RecordHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Actor not found", http.StatusUnauthorized)
		return
	}

	var req models.CreatePrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.recordService.CreatePrescription(r.Context(), actor.Caps, &req)
	if err != nil {
		writeServiceError(w, "create_prescription", err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}
