package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carevault/practice-server/internal/services"
	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// The action name, not the raw store error, is what the client sees;
// transient failures are the only class the client should re-submit.
func writeServiceError(w http.ResponseWriter, action string, err error) {
	var status int
	var msg string

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		status, msg = http.StatusForbidden, "unauthorized"
	case errors.Is(err, services.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, services.ErrInvalidTransition):
		status, msg = http.StatusConflict, "invalid transition"
	case errors.Is(err, services.ErrInvalidTargetState):
		status, msg = http.StatusUnprocessableEntity, "invalid target state"
	case errors.Is(err, services.ErrInvalidDateRange):
		status, msg = http.StatusUnprocessableEntity, "invalid date range"
	case errors.Is(err, services.ErrMissingAppointmentDate):
		status, msg = http.StatusUnprocessableEntity, "appointment date is required"
	case errors.Is(err, services.ErrAmbiguousReferralTarget):
		status, msg = http.StatusUnprocessableEntity, "referral target is ambiguous"
	case errors.Is(err, services.ErrMissingReferralTarget):
		status, msg = http.StatusUnprocessableEntity, "referral target is required"
	case errors.Is(err, services.ErrMissingRequiredField):
		status, msg = http.StatusBadRequest, "missing required field"
	case errors.Is(err, services.ErrSlotCapacityReached):
		status, msg = http.StatusConflict, "no capacity for the requested slot"
	case errors.Is(err, services.ErrEmailTaken):
		status, msg = http.StatusConflict, "email already registered"
	case errors.Is(err, services.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, services.ErrPartialWrite):
		status, msg = http.StatusInternalServerError, "saved incompletely; contact support before retrying"
	case errors.Is(err, services.ErrTransientFailure):
		status, msg = http.StatusServiceUnavailable, "temporary failure; please retry"
	default:
		log.Error().Err(err).Str("action", action).Msg("Unclassified handler error")
		status, msg = http.StatusInternalServerError, "internal error"
	}

	writeJSON(w, status, errorResponse{Error: msg, Action: action})
}
