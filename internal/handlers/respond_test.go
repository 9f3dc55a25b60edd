package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carevault/practice-server/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthorized", services.ErrUnauthorized, http.StatusForbidden},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"invalid transition", services.ErrInvalidTransition, http.StatusConflict},
		{"invalid target state", services.ErrInvalidTargetState, http.StatusUnprocessableEntity},
		{"invalid date range", services.ErrInvalidDateRange, http.StatusUnprocessableEntity},
		{"missing appointment date", services.ErrMissingAppointmentDate, http.StatusUnprocessableEntity},
		{"ambiguous referral target", services.ErrAmbiguousReferralTarget, http.StatusUnprocessableEntity},
		{"missing referral target", services.ErrMissingReferralTarget, http.StatusUnprocessableEntity},
		{"missing required field", services.ErrMissingRequiredField, http.StatusBadRequest},
		{"slot capacity", services.ErrSlotCapacityReached, http.StatusConflict},
		{"email taken", services.ErrEmailTaken, http.StatusConflict},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"partial write", services.ErrPartialWrite, http.StatusInternalServerError},
		{"transient failure", services.ErrTransientFailure, http.StatusServiceUnavailable},
		{"unclassified", errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, "test_action", tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, "test_action", body.Action)
		})
	}
}

func TestWriteServiceErrorWrappedCause(t *testing.T) {
	// Classification sees through wrapping, so repository causes joined
	// onto a sentinel still map to the sentinel's status.
	err := errors.Join(services.ErrTransientFailure, errors.New("connection refused"))
	rec := httptest.NewRecorder()
	writeServiceError(rec, "book_appointment", err)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
