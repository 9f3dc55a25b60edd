package services

import (
	"testing"
	"time"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGuardLeaveRange(t *testing.T) {
	start := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, guardLeaveRange(start, start.AddDate(0, 0, 3)))
	// A single-day leave has equal endpoints.
	assert.NoError(t, guardLeaveRange(start, start))
	assert.ErrorIs(t, guardLeaveRange(start, start.AddDate(0, 0, -1)), ErrInvalidDateRange)
}

func TestGuardLeaveCancelOwner(t *testing.T) {
	doctorID := uuid.New()
	leave := &models.LeaveRequest{DoctorID: doctorID, Status: models.LeavePending}

	owner := authz.Capabilities{IsDoctor: true, DoctorID: doctorID}
	assert.NoError(t, guardLeaveCancel(leave, owner))

	otherDoctor := authz.Capabilities{IsDoctor: true, DoctorID: uuid.New()}
	assert.ErrorIs(t, guardLeaveCancel(leave, otherDoctor), ErrUnauthorized)

	// Staff do not act on leave requests on a doctor's behalf.
	staff := authz.Capabilities{IsStaff: true}
	assert.ErrorIs(t, guardLeaveCancel(leave, staff), ErrUnauthorized)
}

func TestGuardLeaveCancelNonPending(t *testing.T) {
	doctorID := uuid.New()
	owner := authz.Capabilities{IsDoctor: true, DoctorID: doctorID}

	for _, status := range []models.LeaveStatus{models.LeaveApproved, models.LeaveCancelled} {
		leave := &models.LeaveRequest{DoctorID: doctorID, Status: status}
		assert.ErrorIs(t, guardLeaveCancel(leave, owner), ErrInvalidTransition, "status %s", status)
	}
}
