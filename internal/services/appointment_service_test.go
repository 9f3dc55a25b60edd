package services

import (
	"testing"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGuardAppointmentTransitionTargets(t *testing.T) {
	doctorID := uuid.New()
	actor := authz.Capabilities{IsDoctor: true, DoctorID: doctorID}
	appt := &models.Appointment{DoctorID: doctorID, Status: models.AppointmentScheduled}

	for _, target := range []models.AppointmentStatus{
		models.AppointmentCompleted,
		models.AppointmentCancelled,
		models.AppointmentNoShow,
	} {
		assert.NoError(t, guardAppointmentTransition(appt, actor, target), "target %s", target)
	}

	// Scheduled is not a terminal state, and neither is garbage.
	assert.ErrorIs(t, guardAppointmentTransition(appt, actor, models.AppointmentScheduled), ErrInvalidTargetState)
	assert.ErrorIs(t, guardAppointmentTransition(appt, actor, "archived"), ErrInvalidTargetState)
}

func TestGuardAppointmentTransitionTerminalIsFrozen(t *testing.T) {
	doctorID := uuid.New()
	actor := authz.Capabilities{IsDoctor: true, DoctorID: doctorID}

	for _, from := range []models.AppointmentStatus{
		models.AppointmentCompleted,
		models.AppointmentCancelled,
		models.AppointmentNoShow,
	} {
		appt := &models.Appointment{DoctorID: doctorID, Status: from}
		err := guardAppointmentTransition(appt, actor, models.AppointmentCancelled)
		assert.ErrorIs(t, err, ErrInvalidTransition, "from %s", from)
	}
}

func TestGuardAppointmentTransitionActor(t *testing.T) {
	doctorID := uuid.New()
	appt := &models.Appointment{DoctorID: doctorID, Status: models.AppointmentScheduled}

	otherDoctor := authz.Capabilities{IsDoctor: true, DoctorID: uuid.New()}
	assert.ErrorIs(t, guardAppointmentTransition(appt, otherDoctor, models.AppointmentCompleted), ErrUnauthorized)

	customer := authz.Capabilities{IsCustomer: true, CustomerID: uuid.New()}
	assert.ErrorIs(t, guardAppointmentTransition(appt, customer, models.AppointmentCancelled), ErrUnauthorized)

	staff := authz.Capabilities{IsStaff: true}
	assert.NoError(t, guardAppointmentTransition(appt, staff, models.AppointmentNoShow))
}

func TestGuardAppointmentNotesAnyState(t *testing.T) {
	doctorID := uuid.New()
	actor := authz.Capabilities{IsDoctor: true, DoctorID: doctorID}

	// Notes stay editable after the appointment reaches a terminal state.
	for _, status := range []models.AppointmentStatus{
		models.AppointmentScheduled,
		models.AppointmentCompleted,
		models.AppointmentCancelled,
		models.AppointmentNoShow,
	} {
		appt := &models.Appointment{DoctorID: doctorID, Status: status}
		assert.NoError(t, guardAppointmentNotes(appt, actor), "status %s", status)
	}

	stranger := authz.Capabilities{IsDoctor: true, DoctorID: uuid.New()}
	appt := &models.Appointment{DoctorID: doctorID, Status: models.AppointmentScheduled}
	assert.ErrorIs(t, guardAppointmentNotes(appt, stranger), ErrUnauthorized)
}

func TestAppointmentStatusTerminal(t *testing.T) {
	assert.False(t, models.AppointmentScheduled.Terminal())
	assert.True(t, models.AppointmentCompleted.Terminal())
	assert.True(t, models.AppointmentCancelled.Terminal())
	assert.True(t, models.AppointmentNoShow.Terminal())
}
