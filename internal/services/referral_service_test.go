package services

import (
	"testing"
	"time"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGuardReferralTarget(t *testing.T) {
	internal := uuid.New()

	assert.NoError(t, guardReferralTarget(&internal, ""))
	assert.NoError(t, guardReferralTarget(nil, "Dr. Outside, Cardiology Group"))

	assert.ErrorIs(t, guardReferralTarget(&internal, "Dr. Outside"), ErrAmbiguousReferralTarget)
	assert.ErrorIs(t, guardReferralTarget(nil, ""), ErrMissingReferralTarget)

	// A nil-valued pointer is no target.
	zero := uuid.Nil
	assert.ErrorIs(t, guardReferralTarget(&zero, ""), ErrMissingReferralTarget)
}

func TestGuardReferralUpdateReferredToDoctor(t *testing.T) {
	referredTo := uuid.New()
	ref := &models.Referral{
		ReferringDoctorID:  uuid.New(),
		ReferredToDoctorID: &referredTo,
		Status:             models.ReferralPending,
	}
	actor := authz.Capabilities{IsDoctor: true, DoctorID: referredTo}
	when := time.Now().Add(48 * time.Hour)

	assert.NoError(t, guardReferralUpdate(ref, actor, models.ReferralScheduled, &when))
	assert.NoError(t, guardReferralUpdate(ref, actor, models.ReferralCompleted, nil))

	// Cancellation belongs to the referring doctor, never the target.
	assert.ErrorIs(t, guardReferralUpdate(ref, actor, models.ReferralCancelled, nil), ErrUnauthorized)

	// Scheduling without a date is rejected before any write.
	assert.ErrorIs(t, guardReferralUpdate(ref, actor, models.ReferralScheduled, nil), ErrMissingAppointmentDate)

	assert.ErrorIs(t, guardReferralUpdate(ref, actor, "rejected", nil), ErrInvalidTargetState)
}

func TestGuardReferralUpdateCancellationRights(t *testing.T) {
	referring := uuid.New()
	referredTo := uuid.New()
	ref := &models.Referral{
		ReferringDoctorID:  referring,
		ReferredToDoctorID: &referredTo,
		Status:             models.ReferralPending,
	}

	referrer := authz.Capabilities{IsDoctor: true, DoctorID: referring}
	assert.NoError(t, guardReferralUpdate(ref, referrer, models.ReferralCancelled, nil))

	target := authz.Capabilities{IsDoctor: true, DoctorID: referredTo}
	assert.ErrorIs(t, guardReferralUpdate(ref, target, models.ReferralCancelled, nil), ErrUnauthorized)
}

func TestGuardReferralUpdateReferringDoctor(t *testing.T) {
	referring := uuid.New()
	referredTo := uuid.New()
	actor := authz.Capabilities{IsDoctor: true, DoctorID: referring}

	pending := &models.Referral{
		ReferringDoctorID:  referring,
		ReferredToDoctorID: &referredTo,
		Status:             models.ReferralPending,
	}
	assert.NoError(t, guardReferralUpdate(pending, actor, models.ReferralCancelled, nil))

	// Once the target doctor has scheduled it, the referring doctor has
	// no further say.
	scheduled := &models.Referral{
		ReferringDoctorID:  referring,
		ReferredToDoctorID: &referredTo,
		Status:             models.ReferralScheduled,
	}
	assert.ErrorIs(t, guardReferralUpdate(scheduled, actor, models.ReferralCancelled, nil), ErrUnauthorized)

	// And cancellation is the only transition they may drive at all.
	when := time.Now()
	assert.ErrorIs(t, guardReferralUpdate(pending, actor, models.ReferralScheduled, &when), ErrUnauthorized)
	assert.ErrorIs(t, guardReferralUpdate(pending, actor, models.ReferralCompleted, nil), ErrUnauthorized)
}

func TestGuardReferralUpdateUninvolvedActor(t *testing.T) {
	referredTo := uuid.New()
	ref := &models.Referral{
		ReferringDoctorID:  uuid.New(),
		ReferredToDoctorID: &referredTo,
		Status:             models.ReferralPending,
	}

	bystander := authz.Capabilities{IsDoctor: true, DoctorID: uuid.New()}
	assert.ErrorIs(t, guardReferralUpdate(ref, bystander, models.ReferralCancelled, nil), ErrUnauthorized)

	staff := authz.Capabilities{IsStaff: true}
	assert.ErrorIs(t, guardReferralUpdate(ref, staff, models.ReferralCompleted, nil), ErrUnauthorized)
}

func TestGuardReferralUpdateExternalTarget(t *testing.T) {
	referring := uuid.New()
	ref := &models.Referral{
		ReferringDoctorID:  referring,
		ReferredToExternal: "Dr. Outside, Cardiology Group",
		Status:             models.ReferralPending,
	}

	// With no internal target doctor, only the referring doctor's cancel
	// path exists.
	actor := authz.Capabilities{IsDoctor: true, DoctorID: referring}
	assert.NoError(t, guardReferralUpdate(ref, actor, models.ReferralCancelled, nil))
	assert.ErrorIs(t, guardReferralUpdate(ref, actor, models.ReferralCompleted, nil), ErrUnauthorized)
}
