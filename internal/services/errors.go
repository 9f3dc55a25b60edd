package services

import (
	"errors"

	"gorm.io/gorm"
)

// Typed outcomes for the state machines and form validation. Callers
// branch with errors.Is; none of these are ever raised as panics.
var (
	// ErrUnauthorized means the actor lacks the capability for the
	// requested transition or action.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition means the entity is not in a state that
	// permits the requested change.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidTargetState means the requested target status is not a
	// legal destination for the entity.
	ErrInvalidTargetState = errors.New("invalid target state")

	// ErrInvalidDateRange means an end date precedes its start date.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrMissingRequiredField means edge validation failed before any
	// store call was attempted.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrMissingAppointmentDate means a referral was moved to scheduled
	// without an appointment date.
	ErrMissingAppointmentDate = errors.New("missing appointment date")

	// ErrAmbiguousReferralTarget means both an internal doctor and an
	// external provider were supplied.
	ErrAmbiguousReferralTarget = errors.New("ambiguous referral target")

	// ErrMissingReferralTarget means neither an internal doctor nor an
	// external provider was supplied.
	ErrMissingReferralTarget = errors.New("missing referral target")

	// ErrTransientFailure wraps store/network failures. The in-memory
	// view is left unchanged and the actor may retry manually.
	ErrTransientFailure = errors.New("transient failure")

	// ErrPartialWrite means the first write of an ordered pair succeeded
	// and a later one failed, leaving the record incomplete.
	ErrPartialWrite = errors.New("partial write")

	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSlotCapacityReached means the doctor's slot cap is already met
	// for the requested window.
	ErrSlotCapacityReached = errors.New("slot capacity reached")

	// ErrInvalidCredentials means signin failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken means signup hit an existing account.
	ErrEmailTaken = errors.New("email already registered")
)

// storeErr classifies a repository failure: not-found stays a typed
// not-found, everything else is transient to the actor.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return ErrNotFound
	}
	return errors.Join(ErrTransientFailure, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
