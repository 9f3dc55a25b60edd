package services

import (
	"context"
	"time"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/metrics"
	"github.com/carevault/practice-server/internal/models"
	"github.com/carevault/practice-server/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReferralService owns the referral lifecycle. The referred-to doctor
// drives the pending -> scheduled -> completed path; the referring doctor
// may only cancel, and only while the referral is still pending.
type ReferralService struct {
	referralRepo *repository.ReferralRepository
	auditRepo    *repository.AuditRepository
}

// NewReferralService creates a new referral service
func NewReferralService(referralRepo *repository.ReferralRepository, auditRepo *repository.AuditRepository) *ReferralService {
	return &ReferralService{
		referralRepo: referralRepo,
		auditRepo:    auditRepo,
	}
}

// guardReferralTarget enforces the exactly-one-of invariant at creation.
func guardReferralTarget(internalDoctor *uuid.UUID, external string) error {
	hasInternal := internalDoctor != nil && *internalDoctor != uuid.Nil
	hasExternal := external != ""
	if hasInternal && hasExternal {
		return ErrAmbiguousReferralTarget
	}
	if !hasInternal && !hasExternal {
		return ErrMissingReferralTarget
	}
	return nil
}

// guardReferralUpdate is the pure transition check. The referred-to doctor
// drives scheduling and completion (scheduling requires an appointment
// date); cancellation belongs to the referring doctor alone, and only
// while the referral is still pending.
func guardReferralUpdate(ref *models.Referral, actor authz.Capabilities, target models.ReferralStatus, appointmentDate *time.Time) error {
	if !models.ValidReferralStatus(target) {
		return ErrInvalidTargetState
	}

	isReferredTo := actor.IsDoctor && ref.ReferredToDoctorID != nil && actor.DoctorID == *ref.ReferredToDoctorID
	isReferring := actor.IsDoctor && actor.DoctorID == ref.ReferringDoctorID

	switch {
	case isReferredTo:
		if target == models.ReferralCancelled {
			return ErrUnauthorized
		}
		if target == models.ReferralScheduled && appointmentDate == nil {
			return ErrMissingAppointmentDate
		}
		return nil
	case isReferring:
		if target == models.ReferralCancelled && ref.Status == models.ReferralPending {
			return nil
		}
		return ErrUnauthorized
	default:
		return ErrUnauthorized
	}
}

// Create creates a referral in pending status. The target must be exactly
// one of an internal doctor or a named external provider.
func (s *ReferralService) Create(ctx context.Context, actor authz.Capabilities, req *models.CreateReferralRequest) (*models.Referral, error) {
	if !actor.IsDoctor {
		return nil, ErrUnauthorized
	}
	if req.PatientID == uuid.Nil {
		return nil, ErrMissingRequiredField
	}
	if err := guardReferralTarget(req.ReferredToDoctorID, req.ReferredToExternal); err != nil {
		return nil, err
	}

	ref := &models.Referral{
		PatientID:          req.PatientID,
		ReferringDoctorID:  actor.DoctorID,
		ReferredToDoctorID: req.ReferredToDoctorID,
		ReferredToExternal: req.ReferredToExternal,
		Specialty:          req.Specialty,
		Reason:             req.Reason,
		Notes:              req.Notes,
		Status:             models.ReferralPending,
	}
	if err := s.referralRepo.Create(ctx, ref); err != nil {
		return nil, storeErr(err)
	}

	s.audit(ctx, actor.UserID, ref.ID, "create", "", string(models.ReferralPending), nil)
	metrics.Transitions.WithLabelValues(models.AuditEntityReferral, string(models.ReferralPending), "success").Inc()
	return ref, nil
}

// Update moves a referral to a new status. The stored appointment date is
// set when entering scheduled and cleared when leaving it.
func (s *ReferralService) Update(ctx context.Context, actor authz.Capabilities, refID uuid.UUID, req *models.UpdateReferralRequest) (*models.Referral, error) {
	ref, err := s.referralRepo.GetByID(ctx, refID)
	if err != nil {
		return nil, storeErr(err)
	}

	if err := guardReferralUpdate(ref, actor, req.Status, req.AppointmentDate); err != nil {
		metrics.Transitions.WithLabelValues(models.AuditEntityReferral, string(req.Status), "denied").Inc()
		return nil, err
	}

	from := ref.Status
	ref.Status = req.Status
	if req.Status == models.ReferralScheduled {
		ref.AppointmentDate = req.AppointmentDate
	} else {
		ref.AppointmentDate = nil
	}

	if err := s.referralRepo.Update(ctx, ref); err != nil {
		s.audit(ctx, actor.UserID, ref.ID, "transition", string(from), string(req.Status), err)
		metrics.Transitions.WithLabelValues(models.AuditEntityReferral, string(req.Status), "failure").Inc()
		return nil, storeErr(err)
	}

	s.audit(ctx, actor.UserID, ref.ID, "transition", string(from), string(req.Status), nil)
	metrics.Transitions.WithLabelValues(models.AuditEntityReferral, string(req.Status), "success").Inc()
	return ref, nil
}

// ListMadeBy returns referrals the acting doctor created.
func (s *ReferralService) ListMadeBy(ctx context.Context, actor authz.Capabilities) ([]models.Referral, error) {
	if !actor.IsDoctor {
		return nil, ErrUnauthorized
	}
	refs, err := s.referralRepo.ListMadeBy(ctx, actor.DoctorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return refs, nil
}

// ListAddressedTo returns referrals addressed to the acting doctor.
func (s *ReferralService) ListAddressedTo(ctx context.Context, actor authz.Capabilities) ([]models.Referral, error) {
	if !actor.IsDoctor {
		return nil, ErrUnauthorized
	}
	refs, err := s.referralRepo.ListAddressedTo(ctx, actor.DoctorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return refs, nil
}

func (s *ReferralService) audit(ctx context.Context, actorID, entityID uuid.UUID, action, from, to string, opErr error) {
	entry := &models.AuditEntry{
		ActorID:    actorID,
		EntityType: models.AuditEntityReferral,
		EntityID:   entityID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		Status:     "success",
	}
	if opErr != nil {
		entry.Status = "failure"
		entry.ErrorMessage = opErr.Error()
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("entity_id", entityID.String()).
			Str("action", action).
			Msg("Failed to write referral audit entry")
	}
}
