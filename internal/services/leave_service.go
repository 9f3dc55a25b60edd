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

// LeaveService owns the doctor leave-request lifecycle. The only
// transition is Pending -> Cancelled by the owning doctor; Approved is in
// the vocabulary but no operation produces it.
type LeaveService struct {
	leaveRepo *repository.LeaveRepository
	auditRepo *repository.AuditRepository
}

// NewLeaveService creates a new leave service
func NewLeaveService(leaveRepo *repository.LeaveRepository, auditRepo *repository.AuditRepository) *LeaveService {
	return &LeaveService{
		leaveRepo: leaveRepo,
		auditRepo: auditRepo,
	}
}

// guardLeaveRange rejects ranges whose end precedes their start.
func guardLeaveRange(start, end time.Time) error {
	if end.Before(start) {
		return ErrInvalidDateRange
	}
	return nil
}

// guardLeaveCancel is the pure cancellation check: owning doctor only,
// Pending only.
func guardLeaveCancel(leave *models.LeaveRequest, actor authz.Capabilities) error {
	if !actor.IsDoctor || actor.DoctorID != leave.DoctorID {
		return ErrUnauthorized
	}
	if leave.Status != models.LeavePending {
		return ErrInvalidTransition
	}
	return nil
}

// Request creates a leave request in Pending status for the acting doctor.
func (s *LeaveService) Request(ctx context.Context, actor authz.Capabilities, req *models.RequestLeaveRequest) (*models.LeaveRequest, error) {
	if !actor.IsDoctor {
		return nil, ErrUnauthorized
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, ErrMissingRequiredField
	}
	if err := guardLeaveRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	leave := &models.LeaveRequest{
		DoctorID:  actor.DoctorID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Status:    models.LeavePending,
	}
	if err := s.leaveRepo.Create(ctx, leave); err != nil {
		return nil, storeErr(err)
	}

	s.audit(ctx, actor.UserID, leave.ID, "request", "", string(models.LeavePending), nil)
	metrics.Transitions.WithLabelValues(models.AuditEntityLeave, string(models.LeavePending), "success").Inc()
	return leave, nil
}

// Cancel cancels a Pending leave request.
func (s *LeaveService) Cancel(ctx context.Context, actor authz.Capabilities, leaveID uuid.UUID) (*models.LeaveRequest, error) {
	leave, err := s.leaveRepo.GetByID(ctx, leaveID)
	if err != nil {
		return nil, storeErr(err)
	}

	if err := guardLeaveCancel(leave, actor); err != nil {
		metrics.Transitions.WithLabelValues(models.AuditEntityLeave, string(models.LeaveCancelled), "denied").Inc()
		return nil, err
	}

	from := leave.Status
	leave.Status = models.LeaveCancelled
	if err := s.leaveRepo.Update(ctx, leave); err != nil {
		s.audit(ctx, actor.UserID, leave.ID, "cancel", string(from), string(models.LeaveCancelled), err)
		metrics.Transitions.WithLabelValues(models.AuditEntityLeave, string(models.LeaveCancelled), "failure").Inc()
		return nil, storeErr(err)
	}

	s.audit(ctx, actor.UserID, leave.ID, "cancel", string(from), string(models.LeaveCancelled), nil)
	metrics.Transitions.WithLabelValues(models.AuditEntityLeave, string(models.LeaveCancelled), "success").Inc()
	return leave, nil
}

// List returns the acting doctor's leave requests.
func (s *LeaveService) List(ctx context.Context, actor authz.Capabilities) ([]models.LeaveRequest, error) {
	if !actor.IsDoctor {
		return nil, ErrUnauthorized
	}
	leaves, err := s.leaveRepo.ListByDoctor(ctx, actor.DoctorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return leaves, nil
}

func (s *LeaveService) audit(ctx context.Context, actorID, entityID uuid.UUID, action, from, to string, opErr error) {
	entry := &models.AuditEntry{
		ActorID:    actorID,
		EntityType: models.AuditEntityLeave,
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
			Msg("Failed to write leave audit entry")
	}
}
