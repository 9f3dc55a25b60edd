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

// AppointmentService owns the appointment lifecycle: booking, the
// Scheduled -> terminal state machine, and the notes side channel.
type AppointmentService struct {
	apptRepo     *repository.AppointmentRepository
	scheduleRepo *repository.ScheduleRepository
	auditRepo    *repository.AuditRepository
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	apptRepo *repository.AppointmentRepository,
	scheduleRepo *repository.ScheduleRepository,
	auditRepo *repository.AuditRepository,
) *AppointmentService {
	return &AppointmentService{
		apptRepo:     apptRepo,
		scheduleRepo: scheduleRepo,
		auditRepo:    auditRepo,
	}
}

// guardAppointmentTransition is the pure state-machine check: only a
// Scheduled appointment may move, only to a terminal status, and only by
// the assigned doctor or a staff actor.
func guardAppointmentTransition(appt *models.Appointment, actor authz.Capabilities, target models.AppointmentStatus) error {
	if !target.Terminal() {
		return ErrInvalidTargetState
	}
	if appt.Status != models.AppointmentScheduled {
		return ErrInvalidTransition
	}
	if !actor.CanActForDoctor(appt.DoctorID) {
		return ErrUnauthorized
	}
	return nil
}

// guardAppointmentNotes gates the notes side channel: same actor set as
// transitions, but no precondition on the current status.
func guardAppointmentNotes(appt *models.Appointment, actor authz.Capabilities) error {
	if !actor.CanActForDoctor(appt.DoctorID) {
		return ErrUnauthorized
	}
	return nil
}

// Book creates an appointment in Scheduled status. Customers book for
// themselves; staff may book for any customer. The doctor's weekly slot
// cap for the day is enforced at booking time.
func (s *AppointmentService) Book(ctx context.Context, actor authz.Capabilities, req *models.BookAppointmentRequest) (*models.Appointment, error) {
	if req.DoctorID == uuid.Nil || req.StartsAt.IsZero() {
		return nil, ErrMissingRequiredField
	}

	customerID := req.CustomerID
	switch {
	case actor.IsStaff || actor.IsAdmin:
		if customerID == uuid.Nil {
			return nil, ErrMissingRequiredField
		}
	case actor.IsCustomer:
		// Customers can only book for themselves.
		customerID = actor.CustomerID
	default:
		return nil, ErrUnauthorized
	}

	if err := s.checkDailyCapacity(ctx, req.DoctorID, req.StartsAt); err != nil {
		return nil, err
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 30
	}

	appt := &models.Appointment{
		CustomerID:      customerID,
		DoctorID:        req.DoctorID,
		StartsAt:        req.StartsAt,
		DurationMinutes: duration,
		Status:          models.AppointmentScheduled,
		Notes:           req.Notes,
		CreatedBy:       actor.UserID,
	}
	if err := s.apptRepo.Create(ctx, appt); err != nil {
		return nil, storeErr(err)
	}

	s.audit(ctx, actor.UserID, appt.ID, "book", "", string(models.AppointmentScheduled), nil)
	metrics.Transitions.WithLabelValues(models.AuditEntityAppointment, string(models.AppointmentScheduled), "success").Inc()
	return appt, nil
}

// Transition moves a Scheduled appointment to one of the terminal states.
func (s *AppointmentService) Transition(ctx context.Context, actor authz.Capabilities, apptID uuid.UUID, target models.AppointmentStatus) (*models.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, apptID)
	if err != nil {
		return nil, storeErr(err)
	}

	if err := guardAppointmentTransition(appt, actor, target); err != nil {
		metrics.Transitions.WithLabelValues(models.AuditEntityAppointment, string(target), "denied").Inc()
		return nil, err
	}

	from := appt.Status
	appt.Status = target
	if err := s.apptRepo.Update(ctx, appt); err != nil {
		// The in-memory copy is discarded with the request; the stored
		// row is unchanged.
		s.audit(ctx, actor.UserID, appt.ID, "transition", string(from), string(target), err)
		metrics.Transitions.WithLabelValues(models.AuditEntityAppointment, string(target), "failure").Inc()
		return nil, storeErr(err)
	}

	s.audit(ctx, actor.UserID, appt.ID, "transition", string(from), string(target), nil)
	metrics.Transitions.WithLabelValues(models.AuditEntityAppointment, string(target), "success").Inc()
	return appt, nil
}

// UpdateNotes replaces the appointment's notes. Notes are editable in any
// state, including terminal ones.
func (s *AppointmentService) UpdateNotes(ctx context.Context, actor authz.Capabilities, apptID uuid.UUID, notes string) (*models.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, apptID)
	if err != nil {
		return nil, storeErr(err)
	}

	if err := guardAppointmentNotes(appt, actor); err != nil {
		return nil, err
	}

	appt.Notes = notes
	if err := s.apptRepo.Update(ctx, appt); err != nil {
		return nil, storeErr(err)
	}

	s.audit(ctx, actor.UserID, appt.ID, "update_notes", string(appt.Status), string(appt.Status), nil)
	return appt, nil
}

// ListForDoctor returns a doctor's appointments. Doctors see their own;
// staff may see any doctor's.
func (s *AppointmentService) ListForDoctor(ctx context.Context, actor authz.Capabilities, doctorID uuid.UUID, limit, offset int) ([]models.Appointment, error) {
	if !actor.CanActForDoctor(doctorID) {
		return nil, ErrUnauthorized
	}
	appts, err := s.apptRepo.ListByDoctor(ctx, doctorID, limit, offset)
	if err != nil {
		return nil, storeErr(err)
	}
	return appts, nil
}

// ListForCustomer returns a customer's appointments. Customers see their
// own; staff may see any customer's.
func (s *AppointmentService) ListForCustomer(ctx context.Context, actor authz.Capabilities, customerID uuid.UUID, limit, offset int) ([]models.Appointment, error) {
	if !(actor.IsStaff || actor.IsAdmin || (actor.IsCustomer && actor.CustomerID == customerID)) {
		return nil, ErrUnauthorized
	}
	appts, err := s.apptRepo.ListByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, storeErr(err)
	}
	return appts, nil
}

// History returns the audit trail of one appointment.
func (s *AppointmentService) History(ctx context.Context, actor authz.Capabilities, apptID uuid.UUID) ([]models.AuditEntry, error) {
	appt, err := s.apptRepo.GetByID(ctx, apptID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !actor.CanActForDoctor(appt.DoctorID) {
		return nil, ErrUnauthorized
	}
	entries, err := s.auditRepo.ListByEntity(ctx, models.AuditEntityAppointment, apptID)
	if err != nil {
		return nil, storeErr(err)
	}
	return entries, nil
}

// checkDailyCapacity compares Scheduled bookings on the appointment's day
// against the sum of the doctor's active slot caps for that weekday.
// Doctors without any active slot for the weekday are treated as
// unavailable.
func (s *AppointmentService) checkDailyCapacity(ctx context.Context, doctorID uuid.UUID, startsAt time.Time) error {
	slots, err := s.scheduleRepo.ListActiveByDoctorWeekday(ctx, doctorID, int(startsAt.Weekday()))
	if err != nil {
		return storeErr(err)
	}
	if len(slots) == 0 {
		return ErrSlotCapacityReached
	}

	maxForDay := 0
	for _, slot := range slots {
		maxForDay += slot.MaxAppointments
	}

	dayStart := time.Date(startsAt.Year(), startsAt.Month(), startsAt.Day(), 0, 0, 0, 0, startsAt.Location())
	count, err := s.apptRepo.CountScheduledInWindow(ctx, doctorID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return storeErr(err)
	}
	if count >= int64(maxForDay) {
		return ErrSlotCapacityReached
	}
	return nil
}

func (s *AppointmentService) audit(ctx context.Context, actorID, entityID uuid.UUID, action, from, to string, opErr error) {
	entry := &models.AuditEntry{
		ActorID:    actorID,
		EntityType: models.AuditEntityAppointment,
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
			Msg("Failed to write appointment audit entry")
	}
}
