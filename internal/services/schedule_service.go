package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/cache"
	"github.com/carevault/practice-server/internal/models"
	"github.com/carevault/practice-server/internal/repository"
	"github.com/google/uuid"
)

// ScheduleService owns doctor availability: weekly recurring slots in the
// store, and ad hoc emergency slots in the cache layer. Emergency slots
// are single-date toggles with no table behind them; they expire at the
// end of their date.
type ScheduleService struct {
	scheduleRepo *repository.ScheduleRepository
	cache        cache.Cache
}

// NewScheduleService creates a new schedule service
func NewScheduleService(scheduleRepo *repository.ScheduleRepository, c cache.Cache) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		cache:        c,
	}
}

// validateSlotWindow checks weekday bounds and the HH:MM window order.
func validateSlotWindow(weekday int, startTime, endTime string) error {
	if weekday < 0 || weekday > 6 {
		return ErrMissingRequiredField
	}
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return ErrMissingRequiredField
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return ErrMissingRequiredField
	}
	if !end.After(start) {
		return ErrInvalidDateRange
	}
	return nil
}

// CreateWeeklySlot adds a recurring slot to the acting doctor's schedule.
// Staff may manage any doctor's schedule via doctorID.
func (s *ScheduleService) CreateWeeklySlot(ctx context.Context, actor authz.Capabilities, doctorID uuid.UUID, req *models.CreateWeeklySlotRequest) (*models.WeeklySlot, error) {
	if !actor.CanActForDoctor(doctorID) {
		return nil, ErrUnauthorized
	}
	if err := validateSlotWindow(req.Weekday, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	maxAppts := req.MaxAppointments
	if maxAppts <= 0 {
		maxAppts = 1
	}

	slot := &models.WeeklySlot{
		DoctorID:        doctorID,
		Weekday:         req.Weekday,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxAppointments: maxAppts,
		IsActive:        true,
	}
	if err := s.scheduleRepo.Create(ctx, slot); err != nil {
		return nil, storeErr(err)
	}
	return slot, nil
}

// ListWeeklySlots returns a doctor's active recurring slots. Readable by
// any authenticated identity: customers need it to pick a booking time.
func (s *ScheduleService) ListWeeklySlots(ctx context.Context, doctorID uuid.UUID) ([]models.WeeklySlot, error) {
	slots, err := s.scheduleRepo.ListActiveByDoctor(ctx, doctorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return slots, nil
}

// RetireWeeklySlot soft-deletes a slot, preserving historical bookings
// against the schedule snapshot.
func (s *ScheduleService) RetireWeeklySlot(ctx context.Context, actor authz.Capabilities, slotID uuid.UUID) error {
	slot, err := s.scheduleRepo.GetByID(ctx, slotID)
	if err != nil {
		return storeErr(err)
	}
	if !actor.CanActForDoctor(slot.DoctorID) {
		return ErrUnauthorized
	}
	if err := s.scheduleRepo.Deactivate(ctx, slotID); err != nil {
		return storeErr(err)
	}
	return nil
}

// SetEmergencySlot opens an ad hoc slot for the acting doctor on a single
// date. The entry lives in the cache and expires at the end of that date.
func (s *ScheduleService) SetEmergencySlot(ctx context.Context, actor authz.Capabilities, req *models.CreateEmergencySlotRequest) (*models.EmergencySlot, error) {
	if !actor.IsDoctor {
		return nil, ErrUnauthorized
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrMissingRequiredField
	}
	if err := validateSlotWindow(int(date.Weekday()), req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	maxAppts := req.MaxAppointments
	if maxAppts <= 0 {
		maxAppts = 1
	}

	slot := &models.EmergencySlot{
		DoctorID:        actor.DoctorID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxAppointments: maxAppts,
	}

	ttl := time.Until(date.AddDate(0, 0, 1))
	if ttl <= 0 {
		return nil, ErrInvalidDateRange
	}

	data, err := json.Marshal(slot)
	if err != nil {
		return nil, err
	}
	key := cache.EmergencySlotKey(actor.DoctorID.String(), req.Date)
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		return nil, storeErr(err)
	}
	return slot, nil
}

// GetEmergencySlot returns the doctor's emergency slot for a date, or nil.
func (s *ScheduleService) GetEmergencySlot(ctx context.Context, doctorID uuid.UUID, date string) (*models.EmergencySlot, error) {
	data, err := s.cache.Get(ctx, cache.EmergencySlotKey(doctorID.String(), date))
	if err == cache.ErrCacheMiss {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	var slot models.EmergencySlot
	if err := json.Unmarshal(data, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ClearEmergencySlot withdraws the acting doctor's emergency slot on a date.
func (s *ScheduleService) ClearEmergencySlot(ctx context.Context, actor authz.Capabilities, date string) error {
	if !actor.IsDoctor {
		return ErrUnauthorized
	}
	if err := s.cache.Delete(ctx, cache.EmergencySlotKey(actor.DoctorID.String(), date)); err != nil {
		return storeErr(err)
	}
	return nil
}

// ClearAllEmergencySlots withdraws every emergency slot the acting doctor
// has open, across all dates. Used when a doctor goes unavailable at
// short notice.
func (s *ScheduleService) ClearAllEmergencySlots(ctx context.Context, actor authz.Capabilities) error {
	if !actor.IsDoctor {
		return ErrUnauthorized
	}
	if err := s.cache.Clear(ctx, cache.EmergencySlotPattern(actor.DoctorID.String())); err != nil {
		return storeErr(err)
	}
	return nil
}
