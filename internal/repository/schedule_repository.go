package repository

import (
	"context"
	"fmt"

	"github.com/carevault/practice-server/internal/database"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
)

// ScheduleRepository handles weekly-slot database operations
type ScheduleRepository struct{}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}

// Create creates a new weekly slot
func (r *ScheduleRepository) Create(ctx context.Context, slot *models.WeeklySlot) error {
	if err := database.DB.WithContext(ctx).Create(slot).Error; err != nil {
		return fmt.Errorf("failed to create weekly slot: %w", err)
	}
	return nil
}

// GetByID retrieves a weekly slot by id
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WeeklySlot, error) {
	var slot models.WeeklySlot
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&slot).Error; err != nil {
		return nil, fmt.Errorf("failed to get weekly slot: %w", err)
	}
	return &slot, nil
}

// ListActiveByDoctor retrieves a doctor's active slots ordered by weekday
func (r *ScheduleRepository) ListActiveByDoctor(ctx context.Context, doctorID uuid.UUID) ([]models.WeeklySlot, error) {
	var slots []models.WeeklySlot
	if err := database.DB.WithContext(ctx).
		Where("doctor_id = ? AND is_active = ?", doctorID, true).
		Order("weekday ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list weekly slots: %w", err)
	}
	return slots, nil
}

// ListActiveByDoctorWeekday retrieves a doctor's active slots on a weekday
func (r *ScheduleRepository) ListActiveByDoctorWeekday(ctx context.Context, doctorID uuid.UUID, weekday int) ([]models.WeeklySlot, error) {
	var slots []models.WeeklySlot
	if err := database.DB.WithContext(ctx).
		Where("doctor_id = ? AND weekday = ? AND is_active = ?", doctorID, weekday, true).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list weekly slots: %w", err)
	}
	return slots, nil
}

// Deactivate retires a slot without deleting it, so historical bookings
// keep their schedule snapshot.
func (r *ScheduleRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := database.DB.WithContext(ctx).
		Model(&models.WeeklySlot{}).
		Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate weekly slot: %w", err)
	}
	return nil
}
