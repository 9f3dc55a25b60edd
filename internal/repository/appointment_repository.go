package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/carevault/practice-server/internal/database"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
)

// AppointmentRepository handles appointment database operations
type AppointmentRepository struct{}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{}
}

// Create creates a new appointment
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	if err := database.DB.WithContext(ctx).Create(appt).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment by id
func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&appt).Error; err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appt, nil
}

// Update saves the appointment row
func (r *AppointmentRepository) Update(ctx context.Context, appt *models.Appointment) error {
	if err := database.DB.WithContext(ctx).Save(appt).Error; err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

// ListByDoctor retrieves appointments for a doctor, newest first
func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]models.Appointment, error) {
	var appts []models.Appointment
	query := database.DB.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("starts_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// ListByCustomer retrieves appointments for a customer, newest first
func (r *AppointmentRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Appointment, error) {
	var appts []models.Appointment
	query := database.DB.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("starts_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// CountScheduledInWindow counts Scheduled appointments for a doctor whose
// start falls within [from, to). Used against the slot's appointment cap.
func (r *AppointmentRepository) CountScheduledInWindow(ctx context.Context, doctorID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("doctor_id = ? AND status = ? AND starts_at >= ? AND starts_at < ?",
			doctorID, models.AppointmentScheduled, from, to).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

// DistinctCustomerIDs returns ids of customers who have appointments with
// the doctor.
func (r *AppointmentRepository) DistinctCustomerIDs(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := database.DB.WithContext(ctx).
		Model(&models.Appointment{}).
		Distinct("customer_id").
		Where("doctor_id = ?", doctorID).
		Pluck("customer_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list doctor patients: %w", err)
	}
	return ids, nil
}
