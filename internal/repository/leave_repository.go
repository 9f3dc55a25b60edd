package repository

import (
	"context"
	"fmt"

	"github.com/carevault/practice-server/internal/database"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
)

// LeaveRepository handles leave-request database operations
type LeaveRepository struct{}

// NewLeaveRepository creates a new leave repository
func NewLeaveRepository() *LeaveRepository {
	return &LeaveRepository{}
}

// Create creates a new leave request
func (r *LeaveRepository) Create(ctx context.Context, leave *models.LeaveRequest) error {
	if err := database.DB.WithContext(ctx).Create(leave).Error; err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

// GetByID retrieves a leave request by id
func (r *LeaveRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LeaveRequest, error) {
	var leave models.LeaveRequest
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&leave).Error; err != nil {
		return nil, fmt.Errorf("failed to get leave request: %w", err)
	}
	return &leave, nil
}

// Update saves the leave request row
func (r *LeaveRepository) Update(ctx context.Context, leave *models.LeaveRequest) error {
	if err := database.DB.WithContext(ctx).Save(leave).Error; err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	return nil
}

// ListByDoctor retrieves leave requests for a doctor, newest first
func (r *LeaveRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]models.LeaveRequest, error) {
	var leaves []models.LeaveRequest
	if err := database.DB.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("start_date DESC").
		Find(&leaves).Error; err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leaves, nil
}
