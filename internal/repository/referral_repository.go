package repository

import (
	"context"
	"fmt"

	"github.com/carevault/practice-server/internal/database"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
)

// ReferralRepository handles referral database operations
type ReferralRepository struct{}

// NewReferralRepository creates a new referral repository
func NewReferralRepository() *ReferralRepository {
	return &ReferralRepository{}
}

// Create creates a new referral
func (r *ReferralRepository) Create(ctx context.Context, ref *models.Referral) error {
	if err := database.DB.WithContext(ctx).Create(ref).Error; err != nil {
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}

// GetByID retrieves a referral by id
func (r *ReferralRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Referral, error) {
	var ref models.Referral
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&ref).Error; err != nil {
		return nil, fmt.Errorf("failed to get referral: %w", err)
	}
	return &ref, nil
}

// Update saves the referral row
func (r *ReferralRepository) Update(ctx context.Context, ref *models.Referral) error {
	if err := database.DB.WithContext(ctx).Save(ref).Error; err != nil {
		return fmt.Errorf("failed to update referral: %w", err)
	}
	return nil
}

// ListMadeBy retrieves referrals a doctor created, newest first
func (r *ReferralRepository) ListMadeBy(ctx context.Context, doctorID uuid.UUID) ([]models.Referral, error) {
	var refs []models.Referral
	if err := database.DB.WithContext(ctx).
		Where("referring_doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&refs).Error; err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return refs, nil
}

// ListAddressedTo retrieves referrals addressed to a doctor, newest first
func (r *ReferralRepository) ListAddressedTo(ctx context.Context, doctorID uuid.UUID) ([]models.Referral, error) {
	var refs []models.Referral
	if err := database.DB.WithContext(ctx).
		Where("referred_to_doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&refs).Error; err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return refs, nil
}

// DistinctPatientIDs returns ids of patients referred to the doctor.
func (r *ReferralRepository) DistinctPatientIDs(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := database.DB.WithContext(ctx).
		Model(&models.Referral{}).
		Distinct("patient_id").
		Where("referred_to_doctor_id = ?", doctorID).
		Pluck("patient_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list referred patients: %w", err)
	}
	return ids, nil
}
