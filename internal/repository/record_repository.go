package repository

import (
	"context"
	"fmt"

	"github.com/carevault/practice-server/internal/database"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
)

// RecordRepository handles medical-record and prescription database
// operations. Records and prescriptions are append-only: no update or
// delete method exists on purpose.
type RecordRepository struct{}

// NewRecordRepository creates a new record repository
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{}
}

// CreateRecord appends a medical record
func (r *RecordRepository) CreateRecord(ctx context.Context, rec *models.MedicalRecord) error {
	if err := database.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

// ListByPatient retrieves a patient's records, newest first, optionally
// filtered by record type.
func (r *RecordRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, recordType models.RecordType) ([]models.MedicalRecord, error) {
	var recs []models.MedicalRecord
	query := database.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC")
	if recordType != "" {
		query = query.Where("record_type = ?", recordType)
	}
	if err := query.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return recs, nil
}

// CreatePrescription appends a prescription
func (r *RecordRepository) CreatePrescription(ctx context.Context, p *models.Prescription) error {
	if err := database.DB.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

// ListPrescriptionsByPatient retrieves a patient's prescriptions, newest first
func (r *RecordRepository) ListPrescriptionsByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Prescription, error) {
	var ps []models.Prescription
	if err := database.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return ps, nil
}
