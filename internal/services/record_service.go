package services

import (
	"context"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/models"
	"github.com/carevault/practice-server/internal/repository"
	"github.com/google/uuid"
)

// RecordService owns doctor-authored clinical content: medical records and
// prescriptions. Both are append-only; nothing here updates or deletes.
type RecordService struct {
	recordRepo *repository.RecordRepository
}

// NewRecordService creates a new record service
func NewRecordService(recordRepo *repository.RecordRepository) *RecordService {
	return &RecordService{recordRepo: recordRepo}
}

// CreateRecord appends a tagged narrative note for a patient. Doctors only.
func (s *RecordService) CreateRecord(ctx context.Context, actor authz.Capabilities, req *models.CreateRecordRequest) (*models.MedicalRecord, error) {
	if !actor.IsDoctor {
		return nil, ErrUnauthorized
	}
	if req.PatientID == uuid.Nil || req.Content == "" {
		return nil, ErrMissingRequiredField
	}
	if !models.ValidRecordType(req.RecordType) {
		return nil, ErrMissingRequiredField
	}

	rec := &models.MedicalRecord{
		PatientID:  req.PatientID,
		DoctorID:   actor.DoctorID,
		RecordType: req.RecordType,
		Title:      req.Title,
		Content:    req.Content,
	}
	if err := s.recordRepo.CreateRecord(ctx, rec); err != nil {
		return nil, storeErr(err)
	}
	return rec, nil
}

// ListRecords returns a patient's records. Doctors and staff may read any
// patient; customers only their own.
func (s *RecordService) ListRecords(ctx context.Context, actor authz.Capabilities, patientID uuid.UUID, recordType models.RecordType) ([]models.MedicalRecord, error) {
	if err := guardPatientRead(actor, patientID); err != nil {
		return nil, err
	}
	recs, err := s.recordRepo.ListByPatient(ctx, patientID, recordType)
	if err != nil {
		return nil, storeErr(err)
	}
	return recs, nil
}

// CreatePrescription issues a prescription for a patient. Doctors only.
func (s *RecordService) CreatePrescription(ctx context.Context, actor authz.Capabilities, req *models.CreatePrescriptionRequest) (*models.Prescription, error) {
	if !actor.IsDoctor {
		return nil, ErrUnauthorized
	}
	if req.PatientID == uuid.Nil || req.Medication == "" {
		return nil, ErrMissingRequiredField
	}

	p := &models.Prescription{
		PatientID:     req.PatientID,
		DoctorID:      actor.DoctorID,
		AppointmentID: req.AppointmentID,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		Instructions:  req.Instructions,
	}
	if err := s.recordRepo.CreatePrescription(ctx, p); err != nil {
		return nil, storeErr(err)
	}
	return p, nil
}

// guardPatientRead gates reads of patient-scoped clinical data.
func guardPatientRead(actor authz.Capabilities, patientID uuid.UUID) error {
	if actor.IsDoctor || actor.IsStaff || actor.IsAdmin {
		return nil
	}
	if actor.IsCustomer && actor.CustomerID == patientID {
		return nil
	}
	return ErrUnauthorized
}
