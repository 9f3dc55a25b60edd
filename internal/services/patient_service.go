package services

import (
	"context"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/models"
	"github.com/carevault/practice-server/internal/repository"
	"github.com/google/uuid"
)

// PatientService answers the cross-table queries the client must not
// assemble itself: a doctor's patient panel and a patient's medications.
type PatientService struct {
	apptRepo     *repository.AppointmentRepository
	referralRepo *repository.ReferralRepository
	recordRepo   *repository.RecordRepository
	userRepo     *repository.UserRepository
}

// NewPatientService creates a new patient service
func NewPatientService(
	apptRepo *repository.AppointmentRepository,
	referralRepo *repository.ReferralRepository,
	recordRepo *repository.RecordRepository,
	userRepo *repository.UserRepository,
) *PatientService {
	return &PatientService{
		apptRepo:     apptRepo,
		referralRepo: referralRepo,
		recordRepo:   recordRepo,
		userRepo:     userRepo,
	}
}

// DoctorPatients returns the distinct patients connected to a doctor
// through appointments or referrals addressed to them.
func (s *PatientService) DoctorPatients(ctx context.Context, actor authz.Capabilities, doctorID uuid.UUID) ([]uuid.UUID, error) {
	if !actor.CanActForDoctor(doctorID) {
		return nil, ErrUnauthorized
	}

	fromAppts, err := s.apptRepo.DistinctCustomerIDs(ctx, doctorID)
	if err != nil {
		return nil, storeErr(err)
	}
	fromRefs, err := s.referralRepo.DistinctPatientIDs(ctx, doctorID)
	if err != nil {
		return nil, storeErr(err)
	}

	seen := make(map[uuid.UUID]bool, len(fromAppts)+len(fromRefs))
	patients := make([]uuid.UUID, 0, len(fromAppts)+len(fromRefs))
	for _, id := range fromAppts {
		if !seen[id] {
			seen[id] = true
			patients = append(patients, id)
		}
	}
	for _, id := range fromRefs {
		if !seen[id] {
			seen[id] = true
			patients = append(patients, id)
		}
	}
	return patients, nil
}

// PatientMedications returns a patient's prescriptions. Same read gate as
// clinical records.
func (s *PatientService) PatientMedications(ctx context.Context, actor authz.Capabilities, patientID uuid.UUID) ([]models.Prescription, error) {
	if err := guardPatientRead(actor, patientID); err != nil {
		return nil, err
	}
	meds, err := s.recordRepo.ListPrescriptionsByPatient(ctx, patientID)
	if err != nil {
		return nil, storeErr(err)
	}
	return meds, nil
}

// UserRoles returns the raw role set for a user. Admin only; this is the
// management view behind role grants.
func (s *PatientService) UserRoles(ctx context.Context, actor authz.Capabilities, userID uuid.UUID) ([]models.Role, error) {
	if !actor.IsAdmin {
		return nil, ErrUnauthorized
	}
	roles, err := s.userRepo.GetRoles(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return roles, nil
}
