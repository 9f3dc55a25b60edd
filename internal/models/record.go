package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordType tags a medical record entry.
type RecordType string

const (
	RecordMedicalHistory RecordType = "medical_history"
	RecordTreatmentPlan  RecordType = "treatment_plan"
	RecordProgressNote   RecordType = "progress_note"
	RecordReferral       RecordType = "referral"
)

// ValidRecordType reports whether t is a known record type.
func ValidRecordType(t RecordType) bool {
	switch t {
	case RecordMedicalHistory, RecordTreatmentPlan, RecordProgressNote, RecordReferral:
		return true
	}
	return false
}

// MedicalRecord is a narrative note a doctor writes about a patient.
// Records are append-only: no update or delete operation exists.
type MedicalRecord struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	RecordType RecordType `gorm:"type:varchar(30);not null;index" json:"record_type"`
	Title      string     `gorm:"type:varchar(255)" json:"title"`
	Content    string     `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (MedicalRecord) TableName() string {
	return "medical_records"
}

// BeforeCreate hook
func (m *MedicalRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Prescription is a medication order a doctor issues for a patient.
type Prescription struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentID *uuid.UUID `gorm:"type:uuid" json:"appointment_id,omitempty"`
	Medication    string     `gorm:"type:varchar(255);not null" json:"medication"`
	Dosage        string     `gorm:"type:varchar(100)" json:"dosage"`
	Instructions  string     `gorm:"type:text" json:"instructions"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (Prescription) TableName() string {
	return "prescriptions"
}

// BeforeCreate hook
func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CreateRecordRequest appends a medical record for a patient.
type CreateRecordRequest struct {
	PatientID  uuid.UUID  `json:"patient_id"`
	RecordType RecordType `json:"record_type"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
}

// CreatePrescriptionRequest issues a prescription for a patient.
type CreatePrescriptionRequest struct {
	PatientID     uuid.UUID  `json:"patient_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Medication    string     `json:"medication"`
	Dosage        string     `json:"dosage"`
	Instructions  string     `json:"instructions"`
}
