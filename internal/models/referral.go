package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralStatus is the lifecycle status of a referral.
type ReferralStatus string

const (
	ReferralPending   ReferralStatus = "pending"
	ReferralScheduled ReferralStatus = "scheduled"
	ReferralCancelled ReferralStatus = "cancelled"
	ReferralCompleted ReferralStatus = "completed"
)

// ValidReferralStatus reports whether s is a known status value.
func ValidReferralStatus(s ReferralStatus) bool {
	switch s {
	case ReferralPending, ReferralScheduled, ReferralCancelled, ReferralCompleted:
		return true
	}
	return false
}

// Referral hands a patient from one doctor to another, either an internal
// doctor or a named external provider. Exactly one of ReferredToDoctorID and
// ReferredToExternal is set.
type Referral struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"patient_id"`
	ReferringDoctorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"referring_doctor_id"`
	ReferredToDoctorID *uuid.UUID     `gorm:"type:uuid;index" json:"referred_to_doctor_id,omitempty"`
	ReferredToExternal string         `gorm:"type:varchar(255)" json:"referred_to_external,omitempty"`
	Specialty          string         `gorm:"type:varchar(100)" json:"specialty"`
	Reason             string         `gorm:"type:text" json:"reason"`
	Notes              string         `gorm:"type:text" json:"notes,omitempty"`
	Status             ReferralStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AppointmentDate    *time.Time     `json:"appointment_date,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Referral) TableName() string {
	return "referrals"
}

// BeforeCreate hook
func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// CreateReferralRequest creates a referral in pending status.
type CreateReferralRequest struct {
	PatientID          uuid.UUID  `json:"patient_id"`
	ReferredToDoctorID *uuid.UUID `json:"referred_to_doctor_id,omitempty"`
	ReferredToExternal string     `json:"referred_to_external,omitempty"`
	Specialty          string     `json:"specialty"`
	Reason             string     `json:"reason"`
	Notes              string     `json:"notes,omitempty"`
}

// UpdateReferralRequest moves a referral to a new status. AppointmentDate is
// mandatory when the target status is scheduled.
type UpdateReferralRequest struct {
	Status          ReferralStatus `json:"status"`
	AppointmentDate *time.Time     `json:"appointment_date,omitempty"`
}
