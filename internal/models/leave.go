package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveStatus is the lifecycle status of a doctor leave request.
//
// Approved is part of the status vocabulary and is rendered by reads, but no
// operation currently produces it; the approval workflow has no defined actor.
type LeaveStatus string

const (
	LeavePending   LeaveStatus = "Pending"
	LeaveApproved  LeaveStatus = "Approved"
	LeaveCancelled LeaveStatus = "Cancelled"
)

// LeaveRequest is a doctor's request to be absent over a date range.
type LeaveRequest struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"doctor_id"`
	StartDate time.Time   `gorm:"not null" json:"start_date"`
	EndDate   time.Time   `gorm:"not null" json:"end_date"`
	Reason    string      `gorm:"type:text" json:"reason"`
	Status    LeaveStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// BeforeCreate hook
func (l *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// RequestLeaveRequest creates a leave request in Pending status.
type RequestLeaveRequest struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}
