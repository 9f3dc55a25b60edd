package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WeeklySlot is a recurring availability window for a doctor, keyed by
// weekday (0 = Sunday). Slots are retired via IsActive rather than deleted
// so historical bookings keep their schedule snapshot.
type WeeklySlot struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID        uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Weekday         int       `gorm:"not null" json:"weekday"`
	StartTime       string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime         string    `gorm:"type:varchar(5);not null" json:"end_time"`
	MaxAppointments int       `gorm:"not null;default:1" json:"max_appointments"`
	IsActive        bool      `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (WeeklySlot) TableName() string {
	return "weekly_slots"
}

// BeforeCreate hook
func (w *WeeklySlot) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// EmergencySlot is an ad hoc availability window scoped to a single date.
// Emergency slots are doctor-local toggles with no table behind them; they
// live in the cache layer and expire at the end of their date.
type EmergencySlot struct {
	DoctorID        uuid.UUID `json:"doctor_id"`
	Date            string    `json:"date"` // YYYY-MM-DD
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	MaxAppointments int       `json:"max_appointments"`
}

// CreateWeeklySlotRequest adds a recurring slot to a doctor's schedule.
type CreateWeeklySlotRequest struct {
	Weekday         int    `json:"weekday"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	MaxAppointments int    `json:"max_appointments"`
}

// CreateEmergencySlotRequest opens an ad hoc slot on a single date.
type CreateEmergencySlotRequest struct {
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	MaxAppointments int    `json:"max_appointments"`
}
