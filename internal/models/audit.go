package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEntry records who changed what, when, and between which states.
// Every state-machine transition writes one, whether or not any screen
// surfaces it.
type AuditEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ActorID      uuid.UUID `gorm:"type:uuid;not null;index" json:"actor_id"`
	EntityType   string    `gorm:"type:varchar(50);not null;index" json:"entity_type"`
	EntityID     uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	Action       string    `gorm:"type:varchar(100);not null;index" json:"action"`
	FromStatus   string    `gorm:"type:varchar(30)" json:"from_status,omitempty"`
	ToStatus     string    `gorm:"type:varchar(30)" json:"to_status,omitempty"`
	Status       string    `gorm:"type:varchar(20);index" json:"status"` // success, failure
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// BeforeCreate hook
func (a *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Audit entity type names.
const (
	AuditEntityAppointment = "appointment"
	AuditEntityReferral    = "referral"
	AuditEntityLeave       = "leave_request"
	AuditEntityLabOrder    = "lab_order"
	AuditEntityUser        = "user"
)
