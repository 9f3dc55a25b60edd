package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a named role a user may hold. A user can hold several at once.
type Role string

const (
	RoleAdmin         Role = "Admin"
	RoleStaff         Role = "Staff"
	RoleLabTechnician Role = "LabTechnician"
	RoleDoctor        Role = "Doctor"
	RoleCustomer      Role = "Customer"
)

// ValidRole reports whether r is one of the known role names.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleLabTechnician, RoleDoctor, RoleCustomer:
		return true
	}
	return false
}

// User is the account record keyed by the identity provider's user id.
type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email            string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	FirstName        string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName         string     `gorm:"type:varchar(100)" json:"last_name"`
	Phone            string     `gorm:"type:varchar(30)" json:"phone"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Gender           string     `gorm:"type:varchar(20)" json:"gender,omitempty"`
	BloodGroup       string     `gorm:"type:varchar(5)" json:"blood_group,omitempty"`
	PasswordHash     string     `gorm:"type:text;not null" json:"-"`
	ProfileCompleted bool       `gorm:"default:false" json:"profile_completed"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RoleAssignment grants one role to one user.
type RoleAssignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_role_assignments_user_role,unique" json:"user_id"`
	Role      Role      `gorm:"type:varchar(30);not null;index:idx_role_assignments_user_role,unique" json:"role"`
	GrantedBy uuid.UUID `gorm:"type:uuid" json:"granted_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (RoleAssignment) TableName() string {
	return "role_assignments"
}

// BeforeCreate hook
func (r *RoleAssignment) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Doctor is the practitioner record behind a user holding the Doctor role.
// Appointments, referrals and leaves reference this id, not the user id.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Specialty string    `gorm:"type:varchar(100)" json:"specialty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Doctor) TableName() string {
	return "doctors"
}

// BeforeCreate hook
func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Customer is the patient record behind a user holding the Customer role.
type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate hook
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// SignupRequest creates an account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest opens a session.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordResetRequest replaces the stored credential.
type PasswordResetRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// CompleteProfileRequest carries the profile-completion form. First name,
// last name and phone are enforced; the rest is solicited for customers but
// never blocks completion.
type CompleteProfileRequest struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	BloodGroup  string     `json:"blood_group,omitempty"`
}
