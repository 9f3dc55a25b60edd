// Package authz is the access-control core: it derives a capability set
// from a user's role memberships and decides, for every protected route
// and action, whether the identity may proceed. Every function here is a
// pure decision over its inputs; nothing in this package touches the
// store, the network, or the clock.
package authz

import (
	"errors"
	"sort"

	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
)

// ErrIdentityUnresolved is returned when an authenticated user has no
// profile record yet. That is a valid state immediately after signup,
// before profile completion.
var ErrIdentityUnresolved = errors.New("identity unresolved: no profile record")

// Identity is the raw, store-shaped view of an authenticated user, as
// assembled by the repository layer. HasProfile is false when the user
// row does not exist yet.
type Identity struct {
	UserID           uuid.UUID
	HasProfile       bool
	ProfileCompleted bool
	Roles            []models.Role
	DoctorID         uuid.UUID // uuid.Nil when the user is not a doctor
	CustomerID       uuid.UUID // uuid.Nil when the user is not a customer
}

// Capabilities is the derived permission set for one identity. The boolean
// flags are a pure function of Roles and are never stored or mutated
// independently of it.
type Capabilities struct {
	UserID uuid.UUID `json:"user_id"`

	Roles []models.Role `json:"roles"`

	IsAdmin         bool `json:"is_admin"`
	IsStaff         bool `json:"is_staff"`
	IsLabTechnician bool `json:"is_lab_technician"`
	IsDoctor        bool `json:"is_doctor"`
	IsCustomer      bool `json:"is_customer"`

	DoctorID   uuid.UUID `json:"doctor_id,omitempty"`
	CustomerID uuid.UUID `json:"customer_id,omitempty"`

	ProfileCompleted bool `json:"profile_completed"`
}

// Resolve derives the capability set for an identity. It is deterministic:
// the same identity always yields the same capabilities.
func Resolve(id Identity) (Capabilities, error) {
	if !id.HasProfile {
		return Capabilities{}, ErrIdentityUnresolved
	}

	roles := make([]models.Role, 0, len(id.Roles))
	seen := make(map[models.Role]bool, len(id.Roles))
	for _, r := range id.Roles {
		if !models.ValidRole(r) || seen[r] {
			continue
		}
		seen[r] = true
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })

	caps := Capabilities{
		UserID:           id.UserID,
		Roles:            roles,
		IsAdmin:          seen[models.RoleAdmin],
		IsStaff:          seen[models.RoleStaff],
		IsLabTechnician:  seen[models.RoleLabTechnician],
		IsDoctor:         seen[models.RoleDoctor],
		IsCustomer:       seen[models.RoleCustomer],
		ProfileCompleted: id.ProfileCompleted,
	}
	if caps.IsDoctor {
		caps.DoctorID = id.DoctorID
	}
	if caps.IsCustomer {
		caps.CustomerID = id.CustomerID
	}
	return caps, nil
}

// HasRole reports raw role-set membership.
func (c Capabilities) HasRole(r models.Role) bool {
	for _, have := range c.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// HasPermission reports whether the derived flag for r is set.
func (c Capabilities) HasPermission(r models.Role) bool {
	switch r {
	case models.RoleAdmin:
		return c.IsAdmin
	case models.RoleStaff:
		return c.IsStaff
	case models.RoleLabTechnician:
		return c.IsLabTechnician
	case models.RoleDoctor:
		return c.IsDoctor
	case models.RoleCustomer:
		return c.IsCustomer
	}
	return false
}

// CanActForDoctor reports whether the capability set may perform doctor
// actions on the given doctor's entities: the doctor themselves, or anyone
// with staff capability acting on the doctor's behalf.
func (c Capabilities) CanActForDoctor(doctorID uuid.UUID) bool {
	if c.IsStaff || c.IsAdmin {
		return true
	}
	return c.IsDoctor && c.DoctorID == doctorID
}
