package authz

import (
	"testing"

	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNoProfile(t *testing.T) {
	_, err := Resolve(Identity{
		UserID:     uuid.New(),
		HasProfile: false,
		Roles:      []models.Role{models.RoleDoctor},
	})
	require.ErrorIs(t, err, ErrIdentityUnresolved)
}

func TestResolveEmptyRoleSet(t *testing.T) {
	caps, err := Resolve(Identity{
		UserID:           uuid.New(),
		HasProfile:       true,
		ProfileCompleted: true,
	})
	require.NoError(t, err)

	assert.Empty(t, caps.Roles)
	assert.False(t, caps.IsAdmin)
	assert.False(t, caps.IsStaff)
	assert.False(t, caps.IsLabTechnician)
	assert.False(t, caps.IsDoctor)
	assert.False(t, caps.IsCustomer)

	// An empty role set satisfies nothing but the open rules.
	deny := AuthorizeRoute(caps, RouteRule{RequiredPermissions: []models.Role{models.RoleCustomer}})
	assert.False(t, deny.Allow)
	open := AuthorizeRoute(caps, RouteRule{})
	assert.True(t, open.Allow)
}

func TestResolveDerivesFlags(t *testing.T) {
	doctorID := uuid.New()
	caps, err := Resolve(Identity{
		UserID:           uuid.New(),
		HasProfile:       true,
		ProfileCompleted: true,
		Roles:            []models.Role{models.RoleDoctor, models.RoleStaff},
		DoctorID:         doctorID,
	})
	require.NoError(t, err)

	assert.True(t, caps.IsDoctor)
	assert.True(t, caps.IsStaff)
	assert.False(t, caps.IsAdmin)
	assert.Equal(t, doctorID, caps.DoctorID)
	assert.Equal(t, uuid.Nil, caps.CustomerID)
}

func TestResolveDedupesAndSortsRoles(t *testing.T) {
	caps, err := Resolve(Identity{
		UserID:     uuid.New(),
		HasProfile: true,
		Roles:      []models.Role{models.RoleStaff, models.RoleAdmin, models.RoleStaff, "bogus"},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleAdmin, models.RoleStaff}, caps.Roles)
}

func TestResolveDeterministic(t *testing.T) {
	id := Identity{
		UserID:           uuid.New(),
		HasProfile:       true,
		ProfileCompleted: true,
		Roles:            []models.Role{models.RoleCustomer, models.RoleDoctor},
		DoctorID:         uuid.New(),
		CustomerID:       uuid.New(),
	}

	first, err := Resolve(id)
	require.NoError(t, err)
	second, err := Resolve(id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHasPermissionUnknownRole(t *testing.T) {
	caps, err := Resolve(Identity{
		UserID:     uuid.New(),
		HasProfile: true,
		Roles:      []models.Role{models.RoleAdmin},
	})
	require.NoError(t, err)
	assert.False(t, caps.HasPermission("superuser"))
}

func TestCanActForDoctor(t *testing.T) {
	doctorID := uuid.New()
	otherID := uuid.New()

	doctor := Capabilities{IsDoctor: true, DoctorID: doctorID}
	assert.True(t, doctor.CanActForDoctor(doctorID))
	assert.False(t, doctor.CanActForDoctor(otherID))

	staff := Capabilities{IsStaff: true}
	assert.True(t, staff.CanActForDoctor(doctorID))
	assert.True(t, staff.CanActForDoctor(otherID))

	customer := Capabilities{IsCustomer: true, CustomerID: uuid.New()}
	assert.False(t, customer.CanActForDoctor(doctorID))
}
