package authz

import (
	"testing"

	"github.com/carevault/practice-server/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthorizeRoutePermissionList(t *testing.T) {
	rule := RouteRule{
		RequiredPermissions: []models.Role{models.RoleDoctor, models.RoleStaff},
	}

	// Any listed permission suffices.
	assert.True(t, AuthorizeRoute(Capabilities{IsDoctor: true}, rule).Allow)
	assert.True(t, AuthorizeRoute(Capabilities{IsStaff: true}, rule).Allow)

	deny := AuthorizeRoute(Capabilities{IsCustomer: true}, rule)
	assert.False(t, deny.Allow)
	assert.Equal(t, RedirectDashboard, deny.RedirectTo)
}

func TestAuthorizeRouteBothListsMustPass(t *testing.T) {
	rule := RouteRule{
		RequiredPermissions: []models.Role{models.RoleLabTechnician, models.RoleStaff},
		RequiredRoles:       []models.Role{models.RoleLabTechnician},
	}

	// Permission list satisfied but raw role list not: denied.
	staffOnly := Capabilities{IsStaff: true, Roles: []models.Role{models.RoleStaff}}
	assert.False(t, AuthorizeRoute(staffOnly, rule).Allow)

	tech := Capabilities{
		IsLabTechnician: true,
		Roles:           []models.Role{models.RoleLabTechnician},
	}
	assert.True(t, AuthorizeRoute(tech, rule).Allow)
}

func TestAuthorizeRouteOpenRule(t *testing.T) {
	assert.True(t, AuthorizeRoute(Capabilities{}, RouteRule{}).Allow)
}

func TestProfileGateIncomplete(t *testing.T) {
	gate := ProfileGate(false, "/api/v1/appointments")
	assert.False(t, gate.Allow)
	assert.Equal(t, RedirectCompleteProfile, gate.RedirectTo)
}

func TestProfileGateCompletionRouteNeverLoops(t *testing.T) {
	// The completion route is reachable regardless of completion state.
	assert.True(t, ProfileGate(false, RedirectCompleteProfile).Allow)
	assert.True(t, ProfileGate(true, RedirectCompleteProfile).Allow)
}

func TestProfileGateComplete(t *testing.T) {
	assert.True(t, ProfileGate(true, "/api/v1/appointments").Allow)
}

func TestRuleUnknownNameIsOpen(t *testing.T) {
	rule := Rule("no-such-group")
	assert.Empty(t, rule.RequiredPermissions)
	assert.Empty(t, rule.RequiredRoles)
	assert.False(t, rule.CompletionRoute)
}

func TestRulesDenyEmptyCapabilities(t *testing.T) {
	// Every named rule except the completion route must reject an
	// identity with no roles at all.
	for name, rule := range Rules {
		if rule.CompletionRoute {
			continue
		}
		decision := AuthorizeRoute(Capabilities{}, rule)
		assert.False(t, decision.Allow, "rule %q allowed an empty capability set", name)
	}
}
