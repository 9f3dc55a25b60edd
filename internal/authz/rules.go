package authz

import "github.com/carevault/practice-server/internal/models"

// Rules is the access metadata for every protected route group, keyed by
// the name handlers mount them under. Routes absent from this table allow
// any authenticated identity.
var Rules = map[string]RouteRule{
	"appointments.manage": {
		RequiredPermissions: []models.Role{models.RoleDoctor, models.RoleStaff, models.RoleAdmin},
	},
	"appointments.book": {
		RequiredPermissions: []models.Role{models.RoleCustomer, models.RoleStaff, models.RoleAdmin},
	},
	"referrals": {
		RequiredPermissions: []models.Role{models.RoleDoctor},
	},
	"leaves": {
		RequiredPermissions: []models.Role{models.RoleDoctor},
	},
	"schedules.manage": {
		RequiredPermissions: []models.Role{models.RoleDoctor, models.RoleStaff, models.RoleAdmin},
		RequiredRoles:       []models.Role{models.RoleDoctor, models.RoleStaff, models.RoleAdmin},
	},
	"records.write": {
		RequiredPermissions: []models.Role{models.RoleDoctor},
	},
	"records.read": {
		RequiredPermissions: []models.Role{models.RoleDoctor, models.RoleStaff, models.RoleAdmin, models.RoleCustomer},
	},
	"orders.checkout": {
		RequiredPermissions: []models.Role{models.RoleCustomer},
	},
	"orders.process": {
		RequiredPermissions: []models.Role{models.RoleLabTechnician, models.RoleStaff, models.RoleAdmin},
		RequiredRoles:       []models.Role{models.RoleLabTechnician, models.RoleStaff, models.RoleAdmin},
	},
	"patients": {
		RequiredPermissions: []models.Role{models.RoleDoctor, models.RoleStaff, models.RoleAdmin},
	},
	"admin": {
		RequiredRoles: []models.Role{models.RoleAdmin},
	},
	// Any authenticated identity, including one whose profile record does
	// not exist yet, may reach profile completion.
	"profile.complete": {
		CompletionRoute: true,
	},
}

// Rule returns the rule for a route group name. The zero rule (allow any
// authenticated identity) is returned for unknown names.
func Rule(name string) RouteRule {
	return Rules[name]
}
