package authz

import "github.com/carevault/practice-server/internal/models"

// Redirect targets yielded by denials. Denial never errors or panics; it
// names where the client should navigate instead.
const (
	RedirectLogin           = "/login"
	RedirectDashboard       = "/dashboard"
	RedirectCompleteProfile = "/complete-profile"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allow      bool   `json:"allow"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

var allowed = Decision{Allow: true}

// RouteRule is the static access metadata a protected route declares.
// RequiredPermissions is satisfied when ANY listed derived flag is set;
// RequiredRoles when the raw role set contains ANY listed role. When both
// lists are present both checks must pass. When neither is present, any
// authenticated identity is allowed.
type RouteRule struct {
	RequiredPermissions []models.Role
	RequiredRoles       []models.Role

	// CompletionRoute marks the profile-completion route itself, which
	// the profile gate must always allow to avoid a redirect loop.
	CompletionRoute bool
}

// AuthorizeRoute decides whether caps may reach a route declaring rule.
func AuthorizeRoute(caps Capabilities, rule RouteRule) Decision {
	if len(rule.RequiredPermissions) > 0 {
		ok := false
		for _, p := range rule.RequiredPermissions {
			if caps.HasPermission(p) {
				ok = true
				break
			}
		}
		if !ok {
			return Decision{RedirectTo: RedirectDashboard}
		}
	}

	if len(rule.RequiredRoles) > 0 {
		ok := false
		for _, r := range rule.RequiredRoles {
			if caps.HasRole(r) {
				ok = true
				break
			}
		}
		if !ok {
			return Decision{RedirectTo: RedirectDashboard}
		}
	}

	return allowed
}

// ProfileGate decides whether an identity with the given completion state
// may reach targetRoute. An incomplete profile may reach exactly one route,
// the completion route itself, which is always allowed to avoid a redirect
// loop.
func ProfileGate(profileCompleted bool, targetRoute string) Decision {
	if targetRoute == RedirectCompleteProfile {
		return allowed
	}
	if !profileCompleted {
		return Decision{RedirectTo: RedirectCompleteProfile}
	}
	return allowed
}
