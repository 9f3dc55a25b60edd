package middleware

import (
	"net/http"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/metrics"
)

// Authorize gates a route group with its declared rule from the static
// table, after the profile gate. Checks run before any handler code, so a
// denied request never partially executes; the response carries the
// redirect target the client should navigate to.
func Authorize(routeName string) func(http.Handler) http.Handler {
	rule := authz.Rule(routeName)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				metrics.AuthzDecisions.WithLabelValues(routeName, "unauthenticated").Inc()
				writeRedirect(w, http.StatusUnauthorized, authz.RedirectLogin)
				return
			}

			// An unresolved identity, or one with an incomplete profile,
			// may reach exactly one route: profile completion.
			gateTarget := r.URL.Path
			if rule.CompletionRoute {
				gateTarget = authz.RedirectCompleteProfile
			}
			if gate := authz.ProfileGate(actor.Resolved && actor.Caps.ProfileCompleted, gateTarget); !gate.Allow {
				metrics.AuthzDecisions.WithLabelValues(routeName, "profile_gate").Inc()
				writeRedirect(w, http.StatusForbidden, gate.RedirectTo)
				return
			}

			if decision := authz.AuthorizeRoute(actor.Caps, rule); !decision.Allow {
				metrics.AuthzDecisions.WithLabelValues(routeName, "deny").Inc()
				writeRedirect(w, http.StatusForbidden, decision.RedirectTo)
				return
			}

			metrics.AuthzDecisions.WithLabelValues(routeName, "allow").Inc()
			next.ServeHTTP(w, r)
		})
	}
}
