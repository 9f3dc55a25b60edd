package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/services"
	"github.com/rs/zerolog/log"
)

type contextKey string

const actorKey contextKey = "actor"

// Actor is the request-scoped identity: session claims resolved into a
// capability set. Resolved is false for the window between signup and
// profile creation, when the only reachable page is profile completion.
type Actor struct {
	Caps     authz.Capabilities
	Resolved bool
}

// Authenticator validates session tokens and resolves capability sets.
type Authenticator struct {
	authService    *services.AuthService
	profileService *services.ProfileService
}

// NewAuthenticator creates the auth middleware
func NewAuthenticator(authService *services.AuthService, profileService *services.ProfileService) *Authenticator {
	return &Authenticator{
		authService:    authService,
		profileService: profileService,
	}
}

// Authenticate extracts the bearer token, resolves the capability set and
// stores the actor in the request context. Unauthenticated requests are
// answered with the login redirect, never an error page.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeRedirect(w, http.StatusUnauthorized, authz.RedirectLogin)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeRedirect(w, http.StatusUnauthorized, authz.RedirectLogin)
			return
		}

		claims, err := a.authService.ParseToken(parts[1])
		if err != nil {
			log.Warn().Err(err).Msg("Invalid session token")
			writeRedirect(w, http.StatusUnauthorized, authz.RedirectLogin)
			return
		}

		actor := Actor{}
		caps, err := a.profileService.ResolveCapabilities(r.Context(), claims.UserID)
		switch {
		case err == nil:
			actor.Caps = caps
			actor.Resolved = true
		case errors.Is(err, authz.ErrIdentityUnresolved):
			// Valid right after signup: authenticated, no profile row
			// yet. The profile gate will route to completion.
			actor.Caps = authz.Capabilities{UserID: claims.UserID}
		default:
			log.Error().Err(err).Str("user_id", claims.UserID.String()).Msg("Failed to resolve capabilities")
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor extracts the actor from context.
func GetActor(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

// WithActor returns a context carrying the actor. Used by tests and by
// the authorize middleware's internals.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func writeRedirect(w http.ResponseWriter, status int, target string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"redirect": target})
}
