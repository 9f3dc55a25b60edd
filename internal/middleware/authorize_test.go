package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func doAuthorized(t *testing.T, routeName string, actor *Actor) (*httptest.ResponseRecorder, *bool) {
	t.Helper()
	next, called := okHandler()
	handler := Authorize(routeName)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/referrals", nil)
	if actor != nil {
		req = req.WithContext(WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, called
}

func redirectTarget(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding redirect body: %v", err)
	}
	return body["redirect"]
}

func TestAuthorizeNoActor(t *testing.T) {
	rec, called := doAuthorized(t, "referrals", nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := redirectTarget(t, rec); got != authz.RedirectLogin {
		t.Fatalf("expected redirect to %s, got %s", authz.RedirectLogin, got)
	}
	if *called {
		t.Fatal("handler ran for an unauthenticated request")
	}
}

func TestAuthorizeIncompleteProfile(t *testing.T) {
	actor := Actor{
		Caps: authz.Capabilities{
			UserID:   uuid.New(),
			Roles:    []models.Role{models.RoleDoctor},
			IsDoctor: true,
		},
		Resolved: true,
	}

	rec, called := doAuthorized(t, "referrals", &actor)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := redirectTarget(t, rec); got != authz.RedirectCompleteProfile {
		t.Fatalf("expected redirect to %s, got %s", authz.RedirectCompleteProfile, got)
	}
	if *called {
		t.Fatal("handler ran despite the profile gate")
	}
}

func TestAuthorizeUnresolvedActorReachesCompletionRoute(t *testing.T) {
	// Authenticated but no profile row yet: only the completion route opens.
	actor := Actor{Caps: authz.Capabilities{UserID: uuid.New()}}

	rec, called := doAuthorized(t, "profile.complete", &actor)
	if rec.Code != http.StatusOK || !*called {
		t.Fatalf("completion route rejected an unresolved actor: status %d", rec.Code)
	}

	rec, called = doAuthorized(t, "referrals", &actor)
	if rec.Code != http.StatusForbidden || *called {
		t.Fatalf("expected the profile gate, got status %d", rec.Code)
	}
	if got := redirectTarget(t, rec); got != authz.RedirectCompleteProfile {
		t.Fatalf("expected redirect to %s, got %s", authz.RedirectCompleteProfile, got)
	}
}

func TestAuthorizeInsufficientRole(t *testing.T) {
	actor := Actor{
		Caps: authz.Capabilities{
			UserID:           uuid.New(),
			Roles:            []models.Role{models.RoleCustomer},
			IsCustomer:       true,
			ProfileCompleted: true,
		},
		Resolved: true,
	}

	rec, called := doAuthorized(t, "referrals", &actor)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := redirectTarget(t, rec); got != authz.RedirectDashboard {
		t.Fatalf("expected redirect to %s, got %s", authz.RedirectDashboard, got)
	}
	if *called {
		t.Fatal("handler ran for an unauthorized role")
	}
}

func TestAuthorizeAllowed(t *testing.T) {
	actor := Actor{
		Caps: authz.Capabilities{
			UserID:           uuid.New(),
			Roles:            []models.Role{models.RoleDoctor},
			IsDoctor:         true,
			DoctorID:         uuid.New(),
			ProfileCompleted: true,
		},
		Resolved: true,
	}

	rec, called := doAuthorized(t, "referrals", &actor)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !*called {
		t.Fatal("handler did not run for an authorized request")
	}
}

func TestAuthorizeOpenRuleStillGated(t *testing.T) {
	// Unknown route names fall back to the open rule, but the profile
	// gate still applies.
	incomplete := Actor{
		Caps:     authz.Capabilities{UserID: uuid.New(), IsCustomer: true},
		Resolved: true,
	}
	rec, called := doAuthorized(t, "", &incomplete)
	if rec.Code != http.StatusForbidden || *called {
		t.Fatalf("expected the profile gate on the open rule, got status %d", rec.Code)
	}

	complete := incomplete
	complete.Caps.ProfileCompleted = true
	rec, called = doAuthorized(t, "", &complete)
	if rec.Code != http.StatusOK || !*called {
		t.Fatalf("open rule rejected a complete profile: status %d", rec.Code)
	}
}
