package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims are the custom JWT claims carried by a session token. The
// token identifies the user only; roles and derived capabilities are
// resolved server-side on each request so a stale token can never widen
// access.
type SessionClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// Session is the response body of a successful signin/signup.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt int64     `json:"expires_at"`
}
