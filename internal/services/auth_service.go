package services

import (
	"context"
	"fmt"
	"time"

	"github.com/carevault/practice-server/internal/models"
	"github.com/carevault/practice-server/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService is the identity-provider boundary: signup, signin, signout
// and password reset. Sessions are stateless JWTs carrying only the user
// id; roles are resolved per request.
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Signup creates an account with the Customer role and an incomplete
// profile, and opens a session.
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.Session, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingRequiredField
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, storeErr(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:            req.Email,
		PasswordHash:     string(hash),
		ProfileCompleted: false,
		IsActive:         true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeErr(err)
	}

	// Self-signup always starts as a customer; staff roles are granted by
	// an admin afterwards.
	if err := s.userRepo.AssignRole(ctx, &models.RoleAssignment{
		UserID: user.ID,
		Role:   models.RoleCustomer,
	}); err != nil {
		return nil, storeErr(err)
	}
	if err := s.userRepo.CreateCustomer(ctx, &models.Customer{UserID: user.ID, IsActive: true}); err != nil {
		return nil, storeErr(err)
	}

	return s.issueSession(user)
}

// Signin checks credentials and opens a session.
func (s *AuthService) Signin(ctx context.Context, req *models.SigninRequest) (*models.Session, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingRequiredField
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr(err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// ResetPassword replaces the stored credential for an account.
func (s *AuthService) ResetPassword(ctx context.Context, req *models.PasswordResetRequest) error {
	if req.Email == "" || req.NewPassword == "" {
		return ErrMissingRequiredField
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return storeErr(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return storeErr(err)
	}
	return nil
}

// ParseToken validates a session token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (s *AuthService) issueSession(user *models.User) (*models.Session, error) {
	now := time.Now()
	expires := now.Add(s.tokenTTL)
	claims := &models.SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: expires.Unix(),
	}, nil
}
