package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/cache"
	"github.com/carevault/practice-server/internal/metrics"
	"github.com/carevault/practice-server/internal/models"
	"github.com/carevault/practice-server/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProfileService resolves capability sets (with a short-lived cache in
// front of the role tables) and owns profile completion.
type ProfileService struct {
	userRepo *repository.UserRepository
	cache    cache.Cache
	capTTL   time.Duration
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo *repository.UserRepository, c cache.Cache, capTTL time.Duration) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		cache:    c,
		capTTL:   capTTL,
	}
}

// ResolveCapabilities returns the capability set for a user, consulting
// the cache first. authz.ErrIdentityUnresolved passes through untouched:
// it is an expected state right after signup, not a failure.
func (s *ProfileService) ResolveCapabilities(ctx context.Context, userID uuid.UUID) (authz.Capabilities, error) {
	key := cache.CapabilityKey(userID.String())

	if data, err := s.cache.Get(ctx, key); err == nil {
		var caps authz.Capabilities
		if err := json.Unmarshal(data, &caps); err == nil {
			metrics.CapabilityCache.WithLabelValues("hit").Inc()
			return caps, nil
		}
	}
	metrics.CapabilityCache.WithLabelValues("miss").Inc()

	identity, err := s.userRepo.GetIdentity(ctx, userID)
	if err != nil {
		return authz.Capabilities{}, storeErr(err)
	}

	caps, err := authz.Resolve(identity)
	if err != nil {
		return authz.Capabilities{}, err
	}

	if data, err := json.Marshal(caps); err == nil {
		if err := s.cache.Set(ctx, key, data, s.capTTL); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to cache capability set")
		}
	}
	return caps, nil
}

// InvalidateCapabilities drops the cached capability set for a user. Role
// and profile mutations call this so the next request re-resolves.
func (s *ProfileService) InvalidateCapabilities(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Delete(ctx, cache.CapabilityKey(userID.String())); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to invalidate capability cache")
	}
}

// validateProfile checks the enforced completion fields: first name, last
// name and phone. Date of birth, gender and blood group are solicited for
// customers but never block completion.
func validateProfile(req *models.CompleteProfileRequest) error {
	if strings.TrimSpace(req.FirstName) == "" ||
		strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.Phone) == "" {
		return ErrMissingRequiredField
	}
	return nil
}

// CompleteProfile applies the completion form and flips profile_completed.
func (s *ProfileService) CompleteProfile(ctx context.Context, userID uuid.UUID, req *models.CompleteProfileRequest) (*models.User, error) {
	if err := validateProfile(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Phone = strings.TrimSpace(req.Phone)
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.BloodGroup != "" {
		user.BloodGroup = req.BloodGroup
	}
	user.ProfileCompleted = true

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storeErr(err)
	}

	s.InvalidateCapabilities(ctx, userID)
	return user, nil
}

// GetProfile returns the user's own profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}

// GrantRole assigns a role to a user and, when the role needs a backing
// record (doctor, customer), creates it if missing. Admin only.
func (s *ProfileService) GrantRole(ctx context.Context, actor authz.Capabilities, userID uuid.UUID, role models.Role) error {
	if !actor.IsAdmin {
		return ErrUnauthorized
	}
	if !models.ValidRole(role) {
		return ErrMissingRequiredField
	}

	if err := s.userRepo.AssignRole(ctx, &models.RoleAssignment{
		UserID:    userID,
		Role:      role,
		GrantedBy: actor.UserID,
	}); err != nil {
		return storeErr(err)
	}

	switch role {
	case models.RoleDoctor:
		if _, err := s.userRepo.GetDoctorByUserID(ctx, userID); isNotFound(err) {
			if err := s.userRepo.CreateDoctor(ctx, &models.Doctor{UserID: userID, IsActive: true}); err != nil {
				return storeErr(err)
			}
		}
	case models.RoleCustomer:
		if _, err := s.userRepo.GetCustomerByUserID(ctx, userID); isNotFound(err) {
			if err := s.userRepo.CreateCustomer(ctx, &models.Customer{UserID: userID, IsActive: true}); err != nil {
				return storeErr(err)
			}
		}
	}

	s.InvalidateCapabilities(ctx, userID)
	return nil
}

// RevokeRole removes a role from a user. Admin only.
func (s *ProfileService) RevokeRole(ctx context.Context, actor authz.Capabilities, userID uuid.UUID, role models.Role) error {
	if !actor.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.userRepo.RevokeRole(ctx, userID, role); err != nil {
		return storeErr(err)
	}
	s.InvalidateCapabilities(ctx, userID)
	return nil
}
