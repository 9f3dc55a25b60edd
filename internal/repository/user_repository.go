package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/database"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository handles user, role and profile database operations
type UserRepository struct{}

// NewUserRepository creates a new user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := database.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// Update saves the user row
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := database.DB.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// GetRoles returns the role names assigned to a user
func (r *UserRepository) GetRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	var assignments []models.RoleAssignment
	if err := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}
	roles := make([]models.Role, 0, len(assignments))
	for _, a := range assignments {
		roles = append(roles, a.Role)
	}
	return roles, nil
}

// HasRole reports whether the user holds the given role
func (r *UserRepository) HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.RoleAssignment{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return count > 0, nil
}

// AssignRole grants a role to a user, ignoring duplicates
func (r *UserRepository) AssignRole(ctx context.Context, assignment *models.RoleAssignment) error {
	if err := database.DB.WithContext(ctx).
		Where("user_id = ? AND role = ?", assignment.UserID, assignment.Role).
		FirstOrCreate(assignment).Error; err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// RevokeRole removes a role from a user
func (r *UserRepository) RevokeRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	if err := database.DB.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&models.RoleAssignment{}).Error; err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	return nil
}

// GetDoctorByUserID returns the doctor record backing a user, if any
func (r *UserRepository) GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := database.DB.WithContext(ctx).Where("user_id = ?", userID).First(&doctor).Error; err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

// GetCustomerByUserID returns the customer record backing a user, if any
func (r *UserRepository) GetCustomerByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := database.DB.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error; err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

// CreateDoctor creates the doctor record behind a user
func (r *UserRepository) CreateDoctor(ctx context.Context, doctor *models.Doctor) error {
	if err := database.DB.WithContext(ctx).Create(doctor).Error; err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

// CreateCustomer creates the customer record behind a user
func (r *UserRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if err := database.DB.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetIdentity assembles the raw identity view the access-control core
// consumes: profile presence, completion flag, role memberships, and the
// doctor/customer ids behind the user. A missing user row is not an error
// here; it yields HasProfile=false, which Resolve maps to
// ErrIdentityUnresolved.
func (r *UserRepository) GetIdentity(ctx context.Context, userID uuid.UUID) (authz.Identity, error) {
	id := authz.Identity{UserID: userID}

	var user models.User
	err := database.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return id, nil
	}
	if err != nil {
		return id, fmt.Errorf("failed to load identity: %w", err)
	}
	id.HasProfile = true
	id.ProfileCompleted = user.ProfileCompleted

	roles, err := r.GetRoles(ctx, userID)
	if err != nil {
		return id, err
	}
	id.Roles = roles

	var doctor models.Doctor
	if err := database.DB.WithContext(ctx).Where("user_id = ?", userID).First(&doctor).Error; err == nil {
		id.DoctorID = doctor.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return id, fmt.Errorf("failed to load doctor identity: %w", err)
	}

	var customer models.Customer
	if err := database.DB.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error; err == nil {
		id.CustomerID = customer.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return id, fmt.Errorf("failed to load customer identity: %w", err)
	}

	return id, nil
}
