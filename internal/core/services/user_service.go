package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/adapters/persistence/repositories"
	"citidesk/internal/core/domain"
	"citidesk/internal/pkg/password"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrUsernameTaken       = errors.New("username already exists")
	ErrEmailTaken          = errors.New("email already exists")
	ErrOldPasswordWrong    = errors.New("old password is incorrect")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
	ErrWeakPassword        = errors.New("password does not meet requirements")
)

// UserService handles staff account management. Admin-only except for
// profile/password self-service.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents account creation input
type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserInput represents account update input (admin)
type UpdateUserInput struct {
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// CreateUser creates a staff account. Admin only; only a superadmin may
// mint another admin or superadmin.
func (s *UserService) CreateUser(ctx context.Context, actor Actor, input *CreateUserInput) (*models.User, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	role := domain.ParseRole(input.Role)
	if role == domain.RoleNone {
		role = domain.RoleStaff
	}
	if role.MeetsMinimum(domain.RoleAdmin) && !actor.Role.MeetsMinimum(domain.RoleSuperadmin) {
		return nil, fmt.Errorf("%w: creating %s accounts requires %s", domain.ErrAuthorization, role, domain.RoleSuperadmin)
	}

	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashed,
		Role:     string(role),
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("Staff account created: %s (%s) by admin %d", user.Username, user.Role, actor.UserID)
	return user, nil
}

// ListUsers lists staff accounts with pagination
func (s *UserService) ListUsers(ctx context.Context, actor Actor, offset, limit int) ([]*models.User, int64, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, 0, err
	}
	return s.userRepo.List(ctx, offset, limit)
}

// UpdateUser patches a staff account (admin)
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, userID uint, input *UpdateUserInput) (*models.User, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
		}
		return nil, err
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		if userID == actor.UserID {
			return nil, ErrCannotChangeOwnRole
		}
		role := domain.ParseRole(*input.Role)
		if !role.IsValid() || role == domain.RoleNone {
			return nil, fmt.Errorf("%w: invalid role %q", domain.ErrValidation, *input.Role)
		}
		if role.MeetsMinimum(domain.RoleAdmin) && !actor.Role.MeetsMinimum(domain.RoleSuperadmin) {
			return nil, fmt.Errorf("%w: granting %s requires %s", domain.ErrAuthorization, role, domain.RoleSuperadmin)
		}
		user.Role = string(role)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword lets a staff member rotate their own password
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if !password.Verify(input.OldPassword, user.Password) {
		return ErrOldPasswordWrong
	}
	if !password.ValidatePassword(input.NewPassword) {
		return ErrWeakPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}
