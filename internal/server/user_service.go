package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/review-portal/internal/config"
	"github.com/jonathan/review-portal/internal/db"
	"github.com/jonathan/review-portal/internal/types"
)

// UserService provides business logic for user authentication operations
type UserService struct {
	store          UserStore
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// Register creates an account. The password must be confirmed.
func (s *UserService) Register(ctx context.Context, req *types.SignupRequest) (*types.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, &ErrValidation{Field: "confirm_password", Message: "passwords do not match"}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, config.ErrPasswordTooLong) {
			return nil, &ErrValidation{Field: "password", Message: "password is too long"}
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, req.Username, passwordHash)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, &ErrUsernameTaken{Username: req.Username}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user.Public(), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	// Same error for unknown user and wrong password.
	if user == nil || !s.passwordConfig.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return user.Public(), nil
}

// GetUser returns the public view of a user.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return user.Public(), nil
}

// UpdatePassword updates a user's password
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return &ErrUserNotFound{UserID: userID}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, user.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	newPasswordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, config.ErrPasswordTooLong) {
			return &ErrValidation{Field: "new_password", Message: "password is too long"}
		}
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.store.UpdatePassword(ctx, userID, newPasswordHash); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &ErrUserNotFound{UserID: userID}
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
