package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mtakeda/tasklist-api/internal/constants"
	"github.com/mtakeda/tasklist-api/internal/models"
	"github.com/mtakeda/tasklist-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameRequired     = errors.New("username is required")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrIncorrectOldPassword = errors.New("old password is incorrect")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// dummyHash is a valid bcrypt digest of a throwaway string. Login compares
// against it when the username does not exist so the failure path costs a
// hash check either way and does not reveal which input was wrong.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService handles credentials and account lifecycle.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
}

// Register validates the input and creates a new user. The username
// uniqueness check happens at insert time via the store's unique index, so
// two concurrent registrations of the same name resolve to exactly one
// winner.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user. Unknown
// username and wrong password produce the same error.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(input.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ChangePasswordInput holds the fields of a password-change request.
type ChangePasswordInput struct {
	OldPassword        string
	NewPassword        string
	ConfirmNewPassword string
}

// ChangePassword re-verifies the current password before overwriting the
// stored hash. The hash is never assigned outside this path.
func (s *AuthService) ChangePassword(userID uint64, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		return ErrIncorrectOldPassword
	}
	if input.NewPassword != input.ConfirmNewPassword {
		return ErrPasswordMismatch
	}
	if len(input.NewPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	if err := s.userRepo.UpdatePasswordHash(userID, string(hashedPassword)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// DeleteAccount removes the user and cascades to every task they own. The
// cascade and the user removal commit or roll back together.
func (s *AuthService) DeleteAccount(userID uint64) error {
	if err := s.userRepo.DeleteWithTasks(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
