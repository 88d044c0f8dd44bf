package repository

import (
	"errors"
	"fmt"

	"github.com/mtakeda/tasklist-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateUsername is returned when an insert loses the unique-index
	// race on username.
	ErrDuplicateUsername = errors.New("user repository: username already exists")
	// ErrDeleteTasks is returned when the cascade fails before the user row
	// is touched.
	ErrDeleteTasks = errors.New("user repository: delete owned tasks failed")
	// ErrDeleteUser is returned when removing the user row fails inside the
	// cascade transaction.
	ErrDeleteUser = errors.New("user repository: delete user failed")
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create persists a new user. The unique index on username makes the
// uniqueness check atomic with the insert; there is no check-then-insert
// window here.
func (r *GormUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePasswordHash overwrites the stored hash. Only the explicit
// password-change path writes this column.
func (r *GormUserRepository) UpdatePasswordHash(id uint64, passwordHash string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		return fmt.Errorf("update password hash: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteWithTasks removes all tasks owned by the user and then the user row,
// atomically. If either step fails the transaction rolls back, so no orphaned
// tasks and no half-deleted account can be observed.
func (r *GormUserRepository) DeleteWithTasks(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteTasks, err)
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("%w: %v", ErrDeleteUser, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
