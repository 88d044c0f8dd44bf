package repository

import (
	"github.com/mtakeda/tasklist-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create persists a new user. Username uniqueness is enforced by the
	// store's unique index; a concurrent duplicate loses with
	// ErrDuplicateUsername.
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// UpdatePasswordHash overwrites the stored password hash for an
	// existing user.
	UpdatePasswordHash(id uint64, passwordHash string) error

	// DeleteWithTasks removes the user and every task they own within a
	// single transaction.
	DeleteWithTasks(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create persists a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListByOwner retrieves all tasks owned by a user, oldest first
	ListByOwner(ownerID uint64) ([]models.Task, error)

	// DeleteOwned removes a task, scoped by both task ID and owner ID
	DeleteOwned(id, ownerID uint64) error
}
