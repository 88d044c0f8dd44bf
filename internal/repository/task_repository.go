package repository

import (
	"fmt"

	"github.com/mtakeda/tasklist-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create persists a new task. A single-row insert either commits fully or
// fails with no partial record.
func (r *GormTaskRepository) Create(task *models.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOwner retrieves the owner's tasks ordered by creation time. ID breaks
// ties so the ordering stays deterministic within one timestamp.
func (r *GormTaskRepository) ListByOwner(ownerID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// DeleteOwned removes a task by ID, additionally scoped by owner so a stale
// or forged ID can never touch another user's row.
func (r *GormTaskRepository) DeleteOwned(id, ownerID uint64) error {
	result := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
