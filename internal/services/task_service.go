package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mtakeda/tasklist-api/internal/constants"
	"github.com/mtakeda/tasklist-api/internal/models"
	"github.com/mtakeda/tasklist-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidContent = errors.New("task content must be non-empty and at most 200 characters")
	ErrTaskNotFound   = errors.New("task not found")
	ErrTaskForbidden  = errors.New("task belongs to another user")
)

// TaskService handles task business logic. Every operation takes the acting
// user's ID explicitly and scopes all reads and writes to it.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// Add creates a task owned by ownerID.
func (s *TaskService) Add(ownerID uint64, content string) (*models.Task, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > constants.MaxTaskContentLength {
		return nil, ErrInvalidContent
	}

	task := &models.Task{
		Content: content,
		OwnerID: ownerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// List returns the owner's tasks, oldest first. Each call is a fresh query
// against committed state.
func (s *TaskService) List(ownerID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Delete removes a task after verifying that actorID owns it. The ownership
// check runs against the loaded row, never against caller-supplied data, and
// the delete statement is scoped by owner again.
func (s *TaskService) Delete(actorID, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID {
		return ErrTaskForbidden
	}

	if err := s.taskRepo.DeleteOwned(taskID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
