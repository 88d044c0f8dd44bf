package dto

import (
	"time"

	"github.com/mtakeda/tasklist-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	OwnerID   uint64    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskListResponse represents a user's full task list, oldest first
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:        task.ID,
		Content:   task.Content,
		OwnerID:   task.OwnerID,
		CreatedAt: task.CreatedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
	}
}
