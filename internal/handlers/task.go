package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mtakeda/tasklist-api/internal/dto"
	apierrors "github.com/mtakeda/tasklist-api/internal/errors"
	"github.com/mtakeda/tasklist-api/internal/middleware"
	"github.com/mtakeda/tasklist-api/internal/models"
	"github.com/mtakeda/tasklist-api/internal/services"
)

// TaskHandler coordinates task HTTP handlers. Every operation acts on behalf
// of the session identity only.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the current user's tasks, oldest first.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.List(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// CreateTask adds a task owned by the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Add(userID, req.Content)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task. RequireTaskOwner has already rejected missing
// tasks and foreign owners; the service re-checks ownership before the
// delete statement runs.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskInterface, exists := c.Get(middleware.ContextKeyTask)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		apierrors.InternalError(c, "Invalid task data")
		return
	}

	if err := h.taskService.Delete(userID, task.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidContent):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskForbidden):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
