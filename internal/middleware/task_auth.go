package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mtakeda/tasklist-api/internal/database"
	apierrors "github.com/mtakeda/tasklist-api/internal/errors"
	"github.com/mtakeda/tasklist-api/internal/models"
	"gorm.io/gorm"
)

// ContextKeyTask is the gin context key under which RequireTaskOwner stores
// the loaded task.
const ContextKeyTask = "task"

// RequireTaskOwner loads the task named in the URL and verifies that the
// acting identity owns it. Ownership is read from the stored row; the
// service layer re-checks it before the destructive statement runs.
func RequireTaskOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.NotFound(c, "Task not found")
			} else {
				apierrors.InternalError(c, "Failed to load task")
			}
			c.Abort()
			return
		}

		if task.OwnerID != userID {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Set(ContextKeyTask, task)
		c.Next()
	}
}
