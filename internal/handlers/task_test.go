package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mtakeda/tasklist-api/internal/constants"
	"github.com/mtakeda/tasklist-api/internal/database"
	"github.com/mtakeda/tasklist-api/internal/dto"
	"github.com/mtakeda/tasklist-api/internal/middleware"
	"github.com/mtakeda/tasklist-api/internal/models"
	"github.com/mtakeda/tasklist-api/internal/repository"
	"github.com/mtakeda/tasklist-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
	router  *gin.Engine
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	suite.handler = NewTaskHandler(services.NewTaskService(taskRepo))

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Create router
	suite.router = gin.New()
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *TaskHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(content string, ownerID uint64, createdAt time.Time) *models.Task {
	task := &models.Task{
		Content:   content,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
	}
	suite.db.Create(task)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// authAs simulates RequireAuth for router-driven tests
func authAs(userID uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// TestListTasks_OnlyOwnTasks verifies that one user's listing never includes
// another user's tasks.
func (suite *TaskHandlerTestSuite) TestListTasks_OnlyOwnTasks() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	now := time.Now()
	suite.createTestTask("alice task", alice.ID, now)
	suite.createTestTask("bob task", bob.ID, now)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, alice.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskListResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Tasks, 1)
	assert.Equal(suite.T(), "alice task", response.Tasks[0].Content)
	assert.Equal(suite.T(), alice.ID, response.Tasks[0].OwnerID)
}

// TestListTasks_OrderedByCreation verifies insertion-order listing.
func (suite *TaskHandlerTestSuite) TestListTasks_OrderedByCreation() {
	user := suite.createTestUser("orderly")
	base := time.Now().Add(-time.Hour)
	for i, content := range []string{"a", "b", "c"} {
		suite.createTestTask(content, user.ID, base.Add(time.Duration(i)*time.Minute))
	}

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskListResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Tasks, 3)
	assert.Equal(suite.T(), "a", response.Tasks[0].Content)
	assert.Equal(suite.T(), "b", response.Tasks[1].Content)
	assert.Equal(suite.T(), "c", response.Tasks[2].Content)
}

// TestListTasks_Unauthorized tests listing without authentication
func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/tasks", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestCreateTask_Success tests the add/list round-trip
func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	user := suite.createTestUser("shopper")

	body, _ := json.Marshal(map[string]string{"content": "buy milk"})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "buy milk", response.Content)
	assert.Equal(suite.T(), user.ID, response.OwnerID)

	lc, lw := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	suite.handler.ListTasks(lc)

	var list dto.TaskListResponse
	err = json.Unmarshal(lw.Body.Bytes(), &list)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), list.Tasks, 1)
	assert.Equal(suite.T(), "buy milk", list.Tasks[0].Content)
}

// TestCreateTask_EmptyContent tests task creation with empty content
func (suite *TaskHandlerTestSuite) TestCreateTask_EmptyContent() {
	user := suite.createTestUser("lazy")

	body, _ := json.Marshal(map[string]string{"content": ""})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_BlankContent tests content that is only whitespace
func (suite *TaskHandlerTestSuite) TestCreateTask_BlankContent() {
	user := suite.createTestUser("lazy")

	body, _ := json.Marshal(map[string]string{"content": "   "})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Zero(suite.T(), count)
}

// TestCreateTask_ContentTooLong tests the length bound
func (suite *TaskHandlerTestSuite) TestCreateTask_ContentTooLong() {
	user := suite.createTestUser("verbose")

	body, _ := json.Marshal(map[string]string{
		"content": strings.Repeat("x", constants.MaxTaskContentLength+1),
	})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestDeleteTask_Success drives the full route, guard middleware included
func (suite *TaskHandlerTestSuite) TestDeleteTask_Success() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("finish report", user.ID, time.Now())

	suite.router.DELETE("/api/tasks/:id", authAs(user.ID), middleware.RequireTaskOwner(), suite.handler.DeleteTask)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/tasks/1", nil)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

// TestDeleteTask_Forbidden verifies the guard rejects a foreign owner and
// leaves the task intact.
func (suite *TaskHandlerTestSuite) TestDeleteTask_Forbidden() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	task := suite.createTestTask("alice task", alice.ID, time.Now())

	suite.router.DELETE("/api/tasks/:id", authAs(bob.ID), middleware.RequireTaskOwner(), suite.handler.DeleteTask)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/tasks/1", nil)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	assert.EqualValues(suite.T(), 1, count)
}

// TestDeleteTask_NotFound tests deleting a task that does not exist
func (suite *TaskHandlerTestSuite) TestDeleteTask_NotFound() {
	user := suite.createTestUser("owner")

	suite.router.DELETE("/api/tasks/:id", authAs(user.ID), middleware.RequireTaskOwner(), suite.handler.DeleteTask)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/tasks/999", nil)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteTask_InvalidID tests a non-numeric task ID
func (suite *TaskHandlerTestSuite) TestDeleteTask_InvalidID() {
	user := suite.createTestUser("owner")

	suite.router.DELETE("/api/tasks/:id", authAs(user.ID), middleware.RequireTaskOwner(), suite.handler.DeleteTask)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/tasks/abc", nil)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
