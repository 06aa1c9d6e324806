package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/avolkov/task-manager-api/internal/auth"
	"github.com/avolkov/task-manager-api/internal/constants"
	"github.com/avolkov/task-manager-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the schema and both
// roles in place. MaxOpenConns is pinned to 1 so every statement sees the
// same in-memory database.
func newTestDB(s *suite.Suite) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Group{},
		&models.Task{},
	)
	s.Require().NoError(err)

	s.Require().NoError(db.Create(&models.Role{Name: models.RoleUser, Description: "Regular user"}).Error)
	s.Require().NoError(db.Create(&models.Role{Name: models.RoleAdmin, Description: "Administrator"}).Error)

	return db
}

func closeTestDB(s *suite.Suite, db *gorm.DB) {
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

// createTestUser persists a user with the USER role, plus ADMIN when asked.
func createTestUser(s *suite.Suite, db *gorm.DB, username string, admin bool) *models.User {
	names := []models.RoleName{models.RoleUser}
	if admin {
		names = append(names, models.RoleAdmin)
	}

	var roles []models.Role
	for _, name := range names {
		var role models.Role
		s.Require().NoError(db.Where("name = ?", name).First(&role).Error)
		roles = append(roles, role)
	}

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Enabled:      true,
		Roles:        roles,
	}
	s.Require().NoError(db.Create(user).Error)
	return user
}

func createTestGroup(s *suite.Suite, db *gorm.DB, name string, ownerID uint64) *models.Group {
	group := &models.Group{
		Name:   name,
		UserID: ownerID,
	}
	s.Require().NoError(db.Create(group).Error)
	return group
}

func createTestTask(s *suite.Suite, db *gorm.DB, title string, ownerID uint64, groupID *uint64, status models.TaskStatus) *models.Task {
	task := &models.Task{
		Title:       title,
		Description: "Test Description",
		Status:      status,
		UserID:      ownerID,
		GroupID:     groupID,
	}
	s.Require().NoError(db.Create(task).Error)
	return task
}

func principalFor(user *models.User) auth.Principal {
	return auth.Principal{UserID: user.ID, Roles: user.RoleNames()}
}

// newAuthedContext builds a test context carrying a request and the resolved
// principal, as the auth middleware would.
func newAuthedContext(method, url string, body []byte, p auth.Principal) (*gin.Context, *httptest.ResponseRecorder) {
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
	c.Set(constants.ContextKeyPrincipal, p)

	return c, w
}

// newAnonContext builds a test context without a principal.
func newAnonContext(method, url string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
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

	return c, w
}

func setIDParam(c *gin.Context, name string, id uint64) {
	c.Params = append(c.Params, gin.Param{Key: name, Value: fmt.Sprint(id)})
}
