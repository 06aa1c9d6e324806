package bootstrap

import (
	"testing"

	"github.com/avolkov/task-manager-api/internal/config"
	"github.com/avolkov/task-manager-api/internal/models"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type BootstrapTestSuite struct {
	suite.Suite
	db *gorm.DB
}

func (s *BootstrapTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Group{},
		&models.Task{},
	))
	s.db = db
}

func (s *BootstrapTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *BootstrapTestSuite) countRoles() int64 {
	var count int64
	s.db.Model(&models.Role{}).Count(&count)
	return count
}

func (s *BootstrapTestSuite) TestRun_CreatesRoles() {
	s.Require().NoError(Run(s.db, &config.Config{}))
	s.EqualValues(2, s.countRoles())

	var admin models.Role
	s.Require().NoError(s.db.Where("name = ?", models.RoleAdmin).First(&admin).Error)
	var user models.Role
	s.Require().NoError(s.db.Where("name = ?", models.RoleUser).First(&user).Error)
}

func (s *BootstrapTestSuite) TestRun_Idempotent() {
	s.Require().NoError(Run(s.db, &config.Config{}))
	s.Require().NoError(Run(s.db, &config.Config{}))
	s.EqualValues(2, s.countRoles())
}

func (s *BootstrapTestSuite) TestRun_NoAdminConfigured() {
	s.Require().NoError(Run(s.db, &config.Config{}))

	var count int64
	s.db.Model(&models.User{}).Count(&count)
	s.EqualValues(0, count)
}

func (s *BootstrapTestSuite) TestRun_SeedsConfiguredAdmin() {
	cfg := &config.Config{
		AdminUsername: "boss",
		AdminPassword: "secret-password",
		AdminEmail:    "boss@example.com",
	}
	s.Require().NoError(Run(s.db, cfg))

	var admin models.User
	s.Require().NoError(s.db.Preload("Roles").Where("username = ?", "boss").First(&admin).Error)
	s.Equal("boss@example.com", admin.Email)
	s.True(admin.Enabled)
	s.True(admin.HasRole(models.RoleAdmin))
	s.True(admin.HasRole(models.RoleUser))
	s.NoError(bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("secret-password")))
}

func (s *BootstrapTestSuite) TestRun_SkipsSeedingWhenUsersExist() {
	s.Require().NoError(Run(s.db, &config.Config{}))

	existing := &models.User{Username: "existing", Email: "existing@example.com",
		PasswordHash: "hash", Enabled: true}
	s.Require().NoError(s.db.Create(existing).Error)

	cfg := &config.Config{AdminUsername: "boss", AdminPassword: "secret-password"}
	s.Require().NoError(Run(s.db, cfg))

	var count int64
	s.db.Model(&models.User{}).Where("username = ?", "boss").Count(&count)
	s.EqualValues(0, count)
}

func (s *BootstrapTestSuite) TestRun_DevModeSeedsSampleData() {
	s.Require().NoError(Run(s.db, &config.Config{DevMode: true}))

	var users, groups, tasks int64
	s.db.Model(&models.User{}).Count(&users)
	s.db.Model(&models.Group{}).Count(&groups)
	s.db.Model(&models.Task{}).Count(&tasks)
	s.EqualValues(2, users)
	s.EqualValues(2, groups)
	s.EqualValues(6, tasks)

	var admin models.User
	s.Require().NoError(s.db.Preload("Roles").Where("username = ?", "admin").First(&admin).Error)
	s.True(admin.HasRole(models.RoleAdmin))

	var user models.User
	s.Require().NoError(s.db.Preload("Roles").Where("username = ?", "user").First(&user).Error)
	s.False(user.HasRole(models.RoleAdmin))

	var ungrouped int64
	s.db.Model(&models.Task{}).Where("group_id IS NULL").Count(&ungrouped)
	s.EqualValues(2, ungrouped)
}

func (s *BootstrapTestSuite) TestRun_ConfiguredAdminWinsOverDevMode() {
	cfg := &config.Config{
		DevMode:       true,
		AdminUsername: "boss",
		AdminPassword: "secret-password",
	}
	s.Require().NoError(Run(s.db, cfg))

	var users int64
	s.db.Model(&models.User{}).Count(&users)
	s.EqualValues(1, users)
}

func TestBootstrapTestSuite(t *testing.T) {
	suite.Run(t, new(BootstrapTestSuite))
}
