package bootstrap

import (
	"errors"
	"fmt"
	"log"

	"github.com/avolkov/task-manager-api/internal/config"
	"github.com/avolkov/task-manager-api/internal/models"
	"github.com/avolkov/task-manager-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credentials used only when DEV_MODE is set and no admin is configured.
const (
	devAdminUsername = "admin"
	devAdminPassword = "admin123"
	devUserUsername  = "user"
	devUserPassword  = "user123"
)

// Run performs idempotent first-run seeding: both roles always, an initial
// administrator when one is configured (or in development mode), and sample
// data in development mode only.
func Run(db *gorm.DB, cfg *config.Config) error {
	if err := ensureRoles(db); err != nil {
		return err
	}
	return seedUsers(db, cfg)
}

func ensureRoles(db *gorm.DB) error {
	roleRepo := repository.NewRoleRepository(db)

	wanted := []models.Role{
		{Name: models.RoleUser, Description: "Regular user"},
		{Name: models.RoleAdmin, Description: "Administrator"},
	}

	for _, role := range wanted {
		_, err := roleRepo.FindByName(role.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check role %s: %w", role.Name, err)
		}
		if err := roleRepo.Create(&role); err != nil {
			return fmt.Errorf("failed to create role %s: %w", role.Name, err)
		}
		log.Printf("Created role %s", role.Name)
	}

	return nil
}

func seedUsers(db *gorm.DB, cfg *config.Config) error {
	return db.Transaction(func(tx *gorm.DB) error {
		userRepo := repository.NewUserRepository(tx)

		count, err := userRepo.Count()
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if count > 0 {
			return nil
		}

		switch {
		case cfg.AdminUsername != "" && cfg.AdminPassword != "":
			admin, err := createUser(tx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword,
				models.RoleUser, models.RoleAdmin)
			if err != nil {
				return err
			}
			log.Printf("Seeded administrator %q", admin.Username)

		case cfg.DevMode:
			admin, err := createUser(tx, devAdminUsername, "admin@example.com", devAdminPassword,
				models.RoleUser, models.RoleAdmin)
			if err != nil {
				return err
			}
			user, err := createUser(tx, devUserUsername, "user@example.com", devUserPassword,
				models.RoleUser)
			if err != nil {
				return err
			}
			log.Printf("Development mode: seeded %s/%s and %s/%s",
				devAdminUsername, devAdminPassword, devUserUsername, devUserPassword)
			return seedSampleData(tx, admin, user)

		default:
			log.Println("User table is empty and no ADMIN_USERNAME/ADMIN_PASSWORD configured; skipping administrator seeding")
		}

		return nil
	})
}

func createUser(tx *gorm.DB, username, email, password string, roleNames ...models.RoleName) (*models.User, error) {
	roleRepo := repository.NewRoleRepository(tx)
	userRepo := repository.NewUserRepository(tx)

	roles := make([]models.Role, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := roleRepo.FindByName(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load role %s: %w", name, err)
		}
		roles = append(roles, *role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Enabled:      true,
		Roles:        roles,
	}
	if err := userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", username, err)
	}
	return user, nil
}

// seedSampleData mirrors the demo data set: two groups, four grouped tasks,
// two ungrouped ones.
func seedSampleData(tx *gorm.DB, admin, user *models.User) error {
	groupRepo := repository.NewGroupRepository(tx)
	taskRepo := repository.NewTaskRepository(tx)

	workGroup := &models.Group{Name: "Work tasks", Description: "Tasks related to work", UserID: admin.ID}
	if err := groupRepo.Create(workGroup); err != nil {
		return fmt.Errorf("failed to seed group: %w", err)
	}
	personalGroup := &models.Group{Name: "Personal tasks", Description: "Personal errands and plans", UserID: user.ID}
	if err := groupRepo.Create(personalGroup); err != nil {
		return fmt.Errorf("failed to seed group: %w", err)
	}

	tasks := []models.Task{
		{Title: "Prepare report", Description: "Quarterly report for management",
			Status: models.TaskStatusInProgress, UserID: admin.ID, GroupID: &workGroup.ID},
		{Title: "Team meeting", Description: "Discuss plans for next week",
			Status: models.TaskStatusPending, UserID: admin.ID, GroupID: &workGroup.ID},
		{Title: "Buy groceries", Description: "Grocery list for the week",
			Status: models.TaskStatusPending, UserID: user.ID, GroupID: &personalGroup.ID},
		{Title: "Work out", Description: "Gym session",
			Status: models.TaskStatusCompleted, UserID: user.ID, GroupID: &personalGroup.ID},
		{Title: "Read up on authentication", Description: "Token-based auth and authorization",
			Status: models.TaskStatusPending, UserID: admin.ID},
		{Title: "Ungrouped task", Description: "This task belongs to no group",
			Status: models.TaskStatusPending, UserID: user.ID},
	}
	for i := range tasks {
		if err := taskRepo.Create(&tasks[i]); err != nil {
			return fmt.Errorf("failed to seed task: %w", err)
		}
	}

	log.Println("Development mode: seeded 2 groups and 6 tasks")
	return nil
}
