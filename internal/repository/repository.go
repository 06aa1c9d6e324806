package repository

import (
	"github.com/avolkov/task-manager-api/internal/models"
)

// TaskFilter holds filtering options for listing tasks.
type TaskFilter struct {
	// OwnerID restricts the listing to tasks owned by the user; nil means all.
	OwnerID *uint64
	// GroupID restricts the listing to tasks in the group.
	GroupID *uint64
	// Ungrouped restricts the listing to tasks without a group.
	Ungrouped bool
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create persists a new user with its role associations.
	Create(user *models.User) error

	// FindByID finds a user by ID with roles loaded.
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username with roles loaded.
	FindByUsername(username string) (*models.User, error)

	// ExistsByUsername reports whether a username is taken.
	ExistsByUsername(username string) (bool, error)

	// ExistsByEmail reports whether an email is taken.
	ExistsByEmail(email string) (bool, error)

	// Count returns the total number of users.
	Count() (int64, error)

	// UpdateLastLogin records the latest successful login time.
	UpdateLastLogin(id uint64) error
}

// RoleRepository defines the interface for role data access.
type RoleRepository interface {
	// Create persists a role.
	Create(role *models.Role) error

	// FindByName finds a role by name.
	FindByName(name models.RoleName) (*models.Role, error)

	// FindByNameForUpdate finds a role and row-locks it for the duration of
	// the surrounding transaction.
	FindByNameForUpdate(name models.RoleName) (*models.Role, error)
}

// GroupRepository defines the interface for group data access.
type GroupRepository interface {
	// Create persists a new group.
	Create(group *models.Group) error

	// FindByID finds a group by ID with its owner loaded.
	FindByID(id uint64) (*models.Group, error)

	// FindByIDWithTasks finds a group with its owner and tasks eagerly loaded.
	FindByIDWithTasks(id uint64) (*models.Group, error)

	// List returns all groups, or only those owned by ownerID when non-nil.
	List(ownerID *uint64) ([]models.Group, error)

	// Update persists changes to a group.
	Update(group *models.Group) error

	// Delete removes a group and destroys all tasks that belong to it.
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access.
type TaskRepository interface {
	// Create persists a new task.
	Create(task *models.Task) error

	// FindByID finds a task by ID with its owner and group loaded.
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks matching the filter.
	List(filter TaskFilter) ([]models.Task, error)

	// Update persists changes to a task.
	Update(task *models.Task) error

	// Delete removes a task.
	Delete(id uint64) error
}
