package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avolkov/task-manager-api/internal/auth"
	"github.com/avolkov/task-manager-api/internal/constants"
	"github.com/avolkov/task-manager-api/internal/models"
	"github.com/avolkov/task-manager-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrGroupNameRequired = errors.New("group name is required")
	ErrGroupNameTooLong  = fmt.Errorf("group name cannot exceed %d characters", constants.MaxNameLength)
)

// GroupService handles group business logic, including the single nullable
// task-to-group relation.
type GroupService struct {
	db *gorm.DB
}

// NewGroupService creates a new GroupService.
func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// GroupInput carries the mutable group fields for create and update.
type GroupInput struct {
	Name        string
	Description string
}

// Create persists a new group owned by the caller.
func (s *GroupService) Create(ctx context.Context, p auth.Principal, input GroupInput) (*models.Group, error) {
	name, err := validateGroupInput(input)
	if err != nil {
		return nil, err
	}

	groupRepo := repository.NewGroupRepository(s.db.WithContext(ctx))
	group := &models.Group{
		Name:        name,
		Description: input.Description,
		UserID:      p.UserID,
	}
	if err := groupRepo.Create(group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return groupRepo.FindByID(group.ID)
}

// List returns all groups for admins, otherwise the caller's own groups.
func (s *GroupService) List(ctx context.Context, p auth.Principal) ([]models.Group, error) {
	var ownerID *uint64
	if !p.IsAdmin() {
		ownerID = &p.UserID
	}

	groupRepo := repository.NewGroupRepository(s.db.WithContext(ctx))
	groups, err := groupRepo.List(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// Get returns a single group after passing the authorization gate.
func (s *GroupService) Get(ctx context.Context, p auth.Principal, id uint64) (*models.Group, error) {
	groupRepo := repository.NewGroupRepository(s.db.WithContext(ctx))
	return s.findAuthorized(groupRepo, p, id)
}

// GetWithTasks returns a group with its task list eagerly loaded.
func (s *GroupService) GetWithTasks(ctx context.Context, p auth.Principal, id uint64) (*models.Group, error) {
	groupRepo := repository.NewGroupRepository(s.db.WithContext(ctx))

	group, err := groupRepo.FindByIDWithTasks(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	if !p.CanAccess(group.UserID) {
		return nil, ErrPermissionDenied
	}

	return group, nil
}

// ListTasks returns the tasks belonging to the group.
func (s *GroupService) ListTasks(ctx context.Context, p auth.Principal, id uint64) ([]models.Task, error) {
	db := s.db.WithContext(ctx)
	groupRepo := repository.NewGroupRepository(db)

	if _, err := s.findAuthorized(groupRepo, p, id); err != nil {
		return nil, err
	}

	taskRepo := repository.NewTaskRepository(db)
	tasks, err := taskRepo.List(repository.TaskFilter{GroupID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list group tasks: %w", err)
	}
	return tasks, nil
}

// Update changes the group's name and description only; ownership is
// immutable.
func (s *GroupService) Update(ctx context.Context, p auth.Principal, id uint64, input GroupInput) (*models.Group, error) {
	name, err := validateGroupInput(input)
	if err != nil {
		return nil, err
	}

	var updated *models.Group
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groupRepo := repository.NewGroupRepository(tx)

		group, err := s.findAuthorized(groupRepo, p, id)
		if err != nil {
			return err
		}

		group.Name = name
		group.Description = input.Description
		now := time.Now()
		group.UpdatedAt = &now

		if err := groupRepo.Update(group); err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}

		updated, err = groupRepo.FindByID(group.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the group and destroys all of its tasks.
func (s *GroupService) Delete(ctx context.Context, p auth.Principal, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groupRepo := repository.NewGroupRepository(tx)

		group, err := s.findAuthorized(groupRepo, p, id)
		if err != nil {
			return err
		}

		return groupRepo.Delete(group.ID)
	})
}

// AttachTask moves the task into the group. The gate must allow the caller to
// act on both the task and the group independently.
func (s *GroupService) AttachTask(ctx context.Context, p auth.Principal, groupID, taskID uint64) (*models.Group, error) {
	return s.setTaskGroup(ctx, p, groupID, taskID, true)
}

// DetachTask removes the task from the group. Detaching a task that is not in
// this group is a no-op, but both ids must exist.
func (s *GroupService) DetachTask(ctx context.Context, p auth.Principal, groupID, taskID uint64) (*models.Group, error) {
	return s.setTaskGroup(ctx, p, groupID, taskID, false)
}

func (s *GroupService) setTaskGroup(ctx context.Context, p auth.Principal, groupID, taskID uint64, attach bool) (*models.Group, error) {
	var result *models.Group
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groupRepo := repository.NewGroupRepository(tx)
		taskRepo := repository.NewTaskRepository(tx)

		group, err := groupRepo.FindByID(groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return fmt.Errorf("failed to find group: %w", err)
		}

		task, err := taskRepo.FindByID(taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}

		if !p.CanAccess(group.UserID) || !p.CanAccess(task.UserID) {
			return ErrPermissionDenied
		}

		switch {
		case attach:
			task.GroupID = &group.ID
		case task.GroupID == nil || *task.GroupID != group.ID:
			// Not in this group; nothing to detach.
			result, err = groupRepo.FindByIDWithTasks(group.ID)
			return err
		default:
			task.GroupID = nil
			task.Group = nil
		}

		now := time.Now()
		task.UpdatedAt = &now
		if err := taskRepo.Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		result, err = groupRepo.FindByIDWithTasks(group.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *GroupService) findAuthorized(groupRepo repository.GroupRepository, p auth.Principal, id uint64) (*models.Group, error) {
	group, err := groupRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	if !p.CanAccess(group.UserID) {
		return nil, ErrPermissionDenied
	}

	return group, nil
}

func validateGroupInput(input GroupInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", ErrGroupNameRequired
	}
	if len(name) > constants.MaxNameLength {
		return "", ErrGroupNameTooLong
	}
	if len(input.Description) > constants.MaxDescriptionLength {
		return "", ErrDescriptionTooLong
	}
	return name, nil
}
