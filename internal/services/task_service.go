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
	ErrTaskNotFound       = errors.New("task not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = fmt.Errorf("title cannot exceed %d characters", constants.MaxTitleLength)
	ErrDescriptionTooLong = fmt.Errorf("description cannot exceed %d characters", constants.MaxDescriptionLength)
	ErrInvalidStatus      = errors.New("invalid task status")
)

// TaskService handles task business logic. Every operation takes the caller's
// principal explicitly and runs its lookup, authorization check and mutation
// inside one transaction.
type TaskService struct {
	db *gorm.DB
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	GroupID     *uint64
}

// UpdateTaskInput represents input for updating a task. Nil pointer fields
// are left untouched; ClearGroup distinguishes "detach from group" from
// "keep the current group".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	GroupID     *uint64
	ClearGroup  bool
}

// List returns all tasks for admins, otherwise the caller's own tasks.
func (s *TaskService) List(ctx context.Context, p auth.Principal) ([]models.Task, error) {
	return s.list(ctx, p, repository.TaskFilter{})
}

// ListUngrouped returns the tasks without a group, scoped like List.
func (s *TaskService) ListUngrouped(ctx context.Context, p auth.Principal) ([]models.Task, error) {
	return s.list(ctx, p, repository.TaskFilter{Ungrouped: true})
}

func (s *TaskService) list(ctx context.Context, p auth.Principal, filter repository.TaskFilter) ([]models.Task, error) {
	if !p.IsAdmin() {
		filter.OwnerID = &p.UserID
	}

	taskRepo := repository.NewTaskRepository(s.db.WithContext(ctx))
	tasks, err := taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a single task after passing the authorization gate.
func (s *TaskService) Get(ctx context.Context, p auth.Principal, id uint64) (*models.Task, error) {
	taskRepo := repository.NewTaskRepository(s.db.WithContext(ctx))

	task, err := taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !p.CanAccess(task.UserID) {
		return nil, ErrPermissionDenied
	}

	return task, nil
}

// Create persists a new task owned by the caller. When a group is given, the
// group must exist and the gate must allow attaching to it.
func (s *TaskService) Create(ctx context.Context, p auth.Principal, input CreateTaskInput) (*models.Task, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if len(input.Description) > constants.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	var created *models.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskRepo := repository.NewTaskRepository(tx)
		groupRepo := repository.NewGroupRepository(tx)

		if input.GroupID != nil {
			group, err := groupRepo.FindByID(*input.GroupID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrGroupNotFound
				}
				return fmt.Errorf("failed to find group: %w", err)
			}
			if !p.CanAccess(group.UserID) {
				return ErrPermissionDenied
			}
		}

		task := &models.Task{
			Title:       title,
			Description: input.Description,
			Status:      input.Status,
			UserID:      p.UserID,
			GroupID:     input.GroupID,
		}
		if err := taskRepo.Create(task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		created, err = taskRepo.FindByID(task.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies the given changes atomically. A group reassignment re-checks
// the gate for both the task and the target group.
func (s *TaskService) Update(ctx context.Context, p auth.Principal, id uint64, input UpdateTaskInput) (*models.Task, error) {
	var updated *models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskRepo := repository.NewTaskRepository(tx)
		groupRepo := repository.NewGroupRepository(tx)

		task, err := taskRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}

		if !p.CanAccess(task.UserID) {
			return ErrPermissionDenied
		}

		if input.Title != nil {
			title, err := validateTitle(*input.Title)
			if err != nil {
				return err
			}
			task.Title = title
		}
		if input.Description != nil {
			if len(*input.Description) > constants.MaxDescriptionLength {
				return ErrDescriptionTooLong
			}
			task.Description = *input.Description
		}
		if input.Status != nil {
			if !input.Status.Valid() {
				return ErrInvalidStatus
			}
			task.Status = *input.Status
		}

		if input.ClearGroup {
			task.GroupID = nil
			task.Group = nil
		} else if input.GroupID != nil {
			group, err := groupRepo.FindByID(*input.GroupID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrGroupNotFound
				}
				return fmt.Errorf("failed to find group: %w", err)
			}
			if !p.CanAccess(group.UserID) {
				return ErrPermissionDenied
			}
			task.GroupID = input.GroupID
		}

		now := time.Now()
		task.UpdatedAt = &now

		if err := taskRepo.Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		updated, err = taskRepo.FindByID(task.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetGroup moves the task into the given group, or detaches it when groupID
// is nil.
func (s *TaskService) SetGroup(ctx context.Context, p auth.Principal, id uint64, groupID *uint64) (*models.Task, error) {
	return s.Update(ctx, p, id, UpdateTaskInput{
		GroupID:    groupID,
		ClearGroup: groupID == nil,
	})
}

// Delete removes a task after passing the gate.
func (s *TaskService) Delete(ctx context.Context, p auth.Principal, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskRepo := repository.NewTaskRepository(tx)

		task, err := taskRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}

		if !p.CanAccess(task.UserID) {
			return ErrPermissionDenied
		}

		return taskRepo.Delete(task.ID)
	})
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
