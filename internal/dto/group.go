package dto

import (
	"time"

	"github.com/avolkov/task-manager-api/internal/models"
)

// GroupDTO represents a group in API responses. Tasks are present only on
// endpoints that eager-load them.
type GroupDTO struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	UserID      uint64     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	Owner       *UserDTO   `json:"owner,omitempty"`
	Tasks       []TaskDTO  `json:"tasks,omitempty"`
}

// ToGroupDTO converts a Group model to GroupDTO.
func ToGroupDTO(group models.Group) GroupDTO {
	dto := GroupDTO{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		UserID:      group.UserID,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}

	// Include owner if preloaded
	if group.Owner.ID != 0 {
		owner := ToUserDTO(group.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToGroupWithTasksDTO converts a group with its eagerly loaded task list.
func ToGroupWithTasksDTO(group models.Group) GroupDTO {
	dto := ToGroupDTO(group)
	dto.Tasks = ToTaskDTOs(group.Tasks)
	return dto
}

// ToGroupDTOs converts a slice of groups; never nil.
func ToGroupDTOs(groups []models.Group) []GroupDTO {
	dtos := make([]GroupDTO, len(groups))
	for i, group := range groups {
		dtos[i] = ToGroupDTO(group)
	}
	return dtos
}
