package dto

import (
	"github.com/avolkov/task-manager-api/internal/repository"
	"github.com/avolkov/task-manager-api/internal/services"
)

// StatisticsDTO is the general statistics payload.
type StatisticsDTO struct {
	TotalUsers        int64  `json:"total_users"`
	TotalTasks        int64  `json:"total_tasks"`
	TotalGroups       int64  `json:"total_groups"`
	PendingTasks      int64  `json:"pending_tasks"`
	InProgressTasks   int64  `json:"in_progress_tasks"`
	CompletedTasks    int64  `json:"completed_tasks"`
	TasksWithGroup    int64  `json:"tasks_with_group"`
	TasksWithoutGroup int64  `json:"tasks_without_group"`
	TopGroups         string `json:"top_groups"`
	TopUsers          string `json:"top_users"`
}

// GroupStatisticsDTO is one row of the per-group breakdown.
type GroupStatisticsDTO struct {
	GroupID        uint64 `json:"group_id"`
	GroupName      string `json:"group_name"`
	OwnerUsername  string `json:"owner_username"`
	TaskCount      int64  `json:"task_count"`
	CompletedTasks int64  `json:"completed_tasks"`
	PendingTasks   int64  `json:"pending_tasks"`
}

// UserStatisticsDTO is one row of the per-user breakdown.
type UserStatisticsDTO struct {
	UserID         uint64 `json:"user_id"`
	Username       string `json:"username"`
	TaskCount      int64  `json:"task_count"`
	GroupCount     int64  `json:"group_count"`
	CompletedTasks int64  `json:"completed_tasks"`
}

// ToStatisticsDTO converts the service result to the wire payload.
func ToStatisticsDTO(stats services.GeneralStatistics) StatisticsDTO {
	return StatisticsDTO{
		TotalUsers:        stats.TotalUsers,
		TotalTasks:        stats.TotalTasks,
		TotalGroups:       stats.TotalGroups,
		PendingTasks:      stats.PendingTasks,
		InProgressTasks:   stats.InProgressTasks,
		CompletedTasks:    stats.CompletedTasks,
		TasksWithGroup:    stats.TasksWithGroup,
		TasksWithoutGroup: stats.TasksWithoutGroup,
		TopGroups:         stats.TopGroups,
		TopUsers:          stats.TopUsers,
	}
}

// ToGroupStatisticsDTOs converts repository rows; never nil.
func ToGroupStatisticsDTOs(rows []repository.GroupStatsRow) []GroupStatisticsDTO {
	dtos := make([]GroupStatisticsDTO, len(rows))
	for i, row := range rows {
		dtos[i] = GroupStatisticsDTO{
			GroupID:        row.GroupID,
			GroupName:      row.GroupName,
			OwnerUsername:  row.OwnerUsername,
			TaskCount:      row.TaskCount,
			CompletedTasks: row.CompletedTasks,
			PendingTasks:   row.PendingTasks,
		}
	}
	return dtos
}

// ToUserStatisticsDTOs converts repository rows; never nil.
func ToUserStatisticsDTOs(rows []repository.UserStatsRow) []UserStatisticsDTO {
	dtos := make([]UserStatisticsDTO, len(rows))
	for i, row := range rows {
		dtos[i] = UserStatisticsDTO{
			UserID:         row.UserID,
			Username:       row.Username,
			TaskCount:      row.TaskCount,
			GroupCount:     row.GroupCount,
			CompletedTasks: row.CompletedTasks,
		}
	}
	return dtos
}
