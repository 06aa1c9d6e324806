package repository

import (
	"github.com/avolkov/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GeneralStats holds the totals for the general statistics endpoint.
// All counts are 64-bit.
type GeneralStats struct {
	TotalUsers        int64
	TotalTasks        int64
	TotalGroups       int64
	PendingTasks      int64
	InProgressTasks   int64
	CompletedTasks    int64
	TasksWithGroup    int64
	TasksWithoutGroup int64
}

// GroupStatsRow is one row of the per-group statistics breakdown.
type GroupStatsRow struct {
	GroupID        uint64 `gorm:"column:group_id"`
	GroupName      string `gorm:"column:group_name"`
	OwnerUsername  string `gorm:"column:owner_username"`
	TaskCount      int64  `gorm:"column:task_count"`
	CompletedTasks int64  `gorm:"column:completed_tasks"`
	PendingTasks   int64  `gorm:"column:pending_tasks"`
}

// UserStatsRow is one row of the per-user statistics breakdown.
type UserStatsRow struct {
	UserID         uint64 `gorm:"column:user_id"`
	Username       string `gorm:"column:username"`
	TaskCount      int64  `gorm:"column:task_count"`
	GroupCount     int64  `gorm:"column:group_count"`
	CompletedTasks int64  `gorm:"column:completed_tasks"`
}

// StatisticsRepository defines read-only aggregate queries over the stores.
type StatisticsRepository interface {
	// GeneralStats computes the totals, optionally scoped to one owner.
	GeneralStats(ownerID *uint64) (*GeneralStats, error)

	// GroupStats returns per-group aggregates ordered by task count
	// descending, ties broken by group id ascending. Scoped to one owner
	// when ownerID is non-nil.
	GroupStats(ownerID *uint64) ([]GroupStatsRow, error)

	// UserStats returns per-user aggregates ordered by task count descending,
	// ties broken by user id ascending.
	UserStats() ([]UserStatsRow, error)

	// TopGroups returns the first limit rows of the group breakdown using a
	// count-only fast path: CompletedTasks and PendingTasks are zero.
	TopGroups(limit int) ([]GroupStatsRow, error)

	// TopUsers returns the first limit rows of the user breakdown using a
	// count-only fast path: CompletedTasks is zero.
	TopUsers(limit int) ([]UserStatsRow, error)
}

// GormStatisticsRepository is a GORM implementation of StatisticsRepository.
type GormStatisticsRepository struct {
	db *gorm.DB
}

// NewStatisticsRepository creates a new StatisticsRepository.
func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &GormStatisticsRepository{db: db}
}

// GeneralStats computes each total with an independent count so that joining
// tasks and groups can never multiply cardinalities.
func (r *GormStatisticsRepository) GeneralStats(ownerID *uint64) (*GeneralStats, error) {
	stats := &GeneralStats{}

	users := r.db.Model(&models.User{})
	tasks := func() *gorm.DB { return r.db.Model(&models.Task{}) }
	groups := r.db.Model(&models.Group{})
	if ownerID != nil {
		users = users.Where("id = ?", *ownerID)
		groups = groups.Where("user_id = ?", *ownerID)
		base := tasks
		tasks = func() *gorm.DB { return base().Where("user_id = ?", *ownerID) }
	}

	if err := users.Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := groups.Count(&stats.TotalGroups).Error; err != nil {
		return nil, err
	}
	if err := tasks().Count(&stats.TotalTasks).Error; err != nil {
		return nil, err
	}
	if err := tasks().Where("status = ?", models.TaskStatusPending).
		Count(&stats.PendingTasks).Error; err != nil {
		return nil, err
	}
	if err := tasks().Where("status = ?", models.TaskStatusInProgress).
		Count(&stats.InProgressTasks).Error; err != nil {
		return nil, err
	}
	if err := tasks().Where("status = ?", models.TaskStatusCompleted).
		Count(&stats.CompletedTasks).Error; err != nil {
		return nil, err
	}
	if err := tasks().Where("group_id IS NOT NULL").
		Count(&stats.TasksWithGroup).Error; err != nil {
		return nil, err
	}
	if err := tasks().Where("group_id IS NULL").
		Count(&stats.TasksWithoutGroup).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// GroupStats aggregates task counts per group. COALESCE keeps the SUM(CASE …)
// columns at zero for empty groups instead of NULL-collapsing.
func (r *GormStatisticsRepository) GroupStats(ownerID *uint64) ([]GroupStatsRow, error) {
	query := `
		SELECT g.id AS group_id, g.name AS group_name, u.username AS owner_username,
		       COUNT(t.id) AS task_count,
		       COALESCE(SUM(CASE WHEN t.status = 'COMPLETED' THEN 1 ELSE 0 END), 0) AS completed_tasks,
		       COALESCE(SUM(CASE WHEN t.status = 'PENDING' THEN 1 ELSE 0 END), 0) AS pending_tasks
		FROM task_groups g
		JOIN users u ON u.id = g.user_id
		LEFT JOIN tasks t ON t.group_id = g.id`
	args := []interface{}{}
	if ownerID != nil {
		query += ` WHERE g.user_id = ?`
		args = append(args, *ownerID)
	}
	query += `
		GROUP BY g.id, g.name, u.username
		ORDER BY task_count DESC, g.id ASC`

	var rows []GroupStatsRow
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UserStats aggregates tasks via the join and groups via a correlated
// subquery; a second join would multiply the task rows per group.
func (r *GormStatisticsRepository) UserStats() ([]UserStatsRow, error) {
	query := `
		SELECT u.id AS user_id, u.username,
		       COUNT(t.id) AS task_count,
		       (SELECT COUNT(*) FROM task_groups g WHERE g.user_id = u.id) AS group_count,
		       COALESCE(SUM(CASE WHEN t.status = 'COMPLETED' THEN 1 ELSE 0 END), 0) AS completed_tasks
		FROM users u
		LEFT JOIN tasks t ON t.user_id = u.id
		GROUP BY u.id, u.username
		ORDER BY task_count DESC, u.id ASC`

	var rows []UserStatsRow
	if err := r.db.Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TopGroups is the count-only fast path over the group breakdown.
func (r *GormStatisticsRepository) TopGroups(limit int) ([]GroupStatsRow, error) {
	query := `
		SELECT g.id AS group_id, g.name AS group_name, u.username AS owner_username,
		       COUNT(t.id) AS task_count
		FROM task_groups g
		JOIN users u ON u.id = g.user_id
		LEFT JOIN tasks t ON t.group_id = g.id
		GROUP BY g.id, g.name, u.username
		ORDER BY task_count DESC, g.id ASC
		LIMIT ?`

	var rows []GroupStatsRow
	if err := r.db.Raw(query, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TopUsers is the count-only fast path over the user breakdown.
func (r *GormStatisticsRepository) TopUsers(limit int) ([]UserStatsRow, error) {
	query := `
		SELECT u.id AS user_id, u.username,
		       COUNT(t.id) AS task_count,
		       (SELECT COUNT(*) FROM task_groups g WHERE g.user_id = u.id) AS group_count
		FROM users u
		LEFT JOIN tasks t ON t.user_id = u.id
		GROUP BY u.id, u.username
		ORDER BY task_count DESC, u.id ASC
		LIMIT ?`

	var rows []UserStatsRow
	if err := r.db.Raw(query, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
