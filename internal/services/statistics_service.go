package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkov/task-manager-api/internal/auth"
	"github.com/avolkov/task-manager-api/internal/constants"
	"github.com/avolkov/task-manager-api/internal/repository"
	"gorm.io/gorm"
)

var ErrAdminOnly = errors.New("available to administrators only")

// Human-readable markers for the top-5 summary strings on the general
// statistics payload.
const (
	topStatsEmptyMarker = "No data"
	topStatsErrorMarker = "Failed to compute top statistics"
)

// GeneralStatistics is the general totals plus the admin-only top-5 summary
// strings.
type GeneralStatistics struct {
	repository.GeneralStats
	TopGroups string
	TopUsers  string
}

// StatisticsService serves read-only aggregate queries, scoped by the
// caller's role.
type StatisticsService struct {
	db               *gorm.DB
	adminOnlyMessage string
}

// NewStatisticsService creates a new StatisticsService. adminOnlyMessage is
// the sentinel placed in the top-5 strings for non-admin callers.
func NewStatisticsService(db *gorm.DB, adminOnlyMessage string) *StatisticsService {
	return &StatisticsService{
		db:               db,
		adminOnlyMessage: adminOnlyMessage,
	}
}

// General computes the totals over all data for admins, or over the caller's
// own entities otherwise. A failing top-5 computation degrades to an error
// marker rather than failing the whole call.
func (s *StatisticsService) General(ctx context.Context, p auth.Principal) (*GeneralStatistics, error) {
	statsRepo := repository.NewStatisticsRepository(s.db.WithContext(ctx))

	var ownerID *uint64
	if !p.IsAdmin() {
		ownerID = &p.UserID
	}

	totals, err := statsRepo.GeneralStats(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	result := &GeneralStatistics{GeneralStats: *totals}
	if !p.IsAdmin() {
		result.TopGroups = s.adminOnlyMessage
		result.TopUsers = s.adminOnlyMessage
		return result, nil
	}

	if rows, err := statsRepo.TopGroups(constants.TopStatisticsLimit); err != nil {
		result.TopGroups = topStatsErrorMarker
	} else {
		result.TopGroups = formatTopGroups(rows)
	}
	if rows, err := statsRepo.TopUsers(constants.TopStatisticsLimit); err != nil {
		result.TopUsers = topStatsErrorMarker
	} else {
		result.TopUsers = formatTopUsers(rows)
	}

	return result, nil
}

// Dashboard serves the dashboard view; same payload as General.
func (s *StatisticsService) Dashboard(ctx context.Context, p auth.Principal) (*GeneralStatistics, error) {
	return s.General(ctx, p)
}

// Groups returns per-group aggregates: all groups for admins, the caller's
// own groups otherwise.
func (s *StatisticsService) Groups(ctx context.Context, p auth.Principal) ([]repository.GroupStatsRow, error) {
	statsRepo := repository.NewStatisticsRepository(s.db.WithContext(ctx))

	var ownerID *uint64
	if !p.IsAdmin() {
		ownerID = &p.UserID
	}

	rows, err := statsRepo.GroupStats(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute group statistics: %w", err)
	}
	return rows, nil
}

// Users returns per-user aggregates. Admin only.
func (s *StatisticsService) Users(ctx context.Context, p auth.Principal) ([]repository.UserStatsRow, error) {
	if !p.IsAdmin() {
		return nil, ErrAdminOnly
	}

	statsRepo := repository.NewStatisticsRepository(s.db.WithContext(ctx))
	rows, err := statsRepo.UserStats()
	if err != nil {
		return nil, fmt.Errorf("failed to compute user statistics: %w", err)
	}
	return rows, nil
}

// TopGroups returns the five groups with the most tasks. Admin only. The fast
// path does not compute per-status counts; those fields are zero.
func (s *StatisticsService) TopGroups(ctx context.Context, p auth.Principal) ([]repository.GroupStatsRow, error) {
	if !p.IsAdmin() {
		return nil, ErrAdminOnly
	}

	statsRepo := repository.NewStatisticsRepository(s.db.WithContext(ctx))
	rows, err := statsRepo.TopGroups(constants.TopStatisticsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to compute top groups: %w", err)
	}
	return rows, nil
}

// TopUsers returns the five users with the most tasks. Admin only, same fast
// path as TopGroups.
func (s *StatisticsService) TopUsers(ctx context.Context, p auth.Principal) ([]repository.UserStatsRow, error) {
	if !p.IsAdmin() {
		return nil, ErrAdminOnly
	}

	statsRepo := repository.NewStatisticsRepository(s.db.WithContext(ctx))
	rows, err := statsRepo.TopUsers(constants.TopStatisticsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to compute top users: %w", err)
	}
	return rows, nil
}

func formatTopGroups(rows []repository.GroupStatsRow) string {
	if len(rows) == 0 {
		return topStatsEmptyMarker
	}
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = fmt.Sprintf("%s (%d tasks)", row.GroupName, row.TaskCount)
	}
	return strings.Join(parts, ", ")
}

func formatTopUsers(rows []repository.UserStatsRow) string {
	if len(rows) == 0 {
		return topStatsEmptyMarker
	}
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = fmt.Sprintf("%s (%d tasks)", row.Username, row.TaskCount)
	}
	return strings.Join(parts, ", ")
}
